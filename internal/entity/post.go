package entity

import "time"

// BlogPost is a validated blog post of the content collection.
type BlogPost struct {
	// Slug is derived from the document path, e.g. "2024/hello-world".
	Slug        string
	Title       string
	Description string
	PubDate     time.Time
	Author      string
	Tags        []string
	Draft       bool
	// Path or URL of the cover image, nil when the document has none.
	Image *string
	// Markdown after the front matter, carried verbatim.
	Body string
}

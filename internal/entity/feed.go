package entity

import "time"

// FeedDocument is the format independent projection of a collection into a feed.
type FeedDocument struct {
	Title       string
	Description string
	// Site is the base URL item links are resolved against.
	Site     string
	Language string
	// Updated is the latest item publication date.
	Updated time.Time
	Items   []FeedItem
}

type FeedItem struct {
	Title       string
	PubDate     time.Time
	Description string
	// Link is site relative, e.g. /blog/hello/.
	Link string
}

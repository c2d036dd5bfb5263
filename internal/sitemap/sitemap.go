// Package sitemap renders the sitemap of the blog.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"github.com/yish0/techblog/internal/entity"
	"github.com/yish0/techblog/internal/feed"
)

const (
	xmlns       = "http://www.sitemaps.org/schemas/sitemap/0.9"
	ContentType = "application/xml; charset=utf-8"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Generate lists the site root and every post page. The site falls back to
// entity.DefaultSite when empty.
func Generate(site string, posts []entity.BlogPost) ([]byte, error) {
	if site == "" {
		site = entity.DefaultSite
	}

	base, err := url.Parse(site)

	if err != nil {
		return nil, fmt.Errorf("could not parse site URL: %w", err)
	}

	if !base.IsAbs() {
		return nil, fmt.Errorf("site URL %q is not absolute", site)
	}

	set := urlSet{
		XMLNS: xmlns,
		URLs:  make([]urlEntry, 0, len(posts)+1),
	}

	set.URLs = append(set.URLs, urlEntry{Loc: base.ResolveReference(&url.URL{Path: "/"}).String()})

	for _, p := range posts {
		ref, err := url.Parse(feed.PostLink(p.Slug))

		if err != nil {
			return nil, fmt.Errorf("could not build link of %s: %w", p.Slug, err)
		}

		set.URLs = append(set.URLs, urlEntry{
			Loc:     base.ResolveReference(ref).String(),
			LastMod: p.PubDate.UTC().Format(time.DateOnly),
		})
	}

	var buf bytes.Buffer

	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("could not encode sitemap: %w", err)
	}

	return buf.Bytes(), nil
}

// Package feed projects blog posts into syndication feeds.
package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gorilla/feeds"
	"golang.org/x/text/cases"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/entity"
)

const linkPrefix = "/blog/"

// Generator builds feeds with the metadata of one site
type Generator struct {
	site          string
	title         string
	description   string
	language      string
	excludeDrafts bool
	logger        *slog.Logger
}

// NewGenerator creates a generator for the given site configuration
func NewGenerator(cfg entity.SiteConfig) *Generator {
	cfg.SetDefaults()

	site := cfg.Site

	if site == "" {
		site = entity.DefaultSite
	}

	return &Generator{
		site:          site,
		title:         cfg.Title,
		description:   cfg.Description,
		language:      cfg.Language,
		excludeDrafts: cfg.ExcludeDrafts,
		logger:        app.Logger(),
	}
}

// PostLink returns the site relative link of a post
func PostLink(slug string) string {
	return linkPrefix + slug + "/"
}

// Generate creates a feed from posts and returns it serialized in params.Format
func (g *Generator) Generate(posts []entity.BlogPost, params *entity.FeedParams) ([]byte, error) {
	return Render(g.Document(posts, params), params.Format)
}

// Document projects posts into a feed document, keeping their order.
// The site of params wins over the configured one.
// Drafts stay in the feed unless the site excludes them.
func (g *Generator) Document(posts []entity.BlogPost, params *entity.FeedParams) *entity.FeedDocument {
	site := params.Site

	if site == "" {
		site = g.site
	}

	doc := &entity.FeedDocument{
		Title:       g.title,
		Description: g.description,
		Site:        site,
		Language:    g.language,
		Items:       make([]entity.FeedItem, 0, len(posts)),
	}

	drafts := 0

	for _, p := range posts {
		if g.shouldExcludePost(p, params) {
			continue
		}

		if p.Draft {
			drafts++
		}

		doc.Items = append(doc.Items, entity.FeedItem{
			Title:       p.Title,
			PubDate:     p.PubDate,
			Description: p.Description,
			Link:        PostLink(p.Slug),
		})

		if doc.Updated.IsZero() || p.PubDate.After(doc.Updated) {
			doc.Updated = p.PubDate
		}
	}

	if drafts > 0 {
		g.logger.Warn("Feed includes draft posts", "drafts", drafts)
	}

	return doc
}

// shouldExcludePost checks drafts, the tag filter and the exclude words
func (g *Generator) shouldExcludePost(p entity.BlogPost, params *entity.FeedParams) bool {
	if p.Draft && g.excludeDrafts {
		return true
	}

	if params.Tag != "" && !hasTag(p.Tags, params.Tag) {
		return true
	}

	return containsExcludeWord(p.Title+"\n"+p.Description, params.ExcludeWords, params.ExcludeCaseSensitive)
}

func hasTag(tags []string, tag string) bool {
	want := fold(strings.TrimSpace(tag))

	for _, t := range tags {
		if fold(strings.TrimSpace(t)) == want {
			return true
		}
	}

	return false
}

// containsExcludeWord checks if any of the exclude words occurs in text
func containsExcludeWord(text string, excludeWords []string, caseSensitive bool) bool {
	if len(excludeWords) == 0 {
		return false
	}

	if !caseSensitive {
		text = fold(text)
	}

	for _, word := range excludeWords {
		if !caseSensitive {
			word = fold(word)
		}

		if strings.Contains(text, word) {
			return true
		}
	}

	return false
}

// A Caser keeps state, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Render serializes a feed document. Item links are resolved against the site URL.
func Render(doc *entity.FeedDocument, format string) ([]byte, error) {
	site, err := url.Parse(doc.Site)

	if err != nil {
		return nil, &SerializationError{Format: format, Err: fmt.Errorf("invalid site URL %q: %w", doc.Site, err)}
	}

	if !site.IsAbs() {
		return nil, &SerializationError{Format: format, Err: fmt.Errorf("site URL %q is not absolute", doc.Site)}
	}

	feed := &feeds.Feed{
		Title:       doc.Title,
		Link:        &feeds.Link{Href: site.String()},
		Description: doc.Description,
		Id:          site.String(),
		Created:     doc.Updated,
	}

	for _, item := range doc.Items {
		ref, err := url.Parse(item.Link)

		if err != nil {
			return nil, &SerializationError{Format: format, Err: fmt.Errorf("invalid item link %q: %w", item.Link, err)}
		}

		link := site.ResolveReference(ref).String()

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       item.Title,
			Link:        &feeds.Link{Href: link},
			Description: item.Description,
			Created:     item.PubDate,
		})
	}

	var content string

	switch format {
	case entity.FormatRSS:
		rss := (&feeds.Rss{Feed: feed}).RssFeed()
		rss.Language = doc.Language
		content, err = feeds.ToXML(rss)
	case entity.FormatAtom:
		content, err = feed.ToAtom()
	case entity.FormatJSON:
		content, err = feed.ToJSON()
	default:
		return nil, &SerializationError{Format: format, Err: errors.New("unsupported feed format")}
	}

	if err != nil {
		return nil, &SerializationError{Format: format, Err: err}
	}

	return []byte(content), nil
}

// ContentType returns the response content type of a feed format
func ContentType(format string) string {
	var contentType string

	switch format {
	case entity.FormatRSS:
		contentType = "application/rss+xml"
	case entity.FormatAtom:
		contentType = "application/atom+xml"
	case entity.FormatJSON:
		contentType = "application/feed+json"
	default:
		contentType = "application/xml"
	}

	return contentType + "; charset=utf-8"
}

package entity

const (
	DefaultSite        = "https://yish0.github.io"
	DefaultTitle       = "Tech Blog"
	DefaultDescription = "A modern tech blog built with Astro"
	DefaultLanguage    = "en-us"
	DefaultContentDir  = "src/content"
	DefaultCollection  = "blog"
)

// SiteConfig is the site wide configuration read from the site YAML file.
type SiteConfig struct {
	// Site is the canonical site URL. Empty means unset, in which case feeds
	// fall back to DefaultSite.
	Site        string `yaml:"site"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	ContentDir  string `yaml:"contentDir"`
	Collection  string `yaml:"collection"`
	// ExcludeDrafts drops draft posts from feeds and sitemaps.
	ExcludeDrafts bool `yaml:"excludeDrafts"`
}

// SetDefaults fills every empty field with its default.
func (c *SiteConfig) SetDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Description == "" {
		c.Description = DefaultDescription
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.ContentDir == "" {
		c.ContentDir = DefaultContentDir
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
}

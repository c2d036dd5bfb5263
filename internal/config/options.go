// Package config holds the command line options and the site configuration file.
package config

import (
	"github.com/yish0/techblog/internal/entity"
)

// Options are shared by every command
type Options struct {
	Config     string `short:"c" long:"config" env:"TECHBLOG_CONFIG" default:"techblog.yaml" description:"Site configuration file (YAML)"`
	ContentDir string `long:"content-dir" env:"CONTENT_DIR" description:"Content directory, overrides the site file"`
	Site       string `long:"site" env:"SITE_URL" description:"Canonical site URL, overrides the site file"`
	Debug      bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// ServeOptions configure the HTTP server
type ServeOptions struct {
	Port      string `short:"p" long:"port" env:"HTTP_SERVER_PORT" default:"8080" description:"HTTP server port"`
	RedisHost string `long:"redis-host" env:"REDIS_HOST" description:"Redis host, feeds are cached in memory when empty"`
	RedisPort string `long:"redis-port" env:"REDIS_PORT" default:"6379" description:"Redis port"`
	CacheSize int    `long:"cache-size" env:"CACHE_SIZE" default:"128" description:"Entries kept by the in-memory cache"`
	NoWatch   bool   `long:"no-watch" env:"NO_WATCH" description:"Do not watch the content directory for changes"`
}

// BuildOptions configure static output
type BuildOptions struct {
	Out string `short:"o" long:"out" env:"BUILD_OUT" default:"dist" description:"Output directory"`
}

// Load reads the site file named by opts and applies the command line overrides
func Load(opts Options) (entity.SiteConfig, error) {
	site, err := Read(opts.Config)

	if err != nil {
		return entity.SiteConfig{}, err
	}

	if opts.ContentDir != "" {
		site.ContentDir = opts.ContentDir
	}

	if opts.Site != "" {
		site.Site = opts.Site
	}

	return site, nil
}

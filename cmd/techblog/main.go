package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/config"
	"github.com/yish0/techblog/internal/content"
	"github.com/yish0/techblog/internal/entity"
)

func main() {
	logger := app.Logger()
	slog.SetDefault(logger)

	var opts config.Options

	parser := flags.NewParser(&opts, flags.Default)

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"serve", "Serve the feed and sitemap over HTTP", "Serve /rss.xml and /sitemap.xml, reloading content on change.", &serveCommand{global: &opts}},
		{"build", "Write the feed and sitemap to a directory", "Write rss.xml and sitemap.xml for static hosting.", &buildCommand{global: &opts}},
		{"check", "Validate every document of the collection", "Validate every document and report all failures.", &checkCommand{global: &opts}},
	}

	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			logger.Error("Failed to register command", "command", c.name, "error", err)
			os.Exit(1)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error

		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}

		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// load applies the global options and opens the content store
func load(opts *config.Options) (entity.SiteConfig, *content.FileStore, error) {
	app.SetDebug(opts.Debug)

	site, err := config.Load(*opts)

	if err != nil {
		return entity.SiteConfig{}, nil, err
	}

	app.Logger().Debug("Site configuration loaded",
		"config", opts.Config,
		"site", site.Site,
		"content_dir", site.ContentDir,
		"collection", site.Collection)

	return site, content.NewFileStore(site.ContentDir), nil
}

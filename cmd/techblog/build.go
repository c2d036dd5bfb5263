package main

import (
	"context"
	"fmt"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/config"
	"github.com/yish0/techblog/internal/content"
	"github.com/yish0/techblog/internal/entity"
	"github.com/yish0/techblog/internal/feed"
	"github.com/yish0/techblog/internal/sitemap"
)

const (
	feedFile    = "rss.xml"
	sitemapFile = "sitemap.xml"
)

type buildCommand struct {
	config.BuildOptions
	global *config.Options
}

func (c *buildCommand) Execute(_ []string) error {
	site, store, err := load(c.global)

	if err != nil {
		return err
	}

	posts, err := store.Collection(context.Background(), site.Collection)

	if err != nil {
		return err
	}

	rss, err := feed.NewGenerator(site).Generate(posts, &entity.FeedParams{
		Format: entity.FormatRSS,
		Site:   site.Site,
	})

	if err != nil {
		return err
	}

	if site.ExcludeDrafts {
		posts = content.Published(posts)
	}

	sm, err := sitemap.Generate(site.Site, posts)

	if err != nil {
		return fmt.Errorf("could not generate sitemap: %w", err)
	}

	if err := feed.Save(rss, c.Out, feedFile); err != nil {
		return err
	}

	if err := feed.Save(sm, c.Out, sitemapFile); err != nil {
		return err
	}

	app.Logger().Info("Build finished", "out", c.Out, "posts", len(posts))

	return nil
}

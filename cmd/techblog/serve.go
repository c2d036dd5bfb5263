package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/yish0/techblog/internal/api/rest"
	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/cache"
	"github.com/yish0/techblog/internal/config"
	"github.com/yish0/techblog/internal/content"
	"github.com/yish0/techblog/internal/feed"
)

type serveCommand struct {
	config.ServeOptions
	global *config.Options
}

func (c *serveCommand) Execute(_ []string) error {
	site, store, err := load(c.global)

	if err != nil {
		return err
	}

	logger := app.Logger()

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received first shutdown signal, starting graceful shutdown...")
		cancel()

		// If we receive a second signal, exit immediately
		<-sigChan
		logger.Info("Received second shutdown signal, exiting immediately...")
		os.Exit(1)
	}()

	feedCache, err := c.openCache(ctx)

	if err != nil {
		return err
	}

	defer feedCache.Close()

	if !c.NoWatch {
		go func() {
			if err := content.Watch(ctx, store); err != nil {
				logger.Error("Content watcher stopped", "error", err)
			}
		}()
	}

	server := rest.NewServer(feedCache, store, feed.NewGenerator(site), site, c.Port)

	return server.Run(ctx)
}

// openCache uses Redis when a host is configured and memory otherwise
func (c *serveCommand) openCache(ctx context.Context) (cache.Cache, error) {
	if c.RedisHost == "" {
		app.Logger().Info("Caching feeds in memory", "entries", c.CacheSize)
		return cache.NewMemoryCache(c.CacheSize)
	}

	return cache.NewRedisClient(ctx, net.JoinHostPort(c.RedisHost, c.RedisPort))
}

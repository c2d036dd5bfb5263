package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/cache"
	"github.com/yish0/techblog/internal/entity"
	"github.com/yish0/techblog/internal/feed"
)

// Store provides the validated posts of a collection
type Store interface {
	Collection(ctx context.Context, name string) ([]entity.BlogPost, error)
	// Revision changes when the content on disk changes
	Revision() uint64
}

// Generator builds a serialized feed out of posts
type Generator interface {
	Generate(posts []entity.BlogPost, params *entity.FeedParams) ([]byte, error)
}

// FeedHandler handles the feed route
type FeedHandler struct {
	cache     cache.Cache
	store     Store
	generator Generator
	site      entity.SiteConfig
	logger    *slog.Logger
}

// NewFeedHandler creates a new FeedHandler and registers its route on mux
func NewFeedHandler(mux *http.ServeMux, c cache.Cache, s Store, g Generator, site entity.SiteConfig) *FeedHandler {
	site.SetDefaults()

	handler := &FeedHandler{
		cache:     c,
		store:     s,
		generator: g,
		site:      site,
		logger:    app.Logger(),
	}

	mux.HandleFunc("GET /rss.xml", handler.GetFeed)

	return handler
}

// GetFeed serves the feed of the blog collection
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewFeedParamFromRequest(r, h.site.Site)

	if err != nil {
		handleError(w, h.logger, err, http.StatusBadRequest)
		return
	}

	// The key carries the revision seen before the content is loaded
	cacheKey := h.buildCacheKey(params)

	// Try to get from cache first if caching is enabled
	if params.CacheTTL > 0 {
		cachedContent, cacheErr := h.cache.Get(r.Context(), cacheKey)

		if cacheErr == nil {
			w.Header().Set("X-CACHE-STATUS", "HIT")
			h.serveContent(w, cachedContent, params.Format, params.CacheTTL)
			return
		} else if cacheErr != cache.ErrCacheMiss {
			// Real error, not just cache miss
			h.logger.Error("Cache error", "error", cacheErr)
		}
	}

	posts, err := h.store.Collection(r.Context(), h.site.Collection)

	if err != nil {
		handleError(w, h.logger, err, http.StatusInternalServerError)
		return
	}

	content, err := h.generator.Generate(posts, params)

	if err != nil {
		handleError(w, h.logger, err, http.StatusInternalServerError)
		return
	}

	if params.CacheTTL > 0 {
		cacheTTL := time.Duration(params.CacheTTL) * time.Minute

		// Use background context for caching to avoid cancellation
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, content, cacheTTL); err != nil {
			h.logger.Error("Failed to cache content", "error", err)
		}
	}

	w.Header().Set("X-CACHE-STATUS", "MISS")
	h.serveContent(w, content, params.Format, params.CacheTTL)
}

// buildCacheKey generates a cache key based on the content revision and request parameters
func (h *FeedHandler) buildCacheKey(params *entity.FeedParams) string {
	caseSensitive := "0"

	if params.ExcludeCaseSensitive {
		caseSensitive = "1"
	}

	return fmt.Sprintf("techblog:feed:%s:%d:%s:%s:%s:%s",
		h.site.Collection,
		h.store.Revision(),
		params.Format,
		params.Tag,
		strings.Join(params.ExcludeWords, "|"),
		caseSensitive)
}

// serveContent sends the feed to the client with appropriate headers
func (h *FeedHandler) serveContent(w http.ResponseWriter, content []byte, format string, cacheTTL int) {
	w.Header().Set("Content-Type", feed.ContentType(format))

	if cacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cacheTTL*60))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}

	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

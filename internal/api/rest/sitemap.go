package rest

import (
	"log/slog"
	"net/http"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/content"
	"github.com/yish0/techblog/internal/entity"
	"github.com/yish0/techblog/internal/sitemap"
)

// SitemapHandler handles the sitemap route
type SitemapHandler struct {
	store  Store
	site   entity.SiteConfig
	logger *slog.Logger
}

// NewSitemapHandler creates a new SitemapHandler and registers its route on mux
func NewSitemapHandler(mux *http.ServeMux, s Store, site entity.SiteConfig) *SitemapHandler {
	site.SetDefaults()

	handler := &SitemapHandler{
		store:  s,
		site:   site,
		logger: app.Logger(),
	}

	mux.HandleFunc("GET /sitemap.xml", handler.GetSitemap)

	return handler
}

// GetSitemap serves the sitemap of the blog collection
func (h *SitemapHandler) GetSitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.Collection(r.Context(), h.site.Collection)

	if err != nil {
		handleError(w, h.logger, err, http.StatusInternalServerError)
		return
	}

	if h.site.ExcludeDrafts {
		posts = content.Published(posts)
	}

	body, err := sitemap.Generate(h.site.Site, posts)

	if err != nil {
		handleError(w, h.logger, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", sitemap.ContentType)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

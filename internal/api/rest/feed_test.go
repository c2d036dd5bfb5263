package rest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yish0/techblog/internal/api/rest"
	"github.com/yish0/techblog/internal/cache"
	"github.com/yish0/techblog/internal/content"
	"github.com/yish0/techblog/internal/entity"
	"github.com/yish0/techblog/internal/feed"
)

const rssBody = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss version=\"2.0\"><channel><title>Tech Blog</title></channel></rss>"

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	CollectionFunc func(ctx context.Context, name string) ([]entity.BlogPost, error)
	revision       uint64
}

func (m *MockStore) Collection(ctx context.Context, name string) ([]entity.BlogPost, error) {
	return m.CollectionFunc(ctx, name)
}

func (m *MockStore) Revision() uint64 {
	return m.revision
}

// MockGenerator is a mock implementation of the Generator interface
type MockGenerator struct {
	GenerateFunc func(posts []entity.BlogPost, params *entity.FeedParams) ([]byte, error)
}

func (m *MockGenerator) Generate(posts []entity.BlogPost, params *entity.FeedParams) ([]byte, error) {
	return m.GenerateFunc(posts, params)
}

// MockCache is a mock implementation of the Cache interface
type MockCache struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	return m.GetFunc(ctx, key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.SetFunc(ctx, key, value, ttl)
}

func (m *MockCache) Close() error {
	return nil
}

func helloPosts() []entity.BlogPost {
	return []entity.BlogPost{{
		Slug:        "hello",
		Title:       "Hello",
		Description: "First post",
		PubDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Author:      "Author Name",
		Tags:        []string{},
	}}
}

func TestFeedHandler_GetFeed(t *testing.T) {
	tests := []struct {
		name               string
		url                string
		setupMocks         func(cache *MockCache, store *MockStore, generator *MockGenerator)
		expectedStatusCode int
		expectedHeaders    map[string]string
		expectedBodyPart   string
	}{
		{
			name: "Successful RSS feed generation with cache miss",
			url:  "/rss.xml?format=rss&cache_ttl=60",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, key string) ([]byte, error) {
					assert.Equal(t, "techblog:feed:blog:0:rss:::0", key)
					return nil, cache.ErrCacheMiss
				}

				mockStore.CollectionFunc = func(_ context.Context, name string) ([]entity.BlogPost, error) {
					assert.Equal(t, "blog", name)
					return helloPosts(), nil
				}

				mockGenerator.GenerateFunc = func(posts []entity.BlogPost, params *entity.FeedParams) ([]byte, error) {
					assert.Len(t, posts, 1)
					assert.Equal(t, entity.FormatRSS, params.Format)
					assert.Equal(t, "https://blog.example.com", params.Site)
					return []byte(rssBody), nil
				}

				mockCache.SetFunc = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
					assert.Equal(t, "techblog:feed:blog:0:rss:::0", key)
					assert.Equal(t, rssBody, string(value))
					assert.Equal(t, time.Hour, ttl)
					return nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/rss+xml; charset=utf-8",
				"Cache-Control":  "public, max-age=3600",
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss",
		},
		{
			name: "Successful Atom feed generation",
			url:  "/rss.xml?format=atom",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					return nil, cache.ErrCacheMiss
				}

				mockStore.CollectionFunc = func(_ context.Context, _ string) ([]entity.BlogPost, error) {
					return []entity.BlogPost{}, nil
				}

				mockGenerator.GenerateFunc = func(_ []entity.BlogPost, params *entity.FeedParams) ([]byte, error) {
					assert.Equal(t, entity.FormatAtom, params.Format)
					return []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<feed xmlns=\"http://www.w3.org/2005/Atom\"><title>Tech Blog</title></feed>"), nil
				}

				mockCache.SetFunc = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
					return nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/atom+xml; charset=utf-8",
				"Cache-Control":  "public, max-age=3600",
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<feed",
		},
		{
			name: "Cache hit",
			url:  "/rss.xml?cache_ttl=60",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					return []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss version=\"2.0\"><channel><title>Cached Feed</title></channel></rss>"), nil
				}

				mockStore.CollectionFunc = func(_ context.Context, _ string) ([]entity.BlogPost, error) {
					t.Fatal("Store should not be called on cache hit")
					return nil, nil
				}

				mockGenerator.GenerateFunc = func(_ []entity.BlogPost, _ *entity.FeedParams) ([]byte, error) {
					t.Fatal("Generator should not be called on cache hit")
					return nil, nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/rss+xml; charset=utf-8",
				"Cache-Control":  "public, max-age=3600",
				"X-CACHE-STATUS": "HIT",
			},
			expectedBodyPart: "Cached Feed",
		},
		{
			name: "Cache failure falls back to generation",
			url:  "/rss.xml",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					return nil, errors.New("connection refused")
				}

				mockStore.CollectionFunc = func(_ context.Context, _ string) ([]entity.BlogPost, error) {
					return helloPosts(), nil
				}

				mockGenerator.GenerateFunc = func(_ []entity.BlogPost, _ *entity.FeedParams) ([]byte, error) {
					return []byte(rssBody), nil
				}

				mockCache.SetFunc = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
					return errors.New("connection refused")
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<rss",
		},
		{
			name: "Retrieval error",
			url:  "/rss.xml",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					return nil, cache.ErrCacheMiss
				}

				mockStore.CollectionFunc = func(_ context.Context, name string) ([]entity.BlogPost, error) {
					return nil, &content.RetrievalError{
						Collection: name,
						Err:        &content.DocumentError{Path: "hello.md", Err: errors.New("title: required string is missing")},
					}
				}

				mockGenerator.GenerateFunc = func(_ []entity.BlogPost, _ *entity.FeedParams) ([]byte, error) {
					t.Fatal("Generator should not be called when the store returns an error")
					return nil, nil
				}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: `{"error":"could not retrieve collection blog: hello.md: title: required string is missing"}`,
		},
		{
			name: "Serialization error",
			url:  "/rss.xml",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					return nil, cache.ErrCacheMiss
				}

				mockStore.CollectionFunc = func(_ context.Context, _ string) ([]entity.BlogPost, error) {
					return helloPosts(), nil
				}

				mockGenerator.GenerateFunc = func(_ []entity.BlogPost, _ *entity.FeedParams) ([]byte, error) {
					return nil, &feed.SerializationError{Format: entity.FormatRSS, Err: errors.New("boom")}
				}

				mockCache.SetFunc = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
					t.Fatal("Cache Set should not be called when generation fails")
					return nil
				}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "could not serialize rss feed: boom",
		},
		{
			name: "No caching with cache_ttl=0",
			url:  "/rss.xml?cache_ttl=0",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockCache.GetFunc = func(_ context.Context, _ string) ([]byte, error) {
					t.Fatal("Cache Get should not be called when cache_ttl=0")
					return nil, nil
				}

				mockStore.CollectionFunc = func(_ context.Context, _ string) ([]entity.BlogPost, error) {
					return helloPosts(), nil
				}

				mockGenerator.GenerateFunc = func(_ []entity.BlogPost, _ *entity.FeedParams) ([]byte, error) {
					return []byte(rssBody), nil
				}

				mockCache.SetFunc = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
					t.Fatal("Cache Set should not be called when cache_ttl=0")
					return nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/rss+xml; charset=utf-8",
				"Cache-Control":  "no-cache",
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss",
		},
		{
			name: "Feed with tag and exclude words",
			url:  "/rss.xml?tag=go&exclude=word1|word2&exclude_case_sensitive=1",
			setupMocks: func(mockCache *MockCache, mockStore *MockStore, mockGenerator *MockGenerator) {
				mockStore.revision = 7

				mockCache.GetFunc = func(_ context.Context, key string) ([]byte, error) {
					assert.Equal(t, "techblog:feed:blog:7:rss:go:word1|word2:1", key)
					return nil, cache.ErrCacheMiss
				}

				mockStore.CollectionFunc = func(_ context.Context, _ string) ([]entity.BlogPost, error) {
					return helloPosts(), nil
				}

				mockGenerator.GenerateFunc = func(_ []entity.BlogPost, params *entity.FeedParams) ([]byte, error) {
					assert.Equal(t, "go", params.Tag)
					assert.Equal(t, []string{"word1", "word2"}, params.ExcludeWords)
					assert.True(t, params.ExcludeCaseSensitive)
					return []byte(rssBody), nil
				}

				mockCache.SetFunc = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
					return nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":   "application/rss+xml; charset=utf-8",
				"X-CACHE-STATUS": "MISS",
			},
			expectedBodyPart: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss",
		},
		{
			name: "Invalid format",
			url:  "/rss.xml?format=invalid",
			setupMocks: func(_ *MockCache, _ *MockStore, _ *MockGenerator) {
				// No cache, store, or generator calls needed
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "format must be rss, atom or json",
		},
		{
			name: "Invalid cache TTL",
			url:  "/rss.xml?cache_ttl=invalid",
			setupMocks: func(_ *MockCache, _ *MockStore, _ *MockGenerator) {
				// No cache, store, or generator calls needed
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "cache_ttl must be a valid integer",
		},
		{
			name: "Negative cache TTL",
			url:  "/rss.xml?cache_ttl=-5",
			setupMocks: func(_ *MockCache, _ *MockStore, _ *MockGenerator) {
				// No cache, store, or generator calls needed
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "cache_ttl must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCache := &MockCache{}
			mockStore := &MockStore{}
			mockGenerator := &MockGenerator{}
			tt.setupMocks(mockCache, mockStore, mockGenerator)

			mux := http.NewServeMux()
			rest.NewFeedHandler(mux, mockCache, mockStore, mockGenerator, entity.SiteConfig{Site: "https://blog.example.com"})

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatusCode, rec.Code)

			for key, value := range tt.expectedHeaders {
				assert.Equal(t, value, rec.Header().Get(key))
			}

			body, err := io.ReadAll(rec.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.expectedBodyPart)
		})
	}
}

func TestFeedHandler_MethodNotAllowed(t *testing.T) {
	mux := http.NewServeMux()
	rest.NewFeedHandler(mux, &MockCache{}, &MockStore{}, &MockGenerator{}, entity.SiteConfig{})

	req := httptest.NewRequest(http.MethodPost, "/rss.xml", strings.NewReader(""))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// The real store, generator and in-memory cache together
func TestFeedHandler_EndToEnd(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, mkdirWrite(filepath.Join(root, "blog"), "hello.md", "---\ntitle: Hello\ndescription: First post\npubDate: 2024-01-01\n---\nHi\n"))

	memCache, err := cache.NewMemoryCache(cache.DefaultMemoryEntries)
	require.NoError(t, err)

	mux := http.NewServeMux()
	rest.NewFeedHandler(mux, memCache, content.NewFileStore(root), feed.NewGenerator(entity.SiteConfig{}), entity.SiteConfig{})

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rss.xml", nil))
		return rec
	}

	first := get()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-CACHE-STATUS"))
	assert.Contains(t, first.Body.String(), "<title>Tech Blog</title>")
	assert.Contains(t, first.Body.String(), "<link>https://yish0.github.io/blog/hello/</link>")

	second := get()
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-CACHE-STATUS"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/entity"
)

var documentExts = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

// FileStore reads collections from a content directory, one subdirectory
// per collection.
type FileStore struct {
	dir      string
	workers  int
	revision atomic.Uint64
	logger   *slog.Logger
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:     dir,
		workers: runtime.NumCPU(),
		logger:  app.Logger(),
	}
}

// Dir returns the content root
func (s *FileStore) Dir() string {
	return s.dir
}

// Revision changes whenever the content on disk is known to have changed
func (s *FileStore) Revision() uint64 {
	return s.revision.Load()
}

func (s *FileStore) bump() uint64 {
	return s.revision.Add(1)
}

// Documents returns the raw documents of a collection ordered by path.
// Any unreadable or unparsable document fails the whole call.
func (s *FileStore) Documents(ctx context.Context, name string) ([]entity.RawDocument, error) {
	root := filepath.Join(s.dir, name)
	paths, err := listDocuments(root)

	if err != nil {
		return nil, &RetrievalError{Collection: name, Err: err}
	}

	docs := make([]entity.RawDocument, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			doc, err := readDocument(root, rel)

			if err != nil {
				errs[i] = &DocumentError{Path: rel, Err: err}
				return nil
			}

			docs[i] = doc

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &RetrievalError{Collection: name, Err: err}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, &RetrievalError{Collection: name, Err: err}
	}

	return docs, nil
}

// Collection returns the validated posts of a collection in document order.
// A single invalid document or a duplicated slug fails the whole call.
func (s *FileStore) Collection(ctx context.Context, name string) ([]entity.BlogPost, error) {
	docs, err := s.Documents(ctx, name)

	if err != nil {
		return nil, err
	}

	posts := make([]entity.BlogPost, 0, len(docs))
	seen := make(map[string]string, len(docs))

	var errs []error

	for _, doc := range docs {
		post, err := Validate(doc)

		if err != nil {
			errs = append(errs, &DocumentError{Path: doc.Path, Err: err})
			continue
		}

		if other, ok := seen[post.Slug]; ok {
			errs = append(errs, &DocumentError{
				Path: doc.Path,
				Err:  fmt.Errorf("slug %q is already used by %s", post.Slug, other),
			})

			continue
		}

		seen[post.Slug] = doc.Path
		posts = append(posts, post)
	}

	if len(errs) > 0 {
		return nil, &RetrievalError{Collection: name, Err: errors.Join(errs...)}
	}

	s.logger.Debug("Loaded collection", "collection", name, "posts", len(posts))

	return posts, nil
}

// listDocuments returns document paths relative to root with forward slashes.
// Files and directories starting with "_" or "." are skipped.
func listDocuments(root string) ([]string, error) {
	info, err := os.Stat(root)

	if err != nil {
		return nil, fmt.Errorf("could not open collection directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var paths []string

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if p == root {
			return nil
		}

		if hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() || !documentExts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}

		rel, err := filepath.Rel(root, p)

		if err != nil {
			return err
		}

		paths = append(paths, filepath.ToSlash(rel))

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("could not list collection directory: %w", err)
	}

	sort.Strings(paths)

	return paths, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

func readDocument(root, rel string) (entity.RawDocument, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))

	if err != nil {
		return entity.RawDocument{}, fmt.Errorf("could not read document: %w", err)
	}

	fields, body, err := ParseDocument(data)

	if err != nil {
		return entity.RawDocument{}, err
	}

	return entity.RawDocument{
		Slug:   Slug(rel),
		Path:   rel,
		Fields: fields,
		Body:   body,
	}, nil
}

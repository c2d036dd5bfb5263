package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/yish0/techblog/internal/app"
)

// Watch bumps the store revision on every change below the content root.
// It blocks until ctx is canceled.
func Watch(ctx context.Context, store *FileStore) error {
	watcher, err := fsnotify.NewWatcher()

	if err != nil {
		return fmt.Errorf("could not create content watcher: %w", err)
	}

	defer watcher.Close()

	if err := watchTree(watcher, store.Dir()); err != nil {
		return err
	}

	logger := app.Logger()
	logger.Info("Watching content", "dir", store.Dir())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Permission changes do not alter content
			if event.Op == fsnotify.Chmod {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Error("Could not watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			rev := store.bump()

			logger.Info("Content changed",
				"path", event.Name,
				"op", event.Op.String(),
				"revision", rev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Error("Content watcher error", "error", err)
		}
	}
}

// fsnotify is not recursive, every directory is added on its own.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		return watcher.Add(p)
	})

	if err != nil {
		return fmt.Errorf("could not watch %s: %w", root, err)
	}

	return nil
}

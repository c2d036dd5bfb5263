package main

import (
	"context"
	"fmt"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/config"
	"github.com/yish0/techblog/internal/content"
)

type checkCommand struct {
	global *config.Options
}

func (c *checkCommand) Execute(_ []string) error {
	site, store, err := load(c.global)

	if err != nil {
		return err
	}

	logger := app.Logger()

	posts, err := store.Collection(context.Background(), site.Collection)

	if err != nil {
		docErrs := content.DocumentErrors(err)

		// Nothing to attribute, the collection itself is unreadable
		if len(docErrs) == 0 {
			return err
		}

		for _, docErr := range docErrs {
			logger.Error("Invalid document", "path", docErr.Path, "error", docErr.Err)
		}

		return fmt.Errorf("%d invalid documents in collection %s", len(docErrs), site.Collection)
	}

	drafts := len(posts) - len(content.Published(posts))

	logger.Info("Collection is valid",
		"collection", site.Collection,
		"posts", len(posts),
		"drafts", drafts)

	return nil
}

package feed

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes a generated artifact to dir/name, creating dir when needed.
func Save(content []byte, dir string, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory %s: %w", dir, err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", name, err)
	}

	return nil
}

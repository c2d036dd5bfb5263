package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yish0/techblog/internal/entity"
)

// Read loads the site configuration file. A missing file yields the defaults.
func Read(configPath string) (entity.SiteConfig, error) {
	var config entity.SiteConfig

	contents, err := os.ReadFile(configPath)

	if errors.Is(err, fs.ErrNotExist) {
		config.SetDefaults()
		return config, nil
	}

	if err != nil {
		return entity.SiteConfig{}, fmt.Errorf("could not read config file: %w", err)
	}

	if err = yaml.Unmarshal(contents, &config); err != nil {
		return entity.SiteConfig{}, fmt.Errorf("could not parse config file: %w", err)
	}

	config.SetDefaults()

	return config, nil
}

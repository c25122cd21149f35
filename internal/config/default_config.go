package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

//go:embed default_config.toml
var defaultConfig []byte

// CreateDefaultConfig writes the commented default configuration, an existing
// file is never overwritten.
func CreateDefaultConfig(path string) error {
	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cant stat %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("cant create config dir: %w", err)
	}
	if err := utils.WriteAtomic(path, defaultConfig); err != nil {
		return fmt.Errorf("cant write default config: %w", err)
	}

	logrus.WithFields(logrus.Fields{"path": path}).Info("Created default configuration")
	return nil
}

// LoadOrCreate loads the configuration under path, writing the default one
// first when the file does not exist yet.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(os.ExpandEnv(path)); errors.Is(err, os.ErrNotExist) {
		if err := CreateDefaultConfig(path); err != nil {
			return nil, err
		}
	}
	return NewConfig(path)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultConfig(t *testing.T) {
	tests := []struct {
		name          string
		existing      []byte
		expectError   bool
		errorContains string
	}{
		{
			name: "creates config in a missing directory",
		},
		{
			name:          "refuses to overwrite",
			existing:      []byte("[general]\n"),
			expectError:   true,
			errorContains: "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "nonexistentdir", "config.toml")
			if tt.existing != nil {
				require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
				require.NoError(t, os.WriteFile(configPath, tt.existing, 0o600))
			}

			err := config.CreateDefaultConfig(configPath)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				// nolint:gosec
				contents, err := os.ReadFile(configPath)
				require.NoError(t, err)
				assert.Equal(t, tt.existing, contents)
				return
			}

			require.NoError(t, err)
			cfg, err := config.NewConfig(configPath)
			require.NoError(t, err, "the default config should be valid")
			assert.Equal(t, config.AutoChassis, *cfg.Get().Device.Chassis)
			assert.False(t, *cfg.Get().LidEvents.Disabled)
		})
	}
}

func TestLoadOrCreate(t *testing.T) {
	t.Run("creates default config when file doesn't exist", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nonexistent.toml")

		cfg, err := config.LoadOrCreate(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		_, err = os.Stat(configPath)
		require.NoError(t, err, "config file should have been created")
		assert.Equal(t, configPath, cfg.Get().ConfigPath)
	})

	t.Run("uses existing config if present", func(t *testing.T) {
		cfg, err := config.LoadOrCreate(filepath.Join("testdata", "valid_basic.toml"))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/test-monitors.conf", *cfg.Get().General.Destination)
	})

	t.Run("invalid existing config is not replaced", func(t *testing.T) {
		_, err := config.LoadOrCreate(filepath.Join("testdata", "invalid_chassis.toml"))
		require.Error(t, err)
	})
}

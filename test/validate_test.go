package test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var examples = filepath.Join(basepath, "examples")

func Test_Validate_Examples(t *testing.T) {
	files, err := find(examples, ".toml")
	require.NoError(t, err, "didnt find all example configs")
	require.NotEmpty(t, files)
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			out, err := runBinary(ctx, []string{"--config", file, "validate"})
			require.NoError(t, err, "binary failed %s", string(out))
		})
	}
}

func Test_Validate_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name          string
		configFile    string
		expectedError string
	}{
		{
			name:          "invalid chassis",
			configFile:    "invalid_chassis.toml",
			expectedError: "invalid enum value",
		},
		{
			name:          "unknown key",
			configFile:    "unknown_key.toml",
			expectedError: "unknown configuration keys",
		},
		{
			name:          "negative debounce",
			configFile:    "negative_debounce.toml",
			expectedError: "debounce_time_ms cant be negative",
		},
		{
			name:          "missing template",
			configFile:    "missing_template.toml",
			expectedError: "cant be accessed",
		},
		{
			name:          "empty match rule",
			configFile:    "empty_match_rule.toml",
			expectedError: "dbus rule cant be empty",
		},
		{
			name:          "nonexistent config file",
			configFile:    "nonexistent.toml",
			expectedError: "not found",
		},
	}

	invalidConfigsDir := filepath.Join(basepath, "test", "testdata", "configs", "invalid")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(invalidConfigsDir, tt.configFile)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			out, err := runBinary(ctx, []string{"--config", configPath, "validate"})
			require.Error(t, err, "expected validation to fail but it succeeded. Output: %s", string(out))
			require.Contains(t, string(out), tt.expectedError,
				"error message should contain expected substring. Got: %s", string(out))
		})
	}
}

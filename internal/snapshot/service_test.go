package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/snapshot"
	"github.com/fiffeek/hyprautolayout/internal/testutils"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	monitors hypr.MonitorSpecs
}

func (f *fakeSource) GetConnectedMonitors() hypr.MonitorSpecs {
	return f.monitors
}

func connectedMonitors() hypr.MonitorSpecs {
	return hypr.MonitorSpecs{
		{
			ID:             utils.IntPtr(0),
			Name:           "eDP-1",
			Description:    "Built-in Display",
			Width:          1920,
			Height:         1080,
			RefreshRate:    60.0,
			Scale:          1.0,
			AvailableModes: []string{"1920x1080@60.00Hz"},
			Mirror:         "none",
		},
		{
			ID:             utils.IntPtr(1),
			Name:           "DP-1",
			Description:    "External Monitor",
			Width:          2560,
			Height:         1440,
			RefreshRate:    143.97,
			X:              1920,
			Scale:          1.0,
			AvailableModes: []string{"2560x1440@143.97Hz", "1920x1080@60.00Hz"},
			Mirror:         "none",
		},
	}
}

func TestService_SaveCurrent(t *testing.T) {
	tests := []struct {
		name          string
		monitors      hypr.MonitorSpecs
		existing      bool
		overwrite     bool
		expectError   bool
		errorContains string
	}{
		{
			name:     "saves into a missing directory",
			monitors: connectedMonitors(),
		},
		{
			name:          "refuses to replace",
			monitors:      connectedMonitors(),
			existing:      true,
			expectError:   true,
			errorContains: "already exists",
		},
		{
			name:      "replaces when asked to",
			monitors:  connectedMonitors(),
			existing:  true,
			overwrite: true,
		},
		{
			name:          "no monitors",
			monitors:      hypr.MonitorSpecs{},
			expectError:   true,
			errorContains: "no monitors detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "snapshots", "desk.json")
			if tt.existing {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
				require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
			}
			cfg := testutils.NewTestConfig(t).Get()

			saved, err := snapshot.NewService(cfg, &fakeSource{monitors: tt.monitors}).SaveCurrent(path, tt.overwrite)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)

			loaded, err := layout.LoadConfig(path)
			require.NoError(t, err, "the snapshot should load back")
			assert.True(t, loaded.Equal(saved))
			assert.Equal(t, 2, loaded.Len())

			names := []string{}
			for _, output := range loaded.EnabledOutputs() {
				names = append(names, output.Name)
			}
			assert.Equal(t, []string{"eDP-1", "DP-1"}, names)
		})
	}
}

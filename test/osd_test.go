package test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/testutils"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cloneContent = "# Generated by hyprautolayout (interactive layout), changes will be overwritten.\n" +
	"# laptop=true lid_closed=false docked=false\n" +
	"monitor=eDP-1,1920x1080@60,0x0,1\n" +
	"monitor=DP-1,1920x1080@60,0x0,1,mirror,eDP-1\n"

func Test__OSD_Binary(t *testing.T) {
	tests := []struct {
		name            string
		keys            []string
		dryRun          bool
		expectOnScreen  string
		expectedContent *string
	}{
		{
			name:            "apply clone",
			keys:            []string{"l", "l", "\r"},
			expectOnScreen:  "Applied clone",
			expectedContent: utils.StringPtr(cloneContent),
		},
		{
			name:           "dry run apply",
			keys:           []string{"h", "h", "h", "\r"},
			dryRun:         true,
			expectOnScreen: "Applied clone",
		},
		{
			name: "quit without applying",
			keys: []string{"l", "q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			destination := filepath.Join(t.TempDir(), "monitors.conf")
			cfg := testutils.NewTestConfig(t).
				WithDestination(destination).
				WithDevice(&config.DeviceSection{Chassis: utils.JustPtr(config.LaptopChassis)}).
				Get().Get()

			args := []string{
				"--config", cfg.ConfigPath,
				"osd",
				"--hypr-monitors-override", "testdata/hypr/laptop_and_external.json",
				"--running-under-test",
			}
			if tt.dryRun {
				args = append(args, "--dry-run")
			}

			program, err := testutils.StartTerminalProgram(prepBinaryRun(ctx, args),
				testutils.WithTerminalSize(140, 45))
			require.NoError(t, err)

			require.NoError(t, program.WaitFor(func(bts []byte) bool {
				return bytes.Contains(bts, []byte("monitor=DP-1"))
			}, 2*time.Second), "the preview should render")

			for _, key := range tt.keys {
				require.NoError(t, program.Type(key))
				time.Sleep(50 * time.Millisecond)
			}

			screen, err := program.FinalScreen(3 * time.Second)
			require.NoError(t, err, "screen: %s", screen)
			if tt.expectOnScreen != "" {
				assert.Contains(t, screen, tt.expectOnScreen)
			}

			if tt.expectedContent == nil {
				testutils.AssertFileDoesNotExist(t, destination)
				return
			}
			// nolint:gosec
			contents, err := os.ReadFile(destination)
			require.NoError(t, err)
			assert.Equal(t, *tt.expectedContent, string(contents))
		})
	}
}

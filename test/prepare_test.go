package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fiffeek/hyprautolayout/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test__Prepare_Binary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	destination := filepath.Join(t.TempDir(), "monitors.conf")
	require.NoError(t, os.WriteFile(destination, []byte(lidClosedContent), 0o600))
	cfg := testutils.NewTestConfig(t).WithDestination(destination)
	cfg.Get()

	out, err := runBinary(ctx, []string{"--config", cfg.Path(), "prepare"})
	require.NoError(t, err, string(out))

	// nolint:gosec
	contents, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "# Generated by hyprautolayout (generated layout), changes will be overwritten.\n"+
		"# laptop=true lid_closed=true docked=false\n"+
		"monitor=DP-1,2560x1440@143.97,0x0,1\n", string(contents))
}

func Test__Snapshot_Binary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snapshot := filepath.Join(t.TempDir(), "snapshots", "desk.json")
	configPath := filepath.Join(t.TempDir(), "missing.toml")

	out, err := runBinary(ctx, []string{
		"--config", configPath,
		"snapshot", "--output-file", snapshot,
		"--hypr-monitors-override", "testdata/hypr/laptop_and_external.json",
	})
	require.NoError(t, err, string(out))
	testutils.AssertFileExists(t, snapshot)

	out, err = runBinary(ctx, []string{
		"--config", configPath,
		"snapshot", "--output-file", snapshot,
		"--hypr-monitors-override", "testdata/hypr/laptop_only.json",
	})
	require.Error(t, err, "snapshot should not be replaced without --overwrite")
	assert.Contains(t, string(out), "already exists")

	stdout, err := prepBinaryRun(ctx, []string{
		"--config", configPath,
		"generate", "--snapshot", snapshot, "--laptop", "--lid-closed",
	}).Output()
	require.NoError(t, err)
	assert.Equal(t, "monitor=eDP-1,disable\nmonitor=DP-1,2560x1440@143.97,0x0,1\n", string(stdout))
}

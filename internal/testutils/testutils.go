// Package testutils provides utils for testing
// should not be imported by any other app packages
package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type TestConfig struct {
	cfg     *config.UnsafeConfig
	t       *testing.T
	cfgFile *string
}

func NewTestConfig(t *testing.T) *TestConfig {
	return &TestConfig{cfg: &config.UnsafeConfig{}, t: t}
}

func (t *TestConfig) WithGeneral(g *config.GeneralSection) *TestConfig {
	t.cfg.General = g
	return t
}

// WithDestination points the rendered file to path, keeping the rest of the
// general section intact.
func (t *TestConfig) WithDestination(path string) *TestConfig {
	if t.cfg.General == nil {
		t.cfg.General = &config.GeneralSection{}
	}
	t.cfg.General.Destination = utils.StringPtr(path)
	return t
}

func (t *TestConfig) WithDevice(d *config.DeviceSection) *TestConfig {
	t.cfg.Device = d
	return t
}

func (t *TestConfig) WithLidEvents(e *config.DbusEventsSection) *TestConfig {
	t.cfg.LidEvents = e
	return t
}

func (t *TestConfig) WithDockEvents(e *config.DbusEventsSection) *TestConfig {
	t.cfg.DockEvents = e
	return t
}

func (t *TestConfig) WithNotifications(n *config.NotificationsSection) *TestConfig {
	t.cfg.Notifications = n
	return t
}

func (t *TestConfig) WithHotReload(h *config.HotReloadSection) *TestConfig {
	t.cfg.HotReload = h
	return t
}

func (t *TestConfig) WithConfigDir(dir string) *TestConfig {
	require.NoError(t.t, os.MkdirAll(dir, 0o750))
	return t.WithConfigPath(filepath.Join(dir, "config.toml"))
}

func (t *TestConfig) WithConfigPath(path string) *TestConfig {
	require.NoError(t.t, os.MkdirAll(filepath.Dir(path), 0o750))
	// nolint:gosec
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := os.Create(path); err != nil {
			t.t.Fatalf("Failed to create file: %v", err)
		}
	}
	t.cfgFile = &path
	return t
}

// Path returns the location the config will be saved to.
func (t *TestConfig) Path() string {
	require.NotNil(t.t, t.cfgFile, "cfgFile cant be nil")
	return *t.cfgFile
}

func (t *TestConfig) SaveToFile() *TestConfig {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(t.cfg); err != nil {
		t.t.Fatalf("cant encode config: %v", err)
	}
	require.NotNil(t.t, t.cfgFile, "cfgFile cant be nil")
	if err := utils.WriteAtomic(*t.cfgFile, buf.Bytes()); err != nil {
		t.t.Fatalf("cant write config: %v", err)
	}
	return t
}

func (t *TestConfig) createConfig() *config.Config {
	logrus.WithFields(logrus.Fields{"path": *t.cfgFile}).Debug("Creating config")
	cfg, err := config.NewConfig(*t.cfgFile)
	require.NoError(t.t, err, "cant create config")

	return cfg
}

// FillDefaults keeps tests hermetic: the rendered file lands in a temp dir and
// D-Bus listeners are off unless a test wires its own.
func (t *TestConfig) FillDefaults() *TestConfig {
	if t.cfg.General == nil || t.cfg.General.Destination == nil {
		t = t.WithDestination(filepath.Join(t.t.TempDir(), "monitors.conf"))
	}
	if t.cfg.LidEvents == nil {
		t.cfg.LidEvents = &config.DbusEventsSection{Disabled: utils.BoolPtr(true)}
	}
	if t.cfg.DockEvents == nil {
		t.cfg.DockEvents = &config.DbusEventsSection{Disabled: utils.BoolPtr(true)}
	}
	if t.cfg.Notifications == nil {
		t.cfg.Notifications = &config.NotificationsSection{Disabled: utils.BoolPtr(true)}
	}
	if t.cfgFile == nil {
		t = t.WithConfigDir(t.t.TempDir())
	}
	return t
}

func (t *TestConfig) Get() *config.Config {
	return t.FillDefaults().SaveToFile().createConfig()
}

// Logf logs only when the test binary runs with -v.
func Logf(t *testing.T, format string, args ...any) {
	if testing.Verbose() {
		t.Logf(format, args...)
	}
}

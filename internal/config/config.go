// Package config handles loading and validation of TOML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

// Config is safe for concurrent use, every reader should grab a consistent
// view through Get.
type Config struct {
	mu   sync.RWMutex
	cfg  *UnsafeConfig
	path string
}

type UnsafeConfig struct {
	ConfigPath    string                `toml:"-"`
	ConfigDirPath string                `toml:"-"`
	General       *GeneralSection       `toml:"general"`
	Device        *DeviceSection        `toml:"device"`
	LidEvents     *DbusEventsSection    `toml:"lid_events"`
	DockEvents    *DbusEventsSection    `toml:"dock_events"`
	Notifications *NotificationsSection `toml:"notifications"`
	HotReload     *HotReloadSection     `toml:"hot_reload_section"`
}

type GeneralSection struct {
	Destination     *string `toml:"destination"`
	Template        *string `toml:"template"`
	DebounceTimeMs  *int    `toml:"debounce_time_ms"`
	MaxScreenWidth  *int    `toml:"max_screen_width"`
	MaxScreenHeight *int    `toml:"max_screen_height"`
	PostApplyExec   *string `toml:"post_apply_exec"`
}

type DeviceSection struct {
	Chassis        *ChassisType `toml:"chassis"`
	ForceLidClosed *bool        `toml:"force_lid_closed"`
	ForceDocked    *bool        `toml:"force_docked"`
}

type NotificationsSection struct {
	Disabled  *bool  `toml:"disabled"`
	TimeoutMs *int32 `toml:"timeout_ms"`
}

type HotReloadSection struct {
	UpdateDebounceTimer *int `toml:"debounce_time_ms"`
}

// NewConfig loads and validates the configuration stored under path.
func NewConfig(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	return &Config{cfg: cfg, path: path}, nil
}

// NewDefaultConfig returns a validated configuration that is not backed by a
// file, reloading it is a no-op.
func NewDefaultConfig() (*Config, error) {
	cfg := &UnsafeConfig{}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default configuration: %w", err)
	}
	return &Config{cfg: cfg}, nil
}

func (c *Config) Get() *UnsafeConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *Config) Reload() error {
	if c.path == "" {
		logrus.Debug("Config is not backed by a file, nothing to reload")
		return nil
	}

	cfg, err := load(c.path)
	if err != nil {
		return fmt.Errorf("cant reload config: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	logrus.WithFields(logrus.Fields{"path": c.path}).Info("Configuration reloaded")
	return nil
}

func load(configPath string) (*UnsafeConfig, error) {
	configPath = os.ExpandEnv(configPath)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file %s not found", configPath)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("cant convert config path to abs %w", err)
	}

	var config UnsafeConfig
	config.ConfigPath = absPath
	config.ConfigDirPath = filepath.Dir(absPath)
	meta, err := toml.DecodeFile(absPath, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := []string{}
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *UnsafeConfig) Validate() error {
	if c.General == nil {
		c.General = &GeneralSection{}
	}
	if err := c.General.Validate(c.ConfigDirPath); err != nil {
		return fmt.Errorf("general section validation failed: %w", err)
	}

	if c.Device == nil {
		c.Device = &DeviceSection{}
	}
	if err := c.Device.Validate(); err != nil {
		return fmt.Errorf("device section validation failed: %w", err)
	}

	if c.LidEvents == nil {
		c.LidEvents = &DbusEventsSection{}
	}
	if err := c.LidEvents.Validate(defaultLidEvents()); err != nil {
		return fmt.Errorf("lid events section validation failed: %w", err)
	}

	if c.DockEvents == nil {
		c.DockEvents = &DbusEventsSection{}
	}
	if err := c.DockEvents.Validate(defaultDockEvents()); err != nil {
		return fmt.Errorf("dock events section validation failed: %w", err)
	}

	if c.Notifications == nil {
		c.Notifications = &NotificationsSection{}
	}
	if err := c.Notifications.Validate(); err != nil {
		return fmt.Errorf("notifications section validation failed: %w", err)
	}

	if c.HotReload == nil {
		c.HotReload = &HotReloadSection{}
	}
	if err := c.HotReload.Validate(); err != nil {
		return fmt.Errorf("hot reload section validation failed: %w", err)
	}

	return nil
}

// WatchedDirs lists directories whose changes should trigger a reload.
func (c *UnsafeConfig) WatchedDirs() []string {
	dirs := []string{}
	if c.ConfigDirPath != "" {
		dirs = append(dirs, c.ConfigDirPath)
	}
	if c.General.Template != nil {
		dir := filepath.Dir(*c.General.Template)
		if dir != c.ConfigDirPath {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (g *GeneralSection) Validate(configDir string) error {
	if g.Destination == nil {
		g.Destination = utils.StringPtr("$HOME/.config/hypr/monitors.conf")
	}
	g.Destination = utils.StringPtr(os.ExpandEnv(*g.Destination))
	if *g.Destination == "" {
		return errors.New("destination cant be empty")
	}

	if g.Template != nil {
		template := os.ExpandEnv(*g.Template)
		if !filepath.IsAbs(template) {
			template = filepath.Join(configDir, template)
		}
		if _, err := os.Stat(template); err != nil {
			return fmt.Errorf("template %s cant be accessed: %w", template, err)
		}
		g.Template = &template
	}

	if g.DebounceTimeMs == nil {
		g.DebounceTimeMs = utils.IntPtr(1500)
	}
	if *g.DebounceTimeMs < 0 {
		return errors.New("debounce_time_ms cant be negative")
	}

	if g.MaxScreenWidth == nil {
		g.MaxScreenWidth = utils.IntPtr(0)
	}
	if g.MaxScreenHeight == nil {
		g.MaxScreenHeight = utils.IntPtr(0)
	}
	if *g.MaxScreenWidth < 0 || *g.MaxScreenHeight < 0 {
		return errors.New("max screen size cant be negative")
	}

	return nil
}

func (d *DeviceSection) Validate() error {
	if d.Chassis == nil {
		d.Chassis = utils.JustPtr(AutoChassis)
	}
	return nil
}

func (n *NotificationsSection) Validate() error {
	if n.Disabled == nil {
		n.Disabled = utils.BoolPtr(false)
	}
	if n.TimeoutMs == nil {
		n.TimeoutMs = utils.JustPtr(int32(10000))
	}
	if *n.TimeoutMs < 0 {
		return errors.New("timeout_ms cant be negative")
	}
	return nil
}

func (h *HotReloadSection) Validate() error {
	if h.UpdateDebounceTimer == nil {
		h.UpdateDebounceTimer = utils.IntPtr(1000)
	}
	if *h.UpdateDebounceTimer < 0 {
		return errors.New("debounce_time_ms cant be negative")
	}
	return nil
}

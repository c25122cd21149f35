package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/utils"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		configFile    string
		expectError   bool
		errorContains string
		validate      func(*testing.T, *UnsafeConfig)
	}{
		{
			name:       "valid basic config",
			configFile: "valid_basic.toml",
			validate: func(t *testing.T, c *UnsafeConfig) {
				if *c.General.Destination != "/tmp/test-monitors.conf" {
					t.Errorf("expected destination '/tmp/test-monitors.conf', got '%s'", *c.General.Destination)
				}
				if *c.General.DebounceTimeMs != 200 {
					t.Errorf("expected debounce 200, got %d", *c.General.DebounceTimeMs)
				}
				if *c.General.MaxScreenWidth != 3840 || *c.General.MaxScreenHeight != 2160 {
					t.Errorf("expected max screen 3840x2160, got %dx%d",
						*c.General.MaxScreenWidth, *c.General.MaxScreenHeight)
				}
				if c.General.PostApplyExec == nil || *c.General.PostApplyExec != "hyprctl reload" {
					t.Errorf("expected post apply exec to be set, got %v", c.General.PostApplyExec)
				}

				if *c.Device.Chassis != LaptopChassis {
					t.Errorf("expected laptop chassis, got %s", c.Device.Chassis.Value())
				}
				if c.Device.ForceLidClosed == nil || !*c.Device.ForceLidClosed {
					t.Error("expected force_lid_closed to be true")
				}
				if c.Device.ForceDocked != nil {
					t.Errorf("expected force_docked to stay unset, got %v", *c.Device.ForceDocked)
				}

				if !*c.LidEvents.Disabled {
					t.Error("lid events should be disabled")
				}
				if c.LidEvents.DbusQueryObject.Destination != upowerDestination {
					t.Errorf("disabled lid events should still get the default query, got %s",
						c.LidEvents.DbusQueryObject.Destination)
				}

				if *c.DockEvents.Disabled {
					t.Error("dock events should be enabled")
				}
				if c.DockEvents.DbusQueryObject.Method != "org.example.Dock.IsDocked" {
					t.Errorf("expected custom dock method, got %s", c.DockEvents.DbusQueryObject.Method)
				}
				if len(c.DockEvents.DbusSignalMatchRules) != 2 {
					t.Errorf("expected 2 custom match rules, got %d", len(c.DockEvents.DbusSignalMatchRules))
				}
				if len(c.DockEvents.DbusSignalReceiveFilters) != 1 {
					t.Errorf("expected the default receive filter, got %d", len(c.DockEvents.DbusSignalReceiveFilters))
				}

				if !*c.Notifications.Disabled || *c.Notifications.TimeoutMs != 500 {
					t.Errorf("unexpected notifications section %v/%d", *c.Notifications.Disabled, *c.Notifications.TimeoutMs)
				}
				if *c.HotReload.UpdateDebounceTimer != 100 {
					t.Errorf("expected hot reload debounce 100, got %d", *c.HotReload.UpdateDebounceTimer)
				}
			},
		},
		{
			name:       "empty config gets defaults",
			configFile: "valid_minimal.toml",
			validate: func(t *testing.T, c *UnsafeConfig) {
				if !strings.HasSuffix(*c.General.Destination, ".config/hypr/monitors.conf") {
					t.Errorf("expected default destination, got '%s'", *c.General.Destination)
				}
				if c.General.Template != nil {
					t.Errorf("template should stay unset, got %s", *c.General.Template)
				}
				if *c.General.DebounceTimeMs != 1500 {
					t.Errorf("expected default debounce 1500, got %d", *c.General.DebounceTimeMs)
				}
				if *c.Device.Chassis != AutoChassis {
					t.Errorf("expected auto chassis, got %s", c.Device.Chassis.Value())
				}
				if *c.LidEvents.Disabled || *c.DockEvents.Disabled {
					t.Error("events should be enabled by default")
				}
				if c.DockEvents.DbusQueryObject.Destination != logindDestination {
					t.Errorf("expected logind dock query, got %s", c.DockEvents.DbusQueryObject.Destination)
				}
				if *c.Notifications.TimeoutMs != 10000 {
					t.Errorf("expected default timeout 10000, got %d", *c.Notifications.TimeoutMs)
				}
				if *c.HotReload.UpdateDebounceTimer != 1000 {
					t.Errorf("expected default hot reload debounce 1000, got %d", *c.HotReload.UpdateDebounceTimer)
				}
			},
		},
		{
			name:       "relative template resolves against the config dir",
			configFile: "valid_template.toml",
			validate: func(t *testing.T, c *UnsafeConfig) {
				expected := filepath.Join(c.ConfigDirPath, "templates", "monitors.go.tmpl")
				if *c.General.Template != expected {
					t.Errorf("expected template '%s', got '%s'", expected, *c.General.Template)
				}
				dirs := c.WatchedDirs()
				if len(dirs) != 2 || dirs[0] != c.ConfigDirPath || dirs[1] != filepath.Dir(expected) {
					t.Errorf("unexpected watched dirs %v", dirs)
				}
			},
		},
		{
			name:          "invalid chassis",
			configFile:    "invalid_chassis.toml",
			expectError:   true,
			errorContains: "invalid enum value convertible",
		},
		{
			name:          "unknown keys",
			configFile:    "unknown_keys.toml",
			expectError:   true,
			errorContains: "general.scoring",
		},
		{
			name:          "negative notification timeout",
			configFile:    "negative_timeout.toml",
			expectError:   true,
			errorContains: "timeout_ms cant be negative",
		},
		{
			name:          "partial query object",
			configFile:    "invalid_query_object.toml",
			expectError:   true,
			errorContains: "path cant be empty",
		},
		{
			name:          "receive filter without a name",
			configFile:    "invalid_receive_filter.toml",
			expectError:   true,
			errorContains: "name cant be empty",
		},
		{
			name:          "negative screen size",
			configFile:    "negative_screen_size.toml",
			expectError:   true,
			errorContains: "max screen size cant be negative",
		},
		{
			name:          "empty destination",
			configFile:    "empty_destination.toml",
			expectError:   true,
			errorContains: "destination cant be empty",
		},
		{
			name:          "malformed toml",
			configFile:    "malformed.toml",
			expectError:   true,
			errorContains: "failed to decode TOML",
		},
		{
			name:          "file not found",
			configFile:    "nonexistent.toml",
			expectError:   true,
			errorContains: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join("testdata", tt.configFile)

			config, err := NewConfig(configPath)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("expected error to contain '%s', got '%s'", tt.errorContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if config == nil {
				t.Error("expected config but got nil")
				return
			}

			if tt.validate != nil {
				tt.validate(t, config.Get())
			}
		})
	}
}

func TestConfigReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[general]\ndebounce_time_ms = 10\n"), 0o600); err != nil {
		t.Fatalf("cant write config: %v", err)
	}

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := cfg.Get()

	if err := os.WriteFile(path, []byte("[general]\ndebounce_time_ms = 20\n"), 0o600); err != nil {
		t.Fatalf("cant write config: %v", err)
	}
	if err := cfg.Reload(); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}
	if *cfg.Get().General.DebounceTimeMs != 20 {
		t.Errorf("expected reloaded debounce 20, got %d", *cfg.Get().General.DebounceTimeMs)
	}
	if *before.General.DebounceTimeMs != 10 {
		t.Errorf("previous snapshot should be untouched, got %d", *before.General.DebounceTimeMs)
	}

	if err := os.WriteFile(path, []byte("[general]\ndebounce_time_ms = -1\n"), 0o600); err != nil {
		t.Fatalf("cant write config: %v", err)
	}
	if err := cfg.Reload(); err == nil {
		t.Error("expected reload of an invalid config to fail")
	}
	if *cfg.Get().General.DebounceTimeMs != 20 {
		t.Errorf("failed reload should keep the last valid config, got %d", *cfg.Get().General.DebounceTimeMs)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg, err := NewDefaultConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Reload(); err != nil {
		t.Errorf("reloading a default config should be a no-op, got %v", err)
	}
	c := cfg.Get()
	if c.ConfigDirPath != "" {
		t.Errorf("default config has no dir, got %s", c.ConfigDirPath)
	}
	if len(c.WatchedDirs()) != 0 {
		t.Errorf("default config watches nothing, got %v", c.WatchedDirs())
	}
	if *c.Device.Chassis != AutoChassis {
		t.Errorf("expected auto chassis, got %s", c.Device.Chassis.Value())
	}
}

func TestEnumUnmarshalTOML(t *testing.T) {
	tests := []struct {
		name        string
		value       interface{}
		expected    ChassisType
		expectError bool
	}{
		{
			name:     "auto",
			value:    "auto",
			expected: AutoChassis,
		},
		{
			name:     "laptop",
			value:    "laptop",
			expected: LaptopChassis,
		},
		{
			name:     "desktop",
			value:    "desktop",
			expected: DesktopChassis,
		},
		{
			name:        "invalid string",
			value:       "tablet",
			expectError: true,
		},
		{
			name:        "non-string value",
			value:       123,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chassis ChassisType
			err := chassis.UnmarshalTOML(tt.value)

			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if chassis != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, chassis)
			}
		})
	}
}

func TestDbusEventsSectionValidate(t *testing.T) {
	tests := []struct {
		name        string
		section     *DbusEventsSection
		defaults    *DbusEventsSection
		expectError bool
		validate    func(*testing.T, *DbusEventsSection)
	}{
		{
			name:     "empty lid section gets upower defaults",
			section:  &DbusEventsSection{},
			defaults: defaultLidEvents(),
			validate: func(t *testing.T, d *DbusEventsSection) {
				if *d.Disabled {
					t.Error("section should be enabled by default")
				}
				args := d.DbusQueryObject.CollectArgs()
				if len(args) != 2 || args[0] != upowerDestination || args[1] != "LidIsClosed" {
					t.Errorf("unexpected query args %v", args)
				}
				if len(d.DbusSignalMatchRules) != 1 || *d.DbusSignalMatchRules[0].Member != "PropertiesChanged" {
					t.Errorf("unexpected match rules %v", d.DbusSignalMatchRules)
				}
				if len(d.DbusSignalReceiveFilters) != 1 || *d.DbusSignalReceiveFilters[0].Body != "LidIsClosed" {
					t.Errorf("unexpected receive filters %v", d.DbusSignalReceiveFilters)
				}
			},
		},
		{
			name:     "empty dock section gets logind defaults",
			section:  &DbusEventsSection{},
			defaults: defaultDockEvents(),
			validate: func(t *testing.T, d *DbusEventsSection) {
				if d.DbusQueryObject.Path != logindPath {
					t.Errorf("expected logind path, got %s", d.DbusQueryObject.Path)
				}
				args := d.DbusQueryObject.CollectArgs()
				if len(args) != 2 || args[0] != logindDestination+".Manager" || args[1] != "Docked" {
					t.Errorf("unexpected query args %v", args)
				}
			},
		},
		{
			name: "empty receive filters are kept",
			section: &DbusEventsSection{
				DbusSignalReceiveFilters: []*DbusSignalReceiveFilter{},
			},
			defaults: defaultLidEvents(),
			validate: func(t *testing.T, d *DbusEventsSection) {
				if len(d.DbusSignalReceiveFilters) != 0 {
					t.Errorf("explicitly empty filters should accept every signal, got %d", len(d.DbusSignalReceiveFilters))
				}
			},
		},
		{
			name: "empty match rule",
			section: &DbusEventsSection{
				DbusSignalMatchRules: []*DbusSignalMatchRule{{}},
			},
			defaults:    defaultLidEvents(),
			expectError: true,
		},
		{
			name: "query object without expected value",
			section: &DbusEventsSection{
				DbusQueryObject: &DbusQueryObject{
					Destination: "org.example",
					Path:        "/org/example",
					Method:      "org.example.Get",
				},
			},
			defaults:    defaultLidEvents(),
			expectError: true,
		},
		{
			name: "disabled section keeps its value",
			section: &DbusEventsSection{
				Disabled: utils.BoolPtr(true),
			},
			defaults: defaultDockEvents(),
			validate: func(t *testing.T, d *DbusEventsSection) {
				if !*d.Disabled {
					t.Error("section should stay disabled")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.section.Validate(tt.defaults)

			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if tt.validate != nil {
				tt.validate(t, tt.section)
			}
		})
	}
}

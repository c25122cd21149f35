package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/generator"
	"github.com/fiffeek/hyprautolayout/internal/generators"
	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

type OutputFormat int

const (
	HyprOutputFormat OutputFormat = iota
	JSONOutputFormat
)

func AllOutputFormats() []OutputFormat {
	return []OutputFormat{HyprOutputFormat, JSONOutputFormat}
}

func (f OutputFormat) Value() string {
	switch f {
	case HyprOutputFormat:
		return "hypr"
	case JSONOutputFormat:
		return "json"
	}
	return ""
}

func ParseOutputFormat(value string) (OutputFormat, error) {
	for _, format := range AllOutputFormats() {
		if format.Value() == value {
			return format, nil
		}
	}
	return HyprOutputFormat, fmt.Errorf("invalid output format %s, expected one of %s", value,
		utils.FormatEnumTypes(AllOutputFormats()))
}

// SourceOptions select where the current outputs come from, a running
// Hyprland instance is queried when both paths are empty.
type SourceOptions struct {
	SnapshotPath         string
	HyprMonitorsOverride string
}

// StateOverrides force parts of the device state, nil keeps the detected
// value.
type StateOverrides struct {
	Laptop    *bool
	LidClosed *bool
	Docked    *bool
}

type OneshotOptions struct {
	ConfigPath string
	Source     SourceOptions
	State      StateOverrides
	Format     OutputFormat
	Write      bool
	DryRun     bool
}

// Oneshot computes a single layout for the generate and switch commands.
type Oneshot struct {
	cfg             *config.Config
	device          *device.Device
	current         *layout.Config
	configGenerator *generators.ConfigGenerator
	opts            OneshotOptions
}

func NewOneshot(ctx context.Context, opts OneshotOptions) (*Oneshot, error) {
	cfg, err := loadConfigOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	current, err := loadCurrent(ctx, cfg, opts.Source)
	if err != nil {
		return nil, err
	}

	dev := device.NewDevice(cfg, nil, nil)
	applyOverrides(dev, opts.State)

	return &Oneshot{
		cfg:             cfg,
		device:          dev,
		current:         current,
		configGenerator: generators.NewConfigGenerator(cfg),
		opts:            opts,
	}, nil
}

func loadConfigOrDefault(path string) (*config.Config, error) {
	if _, err := os.Stat(os.ExpandEnv(path)); errors.Is(err, os.ErrNotExist) {
		logrus.WithField("path", path).Info("Config file not found, using defaults")
		return config.NewDefaultConfig()
	}
	cfg, err := config.NewConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func loadCurrent(ctx context.Context, cfg *config.Config, source SourceOptions) (*layout.Config, error) {
	if source.SnapshotPath != "" {
		current, err := layout.LoadConfig(source.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("cant load snapshot: %w", err)
		}
		return current, nil
	}

	monitors, err := loadMonitors(ctx, source.HyprMonitorsOverride)
	if err != nil {
		return nil, err
	}

	general := cfg.Get().General
	current, err := hypr.ToLayoutConfig(monitors,
		layout.Size{Width: *general.MaxScreenWidth, Height: *general.MaxScreenHeight})
	if err != nil {
		return nil, fmt.Errorf("cant convert monitors: %w", err)
	}
	return current, nil
}

// loadMonitors reads the monitors from a `hyprctl monitors all -j` dump, or
// asks Hyprland when no dump is given.
func loadMonitors(ctx context.Context, overridePath string) (hypr.MonitorSpecs, error) {
	var monitors hypr.MonitorSpecs
	if overridePath != "" {
		//nolint:gosec
		contents, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("cant read the mocked hypr monitors file: %w", err)
		}
		if err := utils.UnmarshalResponse(contents, &monitors); err != nil {
			return nil, fmt.Errorf("failed to parse contents: %w", err)
		}
	} else {
		hyprIPC, err := hypr.NewIPC(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Hyprland IPC: %w", err)
		}
		monitors = hyprIPC.GetConnectedMonitors()
	}

	if err := monitors.Validate(); err != nil {
		return nil, fmt.Errorf("failed to get valid monitor information: %w", err)
	}
	return monitors, nil
}

func applyOverrides(dev *device.Device, overrides StateOverrides) {
	if overrides.Laptop != nil {
		if *overrides.Laptop {
			dev.ForceLaptop()
		} else {
			dev.ForceNotLaptop()
		}
	}
	if overrides.LidClosed != nil {
		dev.ForceLidClosed(*overrides.LidClosed)
	}
	if overrides.Docked != nil {
		dev.ForceDocked(*overrides.Docked)
	}
}

// Generate computes the ideal layout for the current outputs.
func (o *Oneshot) Generate() (*layout.Config, error) {
	return generator.NewGenerator(o.device).IdealConfig(o.current)
}

// Switch computes the layout for a display switch action.
func (o *Oneshot) Switch(action generator.Action) (*layout.Config, error) {
	return generator.NewGenerator(o.device).DisplaySwitch(action, o.current)
}

// Emit prints result in the requested format and writes it to the
// destination when asked to.
func (o *Oneshot) Emit(w io.Writer, result *layout.Config) error {
	switch o.opts.Format {
	case JSONOutputFormat:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("cant encode layout: %w", err)
		}
	default:
		lines := []string{}
		for _, line := range hypr.MonitorLines(result) {
			lines = append(lines, "monitor="+line)
		}
		if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
			return fmt.Errorf("cant print layout: %w", err)
		}
	}

	if !o.opts.Write {
		return nil
	}

	destination := *o.cfg.Get().General.Destination
	changed, err := o.configGenerator.GenerateConfig(result, o.device.State(), destination, o.opts.DryRun)
	if err != nil {
		return fmt.Errorf("cant write layout: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"destination": destination,
		"changed":     changed,
		"dry_run":     o.opts.DryRun,
	}).Info("Layout written")
	return nil
}

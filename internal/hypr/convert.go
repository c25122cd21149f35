package hypr

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/sirupsen/logrus"
)

var outputTypePrefixes = []struct {
	prefix     string
	outputType layout.OutputType
}{
	{"eDP", layout.PanelOutputType},
	{"LVDS", layout.PanelOutputType},
	{"DSI", layout.PanelOutputType},
	{"HDMI", layout.HDMIOutputType},
	{"DP", layout.DisplayPortOutputType},
	{"DVI", layout.DVIOutputType},
	{"VGA", layout.VGAOutputType},
}

// OutputType guesses the connector type from the DRM connector name.
func OutputType(name string) layout.OutputType {
	for _, entry := range outputTypePrefixes {
		if strings.HasPrefix(name, entry.prefix) {
			return entry.outputType
		}
	}
	return layout.UnknownOutputType
}

// ParseMode parses modes in the form hyprctl reports them: 1920x1080@60.00Hz.
func ParseMode(value string) (*layout.Mode, error) {
	trimmed := strings.TrimSuffix(value, "Hz")
	size, rate, found := strings.Cut(trimmed, "@")
	if !found {
		return nil, fmt.Errorf("mode %s has no refresh rate", value)
	}
	width, height, found := strings.Cut(size, "x")
	if !found {
		return nil, fmt.Errorf("mode %s has no size", value)
	}

	w, err := strconv.Atoi(width)
	if err != nil {
		return nil, fmt.Errorf("cant parse width of %s: %w", value, err)
	}
	h, err := strconv.Atoi(height)
	if err != nil {
		return nil, fmt.Errorf("cant parse height of %s: %w", value, err)
	}
	r, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return nil, fmt.Errorf("cant parse refresh rate of %s: %w", value, err)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("mode %s has an invalid size", value)
	}

	return &layout.Mode{ID: value, Size: layout.Size{Width: w, Height: h}, RefreshRate: r}, nil
}

// LayoutID maps a Hyprland monitor id (starting at 0) to an output id.
func LayoutID(monitor *MonitorSpec) int {
	return *monitor.ID + 1
}

// ToLayoutConfig converts the connected monitors into a layout config.
// Hyprland has no notion of a primary output, only per output scaling is
// advertised.
func ToLayoutConfig(monitors MonitorSpecs, maxScreenSize layout.Size) (*layout.Config, error) {
	cfg := layout.NewConfig(layout.PerOutputScalingFeature)
	cfg.MaxScreenSize = maxScreenSize

	byName := map[string]*MonitorSpec{}
	for _, monitor := range monitors {
		byName[monitor.Name] = monitor
	}

	for _, monitor := range monitors {
		output, err := toOutput(monitor)
		if err != nil {
			return nil, fmt.Errorf("cant convert monitor %s: %w", monitor.Name, err)
		}
		if monitor.HasMirror() {
			source, ok := byName[monitor.Mirror]
			if !ok {
				logrus.WithFields(logrus.Fields{"monitor": monitor.Name, "mirror": monitor.Mirror}).Warn(
					"Mirror source is not connected, ignoring")
			} else {
				output.ReplicationSource = LayoutID(source)
			}
		}
		if err := cfg.AddOutput(output); err != nil {
			return nil, fmt.Errorf("cant add monitor %s: %w", monitor.Name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("converted config is invalid: %w", err)
	}
	return cfg, nil
}

func toOutput(monitor *MonitorSpec) (*layout.Output, error) {
	if monitor.ID == nil {
		return nil, errors.New("id cant be nil")
	}

	modes := []*layout.Mode{}
	seen := map[string]struct{}{}
	for _, value := range monitor.AvailableModes {
		if _, ok := seen[value]; ok {
			continue
		}
		mode, err := ParseMode(value)
		if err != nil {
			return nil, err
		}
		seen[value] = struct{}{}
		modes = append(modes, mode)
	}

	output := layout.NewOutput(LayoutID(monitor), monitor.Name, OutputType(monitor.Name), modes...)
	output.Enabled = !monitor.Disabled
	output.Position = layout.Point{X: monitor.X, Y: monitor.Y}
	if monitor.Scale > 0 {
		output.Scale = monitor.Scale
	}
	if len(modes) > 0 {
		output.PreferredModes = []string{modes[0].ID}
	}

	// keep whatever mode the user picked for an output that is already on
	current := layout.Size{Width: monitor.Width, Height: monitor.Height}
	if output.Enabled && !current.IsZero() && slices.Contains(output.Sizes(), current) {
		output.SetExplicitResolution(current)
		output.RefreshRate = closestRefreshRate(modes, current, monitor.RefreshRate)
	}

	return output, nil
}

func closestRefreshRate(modes []*layout.Mode, size layout.Size, rate float64) float64 {
	best := 0.0
	bestDiff := -1.0
	for _, mode := range modes {
		if mode.Size != size {
			continue
		}
		diff := mode.RefreshRate - rate
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = mode.RefreshRate
			bestDiff = diff
		}
	}
	return best
}

// MonitorLine renders the Hyprland monitor rule for an output.
func MonitorLine(cfg *layout.Config, output *layout.Output) string {
	if !output.Enabled {
		return output.Name + ",disable"
	}

	resolution := "preferred"
	if mode := output.AutoMode(); mode != nil {
		resolution = fmt.Sprintf("%s@%s", mode.Size, formatFloat(mode.RefreshRate))
	}

	line := fmt.Sprintf("%s,%s,%s,%s", output.Name, resolution, output.Position, formatFloat(output.Scale))
	if output.ReplicationSource != 0 {
		if source := cfg.Output(output.ReplicationSource); source != nil {
			line += ",mirror," + source.Name
		}
	}
	return line
}

// MonitorLines renders rules for every output, sorted by output id.
func MonitorLines(cfg *layout.Config) []string {
	lines := []string{}
	for _, output := range cfg.Outputs() {
		lines = append(lines, MonitorLine(cfg, output))
	}
	return lines
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Package generator computes ideal output layouts from the connected outputs
// and the device state, and answers display switch requests.
package generator

import (
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/sirupsen/logrus"
)

type StateProvider interface {
	State() device.State
}

type Generator struct {
	provider StateProvider
}

func NewGenerator(provider StateProvider) *Generator {
	return &Generator{provider: provider}
}

// IdealConfig returns the layout the device should use for current. The
// caller's config is never modified, on error the previous layout should be
// kept.
func (g *Generator) IdealConfig(current *layout.Config) (*layout.Config, error) {
	if current == nil {
		return nil, layout.ErrNilConfig
	}

	state := g.provider.State()
	fields := logrus.Fields{
		"laptop":     state.Laptop,
		"lid_closed": state.LidClosed,
		"docked":     state.Docked,
		"outputs":    current.Len(),
	}
	logrus.WithFields(fields).Debug("Generating ideal config")

	if !state.Laptop || current.Len() == 0 {
		logrus.WithFields(fields).Debug("Nothing to arrange, keeping the config as is")
		return current.Clone(), nil
	}

	l := layout.NewLayout(current)
	if err := g.laptop(l, state); err != nil {
		logrus.WithFields(fields).WithError(err).Info("Cant generate a layout")
		return nil, err
	}

	cfg := l.Config()
	cfg.Origin = layout.GeneratedOrigin
	return cfg, nil
}

func (g *Generator) laptop(l *layout.Layout, state device.State) error {
	cfg := l.Config()

	usable := []*layout.Output{}
	for _, output := range cfg.Outputs() {
		if !output.Usable() {
			logrus.WithFields(logrus.Fields{"output": output.Name}).Debug("Output has no modes, disabling")
			output.Enabled = false
			if output.Primary {
				cfg.SetPrimary(nil)
			}
			continue
		}
		usable = append(usable, output)
	}

	if len(usable) == 0 {
		return fmt.Errorf("no output can be enabled: %w", layout.ErrMissingModes)
	}
	if len(usable) == 1 {
		logrus.WithFields(logrus.Fields{"output": usable[0].Name}).Debug("Single output layout")
		return l.Single(usable[0])
	}

	embedded := l.Embedded()
	others := []*layout.Output{}
	for _, output := range usable {
		if output != embedded {
			others = append(others, output)
		}
	}

	if state.LidClosed {
		return g.lidClosed(l, embedded, others)
	}
	// the embedded output anchors every lid open layout
	if !embedded.Usable() {
		return fmt.Errorf("embedded output %s has no modes: %w", embedded.Name, layout.ErrNotApplicable)
	}

	switch {
	case state.Docked:
		return g.docked(l, embedded, usable, others)
	default:
		logrus.WithFields(logrus.Fields{"embedded": embedded.Name}).Debug("Lid opened, extending from the embedded output")
		return l.Extend(layout.DirectionRight, usable, embedded, layout.ExtendOptions{})
	}
}

func (g *Generator) lidClosed(l *layout.Layout, embedded *layout.Output, others []*layout.Output) error {
	cfg := l.Config()
	embedded.Enabled = false
	if embedded.Primary {
		cfg.SetPrimary(nil)
	}

	var keep *layout.Output
	for _, output := range others {
		if output.Enabled {
			keep = output
			break
		}
	}
	if keep == nil {
		keep = l.Biggest(others)
	}
	if keep == nil {
		return fmt.Errorf("no external output can be enabled: %w", layout.ErrMissingModes)
	}
	keep.Enabled = true

	logrus.WithFields(logrus.Fields{
		"embedded": embedded.Name,
		"keep":     keep.Name,
	}).Debug("Lid closed, disabling the embedded output")

	if len(others) == 1 {
		return l.Optimize(embedded)
	}
	return l.Extend(layout.DirectionRight, others, keep, layout.ExtendOptions{})
}

func (g *Generator) docked(l *layout.Layout, embedded *layout.Output, usable, others []*layout.Output) error {
	cfg := l.Config()

	primary := l.Primary(others)
	if primary == nil {
		primary = l.Biggest(others)
	}
	if primary == nil {
		return fmt.Errorf("no external output can be primary: %w", layout.ErrMissingModes)
	}
	primary.Enabled = true
	cfg.SetPrimary(primary)

	logrus.WithFields(logrus.Fields{
		"embedded": embedded.Name,
		"primary":  primary.Name,
	}).Debug("Docked, preferring an external primary output")

	return l.Extend(layout.DirectionRight, usable, embedded, layout.ExtendOptions{KeepPrimary: true})
}

package generator

import (
	"errors"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/sirupsen/logrus"
)

var ErrUnknownAction = errors.New("unknown display switch action")

type Action int

const (
	NoAction Action = iota
	Clone
	ExtendLeft
	ExtendRight
	TurnOffEmbedded
	TurnOffExternal
)

// SwitchActions is the order in which interactive switchers cycle actions.
var SwitchActions = []Action{ExtendLeft, ExtendRight, Clone, TurnOffEmbedded, TurnOffExternal}

func AllActions() []Action {
	return []Action{NoAction, Clone, ExtendLeft, ExtendRight, TurnOffEmbedded, TurnOffExternal}
}

func (a Action) Value() string {
	switch a {
	case NoAction:
		return "none"
	case Clone:
		return "clone"
	case ExtendLeft:
		return "extend-left"
	case ExtendRight:
		return "extend-right"
	case TurnOffEmbedded:
		return "turn-off-embedded"
	case TurnOffExternal:
		return "turn-off-external"
	}
	return ""
}

func (a Action) String() string {
	return a.Value()
}

func ParseAction(value string) (Action, error) {
	for _, action := range AllActions() {
		if action.Value() == value {
			return action, nil
		}
	}
	return NoAction, fmt.Errorf("%w: %s", ErrUnknownAction, value)
}

// DisplaySwitch computes the layout the user asked for interactively. Only
// the common two output setup is handled.
func (g *Generator) DisplaySwitch(action Action, current *layout.Config) (*layout.Config, error) {
	if current == nil {
		return nil, layout.ErrNilConfig
	}

	fields := logrus.Fields{"action": action.Value(), "outputs": current.Len()}
	if current.Len() != 2 {
		logrus.WithFields(fields).Info("Display switch needs exactly two outputs")
		return nil, fmt.Errorf("display switch with %d outputs: %w", current.Len(), layout.ErrNotApplicable)
	}

	l := layout.NewLayout(current)
	cfg := l.Config()
	embedded := l.Embedded()

	var err error
	switch action {
	case Clone:
		err = l.Replicate(cfg.Outputs())
	case ExtendLeft:
		err = l.Extend(layout.DirectionLeft, cfg.Outputs(), embedded, layout.ExtendOptions{EnableAll: true})
	case ExtendRight:
		err = l.Extend(layout.DirectionRight, cfg.Outputs(), embedded, layout.ExtendOptions{EnableAll: true})
	case TurnOffEmbedded:
		embedded.Enabled = false
		if embedded.Primary {
			cfg.SetPrimary(nil)
		}
		err = l.Optimize(embedded)
	case TurnOffExternal:
		logrus.WithFields(fields).Warn("Turning off the external output is not supported")
		err = layout.ErrNotApplicable
	case NoAction:
		err = layout.ErrNotApplicable
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}
	if err != nil {
		logrus.WithFields(fields).WithError(err).Debug("Display switch failed")
		return nil, err
	}

	logrus.WithFields(fields).Debug("Display switch computed")
	cfg.Origin = layout.InteractiveOrigin
	return cfg, nil
}

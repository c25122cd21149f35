package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fiffeek/hyprautolayout/internal/generator"
	"github.com/fiffeek/hyprautolayout/internal/layout"
)

// ActionPreviewed carries the layout an action would produce.
type ActionPreviewed struct {
	action generator.Action
	cfg    *layout.Config
	err    error
}

type ActionApplied struct {
	action generator.Action
	err    error
}

// ConfigReloaded is sent when the configuration changed on disk, previews
// are recomputed against it.
type ConfigReloaded struct{}

func previewCmd(switcher Switcher, action generator.Action) tea.Cmd {
	return func() tea.Msg {
		cfg, err := switcher.Preview(action)
		return ActionPreviewed{action: action, cfg: cfg, err: err}
	}
}

func applyCmd(ctx context.Context, switcher Switcher, action generator.Action) tea.Cmd {
	return func() tea.Msg {
		return ActionApplied{action: action, err: switcher.ApplyAction(ctx, action)}
	}
}

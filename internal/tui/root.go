// Package tui provides a terminal OSD to preview and apply display switch
// actions
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fiffeek/hyprautolayout/internal/generator"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/sirupsen/logrus"
)

const defaultWidth = 80

// Switcher previews and applies display switch actions, usually the layout
// service.
type Switcher interface {
	Preview(generator.Action) (*layout.Config, error)
	ApplyAction(context.Context, generator.Action) error
}

type Model struct {
	ctx      context.Context
	switcher Switcher
	keys     keyMap
	help     help.Model
	header   *Header
	preview  *PreviewPane

	actions  []generator.Action
	selected int
	applying bool
	applied  *generator.Action
	width    int
}

func NewModel(ctx context.Context, switcher Switcher, version string) Model {
	return Model{
		ctx:      ctx,
		switcher: switcher,
		keys:     rootKeyMap,
		help:     help.New(),
		header:   NewHeader("hyprautolayout", version),
		preview:  NewPreviewPane(),
		actions:  generator.SwitchActions,
		width:    defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return previewCmd(m.switcher, m.Selected())
}

// Selected returns the action under the cursor.
func (m Model) Selected() generator.Action {
	return m.actions[m.selected]
}

// Applied returns the action the user applied, if any.
func (m Model) Applied() (generator.Action, bool) {
	if m.applied == nil {
		return generator.NoAction, false
	}
	return *m.applied, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	logrus.Debugf("Received a message in root: %v", msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	case ActionPreviewed:
		if msg.action != m.Selected() {
			logrus.WithField("action", msg.action.Value()).Debug("Dropping stale preview")
			return m, nil
		}
		m.preview.Set(msg.cfg, msg.err)
	case ActionApplied:
		m.applying = false
		if msg.err != nil {
			logrus.WithError(msg.err).WithField("action", msg.action.Value()).Error("Cant apply action")
			m.header.SetError(msg.err)
			return m, nil
		}
		m.applied = &msg.action
		m.header.SetStatus("Applied " + msg.action.Value())
		return m, tea.Quit
	case ConfigReloaded:
		logrus.Debug("Config reloaded, refreshing the preview")
		return m, previewCmd(m.switcher, m.Selected())
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ShowFullHelp):
		m.help.ShowAll = !m.help.ShowAll
	case m.applying:
		logrus.Debug("Apply in progress, ignoring input")
	case key.Matches(msg, m.keys.Next):
		return m.selectAction(m.selected + 1)
	case key.Matches(msg, m.keys.Previous):
		return m.selectAction(m.selected - 1)
	case key.Matches(msg, m.keys.Apply):
		m.applying = true
		m.header.SetStatus("Applying " + m.Selected().Value())
		return m, applyCmd(m.ctx, m.switcher, m.Selected())
	}
	return m, nil
}

func (m Model) selectAction(index int) (tea.Model, tea.Cmd) {
	m.selected = (index + len(m.actions)) % len(m.actions)
	m.preview.Set(nil, nil)
	m.header.SetStatus("")
	return m, previewCmd(m.switcher, m.Selected())
}

func (m Model) View() string {
	m.header.SetWidth(m.width)
	header := m.header.View()

	actions := []string{}
	for i, action := range m.actions {
		style := ActionStyle
		if i == m.selected {
			style = SelectedActionStyle
		}
		actions = append(actions, style.Render(action.Value()))
	}
	actionsRow := lipgloss.JoinHorizontal(lipgloss.Left, actions...)

	m.preview.SetWidth(m.width - 2)
	preview := ActiveStyle.Width(max(m.width-2, 0)).Render(m.preview.View())

	helpView := HelpStyle.Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, header, actionsRow, preview, helpView)
}


package tui

import (
	"fmt"
	"strings"

	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/layout"
)

// PreviewPane lists what every output looks like after the selected action,
// followed by the monitor rules that would be written.
type PreviewPane struct {
	cfg   *layout.Config
	err   error
	width int
}

func NewPreviewPane() *PreviewPane {
	return &PreviewPane{}
}

func (p *PreviewPane) Set(cfg *layout.Config, err error) {
	p.cfg = cfg
	p.err = err
}

func (p *PreviewPane) SetWidth(width int) {
	p.width = width
}

func (p *PreviewPane) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Outputs"))
	b.WriteString("\n")

	if p.err != nil {
		b.WriteString(ErrorStyle.Render("Not available: " + p.err.Error()))
		return b.String()
	}
	if p.cfg == nil {
		b.WriteString(MutedStyle.Render("Computing..."))
		return b.String()
	}

	for i, output := range p.cfg.Outputs() {
		b.WriteString(GetOutputColorStyle(i).Render(describeOutput(p.cfg, output)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("Hyprland"))
	b.WriteString("\n")
	for _, line := range hypr.MonitorLines(p.cfg) {
		b.WriteString(MutedStyle.Render("monitor=" + line))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func describeOutput(cfg *layout.Config, output *layout.Output) string {
	if !output.Enabled {
		return fmt.Sprintf("%s: off", output.Name)
	}

	mode := "preferred"
	if m := output.AutoMode(); m != nil {
		mode = m.String()
	}
	description := fmt.Sprintf("%s: %s at %s", output.Name, mode, output.Position)
	if output.Primary {
		description += " [primary]"
	}
	if source := cfg.Output(output.ReplicationSource); output.ReplicationSource != 0 && source != nil {
		description += " mirrors " + source.Name
	}
	return description
}

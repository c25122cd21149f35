package generators

import (
	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/layout"
)

// OutputView is what templates see for a single output.
type OutputView struct {
	Name        string
	Type        string
	Enabled     bool
	Primary     bool
	Mirrored    bool
	Line        string
	Mode        string
	Position    layout.Point
	Scale       float64
	Replicating string
}

type TemplateData struct {
	Origin    string
	Laptop    bool
	LidClosed bool
	Docked    bool
	Outputs   []*OutputView
	Lines     []string
}

func newTemplateData(cfg *layout.Config, state device.State) *TemplateData {
	data := &TemplateData{
		Origin:    cfg.Origin.Value(),
		Laptop:    state.Laptop,
		LidClosed: state.LidClosed,
		Docked:    state.Docked,
		Outputs:   []*OutputView{},
		Lines:     hypr.MonitorLines(cfg),
	}

	for _, output := range cfg.Outputs() {
		view := &OutputView{
			Name:     output.Name,
			Type:     output.Type.Value(),
			Enabled:  output.Enabled,
			Primary:  output.Primary,
			Line:     hypr.MonitorLine(cfg, output),
			Position: output.Position,
			Scale:    output.Scale,
		}
		if mode := output.AutoMode(); mode != nil {
			view.Mode = mode.String()
		}
		if source := cfg.Output(output.ReplicationSource); output.ReplicationSource != 0 && source != nil {
			view.Mirrored = true
			view.Replicating = source.Name
		}
		data.Outputs = append(data.Outputs, view)
	}

	return data
}

package layout

import (
	"errors"
	"slices"
)

type Output struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	Type              OutputType `json:"type"`
	Enabled           bool       `json:"enabled"`
	Primary           bool       `json:"primary"`
	Position          Point      `json:"pos"`
	Modes             []*Mode    `json:"modes"`
	PreferredModes    []string   `json:"preferredModes,omitempty"`
	AutoResolution    bool       `json:"autoResolution"`
	Resolution        Size       `json:"resolution"`
	RefreshRate       float64    `json:"refreshRate,omitempty"`
	Scale             float64    `json:"scale"`
	ReplicationSource int        `json:"replicationSource"`
}

func NewOutput(id int, name string, outputType OutputType, modes ...*Mode) *Output {
	return &Output{
		ID:             id,
		Name:           name,
		Type:           outputType,
		Modes:          modes,
		AutoResolution: true,
		Scale:          1.0,
	}
}

func (o *Output) Validate() error {
	if o.ID <= 0 {
		return errors.New("output id has to be > 0")
	}
	if o.Scale <= 0 {
		o.Scale = 1.0
	}
	if !o.AutoResolution && o.Resolution.IsZero() {
		return errors.New("explicit resolution cant be empty")
	}
	if o.ReplicationSource == o.ID {
		return errors.New("output cant replicate itself")
	}
	seen := map[string]struct{}{}
	for _, mode := range o.Modes {
		if mode == nil {
			return errors.New("mode cant be nil")
		}
		if mode.ID == "" {
			return errors.New("mode id cant be empty")
		}
		if _, ok := seen[mode.ID]; ok {
			return errors.New("duplicated mode id " + mode.ID)
		}
		if mode.Size.Width <= 0 || mode.Size.Height <= 0 {
			return errors.New("mode " + mode.ID + " has an invalid size")
		}
		seen[mode.ID] = struct{}{}
	}
	return nil
}

func (o *Output) IsPanel() bool {
	return o.Type == PanelOutputType
}

// Usable reports whether the output resolves to a mode and so can be enabled.
// An explicit resolution none of the modes offers is not usable.
func (o *Output) Usable() bool {
	return o.AutoMode() != nil
}

func (o *Output) Mode(id string) *Mode {
	for _, mode := range o.Modes {
		if mode.ID == id {
			return mode
		}
	}
	return nil
}

// AutoMode is the mode the output resolves to: the commanded resolution when
// auto resolution is off, then the preferred mode, then the largest one.
func (o *Output) AutoMode() *Mode {
	if len(o.Modes) == 0 {
		return nil
	}

	if !o.AutoResolution {
		return o.bestModeForSize(o.Resolution)
	}

	for _, id := range o.PreferredModes {
		if mode := o.Mode(id); mode != nil {
			return mode
		}
	}

	var best *Mode
	for _, mode := range o.Modes {
		if best == nil || betterMode(mode, best) {
			best = mode
		}
	}
	return best
}

func (o *Output) bestModeForSize(size Size) *Mode {
	var best *Mode
	for _, mode := range o.Modes {
		if mode.Size != size {
			continue
		}
		if o.RefreshRate > 0 && mode.RefreshRate == o.RefreshRate {
			return mode
		}
		if best == nil || mode.RefreshRate > best.RefreshRate {
			best = mode
		}
	}
	return best
}

func betterMode(candidate, current *Mode) bool {
	if candidate.Size.Area() != current.Size.Area() {
		return candidate.Size.Area() > current.Size.Area()
	}
	return candidate.RefreshRate > current.RefreshRate
}

// SetExplicitResolution pins the output to the given size, the refresh rate
// is still picked automatically.
func (o *Output) SetExplicitResolution(size Size) {
	o.AutoResolution = false
	o.Resolution = size
	o.RefreshRate = 0
}

func (o *Output) Sizes() []Size {
	sizes := []Size{}
	for _, mode := range o.Modes {
		if !slices.Contains(sizes, mode.Size) {
			sizes = append(sizes, mode.Size)
		}
	}
	return sizes
}

func (o *Output) maxRefreshRate(size Size) float64 {
	rate := 0.0
	for _, mode := range o.Modes {
		if mode.Size == size && mode.RefreshRate > rate {
			rate = mode.RefreshRate
		}
	}
	return rate
}

func (o *Output) Clone() *Output {
	clone := *o
	clone.Modes = slices.Clone(o.Modes)
	clone.PreferredModes = slices.Clone(o.PreferredModes)
	return &clone
}

// Package layout provides the output/mode data model and the primitives
// used to arrange outputs on a virtual desktop.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotApplicable = errors.New("layout not applicable")
	ErrMissingModes  = errors.New("output has no usable modes")
	ErrNilConfig     = errors.New("config cant be nil")
)

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) Area() int {
	return s.Width * s.Height
}

func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("%dx%d", p.X, p.Y)
}

// Rect is an output geometry in logical (scaled) pixels.
type Rect struct {
	Point
	Size
}

func (r Rect) Right() int {
	return r.X + r.Width
}

type OutputType int

const (
	UnknownOutputType OutputType = iota
	PanelOutputType
	VGAOutputType
	DVIOutputType
	HDMIOutputType
	DisplayPortOutputType
)

var outputTypeNames = map[OutputType]string{
	UnknownOutputType:     "unknown",
	PanelOutputType:       "panel",
	VGAOutputType:         "vga",
	DVIOutputType:         "dvi",
	HDMIOutputType:        "hdmi",
	DisplayPortOutputType: "displayport",
}

func (t OutputType) Value() string {
	if name, ok := outputTypeNames[t]; ok {
		return name
	}
	return outputTypeNames[UnknownOutputType]
}

func (t OutputType) MarshalText() ([]byte, error) {
	return []byte(t.Value()), nil
}

func (t *OutputType) UnmarshalText(text []byte) error {
	value := strings.ToLower(string(text))
	for key, name := range outputTypeNames {
		if name == value {
			*t = key
			return nil
		}
	}
	return fmt.Errorf("invalid output type %q", value)
}

type Origin int

const (
	UnknownOrigin Origin = iota
	GeneratedOrigin
	InteractiveOrigin
)

func (o Origin) Value() string {
	switch o {
	case GeneratedOrigin:
		return "generated"
	case InteractiveOrigin:
		return "interactive"
	default:
		return "unknown"
	}
}

func (o Origin) String() string {
	return o.Value()
}

func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.Value()), nil
}

func (o *Origin) UnmarshalText(text []byte) error {
	for _, origin := range []Origin{UnknownOrigin, GeneratedOrigin, InteractiveOrigin} {
		if origin.Value() == string(text) {
			*o = origin
			return nil
		}
	}
	return fmt.Errorf("invalid origin %q", string(text))
}

// Features is the set of capabilities the backend reported for a config.
type Features uint

const (
	PrimaryDisplayFeature Features = 1 << iota
	PerOutputScalingFeature
)

var featureNames = []struct {
	feature Features
	name    string
}{
	{PrimaryDisplayFeature, "primary-display"},
	{PerOutputScalingFeature, "per-output-scaling"},
}

func (f Features) Has(feature Features) bool {
	return f&feature == feature
}

func (f Features) Names() []string {
	names := []string{}
	for _, entry := range featureNames {
		if f.Has(entry.feature) {
			names = append(names, entry.name)
		}
	}
	return names
}

func ParseFeature(name string) (Features, error) {
	for _, entry := range featureNames {
		if entry.name == name {
			return entry.feature, nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

type Mode struct {
	ID          string  `json:"id"`
	Size        Size    `json:"size"`
	RefreshRate float64 `json:"refreshRate"`
}

func (m *Mode) String() string {
	return fmt.Sprintf("%s@%.2fHz", m.Size, m.RefreshRate)
}

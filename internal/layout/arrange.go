package layout

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

type Direction int

const (
	DirectionRight Direction = iota
	DirectionLeft
)

func (d Direction) String() string {
	if d == DirectionLeft {
		return "left"
	}
	return "right"
}

type ExtendOptions struct {
	// EnableAll enables every extended output, otherwise only the anchor.
	EnableAll bool
	// KeepPrimary leaves the primary output untouched.
	KeepPrimary bool
}

// Layout mutates the outputs of a config it owns. Every method operates on
// the same config so callers can chain primitives.
type Layout struct {
	cfg *Config
}

// NewLayout clones current, the caller's config is never touched.
func NewLayout(current *Config) *Layout {
	return &Layout{cfg: current.Clone()}
}

func (l *Layout) Config() *Config {
	return l.cfg
}

// Embedded returns the built-in panel of the device.
func (l *Layout) Embedded() *Output {
	if len(l.cfg.outputs) == 0 {
		return nil
	}
	for _, output := range l.cfg.outputs {
		if output.IsPanel() {
			return output
		}
	}
	// wild guess: connectors of built-in panels are enumerated first
	return l.cfg.outputs[0]
}

// Biggest returns the output with the largest auto mode area, ties go to the
// first one in iteration order.
func (l *Layout) Biggest(outputs []*Output, exclude ...*Output) *Output {
	var (
		biggest *Output
		area    int
	)
	for _, output := range outputs {
		if slices.Contains(exclude, output) {
			continue
		}
		mode := output.AutoMode()
		if mode == nil {
			continue
		}
		if biggest == nil || mode.Size.Area() > area {
			biggest = output
			area = mode.Size.Area()
		}
	}
	return biggest
}

// Primary returns the first output already marked as primary.
func (l *Layout) Primary(outputs []*Output, exclude ...*Output) *Output {
	for _, output := range outputs {
		if slices.Contains(exclude, output) {
			continue
		}
		if output.Primary {
			return output
		}
	}
	return nil
}

func (l *Layout) enable(output *Output) {
	output.Enabled = true
}

func (l *Layout) disable(output *Output) {
	output.Enabled = false
	if output.Primary {
		l.cfg.SetPrimary(nil)
	}
}

// Single arranges the only usable output of a config.
func (l *Layout) Single(output *Output) error {
	if output == nil || !output.Usable() {
		return ErrMissingModes
	}
	output.Enabled = true
	output.Position = Point{}
	output.ReplicationSource = 0
	l.cfg.SetPrimary(output)
	return nil
}

// Extend places outputs side by side starting at the anchor. A nil anchor
// falls back to the biggest output.
func (l *Layout) Extend(direction Direction, outputs []*Output, anchor *Output, opts ExtendOptions) error {
	if len(outputs) == 0 {
		return fmt.Errorf("nothing to extend: %w", ErrNotApplicable)
	}
	if anchor == nil {
		anchor = l.Biggest(outputs)
	}
	if anchor == nil {
		return fmt.Errorf("no anchor to extend from: %w", ErrMissingModes)
	}

	geometries := map[int]Rect{}
	for _, output := range append([]*Output{anchor}, outputs...) {
		geometry, err := l.cfg.Geometry(output)
		if err != nil {
			return err
		}
		geometries[output.ID] = geometry
	}

	logrus.WithFields(logrus.Fields{
		"anchor":    anchor.Name,
		"direction": direction.String(),
		"outputs":   len(outputs),
	}).Debug("Extending outputs")

	anchor.Enabled = true
	anchor.Position = Point{}
	anchor.ReplicationSource = 0
	if !opts.KeepPrimary {
		l.cfg.SetPrimary(anchor)
	}

	offset := geometries[anchor.ID].Width
	if direction == DirectionLeft {
		offset = 0
	}
	for _, output := range outputs {
		if output == anchor {
			continue
		}
		width := geometries[output.ID].Width
		if direction == DirectionLeft {
			offset -= width
			output.Position = Point{X: offset}
		} else {
			output.Position = Point{X: offset}
			offset += width
		}
		output.ReplicationSource = 0
		if opts.EnableAll {
			output.Enabled = true
		}
	}
	return nil
}

// Replicate clones all usable outputs onto the anchor, at the largest
// resolution they have in common when there is one.
func (l *Layout) Replicate(outputs []*Output) error {
	candidates := []*Output{}
	for _, output := range outputs {
		if output.Usable() {
			candidates = append(candidates, output)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("nothing to replicate: %w", ErrMissingModes)
	}

	anchor := candidates[0]
	if embedded := l.Embedded(); slices.Contains(candidates, embedded) {
		anchor = embedded
	}

	size, ok := l.commonSize(candidates)
	logrus.WithFields(logrus.Fields{
		"anchor":   anchor.Name,
		"size":     size.String(),
		"common":   ok,
		"replicas": len(candidates) - 1,
	}).Debug("Replicating outputs")

	for _, output := range candidates {
		if ok {
			output.SetExplicitResolution(size)
		}
		output.Enabled = true
		output.Position = Point{}
		output.ReplicationSource = anchor.ID
	}
	anchor.ReplicationSource = 0
	l.cfg.SetPrimary(anchor)
	return nil
}

func (l *Layout) commonSize(outputs []*Output) (Size, bool) {
	common := outputs[0].Sizes()
	for _, output := range outputs[1:] {
		sizes := output.Sizes()
		common = slices.DeleteFunc(common, func(s Size) bool {
			return !slices.Contains(sizes, s)
		})
	}

	limit := l.cfg.MaxScreenSize
	var (
		best    Size
		refresh float64
		found   bool
	)
	for _, size := range common {
		if !limit.IsZero() && (size.Width > limit.Width || size.Height > limit.Height) {
			continue
		}
		rate := outputs[0].maxRefreshRate(size)
		for _, output := range outputs[1:] {
			rate = min(rate, output.maxRefreshRate(size))
		}
		if !found || betterSize(size, rate, best, refresh) {
			best, refresh, found = size, rate, true
		}
	}
	return best, found
}

func betterSize(size Size, rate float64, best Size, bestRate float64) bool {
	if size.Area() != best.Area() {
		return size.Area() > best.Area()
	}
	if rate != bestRate {
		return rate > bestRate
	}
	return size.Width > best.Width
}

// Optimize produces the most sensible layout for the remaining outputs: a
// single enabled output at the origin or the enabled ones extended right.
func (l *Layout) Optimize(exclude ...*Output) error {
	candidates := []*Output{}
	enabled := []*Output{}
	for _, output := range l.cfg.outputs {
		if slices.Contains(exclude, output) || !output.Usable() {
			continue
		}
		candidates = append(candidates, output)
		if output.Enabled {
			enabled = append(enabled, output)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("nothing left to optimize: %w", ErrMissingModes)
	}

	if len(enabled) <= 1 {
		keep := l.Primary(candidates)
		if len(enabled) == 1 {
			keep = enabled[0]
		}
		if keep == nil {
			keep = l.Biggest(candidates)
		}
		return l.Single(keep)
	}

	anchor := l.Primary(enabled)
	if anchor == nil {
		anchor = l.Biggest(enabled)
	}
	return l.Extend(DirectionRight, enabled, anchor, ExtendOptions{})
}

package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"

	"github.com/sirupsen/logrus"
)

// Config is a snapshot of all connected outputs. Outputs are kept sorted by
// id, every selection heuristic relies on that iteration order.
type Config struct {
	outputs       []*Output
	primaryID     int
	Origin        Origin
	Features      Features
	MaxScreenSize Size
}

func NewConfig(features Features) *Config {
	return &Config{Features: features}
}

func (c *Config) AddOutput(output *Output) error {
	if output == nil {
		return errors.New("output cant be nil")
	}
	if err := output.Validate(); err != nil {
		return fmt.Errorf("output %d is invalid: %w", output.ID, err)
	}
	idx, found := slices.BinarySearchFunc(c.outputs, output.ID, func(o *Output, id int) int {
		return o.ID - id
	})
	if found {
		return fmt.Errorf("output with id %d already exists", output.ID)
	}
	c.outputs = slices.Insert(c.outputs, idx, output)
	if output.Primary {
		c.SetPrimary(output)
	}
	return nil
}

// Outputs returns the outputs in iteration order, the slice can be modified
// freely but the outputs are shared with the config.
func (c *Config) Outputs() []*Output {
	return slices.Clone(c.outputs)
}

func (c *Config) Len() int {
	return len(c.outputs)
}

func (c *Config) Output(id int) *Output {
	for _, output := range c.outputs {
		if output.ID == id {
			return output
		}
	}
	return nil
}

func (c *Config) OutputByName(name string) *Output {
	for _, output := range c.outputs {
		if output.Name == name {
			return output
		}
	}
	return nil
}

func (c *Config) EnabledOutputs() []*Output {
	enabled := []*Output{}
	for _, output := range c.outputs {
		if output.Enabled {
			enabled = append(enabled, output)
		}
	}
	return enabled
}

func (c *Config) Primary() *Output {
	if c.primaryID == 0 {
		return nil
	}
	return c.Output(c.primaryID)
}

// SetPrimary marks the output as the primary one, nil clears it. Backends
// without the primary display feature get the call ignored.
func (c *Config) SetPrimary(output *Output) {
	if output != nil && !c.Features.Has(PrimaryDisplayFeature) {
		logrus.WithFields(logrus.Fields{"output": output.Name}).Debug(
			"Primary display not supported, not setting primary")
		return
	}
	c.primaryID = 0
	for _, o := range c.outputs {
		o.Primary = false
	}
	if output == nil {
		return
	}
	output.Primary = true
	c.primaryID = output.ID
}

// Geometry is the logical rectangle covered by the output in its auto mode.
func (c *Config) Geometry(output *Output) (Rect, error) {
	mode := output.AutoMode()
	if mode == nil {
		return Rect{}, fmt.Errorf("output %s (%d): %w", output.Name, output.ID, ErrMissingModes)
	}
	size := mode.Size
	if c.Features.Has(PerOutputScalingFeature) && output.Scale > 0 {
		size = Size{
			Width:  int(float64(size.Width) / output.Scale),
			Height: int(float64(size.Height) / output.Scale),
		}
	}
	return Rect{Point: output.Position, Size: size}, nil
}

func (c *Config) Clone() *Config {
	clone := &Config{
		outputs:       make([]*Output, 0, len(c.outputs)),
		primaryID:     c.primaryID,
		Origin:        c.Origin,
		Features:      c.Features,
		MaxScreenSize: c.MaxScreenSize,
	}
	for _, output := range c.outputs {
		clone.outputs = append(clone.outputs, output.Clone())
	}
	return clone
}

// Equal compares the observable state of two configs. A config without
// outputs equals any other config without outputs.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return reflect.DeepEqual(c.toJSON(), other.toJSON())
}

func (c *Config) Validate() error {
	if len(c.outputs) == 0 {
		return nil
	}
	primaries := 0
	for _, output := range c.outputs {
		if output.ReplicationSource != 0 && c.Output(output.ReplicationSource) == nil {
			return fmt.Errorf("output %d replicates unknown output %d", output.ID, output.ReplicationSource)
		}
		if output.Primary && output.Enabled {
			primaries++
		}
	}
	if primaries > 1 {
		return errors.New("more than one enabled primary output")
	}
	return nil
}

type configJSON struct {
	Origin        Origin    `json:"origin"`
	Features      []string  `json:"features"`
	MaxScreenSize Size      `json:"maxScreenSize"`
	Outputs       []*Output `json:"outputs"`
}

func (c *Config) toJSON() configJSON {
	outputs := c.outputs
	if outputs == nil {
		outputs = []*Output{}
	}
	return configJSON{
		Origin:        c.Origin,
		Features:      c.Features.Names(),
		MaxScreenSize: c.MaxScreenSize,
		Outputs:       outputs,
	}
}

func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toJSON())
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("cant decode config: %w", err)
	}

	parsed := &Config{Origin: raw.Origin, MaxScreenSize: raw.MaxScreenSize}
	for _, name := range raw.Features {
		feature, err := ParseFeature(name)
		if err != nil {
			return fmt.Errorf("cant parse features: %w", err)
		}
		parsed.Features |= feature
	}
	for _, output := range raw.Outputs {
		if err := parsed.AddOutput(output); err != nil {
			return fmt.Errorf("cant add output: %w", err)
		}
	}
	if err := parsed.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	*c = *parsed
	return nil
}

// UnmarshalJSON defaults fields that are missing in the snapshot.
func (o *Output) UnmarshalJSON(data []byte) error {
	type plain Output
	decoded := plain{AutoResolution: true, Scale: 1.0}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = Output(decoded)
	return nil
}

func ParseConfig(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, errors.New("empty config snapshot")
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	// nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cant read snapshot %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("cant parse snapshot %s: %w", path, err)
	}
	return cfg, nil
}

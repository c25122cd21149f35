package layout_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mode(id string, w, h int, refresh float64) *layout.Mode {
	return &layout.Mode{ID: id, Size: layout.Size{Width: w, Height: h}, RefreshRate: refresh}
}

func laptopConfig(t *testing.T) *layout.Config {
	t.Helper()
	cfg := layout.NewConfig(layout.PrimaryDisplayFeature)
	panel := layout.NewOutput(1, "eDP-1", layout.PanelOutputType,
		mode("1", 1280, 800, 60), mode("2", 1024, 768, 60))
	panel.Enabled = true
	panel.Primary = true
	external := layout.NewOutput(2, "HDMI-A-1", layout.HDMIOutputType,
		mode("1", 1920, 1080, 60), mode("2", 1280, 800, 75), mode("3", 1024, 768, 60))
	require.NoError(t, cfg.AddOutput(external))
	require.NoError(t, cfg.AddOutput(panel))
	return cfg
}

func TestConfig_OutputsSortedByID(t *testing.T) {
	cfg := laptopConfig(t)

	outputs := cfg.Outputs()
	require.Len(t, outputs, 2)
	assert.Equal(t, 1, outputs[0].ID)
	assert.Equal(t, 2, outputs[1].ID)
	assert.Equal(t, "eDP-1", cfg.Primary().Name)
}

func TestConfig_AddOutputRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		output *layout.Output
	}{
		{name: "nil", output: nil},
		{name: "zero_id", output: layout.NewOutput(0, "DP-1", layout.DisplayPortOutputType)},
		{name: "duplicated_id", output: layout.NewOutput(2, "DP-1", layout.DisplayPortOutputType)},
		{
			name:   "duplicated_mode",
			output: layout.NewOutput(3, "DP-1", layout.DisplayPortOutputType, mode("1", 10, 10, 60), mode("1", 20, 20, 60)),
		},
		{
			name: "self_replication",
			output: &layout.Output{
				ID: 3, Name: "DP-1", AutoResolution: true, Scale: 1, ReplicationSource: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := laptopConfig(t)
			assert.Error(t, cfg.AddOutput(tt.output))
			assert.Equal(t, 2, cfg.Len())
		})
	}
}

func TestConfig_SetPrimary(t *testing.T) {
	cfg := laptopConfig(t)
	external := cfg.Output(2)

	cfg.SetPrimary(external)
	assert.True(t, external.Primary)
	assert.False(t, cfg.Output(1).Primary)
	assert.Equal(t, external, cfg.Primary())

	cfg.SetPrimary(nil)
	assert.Nil(t, cfg.Primary())
	assert.False(t, external.Primary)
}

func TestConfig_SetPrimaryWithoutFeature(t *testing.T) {
	cfg := layout.NewConfig(0)
	require.NoError(t, cfg.AddOutput(layout.NewOutput(1, "DP-1", layout.DisplayPortOutputType, mode("1", 10, 10, 60))))

	cfg.SetPrimary(cfg.Output(1))
	assert.Nil(t, cfg.Primary())
	assert.False(t, cfg.Output(1).Primary)
}

func TestConfig_CloneIsDeep(t *testing.T) {
	cfg := laptopConfig(t)
	clone := cfg.Clone()
	require.True(t, cfg.Equal(clone))

	clone.Output(2).Enabled = true
	clone.Output(2).Position = layout.Point{X: 1280}
	clone.SetPrimary(clone.Output(2))

	assert.False(t, cfg.Output(2).Enabled)
	assert.Equal(t, layout.Point{}, cfg.Output(2).Position)
	assert.Equal(t, 1, cfg.Primary().ID)
	assert.False(t, cfg.Equal(clone))
}

func TestConfig_EqualWithoutOutputs(t *testing.T) {
	tests := []struct {
		name  string
		left  *layout.Config
		right func(*layout.Config) *layout.Config
		equal bool
	}{
		{
			name:  "clone_of_empty",
			left:  layout.NewConfig(layout.PrimaryDisplayFeature),
			right: (*layout.Config).Clone,
			equal: true,
		},
		{
			name: "parsed_empty",
			left: layout.NewConfig(0),
			right: func(*layout.Config) *layout.Config {
				parsed, err := layout.ParseConfig([]byte(`{"outputs": []}`))
				require.NoError(t, err)
				return parsed
			},
			equal: true,
		},
		{
			name:  "different_features",
			left:  layout.NewConfig(layout.PrimaryDisplayFeature),
			right: func(*layout.Config) *layout.Config { return layout.NewConfig(0) },
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			right := tt.right(tt.left)
			assert.Equal(t, tt.equal, tt.left.Equal(right))
			assert.Equal(t, tt.equal, right.Equal(tt.left))
		})
	}

	data, err := json.Marshal(layout.NewConfig(0))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outputs":[]`)
}

func TestConfig_GeometryScaled(t *testing.T) {
	cfg := layout.NewConfig(layout.PerOutputScalingFeature)
	output := layout.NewOutput(1, "DP-1", layout.DisplayPortOutputType, mode("1", 3840, 2160, 60))
	output.Scale = 2
	output.Position = layout.Point{X: 10, Y: 20}
	require.NoError(t, cfg.AddOutput(output))

	geometry, err := cfg.Geometry(output)
	require.NoError(t, err)
	assert.Equal(t, layout.Rect{Point: layout.Point{X: 10, Y: 20}, Size: layout.Size{Width: 1920, Height: 1080}}, geometry)
	assert.Equal(t, 1930, geometry.Right())

	unscaled := layout.NewConfig(0)
	geometry, err = unscaled.Geometry(output)
	require.NoError(t, err)
	assert.Equal(t, 3840, geometry.Width)
}

func TestConfig_GeometryWithoutModes(t *testing.T) {
	cfg := layout.NewConfig(0)
	_, err := cfg.Geometry(layout.NewOutput(1, "DP-1", layout.DisplayPortOutputType))
	assert.ErrorIs(t, err, layout.ErrMissingModes)
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	cfg := laptopConfig(t)
	cfg.Origin = layout.GeneratedOrigin
	cfg.MaxScreenSize = layout.Size{Width: 8192, Height: 8192}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"features":["primary-display"]`)
	assert.Contains(t, string(data), `"type":"panel"`)
	assert.Contains(t, string(data), `"origin":"generated"`)

	parsed, err := layout.ParseConfig(data)
	require.NoError(t, err)
	assert.True(t, cfg.Equal(parsed))
	assert.Equal(t, "eDP-1", parsed.Primary().Name)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"features": ["primary-display", "per-output-scaling"],
		"outputs": [
			{"id": 2, "name": "DP-1", "type": "displayport", "modes": [{"id": "a", "size": {"width": 1920, "height": 1080}, "refreshRate": 60}]},
			{"id": 1, "name": "eDP-1", "type": "panel", "enabled": true, "primary": true, "modes": [{"id": "b", "size": {"width": 1280, "height": 800}, "refreshRate": 60}]}
		]
	}`), 0o600))

	cfg, err := layout.LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Features.Has(layout.PerOutputScalingFeature))
	assert.Equal(t, "eDP-1", cfg.Outputs()[0].Name)
	assert.True(t, cfg.Output(2).AutoResolution, "auto resolution should default to true")
	assert.InDelta(t, 1.0, cfg.Output(2).Scale, 0.0001)
	assert.Equal(t, 1, cfg.Primary().ID)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not_json", data: "{"},
		{name: "unknown_feature", data: `{"features": ["hdr"]}`},
		{name: "unknown_type", data: `{"outputs": [{"id": 1, "type": "scart"}]}`},
		{name: "unknown_replication_source", data: `{"outputs": [{"id": 1, "replicationSource": 7}]}`},
		{
			name: "two_primaries",
			data: `{"outputs": [{"id": 1, "enabled": true, "primary": true}, {"id": 2, "enabled": true, "primary": true}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := layout.ParseConfig([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

package generators_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/generators"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/testutils"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extendedLayout(t *testing.T) *layout.Config {
	t.Helper()
	cfg := layout.NewConfig(layout.PerOutputScalingFeature)
	embedded := layout.NewOutput(1, "eDP-1", layout.PanelOutputType, &layout.Mode{
		ID: "1920x1080@60.00Hz", Size: layout.Size{Width: 1920, Height: 1080}, RefreshRate: 60,
	})
	embedded.Enabled = true
	external := layout.NewOutput(2, "DP-1", layout.DisplayPortOutputType, &layout.Mode{
		ID: "2560x1440@143.97Hz", Size: layout.Size{Width: 2560, Height: 1440}, RefreshRate: 143.97,
	})
	external.Enabled = true
	external.Position = layout.Point{X: 1920}
	require.NoError(t, cfg.AddOutput(embedded))
	require.NoError(t, cfg.AddOutput(external))
	cfg.Origin = layout.GeneratedOrigin
	return cfg
}

func lidClosedLayout(t *testing.T) *layout.Config {
	t.Helper()
	cfg := extendedLayout(t)
	cfg.Output(1).Enabled = false
	cfg.Output(2).Position = layout.Point{}
	return cfg
}

func TestConfigGenerator_GenerateConfig(t *testing.T) {
	cfg := testutils.NewTestConfig(t).Get()
	generator := generators.NewConfigGenerator(cfg)
	destination := filepath.Join(t.TempDir(), "hypr", "monitors.conf")

	changed, err := generator.GenerateConfig(extendedLayout(t), device.State{Laptop: true}, destination, false)
	require.NoError(t, err, "GenerateConfig failed")
	assert.True(t, changed, "file was not changed")
	testutils.AssertFixture(t, destination, "testdata/fixtures/laptop_extended.conf", *regenerate)

	changed, err = generator.GenerateConfig(lidClosedLayout(t), device.State{Laptop: true, LidClosed: true},
		destination, false)
	require.NoError(t, err, "GenerateConfig failed")
	assert.True(t, changed, "file was not changed")
	testutils.AssertFixture(t, destination, "testdata/fixtures/lid_closed.conf", *regenerate)

	changed, err = generator.GenerateConfig(lidClosedLayout(t), device.State{Laptop: true, LidClosed: true},
		destination, false)
	require.NoError(t, err, "GenerateConfig failed")
	assert.False(t, changed, "unchanged content should not be rewritten")

	require.NoError(t, os.Remove(destination), "should be able to remove the destination file")
	changed, err = generator.GenerateConfig(extendedLayout(t), device.State{Laptop: true}, destination, true)
	assert.NoError(t, err, "should not err on dry run")
	assert.False(t, changed, "should not change anything on dry run")
	testutils.AssertFileDoesNotExist(t, destination)
}

func TestConfigGenerator_CustomTemplate(t *testing.T) {
	templatePath, err := filepath.Abs("testdata/custom.conf.tmpl")
	require.NoError(t, err)

	cfg := testutils.NewTestConfig(t).WithGeneral(&config.GeneralSection{
		Template:    utils.StringPtr(templatePath),
		Destination: utils.StringPtr(filepath.Join(t.TempDir(), "monitors.conf")),
	}).Get()
	generator := generators.NewConfigGenerator(cfg)

	rendered, err := generator.Render(lidClosedLayout(t), device.State{Laptop: true, LidClosed: true})
	require.NoError(t, err)
	assert.Equal(t, "# eDP-1 is off\nmonitor = DP-1,2560x1440@143.97,0x0,1\nlid=closed\n", string(rendered))

	rendered, err = generator.Render(extendedLayout(t), device.State{Laptop: true})
	require.NoError(t, err)
	assert.Equal(t,
		"monitor = eDP-1,1920x1080@60,0x0,1\nmonitor = DP-1,2560x1440@143.97,1920x0,1\nlid=open\n",
		string(rendered))
}

func TestConfigGenerator_Errors(t *testing.T) {
	cfg := testutils.NewTestConfig(t).Get()
	generator := generators.NewConfigGenerator(cfg)

	_, err := generator.Render(nil, device.State{})
	assert.ErrorIs(t, err, layout.ErrNilConfig)

	brokenTemplate := filepath.Join(t.TempDir(), "broken.tmpl")
	require.NoError(t, os.WriteFile(brokenTemplate, []byte("{{ range }"), 0o600))
	broken := testutils.NewTestConfig(t).WithGeneral(&config.GeneralSection{
		Template: utils.StringPtr(brokenTemplate),
	}).Get()

	_, err = generators.NewConfigGenerator(broken).Render(extendedLayout(t), device.State{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")
}

package cmd

import (
	"github.com/fiffeek/hyprautolayout/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// oneshotFlags are shared by the commands computing a single layout.
type oneshotFlags struct {
	snapshotPath         string
	hyprMonitorsOverride string
	laptop               bool
	lidClosed            bool
	docked               bool
	output               string
	write                bool
	dryRun               bool
}

func (f *oneshotFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.snapshotPath, "snapshot", "",
		"Read the current outputs from a layout snapshot (json) instead of Hyprland")
	flags.StringVar(&f.hyprMonitorsOverride, "hypr-monitors-override", "",
		"Read the current outputs from a hyprctl monitors all -j dump instead of Hyprland")
	flags.BoolVar(&f.laptop, "laptop", true, "Treat the device as a laptop, detected when not passed")
	flags.BoolVar(&f.lidClosed, "lid-closed", false, "Treat the lid as closed, taken from the config when not passed")
	flags.BoolVar(&f.docked, "docked", false, "Treat the device as docked, taken from the config when not passed")
	flags.StringVar(&f.output, "output", "hypr", "Output format, one of hypr or json")
	flags.BoolVar(&f.write, "write", false, "Write the layout to the configured destination")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Show what would be written without making changes")
}

func changedBool(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func (f *oneshotFlags) options(cmd *cobra.Command) (app.OneshotOptions, error) {
	format, err := app.ParseOutputFormat(f.output)
	if err != nil {
		return app.OneshotOptions{}, err
	}
	return app.OneshotOptions{
		ConfigPath: configPath,
		Source: app.SourceOptions{
			SnapshotPath:         f.snapshotPath,
			HyprMonitorsOverride: f.hyprMonitorsOverride,
		},
		State: app.StateOverrides{
			Laptop:    changedBool(cmd, "laptop", f.laptop),
			LidClosed: changedBool(cmd, "lid-closed", f.lidClosed),
			Docked:    changedBool(cmd, "docked", f.docked),
		},
		Format: format,
		Write:  f.write,
		DryRun: f.dryRun,
	}, nil
}

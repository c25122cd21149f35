package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/app"
	"github.com/spf13/cobra"
)

var (
	snapshotOutputFile           string
	snapshotOverwrite            bool
	snapshotHyprMonitorsOverride string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save the connected outputs as a layout snapshot",
	Long: `Capture the outputs Hyprland currently reports and save them as a json layout snapshot.

The snapshot can be passed to generate and switch with --snapshot, which makes it easy to
check what a layout would look like on a setup that is not plugged in right now.

Example:
  hyprautolayout snapshot --output-file ~/.config/hyprautolayout/snapshots/desk.json
  hyprautolayout generate --snapshot ~/.config/hyprautolayout/snapshots/desk.json --lid-closed`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotOutputFile == "" {
			return errors.New("output-file can't be empty")
		}

		ctx, cancel := context.WithCancelCause(context.Background())
		defer cancel(context.Canceled)

		if _, err := app.SaveSnapshot(ctx, configPath, snapshotHyprMonitorsOverride,
			snapshotOutputFile, snapshotOverwrite); err != nil {
			return fmt.Errorf("cant snapshot the current outputs: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(
		&snapshotOutputFile,
		"output-file",
		"",
		"Where to save the snapshot",
	)
	snapshotCmd.Flags().BoolVar(&snapshotOverwrite, "overwrite", false, "Replace an existing snapshot")
	snapshotCmd.Flags().StringVar(
		&snapshotHyprMonitorsOverride,
		"hypr-monitors-override",
		"",
		"Read the outputs from a hyprctl monitors all -j dump instead of Hyprland",
	)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/app"
	"github.com/spf13/cobra"
)

var generateFlags = &oneshotFlags{}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the ideal layout for the connected outputs",
	Long: `Compute the layout the service would apply for the connected outputs and the device state,
and print it as Hyprland monitor rules or as a json snapshot.

The outputs are read from Hyprland unless --snapshot or --hypr-monitors-override is given. The
device state can be forced with --laptop, --lid-closed and --docked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := generateFlags.options(cmd)
		if err != nil {
			return err
		}

		oneshot, err := app.NewOneshot(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("cant prepare the layout: %w", err)
		}

		result, err := oneshot.Generate()
		if err != nil {
			return fmt.Errorf("cant generate the layout: %w", err)
		}

		return oneshot.Emit(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateFlags.register(generateCmd.Flags())
}

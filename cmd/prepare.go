package cmd

import (
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/prepare"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var prepareDryRun bool

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean up the generated monitor rules before Hyprland starts",
	Long: `Removes every 'monitor=...,disable' line from the destination file.

A layout generated with the lid closed disables the embedded output. If the
external output is unplugged before the next login, Hyprland would start with no
active output at all. Run this before Hyprland starts, for example from a systemd
ExecStartPre, to make sure every output comes up enabled.

Example:
  hyprautolayout prepare`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logrus.WithField("version", Version).Debug("Preparing the destination")

		cfg, err := config.LoadOrCreate(configPath)
		if err != nil {
			return fmt.Errorf("cant get config: %w", err)
		}

		removed, err := prepare.NewService(cfg).TruncateDestination(prepareDryRun)
		if err != nil {
			return fmt.Errorf("cant prepare environment prior to the run: %w", err)
		}

		logrus.WithField("removed", removed).Info("Destination prepared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareCmd.Flags().BoolVar(&prepareDryRun, "dry-run", false, "Show what would be removed without making changes")
}

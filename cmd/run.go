package cmd

import (
	"context"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type runOptions struct {
	once                 bool
	dryRun               bool
	disableAutoHotReload bool
	sessionBus           bool
	lidEvents            bool
	dockEvents           bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the layout service",
	Long: `Run the hyprautolayout service. It follows monitor hotplug events from Hyprland and lid/dock
changes from D-Bus, and regenerates the monitor configuration on every change.

Signals: SIGUSR1 regenerates the layout, SIGHUP reloads the configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logrus.WithField("version", Version).Debug("Starting hyprautolayout")
		ctx, cancel := context.WithCancelCause(context.Background())
		defer cancel(context.Canceled)

		application, err := app.NewApplication(ctx, cancel, configPath, runOpts.dryRun, app.EventFlags{
			EnableLidEvents:      runOpts.lidEvents,
			LidEventsChanged:     cmd.Flags().Changed("enable-lid-events"),
			EnableDockEvents:     runOpts.dockEvents,
			DockEventsChanged:    cmd.Flags().Changed("enable-dock-events"),
			ConnectToSessionBus:  runOpts.sessionBus,
			DisableAutoHotReload: runOpts.disableAutoHotReload,
		})
		if err != nil {
			return fmt.Errorf("cant create application: %w", err)
		}

		if !runOpts.once {
			return application.Run(ctx)
		}
		if err := application.RunOnce(ctx); err != nil {
			return fmt.Errorf("error while running: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	flags := runCmd.Flags()
	flags.BoolVar(&runOpts.dryRun, "dry-run", false, "Show what would be done without making changes")
	flags.BoolVar(&runOpts.once, "run-once", false, "Generate the layout once and exit")
	flags.BoolVar(&runOpts.sessionBus, "connect-to-session-bus", false,
		"Connect to the session bus instead of the system bus for lid and dock events")
	flags.BoolVar(&runOpts.disableAutoHotReload, "disable-auto-hot-reload", false,
		"Do not watch the configuration and template for changes")
	flags.BoolVar(&runOpts.lidEvents, "enable-lid-events", true,
		"Listen to D-Bus lid events, defaults to the lid_events section of the config")
	flags.BoolVar(&runOpts.dockEvents, "enable-dock-events", true,
		"Listen to D-Bus dock events, defaults to the dock_events section of the config")
}

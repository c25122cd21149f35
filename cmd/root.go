// Package cmd provides the entry point for the hyprautolayout application.
// It arranges Hyprland monitors based on the connected outputs and the lid and
// dock state of the device.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/fiffeek/hyprautolayout/internal/errs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	Version    = "dev"
	Commit     = "none"
	BuildDate  = "unknown"
	BinaryName = "hyprautolayout"
)

const dbusHint = `Lid events need UPower and dock events need systemd-logind to be reachable over D-Bus.
Start the services, or disable the events with --enable-lid-events=false --enable-dock-events=false
(or lid_events.disabled / dock_events.disabled in the config) if you do not expect to use them.`

var (
	debug                bool
	verbose              bool
	enableJSONLogsFormat bool
	configPath           string
)

var rootCmd = &cobra.Command{
	Use:   BinaryName,
	Short: "Automatically arrange Hyprland monitors",
	Long: `hyprautolayout generates the Hyprland monitor layout from the connected outputs,
the lid state and the dock state, and lets you switch displays interactively.

Without a subcommand it starts the layout service, same as "run".`,
	Version:          fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
	PersistentPreRun: setupLogger,
	SilenceErrors:    true,
	SilenceUsage:     true,
}

func Execute() {
	if defaultsToRun(os.Args[1:]) {
		rootCmd.SetArgs(append([]string{runCmd.Use}, os.Args[1:]...))
	}
	exit(rootCmd.Execute())
}

// defaultsToRun is true when args name no subcommand and ask for neither help
// nor the version.
func defaultsToRun(args []string) bool {
	cmd, _, err := rootCmd.Find(args)
	if err != nil || cmd != rootCmd {
		return false
	}
	if slices.Contains(args, "--version") || slices.Contains(args, "-v") {
		return false
	}
	return !errors.Is(cmd.Flags().Parse(args), pflag.ErrHelp)
}

func exit(err error) {
	switch {
	case err == nil:
		logrus.Debug("Exiting...")
	case errors.Is(err, context.Canceled):
		logrus.WithError(err).Info("Context cancelled, exiting")
	case errors.Is(err, errs.ErrDbusMisconfigured):
		logrus.Warn(dbusHint)
		logrus.WithError(err).Fatal("Are UPower and logind running?")
	default:
		logrus.WithError(err).Fatal("Service failed")
	}
}

func setupLogger(*cobra.Command, []string) {
	level := logrus.InfoLevel
	if debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(verbose)
	logrus.SetOutput(os.Stderr)

	if enableJSONLogsFormat {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:  time.RFC3339Nano,
		FullTimestamp:    true,
		ForceQuote:       true,
		CallerPrettyfier: shortCaller,
	})
}

func shortCaller(f *runtime.Frame) (string, string) {
	return filepath.Base(f.Function), fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&verbose, "verbose", false, "Report the caller of every log line")
	flags.StringVar(&configPath, "config", "$HOME/.config/hyprautolayout/config.toml", "Path to configuration file")
	flags.BoolVar(&enableJSONLogsFormat, "enable-json-logs-format", false, "Log in JSON")
}

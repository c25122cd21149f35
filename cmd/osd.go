package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fiffeek/hyprautolayout/internal/app"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	mockedHyprMonitors string
	runningUnderTest   bool
	osdDryRun          bool
)

var osdCmd = &cobra.Command{
	Use:   "osd",
	Short: "Launch the display switch OSD",
	Long: `Launch a terminal OSD that cycles through the display switch actions with a live preview
of the resulting layout. Enter applies the selected action and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			f, err := tea.LogToFile("debug.log", "debug")
			if err != nil {
				fmt.Println("fatal:", err)
				os.Exit(1)
			}
			logrus.SetOutput(f)
			defer f.Close()
		} else {
			// disable logging completely for the osd unless run in the debug mode
			logrus.SetLevel(logrus.PanicLevel)
		}

		if runningUnderTest {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		ctx, cancel := context.WithCancelCause(context.Background())
		defer cancel(context.Canceled)

		app, err := app.NewTUI(ctx, configPath, mockedHyprMonitors, Version, osdDryRun, runningUnderTest)
		if err != nil {
			return fmt.Errorf("cant init osd: %w", err)
		}

		return app.Run(ctx, cancel)
	},
}

func init() {
	rootCmd.AddCommand(osdCmd)

	osdCmd.Flags().StringVar(
		&mockedHyprMonitors,
		"hypr-monitors-override",
		"",
		"When used it will read the monitors from this hyprctl monitors -j dump instead of Hyprland",
	)
	osdCmd.Flags().BoolVar(&osdDryRun, "dry-run", false, "Show what would be done without making changes")
	osdCmd.Flags().BoolVar(&runningUnderTest, "running-under-test", false,
		"Use test settings such as no styling etc.")
}

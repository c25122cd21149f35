package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/detectors"
	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/filewatcher"
	"github.com/fiffeek/hyprautolayout/internal/generators"
	"github.com/fiffeek/hyprautolayout/internal/notifications"
	"github.com/fiffeek/hyprautolayout/internal/power"
	"github.com/fiffeek/hyprautolayout/internal/service"
	"github.com/fiffeek/hyprautolayout/internal/tui"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type TUI struct {
	program   *tea.Program
	fswatcher *filewatcher.Service
	cfg       *config.Config
}

// NewTUI prepares the display switch OSD. The OSD works on the monitors
// known at startup, mockedHyprMonitors replaces them with a dump.
func NewTUI(ctx context.Context, configPath, mockedHyprMonitors, version string,
	dryRun, runningUnderTest bool,
) (*TUI, error) {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		logrus.WithError(err).Error("cant create/read config")
		return nil, fmt.Errorf("cant create/read config: %w", err)
	}

	monitors, err := loadMonitors(ctx, mockedHyprMonitors)
	if err != nil {
		return nil, err
	}
	monitorDetector := detectors.NewMonitorDetector(nil, monitors)

	// the OSD never listens to device events, the detectors only satisfy the service
	lidDetector, dockDetector, err := newDeviceDetectors(ctx, cfg, false, false, false)
	if err != nil {
		return nil, err
	}

	svc := service.NewService(cfg, monitorDetector, lidDetector, dockDetector,
		device.NewDevice(cfg, nil, nil), &service.Config{DryRun: dryRun},
		generators.NewConfigGenerator(cfg), notifications.NewService(cfg))

	model := tui.NewModel(ctx, svc, version)

	options := []tea.ProgramOption{}
	if !runningUnderTest {
		options = append(options, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, options...)

	return &TUI{
		program:   program,
		fswatcher: filewatcher.NewService(cfg, false),
		cfg:       cfg,
	}, nil
}

func (t *TUI) Run(ctx context.Context, cancel context.CancelCauseFunc) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return t.fswatcher.Run(ctx)
	})

	eg.Go(func() error {
		c := t.fswatcher.Listen()
		for {
			select {
			case change, ok := <-c:
				if !ok {
					return errors.New("watcher event channel closed")
				}
				logrus.WithField("paths", change.Paths).Debug("Configuration files changed")
				if err := t.cfg.Reload(); err != nil {
					logrus.WithError(err).Error("cant reload configuration, keeping the previous one")
					continue
				}
				t.program.Send(tui.ConfigReloaded{})

			case <-ctx.Done():
				return context.Cause(ctx)
			}
		}
	})

	eg.Go(func() error {
		if _, err := t.program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		cancel(context.Canceled)
		logrus.Debug("Exiting tea")
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		logrus.Debug("Context cancelled, shutting down")
		return context.Cause(ctx)
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("main eg failed: %w", err)
	}

	logrus.Info("Shutdown complete")
	return nil
}

var _ tui.Switcher = (*service.Service)(nil)

var (
	_ service.ILidDetector  = (*power.LidStateDetector)(nil)
	_ service.IDockDetector = (*power.DockStateDetector)(nil)
)

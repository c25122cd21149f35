// Package app provides an application runner.
package app

import (
	"context"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/detectors"
	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/filewatcher"
	"github.com/fiffeek/hyprautolayout/internal/generators"
	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/notifications"
	"github.com/fiffeek/hyprautolayout/internal/power"
	"github.com/fiffeek/hyprautolayout/internal/reloader"
	"github.com/fiffeek/hyprautolayout/internal/service"
	"github.com/fiffeek/hyprautolayout/internal/signal"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Application struct {
	cfg             *config.Config
	monitorDetector *detectors.MonitorDetector
	fswatcher       *filewatcher.Service
	lidDetector     *power.LidStateDetector
	dockDetector    *power.DockStateDetector
	svc             *service.Service
	reloader        *reloader.Service
	signal          *signal.Handler
}

func NewApplication(ctx context.Context, cancel context.CancelCauseFunc,
	configPath string, dryRun bool, flags EventFlags,
) (*Application, error) {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	hyprIPC, err := hypr.NewIPC(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Hyprland IPC: %w", err)
	}
	monitorDetector := detectors.NewMonitorDetector(hyprIPC, nil)

	enableLid, enableDock := resolveEventFlags(flags, cfg)
	lidDetector, dockDetector, err := newDeviceDetectors(ctx, cfg, enableLid, enableDock, flags.ConnectToSessionBus)
	if err != nil {
		return nil, err
	}

	dev := device.NewDevice(cfg, lidDetector, dockDetector)
	generator := generators.NewConfigGenerator(cfg)
	notifications := notifications.NewService(cfg)

	svc := service.NewService(cfg, monitorDetector, lidDetector, dockDetector, dev, &service.Config{
		DryRun: dryRun,
	}, generator, notifications)

	fswatcher := filewatcher.NewService(cfg, flags.DisableAutoHotReload)
	reloader := reloader.NewService(cfg, fswatcher,
		[]reloader.IDetector{lidDetector, dockDetector}, svc, flags.DisableAutoHotReload)

	return &Application{
		cfg:             cfg,
		monitorDetector: monitorDetector,
		fswatcher:       fswatcher,
		lidDetector:     lidDetector,
		dockDetector:    dockDetector,
		svc:             svc,
		reloader:        reloader,
		signal:          signal.NewHandler(ctx, cancel),
	}, nil
}

func (a *Application) RunOnce(ctx context.Context) error {
	logrus.Info("Will run one layout update")
	if err := a.svc.RunOnce(ctx); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	logrus.Info("Run succeeded, exiting")
	return nil
}

func (a *Application) Run(ctx context.Context) error {
	a.signal.Start(a.svc, a.reloader)
	defer a.signal.Stop()

	eg, ctx := errgroup.WithContext(ctx)

	backgroundGoroutines := []struct {
		Fun  func(context.Context) error
		Name string
	}{
		{Fun: a.fswatcher.Run, Name: "filewatcher"},
		{Fun: a.monitorDetector.Run, Name: "hypr monitor detector"},
		{Fun: a.lidDetector.Run, Name: "lid detector dbus"},
		{Fun: a.dockDetector.Run, Name: "dock detector dbus"},
		{Fun: a.reloader.Run, Name: "reloader"},
		{Fun: a.svc.Run, Name: "layout service"},
	}
	for _, bg := range backgroundGoroutines {
		eg.Go(func() error {
			fields := logrus.Fields{"name": bg.Name, "fun": utils.GetFunctionName(bg.Fun)}
			logrus.WithFields(fields).Debug("Starting")
			if err := bg.Fun(ctx); err != nil {
				logrus.WithFields(fields).WithError(err).Errorf("Service failed %s", bg.Name)
				return fmt.Errorf("%s failed: %w", bg.Name, err)
			}
			logrus.WithFields(fields).Debug("Finished")
			return nil
		})
	}

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

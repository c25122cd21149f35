// Package service keeps the Hyprland monitor configuration in line with the
// connected outputs and the device state.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/generator"
	"github.com/fiffeek/hyprautolayout/internal/generators"
	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/notifications"
	"github.com/fiffeek/hyprautolayout/internal/power"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type IMonitorDetector interface {
	Listen() <-chan hypr.MonitorSpecs
	GetConnected() hypr.MonitorSpecs
}

type ILidDetector interface {
	Listen() <-chan power.LidEvent
}

type IDockDetector interface {
	Listen() <-chan power.DockEvent
}

type Service struct {
	config               *config.Config
	monitorDetector      IMonitorDetector
	lidDetector          ILidDetector
	dockDetector         IDockDetector
	device               generator.StateProvider
	serviceConfig        *Config
	configGenerator      *generators.ConfigGenerator
	notificationsService *notifications.Service

	stateMu        sync.RWMutex
	cachedMonitors hypr.MonitorSpecs
	debouncer      *utils.Debouncer
}

type Config struct {
	DryRun bool
}

func NewService(cfg *config.Config, monitorDetector IMonitorDetector, lidDetector ILidDetector,
	dockDetector IDockDetector, dev generator.StateProvider, svcCfg *Config,
	configGenerator *generators.ConfigGenerator, notifications *notifications.Service,
) *Service {
	return &Service{
		config:               cfg,
		monitorDetector:      monitorDetector,
		lidDetector:          lidDetector,
		dockDetector:         dockDetector,
		device:               dev,
		serviceConfig:        svcCfg,
		configGenerator:      configGenerator,
		notificationsService: notifications,
		debouncer:            utils.NewDebouncer(),
	}
}

func (s *Service) debounceDelay() time.Duration {
	return time.Duration(*s.config.Get().General.DebounceTimeMs) * time.Millisecond
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.RunOnce(ctx); err != nil {
		return fmt.Errorf("unable to update configuration on start: %w", err)
	}

	monitorEventsChannel := s.monitorDetector.Listen()
	lidEventsChannel := s.lidDetector.Listen()
	dockEventsChannel := s.dockDetector.Listen()
	logrus.Info("Listening for monitor, lid and dock events...")

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()
		s.debouncer.Cancel()
		logrus.Debug("Context cancelled for service, shutting down")
		return context.Cause(ctx)
	})

	eg.Go(func() error {
		logrus.Debug("Running debouncer for the layout service")
		if err := s.debouncer.Run(ctx); err != nil {
			return fmt.Errorf("debouncer failed: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		for {
			select {
			case monitors, ok := <-monitorEventsChannel:
				if !ok {
					return errors.New("monitor events channel closed")
				}
				logrus.WithField("monitor_count", len(monitors)).Debug("Monitor event received")
				s.stateMu.Lock()
				s.cachedMonitors = monitors
				s.stateMu.Unlock()
				s.debouncer.Do(ctx, s.debounceDelay(), s.debounceUpdate)
			case lidEvent, ok := <-lidEventsChannel:
				if !ok {
					return errors.New("lid events channel closed")
				}
				logrus.WithField("lid_state", lidEvent.State.String()).Debug("Lid event received")
				s.debouncer.Do(ctx, s.debounceDelay(), s.debounceUpdate)
			case dockEvent, ok := <-dockEventsChannel:
				if !ok {
					return errors.New("dock events channel closed")
				}
				logrus.WithField("dock_state", dockEvent.State.String()).Debug("Dock event received")
				s.debouncer.Do(ctx, s.debounceDelay(), s.debounceUpdate)
			case <-ctx.Done():
				logrus.Debug("Event processor context cancelled, shutting down")
				return context.Cause(ctx)
			}
		}
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("goroutines for service failed %w", err)
	}
	return nil
}

func (s *Service) refreshMonitors() {
	monitors := s.monitorDetector.GetConnected()

	s.stateMu.Lock()
	s.cachedMonitors = monitors
	s.stateMu.Unlock()
}

// RunOnce refreshes the cached monitors and regenerates the layout.
func (s *Service) RunOnce(ctx context.Context) error {
	s.refreshMonitors()
	if err := s.UpdateOnce(ctx); err != nil {
		return fmt.Errorf("unable to update configuration: %w", err)
	}

	return nil
}

func (s *Service) debounceUpdate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	default:
		return s.UpdateOnce(ctx)
	}
}

func (s *Service) currentLayout(cfg *config.UnsafeConfig) (*layout.Config, error) {
	s.stateMu.RLock()
	monitors := s.cachedMonitors
	s.stateMu.RUnlock()

	maxScreenSize := layout.Size{Width: *cfg.General.MaxScreenWidth, Height: *cfg.General.MaxScreenHeight}
	current, err := hypr.ToLayoutConfig(monitors, maxScreenSize)
	if err != nil {
		return nil, fmt.Errorf("cant convert monitors: %w", err)
	}
	return current, nil
}

func notApplicable(err error) bool {
	return errors.Is(err, layout.ErrNotApplicable) || errors.Is(err, layout.ErrMissingModes)
}

// UpdateOnce generates the ideal layout for the cached monitors and writes it
// out. A layout that cannot be generated keeps the previous configuration.
func (s *Service) UpdateOnce(ctx context.Context) error {
	// grab latest config and state and pass along for the same world-view
	cfg := s.config.Get()
	state := s.device.State()

	current, err := s.currentLayout(cfg)
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"monitor_count": current.Len(),
		"laptop":        state.Laptop,
		"lid_closed":    state.LidClosed,
		"docked":        state.Docked,
		"dry_run":       s.serviceConfig.DryRun,
	}
	logrus.WithFields(fields).Debug("Updating configuration")

	if current.Len() == 0 {
		logrus.WithFields(utils.WithLogID(fields, utils.LayoutNotApplicableLogID)).
			Info("No monitors known yet, keeping the previous configuration")
		return nil
	}

	ideal, err := generator.NewGenerator(state).IdealConfig(current)
	if notApplicable(err) {
		logrus.WithFields(utils.WithLogID(fields, utils.LayoutNotApplicableLogID)).
			WithError(err).Info("No layout for the current outputs, keeping the previous one")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to generate a layout: %w", err)
	}

	return s.apply(ctx, cfg, ideal, state)
}

// Preview computes what action would do to the connected outputs without
// applying it.
func (s *Service) Preview(action generator.Action) (*layout.Config, error) {
	s.refreshMonitors()
	cfg := s.config.Get()
	current, err := s.currentLayout(cfg)
	if err != nil {
		return nil, err
	}
	result, err := generator.NewGenerator(s.device.State()).DisplaySwitch(action, current)
	if err != nil {
		return nil, fmt.Errorf("cant compute %s: %w", action.Value(), err)
	}
	return result, nil
}

// ApplyAction switches the displays the way the user asked for.
func (s *Service) ApplyAction(ctx context.Context, action generator.Action) error {
	result, err := s.Preview(action)
	if err != nil {
		return err
	}
	return s.apply(ctx, s.config.Get(), result, s.device.State())
}

func (s *Service) apply(ctx context.Context, cfg *config.UnsafeConfig, result *layout.Config, state device.State) error {
	fields := logrus.Fields{
		"origin":  result.Origin.Value(),
		"enabled": len(result.EnabledOutputs()),
	}

	destination := *cfg.General.Destination
	changed, err := s.configGenerator.GenerateConfig(result, state, destination, s.serviceConfig.DryRun)
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	// if not changed and not running in dry run then exit early
	if !changed && !s.serviceConfig.DryRun {
		logrus.WithFields(utils.WithLogID(fields, utils.LayoutUnchangedLogID)).
			Info("Layout unchanged, not running hooks")
		return nil
	}

	logrus.WithFields(utils.WithLogID(fields, utils.LayoutAppliedLogID)).
		Info("Layout applied")

	s.tryExec(ctx, cfg.General.PostApplyExec)

	if err := s.notificationsService.NotifyLayoutApplied(result, s.serviceConfig.DryRun); err != nil {
		logrus.WithFields(fields).WithError(err).Error("swallowing notification error")
	}

	return nil
}

func (s *Service) tryExec(ctx context.Context, command *string) {
	if command == nil || *command == "" {
		return
	}
	// if running with dry run then just output the commands
	if s.serviceConfig.DryRun {
		logrus.WithFields(utils.WithLogID(logrus.Fields{
			"command": *command,
		}, utils.DryRunExecLogID)).Info("[DRY RUN] Would run command")
		return
	}

	logrus.WithFields(
		utils.WithLogID(logrus.Fields{"command": *command}, utils.PostExecLogID)).
		Info("Executing user callback")
	if out, err := utils.RunShell(ctx, *command); err != nil {
		logrus.WithError(err).WithField("output", out).Errorf("error while executing %s, continuing as normal", *command)
	}
}

// Package reloader applies configuration changes to the running daemon.
package reloader

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/filewatcher"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type IDetector interface {
	Reload(context.Context) error
}

type IService interface {
	UpdateOnce(context.Context) error
}

type IFilewatcher interface {
	Update() error
	Listen() <-chan filewatcher.Change
}

type Service struct {
	cfg         *config.Config
	filewatcher IFilewatcher
	detectors   []IDetector
	service     IService
	disabled    bool
}

func NewService(cfg *config.Config, filewatcher IFilewatcher, detectors []IDetector,
	service IService, disableAutoHotReload bool,
) *Service {
	return &Service{
		cfg:         cfg,
		filewatcher: filewatcher,
		detectors:   detectors,
		service:     service,
		disabled:    disableAutoHotReload,
	}
}

type step struct {
	name string
	err  string
	run  func(context.Context) error
}

// Reload re-reads the configuration and pushes it to every component. The
// layout is regenerated last so it sees the fresh device state.
func (s *Service) Reload(ctx context.Context) error {
	steps := []step{
		{name: "config", err: "cant reload configuration", run: func(context.Context) error { return s.cfg.Reload() }},
		{name: "filewatcher", err: "cant update filewatcher", run: func(context.Context) error { return s.filewatcher.Update() }},
		{name: "detectors", err: "cant reload detectors", run: s.reloadDetectors},
		{name: "layout", err: "cant update layout service", run: s.service.UpdateOnce},
	}

	for _, step := range steps {
		logrus.WithField("step", step.name).Debug("Reloading")
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.err, err)
		}
	}
	return nil
}

func (s *Service) reloadDetectors(ctx context.Context) error {
	for _, detector := range s.detectors {
		if err := detector.Reload(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if s.disabled {
		logrus.Info("Hot reload disabled, configuration changes need a SIGHUP")
		<-ctx.Done()
		return context.Cause(ctx)
	}

	eg, ctx := errgroup.WithContext(ctx)
	changes := s.filewatcher.Listen()
	eg.Go(func() error {
		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return errors.New("watcher event channel closed")
				}
				logrus.WithField("paths", change.Paths).Info("Configuration files changed, reloading")
				if err := s.Reload(ctx); err != nil {
					return fmt.Errorf("cant reload configuration: %w", err)
				}
			case <-ctx.Done():
				return context.Cause(ctx)
			}
		}
	})
	return eg.Wait()
}

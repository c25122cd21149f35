// Package filewatcher reports changes to the configuration and template
// directories once a burst of file events settles.
package filewatcher

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Change lists the files touched since the previous Change.
type Change struct {
	Paths []string
}

type Service struct {
	cfg       *config.Config
	disabled  bool
	debouncer *utils.Debouncer
	changes   chan Change

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dirs    map[string]struct{}
	pending map[string]struct{}
}

func NewService(cfg *config.Config, disableAutoHotReload bool) *Service {
	return &Service{
		cfg:       cfg,
		disabled:  disableAutoHotReload,
		debouncer: utils.NewDebouncer(),
		changes:   make(chan Change, 1),
		dirs:      make(map[string]struct{}),
		pending:   make(map[string]struct{}),
	}
}

// Update aligns the watched directories with the current configuration.
func (s *Service) Update() error {
	if s.disabled {
		logrus.Debug("Hot reload disabled, filewatcher not updated")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return errors.New("no watcher assigned")
	}

	wanted := s.cfg.Get().WatchedDirs()
	for dir := range s.dirs {
		if slices.Contains(wanted, dir) {
			continue
		}
		if err := s.watcher.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			return fmt.Errorf("cant remove %s from watcher: %w", dir, err)
		}
		delete(s.dirs, dir)
		logrus.WithField("path", dir).Debug("Stopped watching")
	}
	for _, dir := range wanted {
		if _, ok := s.dirs[dir]; ok {
			continue
		}
		if err := s.watcher.Add(dir); err != nil {
			return fmt.Errorf("cant add %s to watcher: %w", dir, err)
		}
		s.dirs[dir] = struct{}{}
		logrus.WithField("path", dir).Debug("Watching")
	}
	return nil
}

// WatchedPaths lists the directories currently watched.
func (s *Service) WatchedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.dirs))
}

func (s *Service) Listen() <-chan Change {
	return s.changes
}

func (s *Service) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-ctx.Done()
		return context.Cause(ctx)
	})

	if s.disabled {
		logrus.Info("Hot reload disabled, not watching files")
		return eg.Wait()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cant create watcher: %w", err)
	}
	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	eg.Go(func() error {
		return s.debouncer.Run(ctx)
	})
	eg.Go(func() error {
		<-ctx.Done()
		s.debouncer.Cancel()
		if err := watcher.Close(); err != nil {
			logrus.WithError(err).Error("Cant close watcher on exit")
		}
		return context.Cause(ctx)
	})
	eg.Go(func() error {
		return s.watch(ctx, watcher)
	})

	if err := s.Update(); err != nil {
		return fmt.Errorf("cant initialize watcher: %w", err)
	}
	return eg.Wait()
}

func (s *Service) watch(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher channel is closed")
			}
			s.record(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher error channel is closed")
			}
			if err != nil {
				return fmt.Errorf("watcher error received: %w", err)
			}
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}

func (s *Service) record(ctx context.Context, event fsnotify.Event) {
	fields := logrus.Fields{"name": event.Name, "operation": event.Op}
	if !s.relevant(event) {
		logrus.WithFields(fields).Debug("Ignoring filewatcher event")
		return
	}
	logrus.WithFields(fields).Debug("Received filewatcher event")

	s.mu.Lock()
	s.pending[filepath.Clean(event.Name)] = struct{}{}
	s.mu.Unlock()

	delay := time.Duration(*s.cfg.Get().HotReload.UpdateDebounceTimer) * time.Millisecond
	s.debouncer.Do(ctx, delay, s.flush)
}

// relevant drops permission-only events and writes to the generated file,
// which may live next to the template.
func (s *Service) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	destination := s.cfg.Get().General.Destination
	return destination == nil || !utils.WrittenBy(event.Name, *destination)
}

func (s *Service) flush(ctx context.Context) error {
	s.mu.Lock()
	change := Change{Paths: slices.Sorted(maps.Keys(s.pending))}
	clear(s.pending)
	s.mu.Unlock()

	logrus.WithField("paths", change.Paths).Debug("Sending file change")
	select {
	case s.changes <- change:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Package snapshot saves the connected outputs as a layout snapshot, which
// generate and switch can replay later without Hyprland running.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

var ErrSnapshotExists = errors.New("snapshot file already exists")

type MonitorSource interface {
	GetConnectedMonitors() hypr.MonitorSpecs
}

type Service struct {
	cfg    *config.Config
	source MonitorSource
}

func NewService(cfg *config.Config, source MonitorSource) *Service {
	return &Service{
		cfg:    cfg,
		source: source,
	}
}

// SaveCurrent writes the current outputs to path. An existing file is only
// replaced when overwrite is set.
func (s *Service) SaveCurrent(path string, overwrite bool) (*layout.Config, error) {
	monitors := s.source.GetConnectedMonitors()
	if err := monitors.Validate(); err != nil {
		return nil, fmt.Errorf("cant snapshot invalid monitors: %w", err)
	}

	general := s.cfg.Get().General
	current, err := hypr.ToLayoutConfig(monitors,
		layout.Size{Width: *general.MaxScreenWidth, Height: *general.MaxScreenHeight})
	if err != nil {
		return nil, fmt.Errorf("cant convert monitors: %w", err)
	}

	if err := s.validate(path, overwrite); err != nil {
		return nil, err
	}

	encoded, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cant encode snapshot: %w", err)
	}
	if err := utils.WriteAtomic(path, append(encoded, '\n')); err != nil {
		return nil, fmt.Errorf("cant write snapshot: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"outputs": current.Len(),
	}).Info("Snapshot saved")
	return current, nil
}

func (*Service) validate(path string, overwrite bool) error {
	if fi, _ := os.Stat(path); fi != nil {
		if fi.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		if !overwrite {
			return fmt.Errorf("%w: %s, pass --overwrite to replace it", ErrSnapshotExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("cant create directory: %w", err)
	}
	return nil
}

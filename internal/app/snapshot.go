package app

import (
	"context"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/snapshot"
)

type staticMonitors hypr.MonitorSpecs

func (s staticMonitors) GetConnectedMonitors() hypr.MonitorSpecs {
	return hypr.MonitorSpecs(s)
}

// SaveSnapshot stores the connected outputs under path so generate and switch
// can be replayed with --snapshot.
func SaveSnapshot(ctx context.Context, configPath, hyprMonitorsOverride, path string, overwrite bool,
) (*layout.Config, error) {
	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	monitors, err := loadMonitors(ctx, hyprMonitorsOverride)
	if err != nil {
		return nil, err
	}

	saved, err := snapshot.NewService(cfg, staticMonitors(monitors)).SaveCurrent(path, overwrite)
	if err != nil {
		return nil, fmt.Errorf("cant save the snapshot: %w", err)
	}
	return saved, nil
}

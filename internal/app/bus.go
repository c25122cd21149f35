package app

import (
	"context"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/power"
	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

func getBus(connectToSessionBus bool) (*dbus.Conn, error) {
	var conn *dbus.Conn
	var err error
	if connectToSessionBus {
		logrus.Debug("Trying to connect to session bus")
		conn, err = dbus.ConnectSessionBus()
	} else {
		logrus.Debug("Trying to connect to system bus")
		conn, err = dbus.ConnectSystemBus()
	}

	if err != nil {
		return nil, fmt.Errorf("cant init dbus conn: %w", err)
	}

	return conn, nil
}

// getBusIf only connects when the events are wanted, every detector owns its
// connection.
func getBusIf(enabled, connectToSessionBus bool) (*dbus.Conn, error) {
	if !enabled {
		return nil, nil
	}
	return getBus(connectToSessionBus)
}

func newDeviceDetectors(ctx context.Context, cfg *config.Config, enableLid, enableDock, connectToSessionBus bool,
) (*power.LidStateDetector, *power.DockStateDetector, error) {
	lidConn, err := getBusIf(enableLid, connectToSessionBus)
	if err != nil {
		return nil, nil, fmt.Errorf("cant connect to dbus: %w", err)
	}
	lidDetector, err := power.NewLidStateDetector(ctx, cfg, lidConn, enableLid)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LidDetector: %w", err)
	}

	dockConn, err := getBusIf(enableDock, connectToSessionBus)
	if err != nil {
		return nil, nil, fmt.Errorf("cant connect to dbus: %w", err)
	}
	dockDetector, err := power.NewDockStateDetector(ctx, cfg, dockConn, enableDock)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize DockDetector: %w", err)
	}

	return lidDetector, dockDetector, nil
}

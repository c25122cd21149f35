package app

import (
	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/sirupsen/logrus"
)

// EventFlags are the D-Bus related command line switches. The Changed fields
// tell whether the user passed the flag explicitly.
type EventFlags struct {
	EnableLidEvents      bool
	LidEventsChanged     bool
	EnableDockEvents     bool
	DockEventsChanged    bool
	ConnectToSessionBus  bool
	DisableAutoHotReload bool
}

// resolveEventFlags lets the config decide for every flag the user did not
// pass explicitly.
func resolveEventFlags(flags EventFlags, cfg *config.Config) (bool, bool) {
	enableLid := flags.EnableLidEvents
	if !flags.LidEventsChanged {
		enableLid = !*cfg.Get().LidEvents.Disabled
		logrus.WithField("enabled", enableLid).Debug("Lid events follow the config, pass --enable-lid-events to override")
	}

	enableDock := flags.EnableDockEvents
	if !flags.DockEventsChanged {
		enableDock = !*cfg.Get().DockEvents.Disabled
		logrus.WithField("enabled", enableDock).Debug("Dock events follow the config, pass --enable-dock-events to override")
	}

	return enableLid, enableDock
}

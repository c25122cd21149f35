// Package device answers the device state questions the layout generator
// asks: is this a laptop, is its lid closed and is it docked.
package device

import (
	"sync"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/sirupsen/logrus"
)

// State is an atomic snapshot of the device, taken once per layout pass.
type State struct {
	Laptop    bool
	LidClosed bool
	Docked    bool
}

// State returns the snapshot itself so a frozen state can stand in for a
// live device.
func (s State) State() State {
	return s
}

// Source is a live boolean device property, e.g. a closed lid.
type Source interface {
	Active() bool
}

type Device struct {
	cfg  *config.Config
	lid  Source
	dock Source

	detectOnce sync.Once
	detected   bool

	overridesMu    sync.RWMutex
	laptopOverride *bool
	lidOverride    *bool
	dockOverride   *bool
}

// NewDevice combines the configuration with live lid and dock sources, both
// of which can be nil when their events are not available.
func NewDevice(cfg *config.Config, lid, dock Source) *Device {
	return &Device{cfg: cfg, lid: lid, dock: dock}
}

func (d *Device) State() State {
	d.overridesMu.RLock()
	defer d.overridesMu.RUnlock()

	return State{
		Laptop:    d.isLaptop(),
		LidClosed: d.isLidClosed(),
		Docked:    d.isDocked(),
	}
}

func (d *Device) isLaptop() bool {
	if d.laptopOverride != nil {
		return *d.laptopOverride
	}
	switch *d.cfg.Get().Device.Chassis {
	case config.LaptopChassis:
		return true
	case config.DesktopChassis:
		return false
	default:
		return d.detectChassis()
	}
}

func (d *Device) detectChassis() bool {
	d.detectOnce.Do(func() {
		laptop, err := detectLaptop()
		if err != nil {
			logrus.WithError(err).Warn("Cant read DMI chassis type, assuming a laptop")
			laptop = true
		}
		d.detected = laptop
		logrus.WithFields(logrus.Fields{"laptop": laptop}).Debug("Detected chassis")
	})
	return d.detected
}

func (d *Device) isLidClosed() bool {
	if d.lidOverride != nil {
		return *d.lidOverride
	}
	if forced := d.cfg.Get().Device.ForceLidClosed; forced != nil {
		return *forced
	}
	if d.lid == nil {
		return false
	}
	return d.lid.Active()
}

func (d *Device) isDocked() bool {
	if d.dockOverride != nil {
		return *d.dockOverride
	}
	if forced := d.cfg.Get().Device.ForceDocked; forced != nil {
		return *forced
	}
	if d.dock == nil {
		return false
	}
	return d.dock.Active()
}

func (d *Device) ForceLaptop() {
	d.setOverride(&d.laptopOverride, true)
}

func (d *Device) ForceNotLaptop() {
	d.setOverride(&d.laptopOverride, false)
}

func (d *Device) ForceLidClosed(closed bool) {
	d.setOverride(&d.lidOverride, closed)
}

func (d *Device) ForceDocked(docked bool) {
	d.setOverride(&d.dockOverride, docked)
}

func (d *Device) ClearOverrides() {
	d.overridesMu.Lock()
	defer d.overridesMu.Unlock()
	d.laptopOverride = nil
	d.lidOverride = nil
	d.dockOverride = nil
}

func (d *Device) setOverride(target **bool, value bool) {
	d.overridesMu.Lock()
	defer d.overridesMu.Unlock()
	*target = &value
}

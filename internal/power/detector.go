package power

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/errs"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// property describes a boolean D-Bus property and the states it maps to.
type property[S state] struct {
	name     string
	active   S
	inactive S
	unknown  S
	section  func(*config.UnsafeConfig) *config.DbusEventsSection
}

var lidProperty = property[LidState]{
	name:     "lid",
	active:   ClosedLidState,
	inactive: OpenedLidState,
	unknown:  UnknownLidState,
	section:  func(c *config.UnsafeConfig) *config.DbusEventsSection { return c.LidEvents },
}

var dockProperty = property[DockState]{
	name:     "dock",
	active:   DockedState,
	inactive: UndockedState,
	unknown:  UnknownDockState,
	section:  func(c *config.UnsafeConfig) *config.DbusEventsSection { return c.DockEvents },
}

// Detector keeps the last known state of a D-Bus property and emits an event
// whenever a matching signal changes it.
type Detector[S state] struct {
	property property[S]
	enabled  bool
	cfg      *config.Config

	conn             *dbus.Conn
	events           chan Event[S]
	signals          chan *dbus.Signal
	stateMu          sync.RWMutex
	dbusMatchOptions [][]dbus.MatchOption

	current   S
	currentMu sync.RWMutex
}

type (
	LidStateDetector  = Detector[LidState]
	DockStateDetector = Detector[DockState]
)

func NewLidStateDetector(ctx context.Context, cfg *config.Config, conn *dbus.Conn, enabled bool) (*LidStateDetector, error) {
	return newDetector(ctx, lidProperty, cfg, conn, enabled)
}

func NewDockStateDetector(ctx context.Context, cfg *config.Config, conn *dbus.Conn, enabled bool) (*DockStateDetector, error) {
	return newDetector(ctx, dockProperty, cfg, conn, enabled)
}

func newDetector[S state](ctx context.Context, prop property[S], cfg *config.Config,
	conn *dbus.Conn, enabled bool,
) (*Detector[S], error) {
	detector := &Detector[S]{
		property: prop,
		enabled:  enabled && conn != nil && !*prop.section(cfg.Get()).Disabled,
		cfg:      cfg,
		conn:     conn,
		events:   make(chan Event[S], 10),
		signals:  make(chan *dbus.Signal, 10),
	}

	current, err := detector.getCurrentState(ctx)
	if err != nil {
		if conn != nil {
			_ = conn.Close()
		}
		//nolint:errorlint
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrDbusMisconfigured, prop.name, err)
	}
	detector.current = current

	logrus.WithFields(logrus.Fields{
		"detector": prop.name,
		"enabled":  detector.enabled,
		"state":    current.String(),
	}).Info("D-Bus detection initialized")

	return detector, nil
}

func (d *Detector[S]) GetCurrentState() S {
	d.currentMu.RLock()
	defer d.currentMu.RUnlock()
	return d.current
}

// Active reports whether the property is in its active state (lid closed,
// laptop docked).
func (d *Detector[S]) Active() bool {
	return d.GetCurrentState() == d.property.active
}

func (d *Detector[S]) Listen() <-chan Event[S] {
	return d.events
}

func (d *Detector[S]) section() *config.DbusEventsSection {
	return d.property.section(d.cfg.Get())
}

func (d *Detector[S]) shouldHandleSignal(sig *dbus.Signal) bool {
	for _, filter := range d.section().DbusSignalReceiveFilters {
		if filter.Name != nil && *filter.Name != sig.Name {
			logrus.WithFields(logrus.Fields{"filter": *filter.Name}).Debug("Filter not matching the name")
			continue
		}
		sigBody := utils.SignalBodyToString(sig.Body)
		if filter.Body != nil && !strings.Contains(sigBody, *filter.Body) {
			logrus.WithFields(logrus.Fields{"filter": *filter.Body}).Debug("Filter not matching the body")
			continue
		}
		logrus.Debug("Filter matching the signal")
		return true
	}
	return false
}

func (d *Detector[S]) createMatchRules() [][]dbus.MatchOption {
	rules := [][]dbus.MatchOption{}
	for _, rule := range d.section().DbusSignalMatchRules {
		matchRules := []dbus.MatchOption{}
		if rule.Interface != nil {
			matchRules = append(matchRules, dbus.WithMatchInterface(*rule.Interface))
		}
		if rule.Sender != nil {
			matchRules = append(matchRules, dbus.WithMatchSender(*rule.Sender))
		}
		if rule.Member != nil {
			matchRules = append(matchRules, dbus.WithMatchMember(*rule.Member))
		}
		if rule.ObjectPath != nil {
			matchRules = append(matchRules, dbus.WithMatchObjectPath(dbus.ObjectPath(*rule.ObjectPath)))
		}
		rules = append(rules, matchRules)
	}
	return rules
}

// Reload swaps the D-Bus match rules for the ones in the current config.
func (d *Detector[S]) Reload(ctx context.Context) error {
	fields := logrus.Fields{"detector": d.property.name}
	if !d.enabled {
		logrus.WithFields(fields).Debug("Events are disabled, not reloading match rules")
		return nil
	}

	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	rules := d.createMatchRules()
	if reflect.DeepEqual(rules, d.dbusMatchOptions) {
		logrus.WithFields(fields).Debug("Match rules unchanged, nothing to be done")
		return nil
	}

	for _, ruleSet := range d.dbusMatchOptions {
		if err := d.conn.RemoveMatchSignalContext(ctx, ruleSet...); err != nil {
			logrus.WithFields(fields).WithError(err).Debug("Failed to remove D-Bus match rule")
			return fmt.Errorf("cant remove signal rule for dbus: %w", err)
		}
	}

	for _, ruleSet := range rules {
		if err := d.conn.AddMatchSignalContext(ctx, ruleSet...); err != nil {
			logrus.WithFields(fields).WithError(err).Debug("Failed to add D-Bus match rule")
			return fmt.Errorf("cant add signal rule for dbus: %w", err)
		}
	}

	d.dbusMatchOptions = rules
	logrus.WithFields(fields).Debug("Reloaded detector")
	return nil
}

func (d *Detector[S]) getCurrentState(ctx context.Context) (S, error) {
	section := d.section()
	if !d.enabled {
		logrus.WithFields(logrus.Fields{
			"detector": d.property.name,
			"default":  d.property.inactive.String(),
		}).Debug("Events are disabled, returning the default value")
		return d.property.inactive, nil
	}

	query := section.DbusQueryObject
	obj := d.conn.Object(query.Destination, dbus.ObjectPath(query.Path))

	logrus.WithFields(logrus.Fields{
		"destination": query.Destination,
		"path":        query.Path,
		"method":      query.Method,
		"args":        query.CollectArgs(),
	}).Debug("About to make D-Bus method call")

	var value dbus.Variant
	err := obj.CallWithContext(ctx, query.Method, 0, query.CollectArgs()...).Store(&value)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"destination": query.Destination,
			"path":        query.Path,
			"method":      query.Method,
		}).Error("D-Bus method call failed")
		return d.property.unknown, fmt.Errorf("failed to get property from %s: %w", query.Destination, err)
	}

	reported := value.String()
	logrus.WithFields(logrus.Fields{
		"detector": d.property.name,
		"reported": reported,
		"expected": query.ExpectedValue,
	}).Debug("D-Bus property value")
	if reported == query.ExpectedValue {
		return d.property.active, nil
	}
	return d.property.inactive, nil
}

func (d *Detector[S]) Run(ctx context.Context) error {
	fields := logrus.Fields{"detector": d.property.name}
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()
		logrus.WithFields(fields).Debug("Detector context cancelled, closing D-Bus connection")
		if d.conn != nil {
			_ = d.conn.Close()
		}
		return context.Cause(ctx)
	})

	if !d.enabled {
		logrus.WithFields(fields).Info("Events are disabled, waiting for ctx cancellation")
		return eg.Wait()
	}

	if err := d.Reload(ctx); err != nil {
		return fmt.Errorf("cant reload: %w", err)
	}
	d.conn.Signal(d.signals)

	eg.Go(func() error {
		defer close(d.events)
		defer d.conn.RemoveSignal(d.signals)

		logrus.WithFields(fields).Debug("Detector started, listening for D-Bus signals")
		lastState := d.GetCurrentState()

		for {
			select {
			case signal, ok := <-d.signals:
				if !ok {
					return errors.New("dbus events channel closed")
				}
				logrus.WithFields(logrus.Fields{
					"signal_name": signal.Name,
					"signal_path": signal.Path,
					"signal_body": signal.Body,
				}).Debug("Received D-Bus signal")

				if !d.shouldHandleSignal(signal) {
					logrus.WithField("signal_name", signal.Name).Debug("Ignoring unknown signal")
					continue
				}

				currentState, err := d.getCurrentState(ctx)
				if err != nil {
					return fmt.Errorf("failed to get %s state after signal %s: %w", d.property.name, signal.Name, err)
				}

				d.currentMu.Lock()
				d.current = currentState
				d.currentMu.Unlock()

				if currentState == lastState {
					logrus.WithFields(fields).WithField("state", currentState.String()).Debug("State unchanged after signal")
					continue
				}

				logrus.WithFields(fields).WithFields(logrus.Fields{
					"from": lastState.String(),
					"to":   currentState.String(),
				}).Info("State changed")

				select {
				case d.events <- Event[S]{State: currentState}:
					lastState = currentState
				case <-ctx.Done():
					return context.Cause(ctx)
				}
			case <-ctx.Done():
				logrus.WithFields(fields).Debug("Detector context cancelled, shutting down")
				return context.Cause(ctx)
			}
		}
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("goroutines for %s detector failed %w", d.property.name, err)
	}
	return nil
}

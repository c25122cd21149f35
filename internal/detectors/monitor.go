// Package detectors keeps the connected monitor snapshot current.
package detectors

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fiffeek/hyprautolayout/internal/hypr"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MonitorSource is satisfied by the Hyprland IPC.
type MonitorSource interface {
	GetConnectedMonitors() hypr.MonitorSpecs
	Listen() <-chan hypr.MonitorSpecs
	RunEventLoop(ctx context.Context) error
}

type MonitorDetector struct {
	source    MonitorSource
	monitors  hypr.MonitorSpecs
	monitorMu sync.RWMutex
	updates   chan hypr.MonitorSpecs
}

// NewMonitorDetector follows hotplug events of source. A nil source gives a
// detector that only ever reports the monitors it was created with.
func NewMonitorDetector(source MonitorSource, static hypr.MonitorSpecs) *MonitorDetector {
	monitors := static
	if source != nil {
		monitors = source.GetConnectedMonitors()
	}
	return &MonitorDetector{
		source:   source,
		monitors: monitors,
		updates:  make(chan hypr.MonitorSpecs, 1),
	}
}

func (m *MonitorDetector) Listen() <-chan hypr.MonitorSpecs {
	return m.updates
}

func (m *MonitorDetector) GetConnected() hypr.MonitorSpecs {
	m.monitorMu.RLock()
	defer m.monitorMu.RUnlock()
	return m.monitors
}

func (m *MonitorDetector) Run(ctx context.Context) error {
	if m.source == nil {
		logrus.Debug("Static monitors, waiting for ctx cancellation")
		<-ctx.Done()
		return context.Cause(ctx)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return m.source.RunEventLoop(ctx)
	})

	eg.Go(func() error {
		defer close(m.updates)
		events := m.source.Listen()
		for {
			select {
			case monitors, ok := <-events:
				if !ok {
					if ctx.Err() != nil {
						return context.Cause(ctx)
					}
					return errors.New("monitor events channel closed")
				}

				m.monitorMu.Lock()
				m.monitors = monitors
				m.monitorMu.Unlock()

				logrus.WithFields(logrus.Fields{"monitors": len(monitors)}).Debug("Connected monitors changed")
				select {
				case m.updates <- monitors:
				case <-ctx.Done():
					return context.Cause(ctx)
				}
			case <-ctx.Done():
				return context.Cause(ctx)
			}
		}
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("monitor detector failed: %w", err)
	}
	return nil
}

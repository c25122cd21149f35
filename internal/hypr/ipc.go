// Package hypr provides Hyprland IPC communication functionality.
package hypr

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/fiffeek/hyprautolayout/internal/dial"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type IPC struct {
	instanceSignature string
	xdgRuntimeDir     string
	events            chan MonitorSpecs
	monitors          MonitorSpecs
	monitorsMu        sync.RWMutex
}

// NewIPC connects to the running Hyprland instance and fetches the monitors
// that are currently connected.
func NewIPC(ctx context.Context) (*IPC, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if signature == "" {
		return nil, errors.New("HYPRLAND_INSTANCE_SIGNATURE environment variable not set - are you running under Hyprland?")
	}

	xdgRuntimeDir, err := utils.GetXDGRuntimeDir()
	if err != nil {
		return nil, fmt.Errorf("cant get xdg runtime dir: %w", err)
	}

	ipc := &IPC{
		instanceSignature: signature,
		xdgRuntimeDir:     xdgRuntimeDir,
		events:            make(chan MonitorSpecs, 10),
	}

	monitors, err := ipc.QueryConnectedMonitors(ctx)
	if err != nil {
		return nil, fmt.Errorf("cant query connected monitors: %w", err)
	}
	ipc.monitors = monitors

	return ipc, nil
}

// Listen emits the full monitor list after every hotplug that changed it.
func (h *IPC) Listen() <-chan MonitorSpecs {
	return h.events
}

func (h *IPC) GetConnectedMonitors() MonitorSpecs {
	h.monitorsMu.RLock()
	defer h.monitorsMu.RUnlock()
	return h.monitors
}

// RunEventLoop follows the Hyprland event socket until ctx is done.
func (h *IPC) RunEventLoop(ctx context.Context) error {
	socketPath := GetHyprEventsSocket(h.xdgRuntimeDir, h.instanceSignature)
	conn, closeConn, err := dial.GetUnixSocketConnection(ctx, socketPath)
	if err != nil {
		return fmt.Errorf("cant open unix events socket connection to %s: %w", socketPath, err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		// unblocks the scanner
		<-ctx.Done()
		closeConn()
		return nil
	})
	eg.Go(func() error {
		defer close(h.events)
		return h.follow(ctx, bufio.NewScanner(conn))
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("goroutines for hypr ipc failed %w", err)
	}
	return nil
}

func (h *IPC) follow(ctx context.Context, scanner *bufio.Scanner) error {
	var lastSent MonitorSpecs
	for scanner.Scan() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		monitors, err := h.refresh(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if monitors == nil {
			continue
		}
		if lastSent != nil && reflect.DeepEqual(lastSent, monitors) {
			logrus.Debug("Monitors unchanged, not sending an update")
			continue
		}

		select {
		case h.events <- monitors:
			lastSent = monitors
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return fmt.Errorf("scanner error: %w", err)
	}
	logrus.Debug("Hypr IPC scanner finished")
	return nil
}

// refresh re-queries the monitors when line is a hotplug event, other lines
// yield nil.
func (h *IPC) refresh(ctx context.Context, line string) (MonitorSpecs, error) {
	event, err := extractHyprEvent(line)
	if err != nil {
		return nil, fmt.Errorf("scanner gave unknown event: %w", err)
	}
	if event == nil {
		return nil, nil
	}

	logrus.WithFields(logrus.Fields{
		"monitor": event.Monitor.Name,
		"event":   event.Type.Value(),
	}).Debug("Monitor event received, refreshing monitors")

	monitors, err := h.QueryConnectedMonitors(ctx)
	if err != nil {
		return nil, fmt.Errorf("cant refresh monitors after %s: %w", line, err)
	}
	h.monitorsMu.Lock()
	h.monitors = monitors
	h.monitorsMu.Unlock()
	return monitors, nil
}

func (h *IPC) QueryConnectedMonitors(ctx context.Context) (MonitorSpecs, error) {
	socketPath := GetHyprSocket(h.xdgRuntimeDir, h.instanceSignature)
	conn, teardown, err := dial.GetUnixSocketConnection(ctx, socketPath)
	if err != nil {
		return nil, fmt.Errorf("cant open socket to %s: %w", socketPath, err)
	}
	defer teardown()

	return dial.SyncQuerySocket[MonitorSpecs](conn, "j/monitors all")
}

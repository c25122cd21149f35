package hypr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// MonitorSpec is a single entry of `hyprctl monitors all -j`.
type MonitorSpec struct {
	Name           string   `json:"name"`
	ID             *int     `json:"id"`
	Description    string   `json:"description"`
	Make           string   `json:"make,omitempty"`
	Model          string   `json:"model,omitempty"`
	Disabled       bool     `json:"disabled"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	RefreshRate    float64  `json:"refreshRate"`
	Scale          float64  `json:"scale"`
	X              int      `json:"x"`
	Y              int      `json:"y"`
	AvailableModes []string `json:"availableModes"`
	Mirror         string   `json:"mirrorOf"`
}

func (m *MonitorSpec) HasMirror() bool {
	return m.Mirror != "none" && m.Mirror != ""
}

func (m *MonitorSpec) Validate() error {
	if m.ID == nil {
		return errors.New("id cant be nil")
	}
	if *m.ID < 0 {
		return errors.New("id cant < 0")
	}
	if m.Description == "" {
		return errors.New("desc cant be empty")
	}
	if m.Name == "" {
		return errors.New("name cant be empty")
	}
	if m.Scale == 0.0 {
		m.Scale = 1.0
	}

	return nil
}

type MonitorSpecs []*MonitorSpec

func (m MonitorSpecs) Validate() error {
	if len(m) == 0 {
		return errors.New("no monitors detected")
	}

	for _, monitor := range m {
		if err := monitor.Validate(); err != nil {
			return fmt.Errorf("invalid monitor: %w", err)
		}
	}

	return nil
}

type HyprEventType int

const (
	MonitorUnknown HyprEventType = iota
	MonitorAdded
	MonitorRemoved
)

func (m HyprEventType) Value() string {
	switch m {
	case MonitorAdded:
		return "monitoraddedv2>>"
	case MonitorRemoved:
		return "monitorremovedv2>>"
	}
	return "unknownevent>>"
}

type HyprEvent struct {
	Type    HyprEventType
	Monitor *MonitorSpec
}

func (m HyprEvent) Validate() error {
	switch m.Type {
	case MonitorAdded, MonitorRemoved:
		if m.Monitor == nil {
			return errors.New("hypr event monitor type does not have the monitor description")
		}
	case MonitorUnknown:
		return errors.New("unknown hypr event type")
	}

	return nil
}

func extractTypedHyprEvent(line string, eventType HyprEventType) (bool, *HyprEvent, error) {
	after, found := strings.CutPrefix(line, eventType.Value())
	if !found {
		return false, nil, nil
	}

	logrus.WithFields(logrus.Fields{"event": line, "as": eventType.Value()}).Debug("trying to parse event")

	parts := strings.SplitN(after, ",", 3)
	if len(parts) != 3 {
		return true, nil, fmt.Errorf("cant parse event %s", after)
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return true, nil, fmt.Errorf("cant parse %s as int: %w", parts[0], err)
	}

	return true, &HyprEvent{
		Type: eventType,
		Monitor: &MonitorSpec{
			ID:          &id,
			Name:        parts[1],
			Description: parts[2],
		},
	}, nil
}

// extractHyprEvent returns nil for lines that are not monitor events.
func extractHyprEvent(line string) (*HyprEvent, error) {
	possibleEvents := []HyprEventType{MonitorAdded, MonitorRemoved}
	for _, event := range possibleEvents {
		found, parsedEvent, err := extractTypedHyprEvent(line, event)
		if !found {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cant parse event %s as %s: %w", line, event.Value(), err)
		}
		if err := parsedEvent.Validate(); err != nil {
			return nil, fmt.Errorf("invalid hypr event: %w", err)
		}
		return parsedEvent, nil
	}
	return nil, nil
}

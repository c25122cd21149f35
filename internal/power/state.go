// Package power detects device state changes announced over D-Bus, such as
// the lid being closed or the laptop being docked.
package power

type LidState int

const (
	UnknownLidState LidState = iota
	OpenedLidState
	ClosedLidState
)

func (s LidState) String() string {
	switch s {
	case OpenedLidState:
		return "Opened"
	case ClosedLidState:
		return "Closed"
	default:
		return "UNKNOWN"
	}
}

type DockState int

const (
	UnknownDockState DockState = iota
	UndockedState
	DockedState
)

func (s DockState) String() string {
	switch s {
	case UndockedState:
		return "Undocked"
	case DockedState:
		return "Docked"
	default:
		return "UNKNOWN"
	}
}

type state interface {
	~int
	String() string
}

type Event[S state] struct {
	State S
}

type (
	LidEvent  = Event[LidState]
	DockEvent = Event[DockState]
)

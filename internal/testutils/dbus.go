package testutils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"
)

const (
	fakePowerInterface = "org.hyprautolayout.test.Power"
	fakePowerMember    = "Changed"
	fakePowerProperty  = "State"
	propertiesGet      = "org.freedesktop.DBus.Properties.Get"
)

// RandomBusName returns a well-known name that no other test owns.
func RandomBusName() string {
	return "org.hyprautolayout.test.P" + strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, rand.Text())
}

func RandomObjectPath() string {
	return "/org/hyprautolayout/test/" + rand.Text()
}

// FakePowerService stands in for UPower or logind: a single boolean property
// readable via Properties.Get plus a change signal.
type FakePowerService struct {
	BusName    string
	ObjectPath string

	conn  *dbus.Conn
	mu    sync.Mutex
	state bool
}

// StartFakePowerService exports the fake on the session bus, skipping the
// test when there is none.
func StartFakePowerService(t *testing.T, initial bool) *FakePowerService {
	conn := ConnectSessionBus(t)
	s := &FakePowerService{
		BusName:    RandomBusName(),
		ObjectPath: RandomObjectPath(),
		conn:       conn,
		state:      initial,
	}

	reply, err := conn.RequestName(s.BusName, dbus.NameFlagDoNotQueue)
	require.NoError(t, err, "failed to request bus name")
	require.Equal(t, dbus.RequestNameReplyPrimaryOwner, reply, "failed to become primary owner")
	t.Cleanup(func() { _, _ = conn.ReleaseName(s.BusName) })

	path := dbus.ObjectPath(s.ObjectPath)
	require.NoError(t, conn.Export(s, path, fakePowerInterface), "failed to export fake service")
	require.NoError(t, conn.Export(s, path, "org.freedesktop.DBus.Properties"), "failed to export properties")
	Logf(t, "fake power service %s at %s", s.BusName, s.ObjectPath)
	return s
}

// Get implements org.freedesktop.DBus.Properties.Get.
func (s *FakePowerService) Get(iface, property string) (dbus.Variant, *dbus.Error) {
	if iface != fakePowerInterface || property != fakePowerProperty {
		return dbus.MakeVariant(false), dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return dbus.MakeVariant(s.state), nil
}

// Set stores value and announces the change.
func (s *FakePowerService) Set(value bool) error {
	s.mu.Lock()
	s.state = value
	s.mu.Unlock()

	if err := s.conn.Emit(dbus.ObjectPath(s.ObjectPath), fakePowerInterface+"."+fakePowerMember, value); err != nil {
		return fmt.Errorf("cant emit signal: %w", err)
	}
	return nil
}

// Replay sets every value in order once started is closed.
func (s *FakePowerService) Replay(t *testing.T, values []bool, delay, interval time.Duration,
	started <-chan struct{},
) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-started
		time.Sleep(delay)
		for _, value := range values {
			if err := s.Set(value); err != nil {
				t.Errorf("cant emit fake dbus signal: %v", err)
				return
			}
			Logf(t, "fake power service set to %v", value)
			time.Sleep(interval)
		}
	}()
	return done
}

// EventsSection is the config that points a detector at the fake.
func (s *FakePowerService) EventsSection() *config.DbusEventsSection {
	return FakePowerEventsSection(s.BusName, s.ObjectPath)
}

func FakePowerEventsSection(busName, objectPath string) *config.DbusEventsSection {
	return &config.DbusEventsSection{
		Disabled: utils.BoolPtr(false),
		DbusSignalMatchRules: []*config.DbusSignalMatchRule{{
			Interface:  utils.StringPtr(fakePowerInterface),
			Member:     utils.StringPtr(fakePowerMember),
			ObjectPath: utils.StringPtr(objectPath),
		}},
		DbusSignalReceiveFilters: []*config.DbusSignalReceiveFilter{
			{Name: utils.StringPtr(fakePowerInterface + "." + fakePowerMember)},
		},
		DbusQueryObject: &config.DbusQueryObject{
			Destination:   busName,
			Path:          objectPath,
			Method:        propertiesGet,
			ExpectedValue: "true",
			Args: []*config.DbusQueryObjectArg{
				{Arg: fakePowerInterface},
				{Arg: fakePowerProperty},
			},
		},
	}
}

// ConnectSessionBus skips the test when no session bus is reachable.
func ConnectSessionBus(t *testing.T) *dbus.Conn {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		t.Skipf("session bus not available: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

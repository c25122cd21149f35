package config

import (
	"errors"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/utils"
)

type ChassisType int

const (
	AutoChassis ChassisType = iota
	LaptopChassis
	DesktopChassis
)

func AllChassisTypes() []ChassisType {
	return []ChassisType{AutoChassis, LaptopChassis, DesktopChassis}
}

func (e ChassisType) Value() string {
	switch e {
	case AutoChassis:
		return "auto"
	case LaptopChassis:
		return "laptop"
	case DesktopChassis:
		return "desktop"
	}
	return ""
}

func (e ChassisType) MarshalText() ([]byte, error) {
	return []byte(e.Value()), nil
}

func (e *ChassisType) UnmarshalTOML(value any) error {
	sValue, ok := value.(string)
	if !ok {
		return fmt.Errorf("value %v is not a string type", value)
	}
	for _, enum := range AllChassisTypes() {
		if enum.Value() == sValue {
			*e = enum
			return nil
		}
	}
	return fmt.Errorf("invalid enum value %s, expected one of %s", sValue,
		utils.FormatEnumTypes(AllChassisTypes()))
}

// DbusEventsSection describes how a boolean device property is read from
// D-Bus and which signals announce its changes.
type DbusEventsSection struct {
	Disabled                 *bool                      `toml:"disabled"`
	DbusQueryObject          *DbusQueryObject           `toml:"dbus_query_object"`
	DbusSignalMatchRules     []*DbusSignalMatchRule     `toml:"dbus_signal_match_rules"`
	DbusSignalReceiveFilters []*DbusSignalReceiveFilter `toml:"dbus_signal_receive_filters"`
}

type DbusQueryObject struct {
	Destination   string                `toml:"destination"`
	Path          string                `toml:"path"`
	Method        string                `toml:"method"`
	ExpectedValue string                `toml:"expected_value"`
	Args          []*DbusQueryObjectArg `toml:"args"`
}

type DbusQueryObjectArg struct {
	Arg string `toml:"arg"`
}

type DbusSignalReceiveFilter struct {
	Name *string `toml:"name"`
	Body *string `toml:"body"`
}

type DbusSignalMatchRule struct {
	Sender     *string `toml:"sender"`
	Interface  *string `toml:"interface"`
	Member     *string `toml:"member"`
	ObjectPath *string `toml:"object_path"`
}

func (d *DbusQueryObject) CollectArgs() []interface{} {
	args := []interface{}{}
	for _, arg := range d.Args {
		args = append(args, arg.Arg)
	}
	return args
}

func (d *DbusQueryObject) Validate() error {
	if d.Destination == "" {
		return errors.New("destination cant be empty")
	}
	if d.Path == "" {
		return errors.New("path cant be empty")
	}
	if d.Method == "" {
		return errors.New("method cant be empty")
	}
	if d.ExpectedValue == "" {
		return errors.New("expected_value cant be empty")
	}
	return nil
}

func (d *DbusEventsSection) Validate(defaults *DbusEventsSection) error {
	if d.Disabled == nil {
		d.Disabled = utils.BoolPtr(false)
	}
	if d.DbusQueryObject == nil {
		d.DbusQueryObject = defaults.DbusQueryObject
	}
	if err := d.DbusQueryObject.Validate(); err != nil {
		return fmt.Errorf("dbus query object is invalid: %w", err)
	}

	if len(d.DbusSignalMatchRules) == 0 {
		d.DbusSignalMatchRules = defaults.DbusSignalMatchRules
	}
	for _, rule := range d.DbusSignalMatchRules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("one of the dbus match rules is invalid: %w", err)
		}
	}

	if d.DbusSignalReceiveFilters == nil {
		d.DbusSignalReceiveFilters = defaults.DbusSignalReceiveFilters
	}
	for _, signalFilter := range d.DbusSignalReceiveFilters {
		if err := signalFilter.Validate(); err != nil {
			return fmt.Errorf("one of the dbus receive filter is invalid: %w", err)
		}
	}

	return nil
}

func (dr *DbusSignalMatchRule) Validate() error {
	if dr.Interface == nil && dr.Sender == nil && dr.Member == nil && dr.ObjectPath == nil {
		return errors.New("dbus rule cant be empty")
	}
	return nil
}

func (d *DbusSignalReceiveFilter) Validate() error {
	if d.Name == nil {
		return errors.New("name cant be empty")
	}
	return nil
}

const (
	propertiesInterface = "org.freedesktop.DBus.Properties"
	upowerDestination   = "org.freedesktop.UPower"
	upowerPath          = "/org/freedesktop/UPower"
	logindDestination   = "org.freedesktop.login1"
	logindPath          = "/org/freedesktop/login1"
)

func propertyChangedSection(destination, path, iface, property string) *DbusEventsSection {
	return &DbusEventsSection{
		DbusQueryObject: &DbusQueryObject{
			Destination:   destination,
			Path:          path,
			Method:        propertiesInterface + ".Get",
			ExpectedValue: "true",
			Args: []*DbusQueryObjectArg{
				{Arg: iface},
				{Arg: property},
			},
		},
		DbusSignalMatchRules: []*DbusSignalMatchRule{
			{
				Sender:     utils.StringPtr(destination),
				Interface:  utils.StringPtr(propertiesInterface),
				Member:     utils.StringPtr("PropertiesChanged"),
				ObjectPath: utils.StringPtr(path),
			},
		},
		DbusSignalReceiveFilters: []*DbusSignalReceiveFilter{
			{
				Name: utils.StringPtr(propertiesInterface + ".PropertiesChanged"),
				Body: utils.StringPtr(property),
			},
		},
	}
}

func defaultLidEvents() *DbusEventsSection {
	return propertyChangedSection(upowerDestination, upowerPath, upowerDestination, "LidIsClosed")
}

func defaultDockEvents() *DbusEventsSection {
	return propertyChangedSection(logindDestination, logindPath, logindDestination+".Manager", "Docked")
}

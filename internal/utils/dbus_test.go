package utils_test

import (
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestSignalBodyToString(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		expected string
	}{
		{
			name:     "plain string",
			body:     "org.freedesktop.UPower",
			expected: "org.freedesktop.UPower",
		},
		{
			name:     "variant bool",
			body:     dbus.MakeVariant(true),
			expected: "true",
		},
		{
			name: "properties changed body",
			body: []any{
				"org.freedesktop.UPower",
				map[string]dbus.Variant{
					"OnBattery":   dbus.MakeVariant(false),
					"LidIsClosed": dbus.MakeVariant(true),
				},
				[]string{},
			},
			expected: "[org.freedesktop.UPower {LidIsClosed=true OnBattery=false} []]",
		},
		{
			name:     "nested generic map",
			body:     map[string]any{"b": []byte("docked"), "a": 1},
			expected: "{a=1 b=docked}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, utils.SignalBodyToString(tt.body))
		})
	}
}

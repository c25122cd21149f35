package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

// SignalBodyToString flattens a D-Bus signal body item for logging. Map
// entries are sorted by key so the output is stable.
func SignalBodyToString(v any) string {
	switch body := v.(type) {
	case string:
		return body
	case []byte:
		return string(body)
	case dbus.Variant:
		return SignalBodyToString(body.Value())
	case []any:
		items := make([]string, 0, len(body))
		for _, item := range body {
			items = append(items, SignalBodyToString(item))
		}
		return "[" + strings.Join(items, " ") + "]"
	case map[string]dbus.Variant:
		return joinSorted(body)
	case map[string]any:
		return joinSorted(body)
	default:
		return fmt.Sprint(body)
	}
}

func joinSorted[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+SignalBodyToString(m[key]))
	}
	return "{" + strings.Join(pairs, " ") + "}"
}

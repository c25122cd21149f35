package utils

import "strings"

type HasValue interface {
	Value() string
}

// FormatEnumTypes renders the accepted values of an enum for error messages.
func FormatEnumTypes[T HasValue](enums []T) string {
	values := make([]string, 0, len(enums))
	for _, enum := range enums {
		values = append(values, enum.Value())
	}
	return "[" + strings.Join(values, ", ") + "]"
}

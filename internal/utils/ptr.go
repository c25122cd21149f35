// Package utils holds small helpers shared by the hyprautolayout packages.
package utils

func JustPtr[T any](v T) *T {
	return &v
}

func StringPtr(s string) *string { return JustPtr(s) }

func IntPtr(i int) *int { return JustPtr(i) }

func BoolPtr(b bool) *bool { return JustPtr(b) }

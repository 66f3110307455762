package model

import "strings"

// StringPtr trims s and returns nil when nothing is left, for optional text columns.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

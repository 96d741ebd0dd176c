// Package normalize cleans identity claims before they are stored.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Subject trims an identity-provider subject id. Subjects are opaque and
// case-sensitive, so nothing else is changed.
func Subject(s string) string {
	return strings.TrimSpace(s)
}

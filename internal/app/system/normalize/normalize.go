// Package normalize canonicalizes user-supplied identifiers and filter
// values so that stored data and queries agree on case and whitespace.
package normalize

import (
	"strings"
)

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// UserType trims and lower-cases a user type.
func UserType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lower-cases a gig or application status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tag trims and lower-cases a single tag.
func Tag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tags lower-cases every tag and drops blanks. The result is never nil.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = Tag(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Strings trims each entry and drops blanks. The result is never nil.
func Strings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

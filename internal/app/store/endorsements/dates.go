package endorsementstore

import (
	"errors"
	"strings"
	"time"
)

// ErrBadDate is returned by ParseDate for input in none of the accepted layouts.
var ErrBadDate = errors.New("invalid date; use ISO-8601 such as 2024-05-01 or 2024-05-01T12:00:00Z")

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and the offset-less forms
// YYYY-MM-DD and YYYY-MM-DDTHH:MM[:SS[.fff]]. Offset-less values are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadDate
}

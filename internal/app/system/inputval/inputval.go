// Package inputval validates decoded request bodies and individual values.
// Struct validation is driven by `validate` tags (go-playground/validator);
// messages use the field's `label` tag, falling back to its JSON name.
package inputval

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s is a bare addr-spec (no display name) with
// well-formed dots in both the local part and the domain.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return dotsOK(s[:at]) && dotsOK(s[at+1:])
}

func dotsOK(part string) bool {
	return !strings.HasPrefix(part, ".") &&
		!strings.HasSuffix(part, ".") &&
		!strings.Contains(part, "..")
}

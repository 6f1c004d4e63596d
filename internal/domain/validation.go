package domain

import (
	"net/mail"
	"strings"
)

// NormalizeEmail recorta, pasa a minúsculas y valida una dirección simple
// (sin nombre visible, ej. "Ana <ana@x.com>" se rechaza).
func NormalizeEmail(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return "", false
	}
	return s, true
}

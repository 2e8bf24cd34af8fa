package utils

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds a wa.me deep link that opens a chat with the given
// phone number and a prefilled message. Non-digit characters in phone are
// dropped. Returns "" when phone has no digits.
func WhatsAppLink(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}

// Slugify turns a display name into a lowercase, URL-safe identifier
// Example: "Línea Pájaros y Roedores" -> "linea-pajaros-y-roedores"
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range Normalize(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

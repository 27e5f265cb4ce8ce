// Package email normalizes and checks addresses used as login identifiers.
package email

import (
	"net/mail"
	"strings"
	"unicode"
)

// MaxLength follows the RFC 5321 path limit.
const MaxLength = 254

// Normalize trims and lower-cases an address so lookups are case-insensitive.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsValid reports whether address is a bare addr-spec ("a@b.c"), not a
// display-name form like "Taro <a@b.c>".
func IsValid(address string) bool {
	if address == "" || len(address) > MaxLength {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return false
	}
	if parsed.Address != address {
		return false
	}
	at := strings.LastIndexByte(address, '@')
	return at > 0 && strings.Contains(address[at+1:], ".")
}

// DisplayName derives a username from the local part, used when signup omits one.
// "taro.yamada@example.com" becomes "Taro Yamada".
func DisplayName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "User"
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

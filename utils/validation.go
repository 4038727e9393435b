// utils/validation.go
package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// Accepts an optional + prefix and 7-15 digits; local numbers may start with 0.
var phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)

// NormalizePhone strips the separators people usually type.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(strings.TrimSpace(phone))
}

// ValidatePhone checks if a phone number is in a valid local or international format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// ValidateURL accepts absolute http(s) URLs only.
func ValidateURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

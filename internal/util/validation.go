package util

import (
	"regexp"
)

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func IsValidUUID(s string) bool {
	if s == "" {
		return false
	}
	return uuidRegex.MatchString(s)
}

var (
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidatePassword enforces the password policy for administrator accounts:
// at least 8 characters with upper, lower, digit and special characters.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "password must be at least 8 characters"
	}
	if !upperRegex.MatchString(password) {
		return false, "password must contain at least one uppercase letter"
	}
	if !lowerRegex.MatchString(password) {
		return false, "password must contain at least one lowercase letter"
	}
	if !digitRegex.MatchString(password) {
		return false, "password must contain at least one digit"
	}
	if !specialRegex.MatchString(password) {
		return false, "password must contain at least one special character"
	}
	return true, ""
}

package service

import "regexp"

var (
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{8,20}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidPhone reports whether the phone number matches the accepted format.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidEmail reports whether the address matches the accepted format.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

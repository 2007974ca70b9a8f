package validate

import "regexp"

// MinPasswordLength is the shortest password ValidatePassword accepts.
const MinPasswordLength = 4

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether s has the local@domain.tld shape.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePassword reports whether s is at least MinPasswordLength characters
// long and contains at least one uppercase letter and one digit.
func ValidatePassword(s string) bool {
	if len([]rune(s)) < MinPasswordLength {
		return false
	}
	var upper, digit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && digit
}

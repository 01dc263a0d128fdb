package domain

import (
	"fmt"
	"math"
	netmail "net/mail"
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is the most bytes bcrypt will hash.
	MaxPasswordLength = 72
	maxUsernameLength = 50
	// MaxStock is the largest value the products.stock column holds.
	MaxStock = math.MaxInt32
)

func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be 3-%d characters", ErrValidation, maxUsernameLength)
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("%w: username may only contain letters, digits, '_', '-' and '.'", ErrValidation)
		}
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := netmail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	return nil
}

func ValidateStock(stock int) error {
	if stock < 0 || stock > MaxStock {
		return fmt.Errorf("%w: stock must be between 0 and %d", ErrValidation, MaxStock)
	}
	return nil
}

// ValidatePassword enforces the password policy: minimum length plus at
// least one upper-case letter, one lower-case letter and one digit.
func ValidatePassword(p string) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if len(trimmed) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordLength)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number", ErrValidation)
	}
	return nil
}

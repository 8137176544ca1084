package core

import (
	"errors"
	"unicode"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordWeak     = errors.New("password must contain an uppercase letter, a lowercase letter and a digit")
	ErrEmployeeIDFormat = errors.New("employee id must be numeric")
)

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrPasswordWeak
	}
	return nil
}

// ValidateEmployeeID accepts digit-only identifiers.
func ValidateEmployeeID(employeeID string) error {
	if employeeID == "" {
		return ErrEmployeeIDFormat
	}
	for _, r := range employeeID {
		if r < '0' || r > '9' {
			return ErrEmployeeIDFormat
		}
	}
	return nil
}

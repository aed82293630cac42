// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// PasswordChecklist reports which of the password requirements a candidate
// password satisfies. Clients render one line per requirement and enable the
// submit button only when AllMet is true.
type PasswordChecklist struct {
	HasUpper   bool `json:"has_upper"`
	HasLower   bool `json:"has_lower"`
	HasDigit   bool `json:"has_digit"`
	HasSpecial bool `json:"has_special"`
	MinLength  bool `json:"min_length"`
}

// AllMet reports whether every requirement is satisfied.
func (p PasswordChecklist) AllMet() bool {
	return p.HasUpper && p.HasLower && p.HasDigit && p.HasSpecial && p.MinLength
}

// CheckPassword evaluates each password requirement independently.
func CheckPassword(password string) PasswordChecklist {
	checklist := PasswordChecklist{
		HasDigit:   digitRegex.MatchString(password),
		HasSpecial: specialRegex.MatchString(password),
		MinLength:  len(password) >= 8,
	}
	for _, r := range password {
		if unicode.IsUpper(r) {
			checklist.HasUpper = true
		}
		if unicode.IsLower(r) {
			checklist.HasLower = true
		}
	}
	return checklist
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	checklist := CheckPassword(password)
	switch {
	case !checklist.MinLength:
		return fmt.Errorf("password must be at least 8 characters long")
	case !checklist.HasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !checklist.HasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !checklist.HasDigit:
		return fmt.Errorf("password must contain at least one digit")
	case !checklist.HasSpecial:
		return fmt.Errorf("password must contain at least one special character (!@#$%%^&*)")
	}

	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}

	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}

	// Only allow alphanumeric, underscores, hyphens, and dots
	if !regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`).MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, dots, and hyphens")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// UsernameFromEmail derives a default username from the local part of an
// email address. Signup uses this when no explicit username is provided.
func UsernameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:at]
}

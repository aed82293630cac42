package client

import "regexp"

var (
	passwordDigitRe   = regexp.MustCompile(`[0-9]`)
	passwordSpecialRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
	passwordUpperRe   = regexp.MustCompile(`[A-Z]`)
	passwordLowerRe   = regexp.MustCompile(`[a-z]`)
)

// PasswordChecklist holds the five strength predicates the signup and reset
// screens display live. Submission is gated on all of them.
type PasswordChecklist struct {
	HasUpper   bool `json:"has_upper"`
	HasLower   bool `json:"has_lower"`
	HasDigit   bool `json:"has_digit"`
	HasSpecial bool `json:"has_special"`
	MinLength  bool `json:"min_length"`
}

// AllMet reports whether every predicate passes.
func (c PasswordChecklist) AllMet() bool {
	return c.HasUpper && c.HasLower && c.HasDigit && c.HasSpecial && c.MinLength
}

// CheckPassword evaluates each predicate independently so the UI can show
// exactly which requirements are still unmet.
func CheckPassword(password string) PasswordChecklist {
	return PasswordChecklist{
		HasUpper:   passwordUpperRe.MatchString(password),
		HasLower:   passwordLowerRe.MatchString(password),
		HasDigit:   passwordDigitRe.MatchString(password),
		HasSpecial: passwordSpecialRe.MatchString(password),
		MinLength:  len(password) >= 8,
	}
}

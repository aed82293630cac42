package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "Abcdef1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Small1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper", "securepass12!", true},
		{"No Lower", "SECUREPASS12!", true},
		{"No Digit", "SecurePass!!", true},
		{"No Special", "SecurePass123", true},
		{"Digits And Special Only", "1234567890!@", true},
		{"Unicode Characters", "ÅngstromPass12!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	t.Run("Empty Password Fails Every Requirement", func(t *testing.T) {
		checklist := CheckPassword("")
		assert.False(t, checklist.HasUpper)
		assert.False(t, checklist.HasLower)
		assert.False(t, checklist.HasDigit)
		assert.False(t, checklist.HasSpecial)
		assert.False(t, checklist.MinLength)
		assert.False(t, checklist.AllMet())
	})

	t.Run("Requirements Flip Independently", func(t *testing.T) {
		checklist := CheckPassword("abcdefgh")
		assert.True(t, checklist.HasLower)
		assert.True(t, checklist.MinLength)
		assert.False(t, checklist.HasUpper)
		assert.False(t, checklist.AllMet())

		checklist = CheckPassword("Abcdefgh")
		assert.True(t, checklist.HasUpper)
		assert.False(t, checklist.HasDigit)
		assert.False(t, checklist.AllMet())

		checklist = CheckPassword("Abcdefg1")
		assert.True(t, checklist.HasDigit)
		assert.False(t, checklist.HasSpecial)
		assert.False(t, checklist.AllMet())
	})

	t.Run("All Met Only When Every Requirement Holds", func(t *testing.T) {
		checklist := CheckPassword("Abcdef1!")
		assert.True(t, checklist.AllMet())

		// Removing one character drops below the length requirement
		checklist = CheckPassword("Abcde1!")
		assert.False(t, checklist.MinLength)
		assert.False(t, checklist.AllMet())
	})
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Valid With Dot", "ramesh.kumar", false},
		{"Too Short", "tu", true},
		{"Illegal Chars", "user@123", true},
		{"Too Long", strings.Repeat("a", 31), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "test@example.com", false},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUsernameFromEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ramesh", UsernameFromEmail("ramesh@gmail.com"))
	assert.Equal(t, "a.b_c", UsernameFromEmail("a.b_c@example.org"))
	assert.Equal(t, "plain", UsernameFromEmail("plain"))
}

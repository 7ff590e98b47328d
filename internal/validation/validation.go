// Package validation checks user-supplied values before they reach a profile.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 32
	MaxGoalNameLength = 50
	MaxAvatarLength   = 16
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizeUsername trims surrounding whitespace
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidateUsername checks that a username is usable as a profile identity
func ValidateUsername(username string) error {
	username = NormalizeUsername(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ValidationError{Field: "username", Message: fmt.Sprintf("username must be at most %d characters", MaxUsernameLength)}
	}
	if strings.IndexFunc(username, unicode.IsControl) >= 0 {
		return ValidationError{Field: "username", Message: "username contains control characters"}
	}
	return nil
}

// ValidateAvatar checks an avatar glyph
func ValidateAvatar(avatar string) error {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return ValidationError{Field: "avatar", Message: "avatar is required"}
	}
	if utf8.RuneCountInString(avatar) > MaxAvatarLength {
		return ValidationError{Field: "avatar", Message: "avatar is too long"}
	}
	return nil
}

// ValidateAllowance checks a budget allowance
func ValidateAllowance(allowance int) error {
	if allowance <= 0 {
		return ValidationError{Field: "allowance", Message: "allowance must be positive"}
	}
	return nil
}

// ValidateSavingsGoal checks a new savings goal
func ValidateSavingsGoal(name string, target int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "goal name is required"}
	}
	if utf8.RuneCountInString(name) > MaxGoalNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("goal name must be at most %d characters", MaxGoalNameLength)}
	}
	if target <= 0 {
		return ValidationError{Field: "target", Message: "target must be positive"}
	}
	return nil
}

// ValidateAmount checks a positive money amount
func ValidateAmount(amount int) error {
	if amount <= 0 {
		return ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	return nil
}

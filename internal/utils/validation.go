package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateWeight checks a registered weight in kilograms. Weight is
// optional, so callers only validate when a value was provided.
func ValidateWeight(weightKg float64) error {
	if weightKg <= 0 {
		return ValidationError{Field: "weight_kg", Message: "weight must be positive"}
	}
	if weightKg > 400 {
		return ValidationError{Field: "weight_kg", Message: "weight is implausibly high"}
	}
	return nil
}

// ValidateFitnessScore checks a self-reported fitness score on the 1-5 scale
func ValidateFitnessScore(score int) error {
	if score < 1 || score > 5 {
		return ValidationError{Field: "fitness_score", Message: "fitness score must be between 1 and 5"}
	}
	return nil
}

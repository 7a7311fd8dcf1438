package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "ana@example.com", false},
		{"valid with plus", "ana+top@example.com", false},
		{"empty", "", true},
		{"missing at", "ana.example.com", true},
		{"missing domain", "ana@", true},
		{"whitespace only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "Ana Souza", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"single character", "A", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWeight(t *testing.T) {
	tests := []struct {
		name    string
		weight  float64
		wantErr bool
	}{
		{"typical weight", 82.5, false},
		{"zero", 0, true},
		{"negative", -10, true},
		{"implausibly high", 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeight(tt.weight)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWeight(%v) error = %v, wantErr %v", tt.weight, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFitnessScore(t *testing.T) {
	for score := 1; score <= 5; score++ {
		if err := ValidateFitnessScore(score); err != nil {
			t.Errorf("ValidateFitnessScore(%d) unexpected error: %v", score, err)
		}
	}
	for _, score := range []int{0, -1, 6, 10} {
		if err := ValidateFitnessScore(score); err == nil {
			t.Errorf("ValidateFitnessScore(%d) expected error", score)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "email", Message: "invalid email format"}
	if err.Error() != "email: invalid email format" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

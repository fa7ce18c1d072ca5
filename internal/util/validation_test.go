package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"canonical v4", "3e4a1b9e-7c7e-4c91-9f3a-0d8f2b6a5c44", true},
		{"empty string", "", false},
		{"uppercase rejected", "3E4A1B9E-7C7E-4C91-9F3A-0D8F2B6A5C44", false},
		{"missing dashes", "3e4a1b9e7c7e4c919f3a0d8f2b6a5c44", false},
		{"too short", "3e4a1b9e-7c7e-4c91-9f3a", false},
		{"injection attempt", "1; DROP TABLE customer_orders", false},
		{"trailing garbage", "3e4a1b9e-7c7e-4c91-9f3a-0d8f2b6a5c44x", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidUUID(tc.input))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"meets every rule", "Abcdef1!", true},
		{"long passphrase", "Tr0ub4dor&Horse", true},
		{"too short", "Ab1!", false},
		{"no uppercase", "abcdef1!", false},
		{"no lowercase", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no special character", "Abcdefg1", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := ValidatePassword(tc.password)
			assert.Equal(t, tc.valid, ok)
			if !tc.valid {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

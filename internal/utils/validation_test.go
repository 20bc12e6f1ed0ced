package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "questionnaire_cleaning", false},
		{"with dots and hyphens", "questionnaire-cleaning.v1", false},
		{"empty", "", true},
		{"spaces", "questionnaire cleaning", true},
		{"injection characters", "schema;--", true},
		{"html", "<script>alert(1)</script>", true},
		{"too long", string(make([]byte, 101)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	assert.NoError(t, ValidateVersion("1.0"))
	assert.NoError(t, ValidateVersion("1.0.0"))
	assert.NoError(t, ValidateVersion("v1.2"))
	assert.Error(t, ValidateVersion(""))
	assert.Error(t, ValidateVersion("latest"))
	assert.Error(t, ValidateVersion("1.0.0.0"))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate(""))
	assert.NoError(t, ValidateDate("2026-01-16"))
	assert.Error(t, ValidateDate("01/16/2026"))
	assert.Error(t, ValidateDate("2026-13-40"))
}

func TestValidateTimestamp(t *testing.T) {
	assert.NoError(t, ValidateTimestamp("2026-01-16 09:30:00"))
	assert.Error(t, ValidateTimestamp(""))
	assert.Error(t, ValidateTimestamp("2026-01-16"))
	assert.Error(t, ValidateTimestamp("2026-01-16T09:30:00Z"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "alert(1)", SanitizeInput("<script>alert(1)</script>"))
	assert.Equal(t, "plain", SanitizeInput("  plain  "))
	assert.Equal(t, "", SanitizeInput("<br/>"))
}

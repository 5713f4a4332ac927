package utils

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

func TestValidateISODate(t *testing.T) {
	assert.NoError(t, ValidateISODate("2024-02-29"))

	for _, bad := range []string{"", "2024-2-1", "01/02/2024", "2023-02-29", "2024-13-01"} {
		err := ValidateISODate(bad)
		assert.Error(t, err, bad)
		assert.True(t, errors.HasCode(err, errors.CodeValidation), bad)
	}
}

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID(ulid.Make().String()))
	assert.Error(t, ValidateSessionID("not-a-session"))
	assert.Error(t, ValidateSessionID(""))
}

func TestValidateRequiredString(t *testing.T) {
	assert.NoError(t, ValidateRequiredString("x", "sessionId"))

	err := ValidateRequiredString("   ", "sessionId")
	assert.EqualError(t, err, "VALIDATION_ERROR: sessionId is required")
}

package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

// DateRegex validates ISO 8601 date strings (YYYY-MM-DD)
var DateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateISODate validates an ISO 8601 date string (YYYY-MM-DD)
func ValidateISODate(date string) error {
	if !DateRegex.MatchString(date) {
		return errors.NewValidationError("invalid date format, should be YYYY-MM-DD")
	}

	// Parse the date to ensure it's valid
	_, err := time.Parse("2006-01-02", date)
	if err != nil {
		return errors.NewValidationError("invalid date value")
	}

	return nil
}

// ValidateSessionID validates a review session id
func ValidateSessionID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return errors.NewInvalidInputError("invalid session id", err)
	}
	return nil
}

// ValidateRequiredString validates that a string is not empty
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(fieldName + " is required")
	}
	return nil
}

package giftaid

import (
	"github.com/hirosato/giftaid-review/internal/common/utils"
	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

// ErrStartAfterEnd is returned when the start date is later than the end date
var ErrStartAfterEnd = errors.NewValidationError("Start date cannot be greater than end date.")

// Validate checks the criteria before any query is issued
func (c FilterCriteria) Validate() error {
	if c.StartDate != "" {
		if err := utils.ValidateISODate(c.StartDate); err != nil {
			return errors.NewInvalidInputError("invalid start date", err).WithDetail("startDate", c.StartDate)
		}
	}
	if c.EndDate != "" {
		if err := utils.ValidateISODate(c.EndDate); err != nil {
			return errors.NewInvalidInputError("invalid end date", err).WithDetail("endDate", c.EndDate)
		}
	}
	// YYYY-MM-DD compares chronologically as a string
	if c.HasDateRange() && c.StartDate > c.EndDate {
		return ErrStartAfterEnd
	}
	return nil
}

// FilterState holds the criteria currently applied to a session
type FilterState struct {
	criteria FilterCriteria
}

// Current returns the live criteria
func (f *FilterState) Current() FilterCriteria {
	return f.criteria
}

// Set validates and stores new criteria. Invalid criteria leave the state unchanged.
func (f *FilterState) Set(criteria FilterCriteria) error {
	if err := criteria.Validate(); err != nil {
		return err
	}
	f.criteria = criteria
	return nil
}

// Reset clears every constraint
func (f *FilterState) Reset() {
	f.criteria = FilterCriteria{}
}

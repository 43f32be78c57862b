package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every ValidationError so callers can use errors.Is
var ErrInvalidInput = errors.New("invalid input")

// Dataset names used in validation errors
const (
	DatasetResidents           = "residents"
	DatasetRotations           = "rotations"
	DatasetVacationPreferences = "vacation_preferences"
	DatasetRotationPreferences = "rotation_preferences"
	DatasetSchedule            = "schedule"
)

// ValidationError identifies the dataset, row and field that failed validation.
// Row is 1-based over data rows; 0 means the error is not tied to a row (e.g. a missing column).
type ValidationError struct {
	Dataset string
	Row     int
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s row %d: field %q: %s", e.Dataset, e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", e.Dataset, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

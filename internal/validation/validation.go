package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID      = fmt.Errorf("invalid UUID format")
	ErrInvalidDateRange = fmt.Errorf("invalid date range")
	ErrInvalidTimestamp = fmt.Errorf("invalid timestamp")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// An RFC3339 value keeps its offset.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, str)
		}
	}
	return returnTime, nil
}

// ParseRange parses a required start and end timestamp pair, with start not after end.
// Field errors are keyed by startField and endField.
func ParseRange(startField, start, endField, end string) (time.Time, time.Time, error) {
	errors := make(map[string]string)

	startTs, err := ParseTime(start)
	if start == "" {
		errors[startField] = startField + " is required"
	} else if err != nil {
		errors[startField] = "must be YYYY-MM-DD or RFC3339"
	}

	endTs, err := ParseTime(end)
	if end == "" {
		errors[endField] = endField + " is required"
	} else if err != nil {
		errors[endField] = "must be YYYY-MM-DD or RFC3339"
	}

	if len(errors) == 0 && startTs.After(endTs) {
		errors[endField] = fmt.Sprintf("%s must not be before %s", endField, startField)
	}

	if len(errors) > 0 {
		return time.Time{}, time.Time{}, &Error{Fields: errors}
	}
	return startTs, endTs, nil
}

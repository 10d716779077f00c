package utils

import (
	"errors"
	"regexp"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

// Allow alphanumeric, underscore, hyphen, dot - common in transit IDs
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateDay validates an analysis day: YYYY-MM-DD or a weekday name.
func ValidateDay(day string) error {
	if day == "" {
		return errors.New("day is required")
	}
	if _, err := models.ParseDayToken(day); err != nil {
		return errors.New("invalid day, use YYYY-MM-DD or a weekday name")
	}
	return nil
}

// ValidateWindow checks a clock window in seconds. End may pass midnight but
// the window may not span more than two days.
func ValidateWindow(start, end int) error {
	if start < 0 {
		return errors.New("start must not be negative")
	}
	if end < start {
		return errors.New("end must not precede start")
	}
	if end > 2*models.SecondsPerDay {
		return errors.New("end must be within 48 hours")
	}
	return nil
}

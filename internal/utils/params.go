package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

func addFieldError(fieldErrors map[string][]string, key string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	return fieldErrors
}

// ParseClock parses HH:MM or HH:MM:SS into seconds since midnight. Hours of 24
// and above are accepted for times past midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock time %q, use HH:MM[:SS]", s)
	}
	var values [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid clock time %q, use HH:MM[:SS]", s)
		}
		values[i] = v
	}
	if values[1] > 59 || values[2] > 59 {
		return 0, fmt.Errorf("invalid clock time %q, minutes and seconds must be below 60", s)
	}
	return values[0]*3600 + values[1]*60 + values[2], nil
}

// FormatClock converts seconds since midnight to HH:MM:SS. Negative values are
// rendered with a leading minus sign.
func FormatClock(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

// ParseClockParam reads a clock time query parameter, returning def when the
// parameter is absent.
func ParseClockParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}
	seconds, err := ParseClock(val)
	if err != nil {
		return def, addFieldError(fieldErrors, key)
	}
	return seconds, fieldErrors
}

// ParseCalendarModeParam reads the "mode" style parameter; absent means generic weekday.
func ParseCalendarModeParam(params url.Values, key string, fieldErrors map[string][]string) (models.CalendarMode, map[string][]string) {
	mode, err := models.ParseCalendarMode(params.Get(key))
	if err != nil {
		return mode, addFieldError(fieldErrors, key)
	}
	return mode, fieldErrors
}

// ParseTimeFieldParam reads "departure" or "arrival"; absent means departure.
func ParseTimeFieldParam(params url.Values, key string, fieldErrors map[string][]string) (models.TimeField, map[string][]string) {
	switch strings.ToLower(params.Get(key)) {
	case "", "departure":
		return models.DepartureTime, fieldErrors
	case "arrival":
		return models.ArrivalTime, fieldErrors
	}
	return models.DepartureTime, addFieldError(fieldErrors, key)
}

// ParseBoolParam reads a boolean parameter, returning def when absent.
func ParseBoolParam(params url.Values, key string, def bool, fieldErrors map[string][]string) (bool, map[string][]string) {
	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def, addFieldError(fieldErrors, key)
	}
	return b, fieldErrors
}

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present it returns 0; an invalid value is recorded in fieldErrors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, addFieldError(fieldErrors, key)
	}
	return f, fieldErrors
}

package schedule

import "errors"

// ConfigurationError is fatal: the schedule cannot answer any question.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "schedule configuration error: " + e.Reason
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

var ErrDateRequired = errors.New("specific-date calendars need a day token with a date")

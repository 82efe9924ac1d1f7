package config

import "fmt"

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidatePort checks 1..65535.
func ValidatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// ValidateLogLevel accepts the levels understood by the logger package.
func ValidateLogLevel(level string) error {
	switch level {
	case "", "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

// ValidateNonNegative rejects values below zero.
func ValidateNonNegative(field string, v int) error {
	if v < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

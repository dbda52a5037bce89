package utils

import (
	"strconv"
)

// ParseInt converts string to int, falling back to defaultValue when empty or malformed
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return result
}

// ParseID parses a positive numeric path id
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, NewValidationError("invalid id " + strconv.Quote(value))
	}
	return id, nil
}

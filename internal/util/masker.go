// Package util provides helpers shared by the output layer.
package util

import (
	"path/filepath"
	"strings"
)

// SensitivePatterns contains patterns for attribute names that likely contain sensitive data
var SensitivePatterns = []string{
	"*PASSWORD*",
	"*SECRET*",
	"*TOKEN*",
	"*API_KEY*",
	"*PASSPHRASE*",
	"*CREDENTIAL*",
	"*PIN",
}

// MaskSensitiveValue returns a masked value if name matches a sensitive pattern,
// otherwise returns the original value
func MaskSensitiveValue(name, value string) string {
	if IsSensitive(name) {
		return MaskValue(value)
	}
	return value
}

// IsSensitive checks if an attribute name matches any sensitive pattern
func IsSensitive(name string) bool {
	upperName := strings.ToUpper(name)

	for _, pattern := range SensitivePatterns {
		matched, err := filepath.Match(pattern, upperName)
		if err != nil {
			continue // Skip invalid patterns
		}
		if matched {
			return true
		}
	}
	return false
}

// MaskValue creates a masked version of a value.
// Values longer than 8 characters keep their first 2 and last 2 characters.
func MaskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Compiled regular expressions for validation
var (
	// Allow alphanumeric, underscore, hyphen, dot - common in dataset and suite names
	validNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Semantic-ish versions used by schemas and manifests: 1.0, 1.0.0, v1.2
	validVersionPattern = regexp.MustCompile(`^v?\d+(\.\d+){0,2}$`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateName validates that a dataset/suite/target name is safe and within
// reasonable limits
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}

	if len(name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}

	if !validNamePattern.MatchString(name) {
		return errors.New("name contains invalid characters")
	}

	return nil
}

// ValidateVersion validates version strings like "1.0" or "v1.2.3"
func ValidateVersion(version string) error {
	if version == "" {
		return errors.New("version cannot be empty")
	}

	if !validVersionPattern.MatchString(version) {
		return errors.New("invalid version format")
	}

	return nil
}

// ValidateDate validates date strings in YYYY-MM-DD format
func ValidateDate(date string) error {
	// Empty dates are allowed (will default to current date)
	if date == "" {
		return nil
	}

	_, err := time.Parse("2006-01-02", date)
	if err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}

	return nil
}

// ValidateTimestamp validates timestamps in "YYYY-MM-DD HH:MM:SS" format,
// the canonical submit_time format for cleaned records
func ValidateTimestamp(ts string) error {
	if ts == "" {
		return errors.New("timestamp cannot be empty")
	}

	_, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		return errors.New("invalid timestamp format, use YYYY-MM-DD HH:MM:SS")
	}

	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	sanitized = strings.TrimSpace(sanitized)

	return sanitized
}

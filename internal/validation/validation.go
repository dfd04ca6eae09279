// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks that the email has a plausible address shape.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 255 {
		return fmt.Errorf("email must not exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword checks password length bounds. The upper bound is bcrypt's
// 72-byte input limit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 72 {
		return fmt.Errorf("password must not exceed 72 characters")
	}
	return nil
}

// ValidateName checks an admin's display name.
func ValidateName(name string) error {
	if len(name) < 2 || len(name) > 255 {
		return fmt.Errorf("name must be between 2 and 255 characters")
	}
	return nil
}

// ValidateTitle checks a category title.
func ValidateTitle(title string) error {
	if len(title) < 1 || len(title) > 255 {
		return fmt.Errorf("title must be between 1 and 255 characters")
	}
	return nil
}

// ValidateStudentName checks a submitted student name.
func ValidateStudentName(name string) error {
	if len(name) < 2 || len(name) > 255 {
		return fmt.Errorf("student_name must be between 2 and 255 characters")
	}
	return nil
}

// ValidateStudentPhone checks a submitted phone number.
func ValidateStudentPhone(phone string) error {
	if len(phone) < 5 || len(phone) > 20 {
		return fmt.Errorf("student_phone must be between 5 and 20 characters")
	}
	return nil
}

// ValidateAmountPaid checks that the paid amount is strictly positive.
func ValidateAmountPaid(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount_paid must be greater than zero")
	}
	return nil
}

// ValidateExpectedAmount checks an optional expected amount for a category.
func ValidateExpectedAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount_expected must not be negative")
	}
	return nil
}

// ValidateFileExtension matches the filename's suffix (case-insensitively)
// against the allow-list of extensions ("." included).
func ValidateFileExtension(filename string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("file type %q not allowed. Allowed types: %s", ext, strings.Join(allowed, ", "))
}

// ValidateFileSize checks the upload against the configured byte ceiling.
func ValidateFileSize(size, maxBytes int64) error {
	if size <= 0 {
		return fmt.Errorf("uploaded file is empty")
	}
	if size > maxBytes {
		return fmt.Errorf("file too large (%d bytes). Maximum size: %.1f MB", size, float64(maxBytes)/(1024*1024))
	}
	return nil
}

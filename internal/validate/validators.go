// internal/validate/validators.go

// Package validate holds the pure field validators used by the wizard's
// step rule sets. Each validator checks a single already-typed value and
// returns nil for valid input or an error carrying the human-readable
// reason. Validators never panic and hold no state.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// MaxFileSize is the upload ceiling applied to every attached file.
const MaxFileSize = 10 * 1024 * 1024 // 10 MiB

const (
	MinLoadCapacityTons = 1
	MaxLoadCapacityTons = 15
)

var (
	// Optional +27 prefix or leading zero, then 6/7/8, then 8 more digits.
	mobileRegex = regexp.MustCompile(`^(\+27|0)[6-8][0-9]{8}$`)

	// local@domain.tld shape; no whitespace, single @.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)

	accountNumberRegex = regexp.MustCompile(`^\d{8,13}$`)
	branchCodeRegex    = regexp.MustCompile(`^\d{6}$`)
)

// AllowedDocumentMimeTypes are the upload content types the typed document
// step accepts. Enforced again server-side by the submission pipeline.
var AllowedDocumentMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/webp":      true,
}

// MobileNumber validates a South African mobile number. Whitespace is
// stripped before matching, so "+27 82 123 4567" and "0821234567" both pass.
func MobileNumber(value string) error {
	clean := strings.ReplaceAll(value, " ", "")
	if clean == "" {
		return errors.New("Mobile number is required")
	}
	if !mobileRegex.MatchString(clean) {
		return errors.New("Invalid South African phone number format (e.g., +27 82 123 4567 or 082 123 4567)")
	}
	return nil
}

// Email validates the local@domain.tld shape.
func Email(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("Email is required")
	}
	if !emailRegex.MatchString(value) {
		return errors.New("Invalid email format")
	}
	return nil
}

// AccountNumber requires 8-13 digits, nothing else.
func AccountNumber(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("Account number is required")
	}
	if !accountNumberRegex.MatchString(value) {
		return errors.New("Account number must be 8-13 digits")
	}
	return nil
}

// BranchCode requires exactly 6 digits.
func BranchCode(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("Branch code is required")
	}
	if !branchCodeRegex.MatchString(value) {
		return errors.New("Branch code must be exactly 6 digits")
	}
	return nil
}

// AccountHolderName requires at least 2 characters.
func AccountHolderName(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("Account holder name is required")
	}
	if len(strings.TrimSpace(value)) < 2 {
		return errors.New("Account holder name must be at least 2 characters")
	}
	return nil
}

// LoadCapacity parses the leading integer of a "<N> Ton(s)" label and
// range-checks it. The selector is constrained, but the value is checked
// again here because it crosses a trust boundary on the way in.
func LoadCapacity(value string) error {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return errors.New("Load capacity is required")
	}
	tons, err := strconv.Atoi(fields[0])
	if err != nil {
		return errors.New("Load capacity must start with a number of tons")
	}
	if tons < MinLoadCapacityTons || tons > MaxLoadCapacityTons {
		return errors.New("Load capacity must be between 1 and 15 tons")
	}
	return nil
}

// FileSize rejects any file larger than MaxFileSize.
func FileSize(size int64) error {
	if size > MaxFileSize {
		return errors.New("File size must be less than 10MB")
	}
	return nil
}

// DocumentMimeType rejects content types outside the accepted set.
func DocumentMimeType(mimeType string) error {
	if !AllowedDocumentMimeTypes[strings.ToLower(mimeType)] {
		return errors.New("File type must be PDF, JPEG, PNG or WebP")
	}
	return nil
}

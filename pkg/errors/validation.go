package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxSnapshotBytes is the largest snapshot document accepted by decoders.
// Larger inputs are rejected before any JSON parsing happens.
const MaxSnapshotBytes = 8 << 20 // 8 MiB

// ValidateShareName validates the display name attached to a stored share.
// Names are optional; an empty name is valid and the share is then listed
// by its id alone.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - No names that are entirely whitespace
//   - Maximum length of 120 characters
func ValidateShareName(name string) error {
	if name == "" {
		return nil
	}

	if len(name) > 120 {
		return New(ErrCodeInvalidShare, "share name too long (max 120 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidShare, "share name contains invalid control characters")
		}
	}

	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidShare, "share name cannot be blank")
	}

	return nil
}

// prefixRegex matches prefix strings that survive identifier sanitization.
// Dots and slashes are rewritten to underscores downstream; every other
// character must already be safe inside a generated identifier.
var prefixRegex = regexp.MustCompile(`^[A-Za-z0-9_:./-]+$`)

// ValidatePrefix validates a destination prefix string.
//
// The model itself accepts any non-empty token. These checks reject inputs
// that would corrupt generated documents after sanitization:
//   - No empty strings
//   - No control characters or whitespace
//   - Only characters from the CIDR alphabet plus separators
//   - Maximum length of 128 characters
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidPrefix, "prefix cannot be empty")
	}

	if len(prefix) > 128 {
		return New(ErrCodeInvalidPrefix, "prefix too long (max 128 characters)")
	}

	if !prefixRegex.MatchString(prefix) {
		return New(ErrCodeInvalidPrefix, "invalid prefix: %q", prefix)
	}

	return nil
}

// ValidateSnapshotSize validates the byte size of a snapshot document
// before it is decoded.
func ValidateSnapshotSize(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidSnapshot, "snapshot cannot be empty")
	}

	if n > MaxSnapshotBytes {
		return New(ErrCodeInvalidSnapshot, "snapshot too large (%d bytes, max %d)", n, MaxSnapshotBytes)
	}

	return nil
}

// ValidateOutputPath validates a filesystem path used as a write target.
// Existence and permissions are left to the caller.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	return nil
}

package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLabelLength bounds a single label in bytes.
const MaxLabelLength = 128

// ValidateLabel validates a single name label.
//
// Rules:
//   - Not empty after trimming
//   - At most MaxLabelLength bytes
//   - No control characters
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", MaxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	return nil
}

// storeKeyRegex matches keys that are safe as file names and Redis keys.
var storeKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateStoreKey validates a persistence key.
// File-backed stores use the key as a file name, so path traversal
// sequences and separators are rejected.
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "store key cannot be empty")
	}

	const maxKeyLength = 200
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "store key too long (max %d characters)", maxKeyLength)
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidKey, "store key cannot contain path traversal sequences (..)")
	}

	if !storeKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidKey, "invalid store key: %q", key)
	}

	return nil
}

package errors

import (
	"strings"
	"unicode"
)

// MaxLineLength bounds a single line-notation record accepted from users.
const MaxLineLength = 1 << 16

// ValidateLineInput validates a line-notation record before parsing.
//
// The validation rules are intentionally conservative:
//   - No empty records
//   - No control characters (tabs and newlines included)
//   - No non-ASCII characters
//   - Maximum length of MaxLineLength bytes
func ValidateLineInput(s string) error {
	if s == "" {
		return New(ErrCodeInvalidInput, "record cannot be empty")
	}
	if len(s) > MaxLineLength {
		return New(ErrCodeInvalidInput, "record too long (max %d bytes)", MaxLineLength)
	}
	for i, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "record contains a control character at offset %d", i)
		}
		if r > unicode.MaxASCII {
			return New(ErrCodeInvalidInput, "record contains non-ASCII character %q at offset %d", r, i)
		}
	}
	return nil
}

// ValidateElementSymbol checks that symbol looks like an element symbol:
// one upper-case letter optionally followed by one or two lower-case
// letters, or the wildcard "*".
func ValidateElementSymbol(symbol string) error {
	if symbol == "*" {
		return nil
	}
	if symbol == "" || len(symbol) > 3 {
		return New(ErrCodeInvalidInput, "invalid element symbol %q", symbol)
	}
	if !unicode.IsUpper(rune(symbol[0])) {
		return New(ErrCodeInvalidInput, "element symbol %q must start with an upper-case letter", symbol)
	}
	for _, r := range symbol[1:] {
		if !unicode.IsLower(r) {
			return New(ErrCodeInvalidInput, "invalid element symbol %q", symbol)
		}
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path has leading or trailing whitespace")
	}

	return nil
}

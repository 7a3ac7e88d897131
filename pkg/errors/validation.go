package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxRows bounds the grid size accepted from user input. Larger grids are
// valid for the engine but unreadable in any of the renderers.
const MaxRows = 512

// ValidateRows checks a requested grid size.
func ValidateRows(rows int) error {
	if rows <= 0 {
		return New(ErrCodeInvalidSize, "grid rows must be positive, got %d", rows)
	}
	if rows > MaxRows {
		return New(ErrCodeInvalidSize, "grid rows too large (max %d), got %d", MaxRows, rows)
	}
	return nil
}

// ValidateFormats checks that every requested output format is in valid.
func ValidateFormats(formats []string, valid []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one output format is required")
	}
	for _, f := range formats {
		if !slices.Contains(valid, f) {
			return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(valid, ", "))
		}
	}
	return nil
}

// ValidatePath validates a user-supplied file path for layouts and outputs.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

package errors

import (
	"strings"
	"unicode"
)

// MaxGridDim bounds both grid dimensions accepted from external input.
const MaxGridDim = 256

// MaxColor is the largest color code accepted from external input.
const MaxColor = 255

// ValidateShape checks that a grid of rows×cols cells is acceptable.
func ValidateShape(rows, cols int) error {
	if rows == 0 || cols == 0 {
		return New(ErrCodeInvalidGrid, "grid cannot be empty")
	}
	if rows > MaxGridDim || cols > MaxGridDim {
		return New(ErrCodeInvalidGrid, "grid %dx%d too large (max %d per side)", rows, cols, MaxGridDim)
	}
	return nil
}

// ValidateColor checks that v is a usable color code.
func ValidateColor(v int) error {
	if v < 0 || v > MaxColor {
		return New(ErrCodeInvalidGrid, "color %d out of range [0, %d]", v, MaxColor)
	}
	return nil
}

// ValidateThreshold checks a similarity threshold lies in (0, 1].
func ValidateThreshold(t float64) error {
	if t <= 0 || t > 1 {
		return New(ErrCodeInvalidOption, "threshold %v must be in (0, 1]", t)
	}
	return nil
}

// ValidateOutputPath validates a file path supplied for writing results.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
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

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

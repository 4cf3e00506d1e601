package errors

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidatePath validates a manifest or directory path given on the command line.
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

	return nil
}

// ValidateArg validates a single extra installer argument.
// Arguments are handed to the installer verbatim, so anything a process
// argv cannot carry is rejected here instead of at spawn time.
func ValidateArg(arg string) error {
	if strings.ContainsRune(arg, '\x00') {
		return New(ErrCodeInvalidArgs, "argument %q contains a null byte", arg)
	}
	for _, r := range arg {
		if r == '\n' || r == '\r' {
			return New(ErrCodeInvalidArgs, "argument %q contains a line break", arg)
		}
	}
	return nil
}

// ValidatePattern validates a directory-walk exclude pattern.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidConfig, "exclude pattern cannot be empty")
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid exclude pattern %q", pattern)
	}
	return nil
}

// ValidateRunID validates a history run identifier.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid run id %q", id)
	}
	return nil
}

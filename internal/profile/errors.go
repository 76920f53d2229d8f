package profile

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes for profile loading failures.
const (
	// ErrCodeNotFound - profile file missing or unreadable.
	ErrCodeNotFound = "E001"
	// ErrCodeParse - file is not valid CUE.
	ErrCodeParse = "E002"
	// ErrCodeSchema - file violates the #Profile schema (unknown field,
	// wrong type, negative limit).
	ErrCodeSchema = "E003"
	// ErrCodeValue - a field exists but its value cannot be extracted.
	ErrCodeValue = "E004"
)

// LoadError is a positioned profile loading failure.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position when available
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError returns true if the error is a profile load error.
// Uses errors.As to handle wrapped errors.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

package query

import (
	"errors"
	"fmt"
)

// ErrHelpRequested is returned by Parse when the token sequence asks for
// help. Help takes precedence over every other token, malformed ones
// included, so callers can rely on a help request never being masked by a
// parse error.
var ErrHelpRequested = errors.New("help requested")

// ParseError reports a malformed filter configuration: an unknown flag, a
// flag missing its value, or a non-integer where an integer is required.
//
// A ParseError never aborts the host build. The bootstrap path reports it
// once and runs with emission disabled.
type ParseError struct {
	// Token is the offending flag or value as the user wrote it.
	Token string

	// Reason describes what was wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid filter flags: %s", e.Reason)
	}
	return fmt.Sprintf("invalid filter flags at %q: %s", e.Token, e.Reason)
}

// IsParseError returns true if the error is a filter parse error.
// Uses errors.As to handle wrapped errors.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

package registry

import (
	"errors"
	"fmt"
)

// InvariantError reports a broken enter/exit pairing.
//
// The registry's accounting only stays truthful when every Enter is paired
// with exactly one Exit for the same identity on the same goroutine. A
// violation is a programming bug in the interception wrapper, so the
// registry panics with this error rather than limping on with corrupted
// counters.
type InvariantError struct {
	// Op is the operation that detected the violation, "enter" or "exit".
	Op string

	// Identity is the rendering of the identity involved, when known.
	Identity string

	// Detail describes the mismatch.
	Detail string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Identity == "" {
		return fmt.Sprintf("registry invariant violated in %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("registry invariant violated in %s of %s: %s", e.Op, e.Identity, e.Detail)
}

// IsInvariantError returns true if the error is a registry invariant
// violation. Uses errors.As to handle wrapped errors.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

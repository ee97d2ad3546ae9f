package contest

import (
	"errors"
	"fmt"
)

var (
	// ErrIneligible is returned when the session's status or round forbids
	// the requested operation. Nothing is mutated.
	ErrIneligible = errors.New("operation not allowed in current state")

	ErrLockedOrDisqualified = fmt.Errorf("%w: session is not active", ErrIneligible)
	ErrNotLocked            = fmt.Errorf("%w: session is not locked", ErrIneligible)

	ErrInvalidCode  = errors.New("invalid or expired code")
	ErrUnknownPhase = errors.New("unknown phase")
)

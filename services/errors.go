package services

import (
	"errors"
	"strings"
)

var (
	// ErrNoTableAvailable is the business-rule failure: every suitable
	// table is taken for the requested slot. Not a system error.
	ErrNoTableAvailable = errors.New("no suitable tables available for the requested time and party size")

	ErrInvalidPartySize  = errors.New("invalid party size, must be a valid number greater than 0")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("status transition not allowed")
	ErrInvalidTableType  = errors.New("invalid table type, must be normal, business, or dinner")
	ErrTableInUse        = errors.New("table has active reservations and cannot be deleted")

	// errSlotTaken signals that a concurrent allocation won the slot; the
	// allocator moves on to the next candidate.
	errSlotTaken = errors.New("slot already taken")
)

// ValidationError lists every missing or malformed field of a booking
// request so the caller can fix the whole form at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

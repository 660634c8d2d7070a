package session

import (
	"errors"
	"fmt"

	deviceRepo "gamecentre/database/repository/device"
	"gamecentre/models"
)

var (
	// ErrUnknownSession is returned when a session id does not resolve.
	ErrUnknownSession = errors.New("unknown session")
	// ErrUnknownDevice is returned when a device id does not resolve.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrAlreadyHeld is returned when activation races onto a device held by
	// a different active session.
	ErrAlreadyHeld = deviceRepo.ErrAlreadyHeld
)

// ValidationError rejects bad input before any state mutation. Recoverable by
// retrying with corrected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports a transition attempted from the wrong lifecycle state.
// No partial mutation occurs.
type StateError struct {
	Op     string
	ID     string
	Status models.SessionStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: session %s is %s", e.Op, e.ID, e.Status)
}

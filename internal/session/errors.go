package session

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not allowed in
	// the current state.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrGuardFailed is returned when every candidate transition's guard
	// rejected the trigger.
	ErrGuardFailed = errors.New("transition guard rejected trigger")
)

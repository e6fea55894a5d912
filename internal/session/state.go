// Package session guards the generate-then-send flow with an explicit
// state machine. Sending is reachable only through an explicit Confirm
// step after generation, so the safety gate holds structurally, not by
// the ordering of buttons on some interactive surface.
package session

// State is one phase of a distribution session
type State string

const (
	// StateIdle is the initial state: no workbook loaded.
	StateIdle State = "IDLE"
	// StateLoaded means a sheet is loaded and validated.
	StateLoaded State = "LOADED"
	// StateGenerated means PDFs and the generation report exist.
	StateGenerated State = "GENERATED"
	// StateConfirmed means the operator has inspected the output and
	// explicitly opted in to sending.
	StateConfirmed State = "CONFIRMED"
	// StateSent means a distribution run has completed.
	StateSent State = "SENT"
)

var validStates = map[State]bool{
	StateIdle:      true,
	StateLoaded:    true,
	StateGenerated: true,
	StateConfirmed: true,
	StateSent:      true,
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid session state
func (s State) IsValid() bool {
	return validStates[s]
}

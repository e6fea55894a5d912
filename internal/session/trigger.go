package session

// Trigger is an event that may move a session between states
type Trigger string

const (
	// TriggerLoad loads (or reloads) a sheet, discarding generated output.
	TriggerLoad Trigger = "LOAD"
	// TriggerGenerate runs a generation batch.
	TriggerGenerate Trigger = "GENERATE"
	// TriggerConfirm records the operator's explicit opt-in to send.
	TriggerConfirm Trigger = "CONFIRM"
	// TriggerSend runs a distribution batch.
	TriggerSend Trigger = "SEND"
	// TriggerReset discards everything and returns to idle.
	TriggerReset Trigger = "RESET"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

package session

// NewLifecycle builds the distribution session machine:
//
//	Idle → Loaded → Generated → Confirmed → Sent
//
// Loading again from any later state discards results and drops back to
// Loaded. Re-generating from Confirmed or Sent invalidates the earlier
// confirmation, so sending always requires a fresh explicit Confirm
// after the output last changed. Send is repeatable from Sent, which
// lets a late email-mapping upload pick up previously skipped
// recipients. Reset returns to Idle from anywhere.
func NewLifecycle() Machine {
	b := NewBuilder()

	b.Configure(StateIdle).
		Permit(TriggerLoad, StateLoaded).
		Permit(TriggerReset, StateIdle)

	b.Configure(StateLoaded).
		Permit(TriggerLoad, StateLoaded).
		Permit(TriggerGenerate, StateGenerated).
		Permit(TriggerReset, StateIdle)

	b.Configure(StateGenerated).
		Permit(TriggerLoad, StateLoaded).
		Permit(TriggerGenerate, StateGenerated).
		Permit(TriggerConfirm, StateConfirmed).
		Permit(TriggerReset, StateIdle)

	b.Configure(StateConfirmed).
		Permit(TriggerLoad, StateLoaded).
		Permit(TriggerGenerate, StateGenerated).
		Permit(TriggerSend, StateSent).
		Permit(TriggerReset, StateIdle)

	b.Configure(StateSent).
		Permit(TriggerLoad, StateLoaded).
		Permit(TriggerGenerate, StateGenerated).
		Permit(TriggerSend, StateSent).
		Permit(TriggerReset, StateIdle)

	return b.Build(StateIdle)
}

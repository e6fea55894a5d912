package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"idle", StateIdle, true},
		{"sent", StateSent, true},
		{"invalid", State("BOGUS"), false},
		{"empty", State(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.IsValid())
		})
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()
	NewBuilder().Configure(State("BOGUS"))
}

func TestMachine_GuardedTransition(t *testing.T) {
	allowed := false
	b := NewBuilder()
	b.Configure(StateIdle).PermitIf(TriggerLoad, StateLoaded, func(ctx context.Context) bool {
		return allowed
	})
	m := b.Build(StateIdle)

	err := m.Fire(context.Background(), TriggerLoad)
	assert.ErrorIs(t, err, ErrGuardFailed)
	assert.Equal(t, StateIdle, m.State())

	allowed = true
	require.NoError(t, m.Fire(context.Background(), TriggerLoad))
	assert.Equal(t, StateLoaded, m.State())
}

func TestMachine_IndependentInstances(t *testing.T) {
	b := NewBuilder()
	b.Configure(StateIdle).Permit(TriggerLoad, StateLoaded)

	m1 := b.Build(StateIdle)
	m2 := b.Build(StateIdle)

	require.NoError(t, m1.Fire(context.Background(), TriggerLoad))
	assert.Equal(t, StateLoaded, m1.State())
	assert.Equal(t, StateIdle, m2.State())
}

func TestLifecycle_HappyPath(t *testing.T) {
	ctx := context.Background()
	m := NewLifecycle()

	assert.Equal(t, StateIdle, m.State())
	require.NoError(t, m.Fire(ctx, TriggerLoad))
	require.NoError(t, m.Fire(ctx, TriggerGenerate))
	require.NoError(t, m.Fire(ctx, TriggerConfirm))
	require.NoError(t, m.Fire(ctx, TriggerSend))
	assert.Equal(t, StateSent, m.State())
}

func TestLifecycle_SendRequiresConfirm(t *testing.T) {
	ctx := context.Background()
	m := NewLifecycle()

	require.NoError(t, m.Fire(ctx, TriggerLoad))
	require.NoError(t, m.Fire(ctx, TriggerGenerate))

	// send straight from Generated is structurally impossible
	err := m.Fire(ctx, TriggerSend)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateGenerated, m.State())
	assert.False(t, m.CanFire(TriggerSend))
}

func TestLifecycle_NoShortcutsFromIdle(t *testing.T) {
	ctx := context.Background()

	for _, trigger := range []Trigger{TriggerGenerate, TriggerConfirm, TriggerSend} {
		t.Run(trigger.String(), func(t *testing.T) {
			m := NewLifecycle()
			err := m.Fire(ctx, trigger)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, StateIdle, m.State())
		})
	}
}

func TestLifecycle_RegenerateInvalidatesConfirmation(t *testing.T) {
	ctx := context.Background()
	m := NewLifecycle()

	require.NoError(t, m.Fire(ctx, TriggerLoad))
	require.NoError(t, m.Fire(ctx, TriggerGenerate))
	require.NoError(t, m.Fire(ctx, TriggerConfirm))

	// output changed after confirmation: back to Generated, and sending
	// needs a fresh Confirm
	require.NoError(t, m.Fire(ctx, TriggerGenerate))
	assert.Equal(t, StateGenerated, m.State())
	assert.ErrorIs(t, m.Fire(ctx, TriggerSend), ErrInvalidTransition)
}

func TestLifecycle_ResendAfterSend(t *testing.T) {
	ctx := context.Background()
	m := NewLifecycle()

	require.NoError(t, m.Fire(ctx, TriggerLoad))
	require.NoError(t, m.Fire(ctx, TriggerGenerate))
	require.NoError(t, m.Fire(ctx, TriggerConfirm))
	require.NoError(t, m.Fire(ctx, TriggerSend))

	// a late mapping upload may resolve previously skipped recipients
	require.NoError(t, m.Fire(ctx, TriggerSend))
	assert.Equal(t, StateSent, m.State())
}

func TestLifecycle_ResetFromEveryState(t *testing.T) {
	ctx := context.Background()
	m := NewLifecycle()

	steps := []Trigger{TriggerLoad, TriggerGenerate, TriggerConfirm, TriggerSend}
	for i := range steps {
		m = NewLifecycle()
		for _, s := range steps[:i+1] {
			require.NoError(t, m.Fire(ctx, s))
		}
		require.NoError(t, m.Fire(ctx, TriggerReset))
		assert.Equal(t, StateIdle, m.State())
	}
}

func TestLifecycle_ReloadDiscardsProgress(t *testing.T) {
	ctx := context.Background()
	m := NewLifecycle()

	require.NoError(t, m.Fire(ctx, TriggerLoad))
	require.NoError(t, m.Fire(ctx, TriggerGenerate))
	require.NoError(t, m.Fire(ctx, TriggerLoad))
	assert.Equal(t, StateLoaded, m.State())
	assert.False(t, m.CanFire(TriggerConfirm))
}

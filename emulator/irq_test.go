package emulator

import "testing"

func TestIrqAssertIsEdgeTriggered(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	state := NewIrqState()
	state.SetMask(1 << INTERRUPT_VBLANK)

	assert(!state.Active())

	state.Assert(INTERRUPT_VBLANK)
	assert(state.Active())

	// asserting again while already high must not clear it
	state.Assert(INTERRUPT_VBLANK)
	assert(state.Active())

	state.Acknowledge(^uint16(1 << INTERRUPT_VBLANK))
	assert(!state.Active())
}

func TestIrqMaskedInterruptIsNotActive(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	state := NewIrqState()
	state.Assert(INTERRUPT_TIMER0)

	assert(!state.Active()) // mask is zero by default
}

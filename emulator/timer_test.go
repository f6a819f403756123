package emulator

import "testing"

func TestTimerSetModeFreeRunAndClockSource(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	timer := NewTimer(PERIPHERAL_TIMER0)
	// bit 0 clear selects free-run; clock source field (bits 8-9) = 1
	// picks the GPU dotclock for timer 0
	timer.SetMode(1 << 8)

	assert(timer.FreeRun)
	assert(timer.NeedsGPU())
}

func TestTimerModeRoundTrip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	timer := NewTimer(PERIPHERAL_TIMER2)
	timer.SetMode(0) // free run, sysclock, no irq sources

	mode := timer.Mode()
	assert(mode&1 == 0) // free run (sync disabled) reads back as the 0 that was written

	// reading Mode() clears the latched flags
	timer.TargetReached = true
	timer.OverflowReached = true
	timer.Mode()
	assert(!timer.TargetReached)
	assert(!timer.OverflowReached)
}

func TestTimerSyncCountsUpWithSysclock(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	th := NewTimeHandler()
	irqState := NewIrqState()

	timer := NewTimer(PERIPHERAL_TIMER2)
	timer.SetMode(0) // free run, sysclock source, no irq

	th.Tick(100)
	timer.Sync(th, irqState)

	assert(timer.Counter == 100)
	assert(!timer.Interrupt)
}

func TestTimerSyncRaisesTargetIrq(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	th := NewTimeHandler()
	irqState := NewIrqState()
	irqState.SetMask(1 << INTERRUPT_TIMER2)

	timer := NewTimer(PERIPHERAL_TIMER2)
	timer.SetMode(1<<4 | 1<<6) // free run, target irq, repeat irq
	timer.Target = 50

	th.Tick(60)
	timer.Sync(th, irqState)

	assert(timer.TargetReached)
	assert(irqState.Active())
}

func TestTimerPredictNextSyncDisarmsWithoutTargetIrq(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	th := NewTimeHandler()
	timer := NewTimer(PERIPHERAL_TIMER0)
	timer.SetMode(0) // no target irq configured

	timer.PredictNextSync(th)
	assert(!th.NeedsSync(PERIPHERAL_TIMER0))
}

func TestTimersVideoTimingsChangedResetsGpuSourcedTimers(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU(&nullRenderer{}, HARDWARE_NTSC)
	th := NewTimeHandler()
	irqState := NewIrqState()
	timers := NewTimers()

	timers.Timers[1].SetMode(1 << 8) // timer 1 sourced from GPU hsync

	timers.VideoTimingsChanged(th, irqState, gpu)

	assert(timers.Timers[1].Period.GetFixed() == gpu.HSyncPeriod().GetFixed())
}

// nullRenderer discards every primitive; used by tests that only need
// a GPU to exist, not to produce visible output.
type nullRenderer struct{}

func (nullRenderer) PushTriangle(positions [3]Position, colors [3]Color) {}
func (nullRenderer) PushQuad(positions [4]Position, colors [4]Color)     {}
func (nullRenderer) SetDrawOffset(x, y int16)                            {}
func (nullRenderer) Display()                                           {}

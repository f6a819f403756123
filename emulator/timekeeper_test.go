package emulator

import "testing"

func TestTimeHandlerSyncReturnsDeltaSinceLastSync(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	th := NewTimeHandler()
	th.Tick(100)

	assert(th.Sync(PERIPHERAL_GPU) == 100)
	// a second sync with no ticks in between should see no delta
	assert(th.Sync(PERIPHERAL_GPU) == 0)

	th.Tick(50)
	assert(th.Sync(PERIPHERAL_GPU) == 50)
}

func TestTimeHandlerNeedsSync(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	th := NewTimeHandler()
	th.SetNextSyncDelta(PERIPHERAL_TIMER0, 10)

	assert(!th.NeedsSync(PERIPHERAL_TIMER0))

	th.Tick(10)
	assert(th.NeedsSync(PERIPHERAL_TIMER0))
}

func TestTimeHandlerCyclesUntilNextSync(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	th := NewTimeHandler()
	th.SetNextSyncDelta(PERIPHERAL_GPU, 500)
	th.SetNextSyncDelta(PERIPHERAL_TIMER0, 200)
	th.RemoveNextSync(PERIPHERAL_TIMER1)
	th.RemoveNextSync(PERIPHERAL_TIMER2)

	assert(th.CyclesUntilNextSync() == 200)

	th.Tick(200)
	assert(th.CyclesUntilNextSync() == 0)
}

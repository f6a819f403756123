package emulator

import "testing"

func TestFracCyclesFromCycles(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	f := FracCyclesFromCycles(1)
	assert(f.GetFixed() == 1<<fracCyclesBits)
	assert(f.Ceil() == 1)
}

func TestFracCyclesRatioNtsc(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	// the GPU clock is faster than the CPU clock, so one CPU cycle is
	// worth more than one GPU cycle
	ratio := FracCyclesFromRatio(HARDWARE_NTSC.GpuClockHz(), CPU_FREQ_HZ)
	assert(ratio.GetFixed() > 1<<fracCyclesBits)
}

func TestFracCyclesAddMultiplyDivide(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	a := FracCyclesFromCycles(3)
	b := FracCyclesFromCycles(4)

	assert(a.Add(b).Ceil() == 7)

	half := FracCyclesFromFixed(1 << (fracCyclesBits - 1))
	assert(a.Multiply(half).Ceil() == 2) // 3 * 0.5 = 1.5, rounds up

	doubled := a.Divide(half)
	assert(doubled.Ceil() == 6) // 3 / 0.5 = 6
}

func TestFracCyclesCeilRoundsUpOnlyWithRemainder(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	exact := FracCyclesFromCycles(5)
	assert(exact.Ceil() == 5)

	withRemainder := FracCyclesFromFixed(exact.GetFixed() + 1)
	assert(withRemainder.Ceil() == 6)
}

package emulator

// Number of fractional bits used by FracCycles' Q16.16 representation.
const fracCyclesBits = 16

// A CPU-cycle duration or phase expressed as Q16.16 fixed point.
// All time conversion between the CPU clock and the GPU clock goes
// through this type so that long-running accumulation does not drift.
// The clock ratio itself is computed with integer arithmetic rather
// than f32 so the result is the same on every platform (see
// FracCyclesFromRatio and gpuToCpuClockRatio).
type FracCycles uint64

// FracBits returns the number of fractional bits in a FracCycles
// value (16).
func FracBits() uint {
	return fracCyclesBits
}

// FracCyclesFromFixed wraps a raw Q16.16 value.
func FracCyclesFromFixed(fp uint64) FracCycles {
	return FracCycles(fp)
}

// FracCyclesFromFP is an alias for FracCyclesFromFixed, matching the
// name used at several call sites in the timer subsystem.
func FracCyclesFromFP(fp uint64) FracCycles {
	return FracCyclesFromFixed(fp)
}

// FracCyclesFromCycles converts a whole CPU-cycle count into Q16.16.
func FracCyclesFromCycles(cycles uint64) FracCycles {
	return FracCycles(cycles << fracCyclesBits)
}

// FracCyclesFromF32 converts a floating point cycle count into
// Q16.16. Kept for API parity with the original implementation (and
// because float-derived ratios are still handy for quick estimates
// elsewhere), but the GPU-to-CPU clock ratio itself is computed with
// FracCyclesFromRatio's pure integer division to avoid the precision
// loss the original design notes call out.
func FracCyclesFromF32(v float32) FracCycles {
	return FracCycles(v * float32(uint64(1)<<fracCyclesBits))
}

// FracCyclesFromRatio computes num/denom as a Q16.16 fixed-point
// value using only integer arithmetic, so the result is bit-identical
// across platforms (unlike a float32 division rounded after the
// fact).
func FracCyclesFromRatio(num, denom uint64) FracCycles {
	return FracCycles((num << fracCyclesBits) / denom)
}

// GetFixed returns the raw Q16.16 representation.
func (f FracCycles) GetFixed() uint64 {
	return uint64(f)
}

// GetFP is an alias for GetFixed matching the original naming.
func (f FracCycles) GetFP() uint64 {
	return f.GetFixed()
}

// Add returns f + other.
func (f FracCycles) Add(other FracCycles) FracCycles {
	return f + other
}

// Multiply treats both f and other as Q16.16 scalars and returns
// their product, also in Q16.16.
func (f FracCycles) Multiply(other FracCycles) FracCycles {
	return FracCycles((uint64(f) * uint64(other)) >> fracCyclesBits)
}

// Divide treats both f and other as Q16.16 scalars and returns their
// quotient, also in Q16.16.
func (f FracCycles) Divide(other FracCycles) FracCycles {
	return FracCycles((uint64(f) << fracCyclesBits) / uint64(other))
}

// Ceil rounds f up to the nearest whole CPU cycle and returns it as
// a plain cycle count. Used whenever a duration is handed to the
// TimeKeeper, which must never be woken up before an event is
// actually due.
func (f FracCycles) Ceil() uint64 {
	shifted := uint64(f) >> fracCyclesBits
	if uint64(f)&((1<<fracCyclesBits)-1) != 0 {
		return shifted + 1
	}
	return shifted
}

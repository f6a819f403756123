package emulator

import "math"

// Keeps track of the emulation time
type TimeHandler struct {
	// Keeps track of the current execution time. It is measured in
	// the CPU clock at 33.8685MHz (~29.525960700946ns)
	Cycles     uint64
	TimeSheets []*TimeSheet
}

// Represents a TimeSheet index
type Peripheral uint32

const (
	PERIPHERAL_GPU    Peripheral = iota // Graphics Processing Unit
	PERIPHERAL_TIMER0                   // Timer 0: GPU pixel clock
	PERIPHERAL_TIMER1                   // Timer 1: GPU horizontal blanking
	PERIPHERAL_TIMER2                   // Timer 2: system clock divided by 8
	peripheralCount
)

// Returns a new instance of TimeHandler
func NewTimeHandler() *TimeHandler {
	sheets := make([]*TimeSheet, peripheralCount)
	for i := range sheets {
		sheets[i] = NewTimeSheet()
	}
	th := &TimeHandler{
		TimeSheets: sheets,
	}
	return th
}

// Advance the current time by `cycles`
func (th *TimeHandler) Tick(cycles uint64) {
	th.Cycles += cycles
}

// Synchronizes a peripheral
func (th *TimeHandler) Sync(from Peripheral) uint64 {
	return th.TimeSheets[from].Sync(th.Cycles)
}

func (th *TimeHandler) SetNextSyncDelta(from Peripheral, delta uint64) {
	th.TimeSheets[from].NextSync = th.Cycles + delta
}

// Disarms the forced synchronization for a peripheral, used when it
// no longer has any pending event (e.g. a timer with no IRQ source
// configured).
func (th *TimeHandler) RemoveNextSync(from Peripheral) {
	th.TimeSheets[from].NextSync = math.MaxUint64
}

// Returns true if the peripheral reached the time of the next forced
// synchronization
func (th *TimeHandler) NeedsSync(from Peripheral) bool {
	return th.TimeSheets[from].NeedsSync(th.Cycles)
}

// Returns the number of cycles until the earliest pending
// synchronization across every tracked peripheral. Used by a driving
// loop to sleep until the next event rather than poll every cycle.
func (th *TimeHandler) CyclesUntilNextSync() uint64 {
	next := uint64(math.MaxUint64)
	for _, sheet := range th.TimeSheets {
		if sheet.NextSync < next {
			next = sheet.NextSync
		}
	}
	if next <= th.Cycles {
		return 0
	}
	return next - th.Cycles
}

// Keeps track of synchronization of different peripherals
type TimeSheet struct {
	LastSync uint64 // Time of the last synchronization
	NextSync uint64 // Date of the next synchronization
}

// Returns a new TimeSheet instance
func NewTimeSheet() *TimeSheet {
	return &TimeSheet{}
}

// Set the time sheet to the current time and return the time
// since the last synchronization
func (sheet *TimeSheet) Sync(cycles uint64) uint64 {
	delta := cycles - sheet.LastSync
	sheet.LastSync = cycles
	return delta
}

// Returns true if the peripheral reached `NextSync`
func (sheet *TimeSheet) NeedsSync(cycles uint64) bool {
	return sheet.NextSync <= cycles
}

package emulator

import "testing"

func TestHResFromFieldsDotclockDivider(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cases := []struct {
		hr1, hr2 uint8
		divider  uint8
	}{
		{0, 0, 10},
		{1, 0, 8},
		{2, 0, 5},
		{3, 0, 4},
		{0, 1, 7}, // hr2 set always means 368 pixel mode
		{3, 1, 7},
	}

	for _, c := range cases {
		hr := HResFromFields(c.hr1, c.hr2)
		assert(hr.DotclockDivider() == c.divider)
	}
}

func TestVModeTimings(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	ticks, lines := VMODE_NTSC.Timings()
	assert(ticks == 3412)
	assert(lines == 263)

	ticks, lines = VMODE_PAL.Timings()
	assert(ticks == 3404)
	assert(lines == 314)
}

func TestHorizontalResIntoStatus(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	hr := HResFromFields(3, 1)
	assert(hr.IntoStatus() == uint32(hr)<<16)
}

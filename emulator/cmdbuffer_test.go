package emulator

import "testing"

func TestCommandBufferPushAndGet(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	var buf CommandBuffer
	buf.PushWord(0xdeadbeef)
	buf.PushWord(0x12345678)

	assert(buf.Len == 2)
	assert(buf.Get(0) == 0xdeadbeef)
	assert(buf.Get(1) == 0x12345678)
}

func TestCommandBufferClear(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	var buf CommandBuffer
	buf.PushWord(1)
	buf.PushWord(2)
	buf.Clear()

	assert(buf.Len == 0)
}

func TestCommandBufferOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on buffer overflow")
		}
	}()

	var buf CommandBuffer
	for i := 0; i < cmdBufferCapacity+1; i++ {
		buf.PushWord(uint32(i))
	}
}

func TestCommandBufferGetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range Get")
		}
	}()

	var buf CommandBuffer
	buf.PushWord(1)
	buf.Get(1)
}

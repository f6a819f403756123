package emulator

// A vertex position in the GPU's signed drawing coordinate space.
type Position struct {
	X, Y int16
}

// An RGB color as sent over GP0 (no alpha -- transparency is carried
// separately by the semi-transparency mode, which this core does not
// rasterize).
type Color struct {
	R, G, B uint8
}

// Renderer is the pluggable drawing backend the GPU core forwards
// primitives to. Pixel-accurate rasterization is out of scope for
// this module (see spec Non-goals); the only requirement on an
// implementation is that it accept primitives in protocol order and
// that Display return promptly (it may buffer work, but must not
// block on external I/O -- it runs synchronously inside Gpu.Sync).
type Renderer interface {
	PushTriangle(positions [3]Position, colors [3]Color)
	PushQuad(positions [4]Position, colors [4]Color)
	SetDrawOffset(x, y int16)
	Display()
}

// PositionFromGP0 decodes a vertex position from a GP0 parameter
// word. Both X and Y are 11bit two's complement signed values packed
// into the low and high halfwords respectively; shifting by 5 before
// an arithmetic right shift forces sign extension from bit 10, the
// same trick GP0(0xE5) uses for the drawing offset.
func PositionFromGP0(val uint32) Position {
	x := uint16(val)
	y := uint16(val >> 16)

	return Position{
		X: int16(x<<5) >> 5,
		Y: int16(y<<5) >> 5,
	}
}

// ColorFromGP0 decodes an RGB color from a GP0 parameter word.
func ColorFromGP0(val uint32) Color {
	return Color{
		R: uint8(val),
		G: uint8(val >> 8),
		B: uint8(val >> 16),
	}
}

package emulator

// GPU implements the command processor and video-timing state machine
// of the graphics core. It owns no pixel storage of its own: drawing
// primitives are decoded from GP0 packets and forwarded to a Renderer,
// while video timing drives the status register and the VBlank
// interrupt through TimeHandler/IrqState the same way the other
// peripherals do.
type GPU struct {
	Renderer Renderer // Pluggable drawing backend

	PageBaseX uint8 // Texture page base X coordinate (4 bits, 64 halfword increment)
	PageBaseY uint8 // Texture page base Y coordinate (1 bit, 256 line increment)
	// Semi-transparency. Not entirely sure how to handle that value yet, it
	// seems to describe how to blend the source and the destination colors
	SemiTransparency uint8
	TextureDepth     TextureDepth // Texture page color depth
	Dithering        bool         // Enable dithering from 24 to 15 bits RGB
	DrawToDisplay    bool         // Allow drawing to the display area
	// Force "mask" bit of the pixel to 1 when writing to VRAM (otherwise, don't
	// modify it)
	ForceSetMaskBit      bool
	PreserveMaskedPixels bool // Don't draw to pixels which have the "mask" bit set
	// Currently displayed field. For progressive output this is always FIELD_TOP
	Field          Field
	TextureDisable bool          // When true, all textures are disabled
	VRes           VerticalRes   // Video output vertical resolution
	HRes           HorizontalRes // Video output horizontal resolution
	VMode          VMode         // Video mode
	// Display depth. The GPU itself always draws 15 bit RGB, 24 bit output must
	// use external assets (pre-rendered textures, MDEC, etc.)
	DisplayDepth          DisplayDepth
	Interlaced            bool         // Output interlaced video signal instead of progressive
	DisplayDisabled       bool         // Disable the display
	DmaDirection          DmaDirection // DMA request direction
	RectangleTextureXFlip bool         // Mirror textured rectangles along the X axis
	RectangleTextureYFlip bool         // Mirror textured rectangles along the Y axis
	TextureWindowXMask    uint8        // Texture window X mask (8 pixel steps)
	TextureWindowYMask    uint8        // Texture window Y mask (8 pixel steps)
	TextureWindowXOffset  uint8        // Texture window X offset (8 pixel steps)
	TextureWindowYOffset  uint8        // Texture window Y offset (8 pixel steps)
	DrawingAreaLeft       uint16       // Left-most column of the drawing area
	DrawingAreaTop        uint16       // Top-most line of the drawing area
	DrawingAreaRight      uint16       // Right-most column of the drawing area
	DrawingAreaBottom     uint16       // Bottom-most line of the drawing area
	DrawingOffsetX        int16        // Horizontal drawing offset applied to all vertices
	DrawingOffsetY        int16        // Vertical drawing offset applied to all vertices
	DisplayVRamXStart     uint16       // First column of the display area in VRAM
	DisplayVRamYStart     uint16       // First line of the display area in VRAM
	DisplayHorizStart     uint16       // Display output horizontal start relative to HSYNC
	DisplayHorizEnd       uint16       // Display output horizontal end relative to HSYNC
	DisplayLineStart      uint16       // Display output first line relative to VSYNC
	DisplayLineEnd        uint16       // Display output last line relative to VSYNC

	GP0Command        CommandBuffer // Buffer containing the current GP0 command
	GP0WordsRemaining uint32        // Remaining number of words to fetch for the current GP0 command
	GP0CommandMethod  func(*GPU)    // Method implementing the current GP0 command
	GP0Mode           Gp0Mode       // Current mode of the GP0 register
	GP0Interrupt      bool          // True when the GP0 interrupt has been requested

	VblankInterrupt bool // True when the VBLANK interrupt is currently high

	// Fractional GPU cycle remainder resulting from the CPU clock/GPU
	// clock time conversion. The phase of the GPU clock relative to
	// the CPU, expressed in CPU clock periods.
	GpuClockPhase uint16

	DisplayLine     uint16 // Currently displayed video output line
	DisplayLineTick uint16 // Current GPU clock tick for the current line

	Hardware HardwareType // Hardware type (NTSC or PAL)
	ReadWord uint32       // Next word returned by the GPUREAD register
}

// NewGPU returns a GPU in the same reset state the BIOS expects to
// find on power-up.
func NewGPU(renderer Renderer, hardware HardwareType) *GPU {
	gpu := &GPU{
		Renderer:          renderer,
		TextureDepth:      TEXTURE_DEPTH_4BIT,
		Field:             FIELD_TOP,
		HRes:              HResFromFields(0, 0),
		VRes:              VRES_240_LINES,
		VMode:             VMODE_NTSC,
		DisplayDepth:      DISPLAY_DEPTH_15BITS,
		Interlaced:        false,
		DisplayDisabled:   true,
		DisplayHorizStart: 0x200,
		DisplayHorizEnd:   0xc00,
		DisplayLineStart:  0x10,
		DisplayLineEnd:    0x100,
		DmaDirection:      DD_DMA_OFF,
		GP0CommandMethod:  (*GPU).gp0Nop,
		GP0Mode:           GP0_MODE_COMMAND,
		Hardware:          hardware,
	}
	return gpu
}

// gpuToCpuClockRatio returns the GPU-to-CPU clock ratio as a Q16.16
// fixed point value.
func (gpu *GPU) gpuToCpuClockRatio() FracCycles {
	return FracCyclesFromRatio(gpu.Hardware.GpuClockHz(), CPU_FREQ_HZ)
}

// DotclockPeriod returns the period of the dotclock expressed in CPU
// clock periods.
func (gpu *GPU) DotclockPeriod() FracCycles {
	gpuClockPeriod := gpu.gpuToCpuClockRatio()
	divider := uint64(gpu.HRes.DotclockDivider())

	// Dividing the clock frequency means multiplying its period
	return FracCyclesFromFixed(gpuClockPeriod.GetFixed() * divider)
}

// DotclockPhase is not implemented: it panics with a diagnostic
// instead of returning the phase of the GPU dotclock.
func (gpu *GPU) DotclockPhase() FracCycles {
	panicFmt("gpu: dotclock phase is not implemented")
	return 0
}

// HSyncPeriod returns the period of the HSync signal in CPU clock
// periods.
func (gpu *GPU) HSyncPeriod() FracCycles {
	ticksPerLine, _ := gpu.VMode.Timings()
	lineLen := FracCyclesFromCycles(uint64(ticksPerLine))

	// Convert from GPU cycles into CPU cycles
	return lineLen.Divide(gpu.gpuToCpuClockRatio())
}

// HSyncPhase returns the phase of the hsync (position within the
// line) in CPU clock periods.
func (gpu *GPU) HSyncPhase() FracCycles {
	phase := FracCyclesFromCycles(uint64(gpu.DisplayLineTick))
	clockPhase := FracCyclesFromFixed(uint64(gpu.GpuClockPhase))

	phase = phase.Add(clockPhase)

	// Convert phase from GPU clock cycles into CPU clock cycles
	return phase.Multiply(gpu.gpuToCpuClockRatio())
}

// InVBlank returns true if we're currently in the vertical blanking
// period.
func (gpu *GPU) InVBlank() bool {
	return gpu.DisplayLine < gpu.DisplayLineStart || gpu.DisplayLine >= gpu.DisplayLineEnd
}

// DisplayedVRamLine returns the index of the currently displayed VRAM
// line.
func (gpu *GPU) DisplayedVRamLine() uint16 {
	var offset uint16
	if gpu.Interlaced {
		offset = gpu.DisplayLine*2 + uint16(gpu.Field)
	} else {
		offset = gpu.DisplayLine
	}

	// VRAM wraps around, truncate to 9 bits
	return (gpu.DisplayVRamYStart + offset) & 0x1ff
}

// Sync brings the GPU's video timing state up to date with the
// TimeHandler's global clock, asserting the VBlank interrupt on its
// rising edge and handing the frame to the renderer at the falling
// edge.
func (gpu *GPU) Sync(tk *TimeHandler, irqState *IrqState) {
	delta := tk.Sync(PERIPHERAL_GPU)

	// Convert delta into GPU time, adding the leftover from last time
	fdelta := uint64(gpu.GpuClockPhase) + delta*gpu.gpuToCpuClockRatio().GetFixed()

	// The low 16 bits are the new fractional part
	gpu.GpuClockPhase = uint16(fdelta)

	// Convert delta back to an integer number of GPU cycles
	delta = fdelta >> fracCyclesBits

	ticksPerLine, linesPerFrame := gpu.VMode.Timings()
	ticksPerLineC := uint64(ticksPerLine)
	linesPerFrameC := uint64(linesPerFrame)

	lineTick := uint64(gpu.DisplayLineTick) + delta
	line := uint64(gpu.DisplayLine) + lineTick/ticksPerLineC

	gpu.DisplayLineTick = uint16(lineTick % ticksPerLineC)

	if line > linesPerFrameC {
		// New frame
		if gpu.Interlaced {
			nframes := line / linesPerFrameC
			if (nframes+uint64(gpu.Field))&1 != 0 {
				gpu.Field = FIELD_TOP
			} else {
				gpu.Field = FIELD_BOTTOM
			}
		}

		gpu.DisplayLine = uint16(line % linesPerFrameC)
	} else {
		gpu.DisplayLine = uint16(line)
	}

	vblankInterrupt := gpu.InVBlank()

	if !gpu.VblankInterrupt && vblankInterrupt {
		// Rising edge of the vblank interrupt
		irqState.Assert(INTERRUPT_VBLANK)
	}

	if gpu.VblankInterrupt && !vblankInterrupt {
		// End of vertical blanking, latch the frame for display
		gpu.Renderer.Display()
	}

	gpu.VblankInterrupt = vblankInterrupt

	gpu.PredictNextSync(tk)
}

// PredictNextSync computes when the next forced synchronization
// should take place and arms the TimeHandler with it.
func (gpu *GPU) PredictNextSync(tk *TimeHandler) {
	ticksPerLine, linesPerFrame := gpu.VMode.Timings()
	ticksPerLineC := uint64(ticksPerLine)
	linesPerFrameC := uint64(linesPerFrame)

	var delta uint64

	curLine := uint64(gpu.DisplayLine)
	lineStart := uint64(gpu.DisplayLineStart)
	lineEnd := uint64(gpu.DisplayLineEnd)

	// Number of ticks to get to the start of the next line
	delta += ticksPerLineC - uint64(gpu.DisplayLineTick)

	switch {
	case curLine >= lineEnd:
		// In the vertical blanking at the end of the frame. Sync at
		// the end of blanking at the start of the next frame.
		delta += (linesPerFrameC - curLine) * ticksPerLineC
		delta += (lineStart - 1) * ticksPerLineC
	case curLine < lineStart:
		// In the vertical blanking at the beginning of the frame.
		// Sync at the end of blanking for the current frame.
		delta += (lineStart - 1 - curLine) * ticksPerLineC
	default:
		// In active video, sync at the beginning of vertical blanking.
		delta += (lineEnd - 1 - curLine) * ticksPerLineC
	}

	// Convert delta into CPU clock periods
	delta <<= fracCyclesBits
	// Remove the current fractional cycle to be more accurate
	delta -= uint64(gpu.GpuClockPhase)

	// Divide by the ratio, always rounding up so we're never triggered
	// too early
	ratio := gpu.gpuToCpuClockRatio().GetFixed()
	delta = (delta + ratio - 1) / ratio

	tk.SetNextSyncDelta(PERIPHERAL_GPU, delta)
}

// Status returns the value of the status register.
func (gpu *GPU) Status() uint32 {
	var r uint32

	r |= uint32(gpu.PageBaseX) << 0
	r |= uint32(gpu.PageBaseY) << 4
	r |= uint32(gpu.SemiTransparency) << 5
	r |= uint32(gpu.TextureDepth) << 7
	r |= oneIfTrue(gpu.Dithering) << 9
	r |= oneIfTrue(gpu.DrawToDisplay) << 10
	r |= oneIfTrue(gpu.ForceSetMaskBit) << 11
	r |= oneIfTrue(gpu.PreserveMaskedPixels) << 12
	r |= uint32(gpu.Field) << 13
	// bit 14: not supported
	r |= oneIfTrue(gpu.TextureDisable) << 15
	r |= gpu.HRes.IntoStatus()
	r |= uint32(gpu.VRes) << 19
	r |= uint32(gpu.VMode) << 20
	r |= uint32(gpu.DisplayDepth) << 21
	r |= oneIfTrue(gpu.Interlaced) << 22
	r |= oneIfTrue(gpu.DisplayDisabled) << 23
	r |= oneIfTrue(gpu.GP0Interrupt) << 24

	// for now, we pretend that the GPU is always ready:
	r |= 1 << 26 // ready to receive command
	r |= 1 << 27 // ready to send VRAM to CPU
	r |= 1 << 28 // ready to receive DMA block

	r |= uint32(gpu.DmaDirection) << 29

	// bit 31: 1 if the currently displayed VRAM line is odd, 0 if it's
	// even or if we're in vertical blanking
	if !gpu.InVBlank() {
		r |= (uint32(gpu.DisplayedVRamLine()) & 1) << 31
	}

	// Not sure about that, guessing it's the signal checked by the DMA
	// when sending data in Request synchronization mode; for now
	// blindly follow the Nocash spec.
	var dmaRequest uint32
	switch gpu.DmaDirection {
	case DD_DMA_OFF: // always 0
		dmaRequest = 0
	case DD_DMA_FIFO: // should be 0 if FIFO is full, 1 otherwise
		dmaRequest = 1
	case DD_CPU_TO_GP0: // should be the same as status bit 28
		dmaRequest = (r >> 28) & 1
	case DD_VRAM_TO_CPU: // should be the same as status bit 27
		dmaRequest = (r >> 27) & 1
	}
	r |= dmaRequest << 25

	return r
}

// Read returns the value of the GPUREAD register.
func (gpu *GPU) Read() uint32 {
	// XXX framebuffer read not supported
	return gpu.ReadWord
}

// Load services a CPU read from the GPU's memory-mapped registers.
func (gpu *GPU) Load(tk *TimeHandler, irqState *IrqState, offset uint32, size AccessSize) uint32 {
	if size != ACCESS_WORD {
		panicFmt("gpu: unhandled %d-byte load", size)
	}

	gpu.Sync(tk, irqState)

	switch offset {
	case 0:
		return gpu.Read()
	case 4:
		return gpu.Status()
	default:
		panicFmt("gpu: unhandled load offset %d", offset)
		return 0
	}
}

// Store services a CPU write to the GPU's memory-mapped registers.
func (gpu *GPU) Store(tk *TimeHandler, timers *Timers, irqState *IrqState, offset uint32, val uint32, size AccessSize) {
	if size != ACCESS_WORD {
		panicFmt("gpu: unhandled %d-byte store", size)
	}

	gpu.Sync(tk, irqState)

	switch offset {
	case 0:
		gpu.GP0(val)
	case 4:
		gpu.GP1(val, tk, timers, irqState)
	default:
		panicFmt("gpu: unhandled store offset %d", offset)
	}
}

type gp0Entry struct {
	len    uint32
	method func(*GPU)
}

var gp0Table = map[uint32]gp0Entry{
	0x00: {1, (*GPU).gp0Nop},
	0x01: {1, (*GPU).gp0ClearCache},
	0x02: {3, (*GPU).gp0FillRect},
	0x20: {4, (*GPU).gp0TriangleMonoOpaque},
	0x28: {5, (*GPU).gp0QuadMonoOpaque},
	0x2c: {9, (*GPU).gp0QuadTextureBlendOpaque},
	0x2f: {9, (*GPU).gp0QuadTextureBlendOpaque},
	0x2d: {9, (*GPU).gp0QuadTextureRawOpaque},
	0x30: {6, (*GPU).gp0TriangleShadedOpaque},
	0x38: {8, (*GPU).gp0QuadShadedOpaque},
	0x60: {3, (*GPU).gp0RectOpaque},
	0x64: {4, (*GPU).gp0RectTextureBlendOpaque},
	0x65: {4, (*GPU).gp0RectTextureRawOpaque},
	0xa0: {3, (*GPU).gp0ImageLoad},
	0xc0: {3, (*GPU).gp0ImageStore},
	0xe1: {1, (*GPU).gp0DrawMode},
	0xe2: {1, (*GPU).gp0TextureWindow},
	0xe3: {1, (*GPU).gp0DrawingAreaTopLeft},
	0xe4: {1, (*GPU).gp0DrawingAreaBottomRight},
	0xe5: {1, (*GPU).gp0DrawingOffset},
	0xe6: {1, (*GPU).gp0MaskBitSetting},
}

// GP0 handles a write to the GP0 command register, assembling
// multi-word commands and image data across successive calls.
func (gpu *GPU) GP0(val uint32) {
	if gpu.GP0WordsRemaining == 0 {
		// Start a new GP0 command
		opcode := val >> 24

		entry, ok := gp0Table[opcode]
		if !ok {
			panicFmt("gpu: unhandled GP0 command 0x%08x", val)
		}

		gpu.GP0WordsRemaining = entry.len
		gpu.GP0CommandMethod = entry.method

		gpu.GP0Command.Clear()
	}

	gpu.GP0WordsRemaining--

	switch gpu.GP0Mode {
	case GP0_MODE_COMMAND:
		gpu.GP0Command.PushWord(val)

		if gpu.GP0WordsRemaining == 0 {
			// We have all the parameters, run the command
			gpu.GP0CommandMethod(gpu)
		}
	case GP0_MODE_IMAGE_LOAD:
		// XXX pixel data is not copied to VRAM
		if gpu.GP0WordsRemaining == 0 {
			gpu.GP0Mode = GP0_MODE_COMMAND
		}
	}
}

// GP0(0x00): No Operation
func (gpu *GPU) gp0Nop() {}

// GP0(0x01): Clear Cache
func (gpu *GPU) gp0ClearCache() {
	// not implemented: this core has no texture cache to invalidate
}

// GP0(0x02): Fill Rectangle
func (gpu *GPU) gp0FillRect() {
	// XXX not affected by mask setting
	topLeft := PositionFromGP0(gpu.GP0Command.Get(1))
	size := PositionFromGP0(gpu.GP0Command.Get(2))

	positions := [4]Position{
		topLeft,
		{X: topLeft.X + size.X, Y: topLeft.Y},
		{X: topLeft.X, Y: topLeft.Y + size.Y},
		{X: topLeft.X + size.X, Y: topLeft.Y + size.Y},
	}

	color := ColorFromGP0(gpu.GP0Command.Get(0))
	colors := [4]Color{color, color, color, color}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0x20): Monochrome Opaque Triangle
func (gpu *GPU) gp0TriangleMonoOpaque() {
	positions := [3]Position{
		PositionFromGP0(gpu.GP0Command.Get(1)),
		PositionFromGP0(gpu.GP0Command.Get(2)),
		PositionFromGP0(gpu.GP0Command.Get(3)),
	}

	color := ColorFromGP0(gpu.GP0Command.Get(0))
	colors := [3]Color{color, color, color}

	gpu.Renderer.PushTriangle(positions, colors)
}

// GP0(0x28): Monochrome Opaque Quadrilateral
func (gpu *GPU) gp0QuadMonoOpaque() {
	positions := [4]Position{
		PositionFromGP0(gpu.GP0Command.Get(1)),
		PositionFromGP0(gpu.GP0Command.Get(2)),
		PositionFromGP0(gpu.GP0Command.Get(3)),
		PositionFromGP0(gpu.GP0Command.Get(4)),
	}

	color := ColorFromGP0(gpu.GP0Command.Get(0))
	colors := [4]Color{color, color, color, color}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0x2C)/GP0(0x2F): Texture-blended Opaque Quadrilateral
func (gpu *GPU) gp0QuadTextureBlendOpaque() {
	positions := [4]Position{
		PositionFromGP0(gpu.GP0Command.Get(1)),
		PositionFromGP0(gpu.GP0Command.Get(3)),
		PositionFromGP0(gpu.GP0Command.Get(5)),
		PositionFromGP0(gpu.GP0Command.Get(7)),
	}

	// XXX textures aren't sampled, use a solid color as a placeholder
	color := Color{R: 0x80}
	colors := [4]Color{color, color, color, color}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0x2D): Raw Textured Opaque Quadrilateral
func (gpu *GPU) gp0QuadTextureRawOpaque() {
	positions := [4]Position{
		PositionFromGP0(gpu.GP0Command.Get(1)),
		PositionFromGP0(gpu.GP0Command.Get(3)),
		PositionFromGP0(gpu.GP0Command.Get(5)),
		PositionFromGP0(gpu.GP0Command.Get(7)),
	}

	// XXX textures aren't sampled, use a solid color as a placeholder
	color := Color{R: 0x80}
	colors := [4]Color{color, color, color, color}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0x30): Shaded Opaque Triangle
func (gpu *GPU) gp0TriangleShadedOpaque() {
	positions := [3]Position{
		PositionFromGP0(gpu.GP0Command.Get(1)),
		PositionFromGP0(gpu.GP0Command.Get(3)),
		PositionFromGP0(gpu.GP0Command.Get(5)),
	}

	colors := [3]Color{
		ColorFromGP0(gpu.GP0Command.Get(0)),
		ColorFromGP0(gpu.GP0Command.Get(2)),
		ColorFromGP0(gpu.GP0Command.Get(4)),
	}

	gpu.Renderer.PushTriangle(positions, colors)
}

// GP0(0x38): Shaded Opaque Quadrilateral
func (gpu *GPU) gp0QuadShadedOpaque() {
	positions := [4]Position{
		PositionFromGP0(gpu.GP0Command.Get(1)),
		PositionFromGP0(gpu.GP0Command.Get(3)),
		PositionFromGP0(gpu.GP0Command.Get(5)),
		PositionFromGP0(gpu.GP0Command.Get(7)),
	}

	colors := [4]Color{
		ColorFromGP0(gpu.GP0Command.Get(0)),
		ColorFromGP0(gpu.GP0Command.Get(2)),
		ColorFromGP0(gpu.GP0Command.Get(4)),
		ColorFromGP0(gpu.GP0Command.Get(6)),
	}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0x60): Opaque Monochrome Rectangle
func (gpu *GPU) gp0RectOpaque() {
	topLeft := PositionFromGP0(gpu.GP0Command.Get(1))
	size := PositionFromGP0(gpu.GP0Command.Get(2))

	positions := [4]Position{
		topLeft,
		{X: topLeft.X + size.X, Y: topLeft.Y},
		{X: topLeft.X, Y: topLeft.Y + size.Y},
		{X: topLeft.X + size.X, Y: topLeft.Y + size.Y},
	}

	color := ColorFromGP0(gpu.GP0Command.Get(0))
	colors := [4]Color{color, color, color, color}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0x64): Opaque Rectangle with Texture Blending
func (gpu *GPU) gp0RectTextureBlendOpaque() {
	topLeft := PositionFromGP0(gpu.GP0Command.Get(1))
	size := PositionFromGP0(gpu.GP0Command.Get(3))

	positions := [4]Position{
		topLeft,
		{X: topLeft.X + size.X, Y: topLeft.Y},
		{X: topLeft.X, Y: topLeft.Y + size.Y},
		{X: topLeft.X + size.X, Y: topLeft.Y + size.Y},
	}

	color := ColorFromGP0(gpu.GP0Command.Get(0))
	colors := [4]Color{color, color, color, color}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0x65): Opaque Rectangle with Raw Texture
func (gpu *GPU) gp0RectTextureRawOpaque() {
	topLeft := PositionFromGP0(gpu.GP0Command.Get(1))
	size := PositionFromGP0(gpu.GP0Command.Get(3))

	positions := [4]Position{
		topLeft,
		{X: topLeft.X + size.X, Y: topLeft.Y},
		{X: topLeft.X, Y: topLeft.Y + size.Y},
		{X: topLeft.X + size.X, Y: topLeft.Y + size.Y},
	}

	color := ColorFromGP0(gpu.GP0Command.Get(0))
	colors := [4]Color{color, color, color, color}

	gpu.Renderer.PushQuad(positions, colors)
}

// GP0(0xA0): Image Load
func (gpu *GPU) gp0ImageLoad() {
	// Parameter 2 contains the image resolution
	res := gpu.GP0Command.Get(2)

	width := res & 0xffff
	height := res >> 16

	// Size of the image in 16 bit pixels
	imgSize := width * height

	// Round up to a whole number of 32 bit words (there'll be 16 bits
	// of padding in the last word for an odd pixel count)
	imgSize = (imgSize + 1) &^ 1

	gpu.GP0WordsRemaining = imgSize / 2
	gpu.GP0Mode = GP0_MODE_IMAGE_LOAD
}

// GP0(0xC0): Image Store
func (gpu *GPU) gp0ImageStore() {
	// Parameter 2 contains the image resolution; VRAM readback is not
	// implemented, the request is simply parsed and dropped.
	_ = gpu.GP0Command.Get(2)
}

// GP0(0xE1): Draw Mode
func (gpu *GPU) gp0DrawMode() {
	val := gpu.GP0Command.Get(0)

	gpu.PageBaseX = uint8(val & 0xf)
	gpu.PageBaseY = uint8((val >> 4) & 1)
	gpu.SemiTransparency = uint8((val >> 5) & 3)

	switch (val >> 7) & 3 {
	case 0:
		gpu.TextureDepth = TEXTURE_DEPTH_4BIT
	case 1:
		gpu.TextureDepth = TEXTURE_DEPTH_8BIT
	case 2:
		gpu.TextureDepth = TEXTURE_DEPTH_15BIT
	default:
		panicFmt("gpu: unhandled texture depth %d", (val>>7)&3)
	}

	gpu.Dithering = ((val >> 9) & 1) != 0
	gpu.DrawToDisplay = ((val >> 10) & 1) != 0
	gpu.TextureDisable = ((val >> 11) & 1) != 0
	gpu.RectangleTextureXFlip = ((val >> 12) & 1) != 0
	gpu.RectangleTextureYFlip = ((val >> 13) & 1) != 0
}

// GP0(0xE2): Set Texture Window
func (gpu *GPU) gp0TextureWindow() {
	val := gpu.GP0Command.Get(0)

	gpu.TextureWindowXMask = uint8(val & 0x1f)
	gpu.TextureWindowYMask = uint8((val >> 5) & 0x1f)
	gpu.TextureWindowXOffset = uint8((val >> 10) & 0x1f)
	gpu.TextureWindowYOffset = uint8((val >> 15) & 0x1f)
}

// GP0(0xE3): Set Drawing Area Top Left
func (gpu *GPU) gp0DrawingAreaTopLeft() {
	val := gpu.GP0Command.Get(0)

	gpu.DrawingAreaTop = uint16((val >> 10) & 0x3ff)
	gpu.DrawingAreaLeft = uint16(val & 0x3ff)
}

// GP0(0xE4): Set Drawing Area Bottom Right
func (gpu *GPU) gp0DrawingAreaBottomRight() {
	val := gpu.GP0Command.Get(0)

	gpu.DrawingAreaBottom = uint16((val >> 10) & 0x3ff)
	gpu.DrawingAreaRight = uint16(val & 0x3ff)
}

// GP0(0xE5): Set Drawing Offset
func (gpu *GPU) gp0DrawingOffset() {
	val := gpu.GP0Command.Get(0)

	x := uint16(val & 0x7ff)
	y := uint16((val >> 11) & 0x7ff)

	// values are 11 bit signed two's complement, shift to 16 bits to
	// force sign extension
	gpu.DrawingOffsetX = int16(x<<5) >> 5
	gpu.DrawingOffsetY = int16(y<<5) >> 5

	gpu.Renderer.SetDrawOffset(gpu.DrawingOffsetX, gpu.DrawingOffsetY)
}

// GP0(0xE6): Set Mask Bit Setting
func (gpu *GPU) gp0MaskBitSetting() {
	val := gpu.GP0Command.Get(0)

	gpu.ForceSetMaskBit = (val & 1) != 0
	gpu.PreserveMaskedPixels = (val & 2) != 0
}

// GP1 handles a write to the GP1 control register.
func (gpu *GPU) GP1(val uint32, tk *TimeHandler, timers *Timers, irqState *IrqState) {
	opcode := (val >> 24) & 0xff

	switch opcode {
	case 0x00:
		gpu.gp1Reset(tk, irqState)
		timers.VideoTimingsChanged(tk, irqState, gpu)
	case 0x01:
		gpu.gp1ResetCommandBuffer()
	case 0x02:
		gpu.gp1AcknowledgeIrq()
	case 0x03:
		gpu.gp1DisplayEnable(val)
	case 0x04:
		gpu.gp1DmaDirection(val)
	case 0x05:
		gpu.gp1DisplayVRAMStart(val)
	case 0x06:
		gpu.gp1DisplayHorizontalRange(val)
	case 0x07:
		gpu.gp1DisplayVerticalRange(val, tk, irqState)
	case 0x10:
		gpu.gp1GetInfo(val)
	case 0x08:
		gpu.gp1DisplayMode(val, tk, irqState)
		timers.VideoTimingsChanged(tk, irqState, gpu)
	default:
		panicFmt("gpu: unhandled GP1 command 0x%08x", val)
	}
}

// GP1(0x00): Soft Reset
func (gpu *GPU) gp1Reset(tk *TimeHandler, irqState *IrqState) {
	gpu.PageBaseX = 0
	gpu.PageBaseY = 0
	gpu.SemiTransparency = 0
	gpu.TextureDepth = TEXTURE_DEPTH_4BIT
	gpu.TextureWindowXMask = 0
	gpu.TextureWindowYMask = 0
	gpu.TextureWindowXOffset = 0
	gpu.TextureWindowYOffset = 0
	gpu.Dithering = false
	gpu.DrawToDisplay = false
	gpu.TextureDisable = false
	gpu.RectangleTextureXFlip = false
	gpu.RectangleTextureYFlip = false
	gpu.DrawingAreaLeft = 0
	gpu.DrawingAreaTop = 0
	gpu.DrawingAreaRight = 0
	gpu.DrawingAreaBottom = 0
	gpu.DrawingOffsetX = 0
	gpu.DrawingOffsetY = 0
	gpu.ForceSetMaskBit = false
	gpu.PreserveMaskedPixels = false

	gpu.DmaDirection = DD_DMA_OFF

	gpu.DisplayDisabled = true
	gpu.DisplayVRamXStart = 0
	gpu.DisplayVRamYStart = 0
	gpu.HRes = HResFromFields(0, 0)
	gpu.VRes = VRES_240_LINES
	gpu.Field = FIELD_TOP

	gpu.VMode = VMODE_NTSC
	gpu.Interlaced = true
	gpu.DisplayHorizStart = 0x200
	gpu.DisplayHorizEnd = 0xc00
	gpu.DisplayLineStart = 0x10
	gpu.DisplayLineEnd = 0x100
	gpu.DisplayDepth = DISPLAY_DEPTH_15BITS
	gpu.DisplayLine = 0
	gpu.DisplayLineTick = 0

	gpu.Renderer.SetDrawOffset(0, 0)

	gpu.gp1ResetCommandBuffer()
	gpu.gp1AcknowledgeIrq()

	gpu.Sync(tk, irqState)

	// XXX should also invalidate the GPU cache if one is ever implemented
}

// GP1(0x01): Reset Command Buffer
func (gpu *GPU) gp1ResetCommandBuffer() {
	gpu.GP0Command.Clear()
	gpu.GP0WordsRemaining = 0
	gpu.GP0Mode = GP0_MODE_COMMAND
	// XXX should also clear the command FIFO once implemented
}

// GP1(0x02): Acknowledge Interrupt
func (gpu *GPU) gp1AcknowledgeIrq() {
	gpu.GP0Interrupt = false
}

// GP1(0x03): Display Enable
func (gpu *GPU) gp1DisplayEnable(val uint32) {
	gpu.DisplayDisabled = val&1 != 0
}

// GP1(0x04): DMA Direction
func (gpu *GPU) gp1DmaDirection(val uint32) {
	switch val & 3 {
	case 0:
		gpu.DmaDirection = DD_DMA_OFF
	case 1:
		gpu.DmaDirection = DD_DMA_FIFO
	case 2:
		gpu.DmaDirection = DD_CPU_TO_GP0
	case 3:
		gpu.DmaDirection = DD_VRAM_TO_CPU
	}
}

// GP1(0x05): Display VRAM Start
func (gpu *GPU) gp1DisplayVRAMStart(val uint32) {
	gpu.DisplayVRamXStart = uint16(val & 0x3fe)
	gpu.DisplayVRamYStart = uint16((val >> 10) & 0x1ff)
}

// GP1(0x06): Display Horizontal Range
func (gpu *GPU) gp1DisplayHorizontalRange(val uint32) {
	gpu.DisplayHorizStart = uint16(val & 0xfff)
	gpu.DisplayHorizEnd = uint16((val >> 12) & 0xfff)
}

// GP1(0x07): Display Vertical Range
func (gpu *GPU) gp1DisplayVerticalRange(val uint32, tk *TimeHandler, irqState *IrqState) {
	gpu.DisplayLineStart = uint16(val & 0x3ff)
	gpu.DisplayLineEnd = uint16((val >> 10) & 0x3ff)

	gpu.Sync(tk, irqState)
}

// GP1(0x10): Get GPU Info. Populates the GPUREAD register with
// miscellaneous state requested by the low 4 bits of val.
func (gpu *GPU) gp1GetInfo(val uint32) {
	var v uint32

	switch val & 0xf {
	case 3:
		top := uint32(gpu.DrawingAreaTop)
		left := uint32(gpu.DrawingAreaLeft)
		v = left | (top << 10)
	case 4:
		bottom := uint32(gpu.DrawingAreaBottom)
		right := uint32(gpu.DrawingAreaRight)
		v = right | (bottom << 10)
	case 5:
		x := uint32(gpu.DrawingOffsetX) & 0x7ff
		y := uint32(gpu.DrawingOffsetY) & 0x7ff
		v = x | (y << 11)
	case 7:
		// GPU version, seems to always be 2
		v = 2
	default:
		panicFmt("gpu: unsupported GP1 info command 0x%08x", val)
	}

	gpu.ReadWord = v
}

// GP1(0x08): Display Mode
func (gpu *GPU) gp1DisplayMode(val uint32, tk *TimeHandler, irqState *IrqState) {
	hr1 := uint8(val & 3)
	hr2 := uint8((val >> 6) & 1)

	gpu.HRes = HResFromFields(hr1, hr2)

	if val&0x4 != 0 {
		gpu.VRes = VRES_480_LINES
	} else {
		gpu.VRes = VRES_240_LINES
	}

	if val&0x8 != 0 {
		gpu.VMode = VMODE_PAL
	} else {
		gpu.VMode = VMODE_NTSC
	}

	// bit 4 set selects 15bpp, clear selects 24bpp; some hardware docs
	// describe this the other way around, but this matches observed
	// BIOS/game behavior and the reference this core was built from.
	if val&0x10 != 0 {
		gpu.DisplayDepth = DISPLAY_DEPTH_15BITS
	} else {
		gpu.DisplayDepth = DISPLAY_DEPTH_24BITS
	}

	gpu.Interlaced = val&0x20 != 0
	gpu.Field = FIELD_TOP

	if val&0x80 != 0 {
		panicFmt("gpu: unsupported display mode 0x%08x", val)
	}

	gpu.Sync(tk, irqState)
}

package main

import (
	"flag"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/psxgpu/gpucore/emulator"
)

var (
	width, height = 1024, 512
	currentFrame  = ebiten.NewImage(1024, 512)
	wg            sync.WaitGroup
	prevFrameTime = time.Now()
	showFps       *bool
	showCycles    *bool
	doRecover     *bool
	frameDt       float64

	th       *emulator.TimeHandler
	didPanic bool
	panicStr string
)

// syncChunk is the number of CPU cycles advanced per driving-loop
// iteration when no peripheral has a pending sync sooner than that, or
// when one is already due -- small enough that a demo draw command submitted between iterations
// shows up within a couple of frames.
const syncChunk = 1024

type ebitenGame struct {
	renderer *emulator.EbitenRenderer
}

func (g *ebitenGame) Update() error {
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear

	fx := currentFrame.Bounds().Dx()
	fy := currentFrame.Bounds().Dy()
	op.GeoM.Scale(float64(width)/float64(fx), float64(height)/float64(fy))

	wg.Wait()
	screen.DrawImage(currentFrame, op)

	if *showFps {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%f fps", 1/frameDt), 8, 8)
	}
	if *showCycles && th != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d cycles", th.Cycles), 8, 24)
	}
	if didPanic {
		ebitenutil.DebugPrintAt(screen, panicStr, 8, 48)
	}
}

func (g *ebitenGame) Layout(insideWidth, insideHeight int) (int, int) {
	return width, height
}

func (g *ebitenGame) drawFrame() {
	wg.Add(1)
	defer wg.Done()

	frameDt = time.Since(prevFrameTime).Seconds()
	currentFrame.Clear()
	g.renderer.Draw(currentFrame)
	prevFrameTime = time.Now()
}

func startEbitenWindow(g *ebitenGame) {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("gpucore")
	ebiten.SetTPS(ebiten.SyncWithFPS)

	if err := ebiten.RunGame(g); err != nil {
		panic(err)
	}
}

func main() {
	pal := flag.Bool("pal", false, "run with PAL video timings instead of NTSC")
	showFps = flag.Bool("fps", true, "show FPS value")
	showCycles = flag.Bool("cycles", true, "show amount of cycles ticked")
	doRecover = flag.Bool("recover", true, "recover from emulator panics")
	flag.Parse()

	hardware := emulator.HARDWARE_NTSC
	if *pal {
		hardware = emulator.HARDWARE_PAL
	}

	g := &ebitenGame{}
	go runGpuCore(g, hardware)
	startEbitenWindow(g)
}

// runGpuCore owns the GPU core and its collaborators and drives them
// with a "sleep until next predicted sync" loop, since there is no CPU
// core in this module to generate that traffic naturally. It issues a
// canned boot sequence and then keeps submitting a slowly moving
// triangle through GP0 so the vblank-driven Display() path has
// something to show.
func runGpuCore(g *ebitenGame, hardware emulator.HardwareType) {
	renderer := emulator.NewEbitenRenderer()
	g.renderer = renderer

	gpu := emulator.NewGPU(renderer, hardware)
	timers := emulator.NewTimers()
	irqState := emulator.NewIrqState()
	th = emulator.NewTimeHandler()

	defer func() {
		if *doRecover {
			if r := recover(); r != nil {
				fmt.Printf("\nrecovered from panic: %s\n\n%s\n", r, debug.Stack())
				didPanic = true
				panicStr = fmt.Sprintf("recovered from panic:\n%s", r)
			}
		}
	}()

	bootSequence(gpu, th, timers, irqState)

	var frame uint64
	for {
		delta := th.CyclesUntilNextSync()
		if delta == 0 || delta > syncChunk {
			delta = syncChunk
		}
		th.Tick(delta)

		if th.NeedsSync(emulator.PERIPHERAL_GPU) {
			wasInVblank := gpu.VblankInterrupt
			gpu.Sync(th, irqState)
			if wasInVblank && !gpu.VblankInterrupt {
				g.drawFrame()
			}
		}
		timers.Sync(th, irqState)

		frame++
		if frame%64 == 0 {
			pushDemoTriangle(gpu, int16(frame/64))
		}
	}
}

// bootSequence mirrors what the BIOS does to the GPU registers on
// power-up: soft reset, pick a display mode and enable output.
func bootSequence(gpu *emulator.GPU, th *emulator.TimeHandler, timers *emulator.Timers, irqState *emulator.IrqState) {
	gpu.GP1(0x00000000, th, timers, irqState) // reset
	gpu.GP1(0x08000000, th, timers, irqState) // display mode: 256x240, NTSC, 24bit (bit 4 clear)
	gpu.GP1(0x03000000, th, timers, irqState) // display enable (bit 0 clear = enabled)
}

// pushDemoTriangle submits a monochrome opaque triangle (GP0 0x20)
// that drifts across the screen as step increases, so the renderer's
// output is visibly live.
func pushDemoTriangle(gpu *emulator.GPU, step int16) {
	x := (step * 7) % 200
	const color = uint32(0x0000ff)

	gpu.GP0(0x20000000 | color)
	gpu.GP0(vertexWord(50+x, 50))
	gpu.GP0(vertexWord(150+x, 50))
	gpu.GP0(vertexWord(100+x, 150))
}

func vertexWord(x, y int16) uint32 {
	return uint32(uint16(x)) | uint32(uint16(y))<<16
}

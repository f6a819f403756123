package emulator

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

var emptyImage = ebiten.NewImage(2, 2)

func init() {
	emptyImage.Fill(color.RGBA{255, 255, 255, 255})
}

// A single vertex with a position and color, already offset by the
// drawing offset active when it was pushed.
type gpuVertex struct {
	X, Y  int16
	Color Color
}

// EbitenRenderer is the reference Renderer implementation: it
// accumulates vertices for the frame currently being drawn and hands
// the completed frame over to Ebitengine at Display(), which Gpu.Sync
// calls on the falling edge of vblank -- the same point real hardware
// would latch a new frame for output.
type EbitenRenderer struct {
	mu         sync.Mutex
	pending    []gpuVertex // frame currently being assembled
	ready      []gpuVertex // last frame completed by Display()
	offsetX    int16
	offsetY    int16
}

// Returns a new Ebitengine renderer
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{}
}

func (r *EbitenRenderer) pushVertex(pos Position, c Color) {
	r.pending = append(r.pending, gpuVertex{
		X:     pos.X + r.offsetX,
		Y:     pos.Y + r.offsetY,
		Color: c,
	})
}

// PushTriangle implements Renderer.
func (r *EbitenRenderer) PushTriangle(positions [3]Position, colors [3]Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < 3; i++ {
		r.pushVertex(positions[i], colors[i])
	}
}

// PushQuad implements Renderer. A quad is two triangles sharing an
// edge: (0,1,2) and (1,2,3).
func (r *EbitenRenderer) PushQuad(positions [4]Position, colors [4]Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := [6]int{0, 1, 2, 1, 2, 3}
	for _, idx := range order {
		r.pushVertex(positions[idx], colors[idx])
	}
}

// SetDrawOffset implements Renderer.
func (r *EbitenRenderer) SetDrawOffset(x, y int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offsetX = x
	r.offsetY = y
}

// Display implements Renderer: it publishes the frame assembled since
// the last Display call so Draw can present it, then starts a new one.
func (r *EbitenRenderer) Display() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = r.pending
	r.pending = nil
}

// Draw rasterizes the last completed frame onto screen. Safe to call
// from Ebitengine's draw goroutine while the GPU core keeps running
// on its own goroutine.
func (r *EbitenRenderer) Draw(screen *ebiten.Image) {
	r.mu.Lock()
	frame := r.ready
	r.mu.Unlock()

	n := len(frame)
	vertices := make([]ebiten.Vertex, n)
	indices := make([]uint16, n)

	for idx, vtx := range frame {
		vertices[idx].ColorR = float32(vtx.Color.R) / 255
		vertices[idx].ColorG = float32(vtx.Color.G) / 255
		vertices[idx].ColorB = float32(vtx.Color.B) / 255
		vertices[idx].ColorA = 1
		vertices[idx].DstX = float32(vtx.X)
		vertices[idx].DstY = float32(vtx.Y)
		vertices[idx].SrcX = 0
		vertices[idx].SrcY = 0
		indices[idx] = uint16(idx)
	}

	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(vertices, indices, emptyImage, op)
}

// Package emulator provides a GUI pointer surface backed by Ebitengine.
//
// The window is resizable and the surface always matches the window, so
// resizing it exercises the pads' boundary invalidation. The mouse reports as
// device.MouseTouchID; touch screens report one contact per finger.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phinze/axispad/internal/device"
)

// Default window size
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Emulator implements the device.Surface interface using Ebitengine for GUI rendering.
type Emulator struct {
	mu sync.RWMutex

	// State
	open       bool
	title      string
	brightness byte
	size       image.Point
	frame      *image.RGBA

	handlers device.Handlers
	tracker  device.Tracker

	// Ebitengine state
	game       *emulatorGame
	stopCh     chan struct{}
	errorCh    chan error
	listenDone chan struct{}
}

// New creates a new emulator instance with the given window size.
func New(title string, width, height int) *Emulator {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &Emulator{
		title:      title,
		brightness: 100,
		size:       image.Pt(width, height),
		frame:      image.NewRGBA(image.Rect(0, 0, width, height)),
		stopCh:     make(chan struct{}),
	}
}

// Open initializes the emulator.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: surface is already open")
	}

	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close shuts down the emulator.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return fmt.Errorf("emulator: surface is not open")
	}

	e.open = false

	// Signal the game loop to stop
	close(e.stopCh)

	return nil
}

// IsOpen returns whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

// GetModelName returns the emulated model name.
func (e *Emulator) GetModelName() string {
	return "Axis Pad Emulator"
}

// GetFrameRectangle returns the current window dimensions.
func (e *Emulator) GetFrameRectangle() (image.Rectangle, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return image.Rectangle{Max: e.size}, nil
}

// SetBrightness sets the display brightness.
func (e *Emulator) SetBrightness(perc byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = min(perc, 100)
	return nil
}

// SetFrame sets the displayed frame. Frames of a stale size are drawn at the
// top-left corner until the next frame arrives.
func (e *Emulator) SetFrame(img image.Image) error {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.frame = rgba
	return nil
}

// AddPointerHandler registers a pointer handler.
func (e *Emulator) AddPointerHandler(fn device.PointerHandler) error {
	e.handlers.AddPointer(fn)
	return nil
}

// AddResizeHandler registers a resize handler.
func (e *Emulator) AddResizeHandler(fn device.ResizeHandler) error {
	e.handlers.AddResize(fn)
	return nil
}

// Listen blocks until the emulator is closed.
// For the emulator, the actual event loop runs via RunGUI() which must be called from main.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: surface is not open")
	}
	e.errorCh = errCh
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	done := e.listenDone
	e.mu.Unlock()

	// Block until GUI is closed
	<-done
	return nil
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window is closed.
func (e *Emulator) RunGUI() error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: surface is not open")
	}
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	e.game = &emulatorGame{emu: e}
	size := e.size
	title := e.title
	e.mu.Unlock()

	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// Run the game loop (this blocks until the window is closed)
	err := ebiten.RunGame(e.game)

	// Signal Listen() to unblock
	close(e.listenDone)
	return err
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu      *Emulator
	screen   *ebiten.Image
	touchIDs []ebiten.TouchID
}

func (g *emulatorGame) Update() error {
	// Check for stop signal
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	g.handleInput()
	return nil
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	g.emu.mu.RLock()
	frame := g.emu.frame
	brightness := float32(g.emu.brightness) / 100
	g.emu.mu.RUnlock()

	fb := frame.Bounds()
	if g.screen == nil || g.screen.Bounds().Size() != fb.Size() {
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImage(fb.Dx(), fb.Dy())
	}
	g.screen.WritePixels(frame.Pix)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.Scale(brightness, brightness, brightness, 1)
	screen.DrawImage(g.screen, op)

	ebitenutil.DebugPrintAt(screen, "Drag the pads with the mouse or a finger", 10, screen.Bounds().Dy()-18)
}

// Layout keeps the surface the same size as the window and reports size
// changes to the resize handlers.
func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := image.Pt(outsideWidth, outsideHeight)

	g.emu.mu.Lock()
	changed := size != g.emu.size && outsideWidth > 0 && outsideHeight > 0
	if changed {
		g.emu.size = size
	}
	errCh := g.emu.errorCh
	g.emu.mu.Unlock()

	if changed {
		g.emu.handlers.Resize(g.emu, image.Rectangle{Max: size}, errCh)
	}
	return outsideWidth, outsideHeight
}

// handleInput collects this tick's presses and releases from inpututil and
// the held contacts from ebiten, then lets the tracker add moves and focus
// cancels. Handlers run synchronously here, so per-contact ordering is
// preserved.
func (g *emulatorGame) handleInput() {
	in := device.Input{
		Down:    make(map[int64]image.Point),
		Up:      make(map[int64]image.Point),
		Held:    make(map[int64]image.Point),
		Focused: ebiten.IsFocused(),
	}

	// Mouse
	mx, my := ebiten.CursorPosition()
	mouse := image.Pt(mx, my)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Down[device.MouseTouchID] = mouse
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		in.Held[device.MouseTouchID] = mouse
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		in.Up[device.MouseTouchID] = mouse
	}

	// Touches
	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.Down[int64(id)] = image.Pt(x, y)
	}
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.Held[int64(id)] = image.Pt(x, y)
	}
	g.touchIDs = inpututil.AppendJustReleasedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		in.Up[int64(id)] = image.Pt(x, y)
	}

	events := g.emu.tracker.Step(in)
	if len(events) == 0 {
		return
	}

	g.emu.mu.RLock()
	errCh := g.emu.errorCh
	g.emu.mu.RUnlock()

	for _, ev := range events {
		g.emu.handlers.Pointer(g.emu, ev, errCh)
	}
}

// Package coordinator binds pads to a surface: it lays pads out, routes
// pointer events to them, and renders them.
package coordinator

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"
	"sync"
	"time"

	"github.com/phinze/axispad/internal/anim"
	"github.com/phinze/axispad/internal/axispad"
	"github.com/phinze/axispad/internal/device"
	"github.com/phinze/axispad/internal/render"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultFrameInterval is the render period when Options leaves it unset.
const DefaultFrameInterval = time.Second / 30

// Options tune a Coordinator. The zero value is usable.
type Options struct {
	// LogEvents logs every value event.
	LogEvents bool

	// Clock drives the knob and pad animations. Defaults to time.Now.
	Clock anim.Clock

	FrameInterval time.Duration
}

// Listener receives every value event from every pad. It runs with the
// coordinator locked and must not call back into it.
type Listener func(padID string, e axispad.TouchEvent)

// binding ties a pad to its slot on the surface and its animations.
type binding struct {
	id     string
	pad    *axispad.Pad
	style  render.Style
	knob   *anim.Tween
	offset *anim.Tween
	bounds axispad.Rect
	label  string
}

// PadBounds implements axispad.Layout.
func (b *binding) PadBounds() axispad.Rect {
	return b.bounds
}

// Coordinator manages pads on one surface.
type Coordinator struct {
	surface device.Surface
	opts    Options

	renderer  *render.Renderer
	bindings  []*binding
	listeners []Listener
	frame     image.Rectangle

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu serialises every pad access: pointer handlers, resizes and renders.
	mu sync.Mutex
}

// New creates a new Coordinator for the given surface.
func New(s device.Surface, opts Options) (*Coordinator, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	r, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return &Coordinator{surface: s, opts: opts, renderer: r}, nil
}

// RegisterPad creates a pad with the given configuration and style. Pads are
// laid out left to right in registration order. Must be called before Start.
// The returned pad is not locked; once the coordinator is attached, change
// its settings through Configure.
func (c *Coordinator) RegisterPad(id string, cfg axispad.Config, st render.Style) (*axispad.Pad, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.bindings {
		if b.id == id {
			return nil, fmt.Errorf("pad %s already registered", id)
		}
	}

	b := &binding{
		id:     id,
		style:  st,
		knob:   anim.NewTween(c.opts.Clock, r2.Vec{}),
		offset: anim.NewTween(c.opts.Clock, r2.Vec{}),
	}
	pad, err := axispad.New(cfg, axispad.Hooks{
		OnTouch: func(e axispad.TouchEvent) { c.handleTouch(b, e) },
		Knob:    b.knob,
		Offset:  b.offset,
		Layout:  b,
	})
	if err != nil {
		return nil, fmt.Errorf("pad %s: %w", id, err)
	}
	b.pad = pad
	c.bindings = append(c.bindings, b)
	return pad, nil
}

// AddListener registers a value event listener.
func (c *Coordinator) AddListener(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Attach lays the pads out on the surface and registers the pointer and
// resize handlers. Start calls it; it is exported for callers that drive
// the surface loop themselves.
func (c *Coordinator) Attach() error {
	rect, err := c.surface.GetFrameRectangle()
	if err != nil {
		return fmt.Errorf("reading frame rectangle: %w", err)
	}

	c.mu.Lock()
	c.frame = rect
	c.layout()
	c.mu.Unlock()

	if err := c.surface.AddPointerHandler(c.handlePointer); err != nil {
		return fmt.Errorf("adding pointer handler: %w", err)
	}
	if err := c.surface.AddResizeHandler(c.handleResize); err != nil {
		return fmt.Errorf("adding resize handler: %w", err)
	}
	return nil
}

// Start attaches to the surface and runs the render loop until the context
// is cancelled or the surface stops listening.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if err := c.Attach(); err != nil {
		return err
	}

	// Handler errors are logged, never fatal
	handlerErr := make(chan error, 8)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.ctx.Done():
				return
			case err := <-handlerErr:
				log.Printf("Handler error: %v", err)
			}
		}
	}()

	// Start surface listener
	listenErr := make(chan error, 1)
	go func() {
		err := c.surface.Listen(handlerErr)
		if err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	// Start render loop
	c.wg.Add(1)
	go c.renderLoop()

	// Wait for context cancellation or surface shutdown
	select {
	case <-c.ctx.Done():
		return nil
	case err, ok := <-listenErr:
		if !ok {
			return nil
		}
		return err
	}
}

// Stop shuts down the render loop.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

// Configure applies a new configuration to a registered pad and re-lays out
// the surface, since the pad's footprint may have changed. Safe to call
// while the coordinator is running.
func (c *Coordinator) Configure(id string, cfg axispad.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.bindings {
		if b.id != id {
			continue
		}
		if err := b.pad.Configure(cfg); err != nil {
			return fmt.Errorf("pad %s: %w", id, err)
		}
		if !c.frame.Empty() {
			c.layout()
		}
		return nil
	}
	return fmt.Errorf("pad %s not registered", id)
}

// Boundary returns the current placement of a pad.
func (c *Coordinator) Boundary(id string) (axispad.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range c.bindings {
		if b.id == id {
			return b.bounds, true
		}
	}
	return axispad.Rect{}, false
}

func (c *Coordinator) handleTouch(b *binding, e axispad.TouchEvent) {
	b.label = render.ValueLabel(e.Ratio)
	if c.opts.LogEvents {
		log.Printf("Pad %s %s x=%.2f y=%.2f", b.id, e.Type, e.Ratio.X, e.Ratio.Y)
	}
	for _, fn := range c.listeners {
		fn(b.id, e)
	}
}

// handlePointer routes one pointer sample. Touch downs go to the first pad
// that accepts them; everything else goes to every pad, which ignore
// contacts they do not own.
func (c *Coordinator) handlePointer(_ device.Surface, ev device.PointerEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.bindings {
		cfg := b.pad.Config()
		s := axispad.SurfaceSample(cfg.GestureResolveMode, b.bounds, ev.X, ev.Y, ev.TouchID)

		switch ev.Phase {
		case device.PhaseDown:
			if b.pad.TouchDown(s) {
				log.Printf("Pad %s: touch %d accepted", b.id, ev.TouchID)
				return nil
			}
		case device.PhaseMove:
			b.pad.TouchMove(s)
		case device.PhaseUp:
			b.pad.TouchUp(s)
		case device.PhaseCancel:
			b.pad.TouchCancel(ev.TouchID)
		}
	}
	return nil
}

func (c *Coordinator) handleResize(_ device.Surface, bounds image.Rectangle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Printf("Surface resized to %dx%d", bounds.Dx(), bounds.Dy())
	c.frame = bounds
	c.layout()
	return nil
}

// layout places every pad and tells it to re-read its boundary. Callers hold mu.
func (c *Coordinator) layout() {
	extents := make([]r2.Vec, len(c.bindings))
	for i, b := range c.bindings {
		w, h := b.pad.Config().PadExtent()
		extents[i] = r2.Vec{X: w, Y: h}
	}
	for i, r := range Arrange(c.frame, extents) {
		c.bindings[i].bounds = r
		c.bindings[i].pad.InvalidateBoundary()
	}
}

// Arrange lays pads of the given extents out in a row, spaced evenly and
// centred vertically, leaving room for each pad's frame and label.
func Arrange(frame image.Rectangle, extents []r2.Vec) []axispad.Rect {
	if len(extents) == 0 {
		return nil
	}

	const chromeX = 2 * render.Padding
	const chromeY = render.LabelHeight + 2*render.Padding

	var total float64
	for _, e := range extents {
		total += e.X + chromeX
	}
	gap := math.Max(0, (float64(frame.Dx())-total)/float64(len(extents)+1))
	midY := float64(frame.Min.Y) + float64(frame.Dy())/2

	rects := make([]axispad.Rect, len(extents))
	x := float64(frame.Min.X) + gap
	for i, e := range extents {
		top := midY - (e.Y+chromeY)/2
		rects[i] = axispad.Rect{
			X:      x + render.Padding,
			Y:      top + render.LabelHeight + render.Padding,
			Width:  e.X,
			Height: e.Y,
		}
		x += e.X + chromeX + gap
	}
	return rects
}

// renderLoop runs the periodic render cycle.
func (c *Coordinator) renderLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.opts.FrameInterval)
	defer ticker.Stop()

	// Initial render
	c.renderFrame()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.renderFrame()
		}
	}
}

func (c *Coordinator) renderFrame() {
	img := c.Render()
	if img == nil {
		return
	}
	if err := c.surface.SetFrame(img); err != nil {
		log.Printf("Failed to set frame: %v", err)
	}
}

// Render composites every pad into a frame the size of the surface.
func (c *Coordinator) Render() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frame.Empty() {
		return nil
	}
	img := image.NewRGBA(image.Rectangle{Max: c.frame.Size()})
	draw.Draw(img, img.Bounds(), image.NewUniform(colornames.Black), image.Point{}, draw.Src)

	for _, b := range c.bindings {
		_, active := b.pad.Active()
		c.renderer.Draw(img, render.Frame{
			Bounds:      toImageRect(b.bounds, c.frame.Min),
			Knob:        b.knob.Value(),
			Offset:      b.offset.Value(),
			ControlSize: b.pad.Config().ControlSize,
			Active:      active,
			Label:       b.label,
		}, b.style)
	}
	return img
}

// toImageRect converts a surface placement to frame pixel coordinates.
func toImageRect(r axispad.Rect, origin image.Point) image.Rectangle {
	minX := int(math.Round(r.X)) - origin.X
	minY := int(math.Round(r.Y)) - origin.Y
	return image.Rect(minX, minY, minX+int(math.Round(r.Width)), minY+int(math.Round(r.Height)))
}

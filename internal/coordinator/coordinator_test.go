package coordinator

import (
	"errors"
	"image"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/phinze/axispad/internal/axispad"
	"github.com/phinze/axispad/internal/device"
	"github.com/phinze/axispad/internal/render"
	"gonum.org/v1/gonum/spatial/r2"
)

// fakeSurface is a device.Surface driven directly by tests.
type fakeSurface struct {
	mu       sync.Mutex
	rect     image.Rectangle
	handlers device.Handlers
	frames   int
}

func (f *fakeSurface) Open() error          { return nil }
func (f *fakeSurface) Close() error         { return nil }
func (f *fakeSurface) IsOpen() bool         { return true }
func (f *fakeSurface) GetModelName() string { return "fake" }

func (f *fakeSurface) GetFrameRectangle() (image.Rectangle, error) {
	return f.rect, nil
}

func (f *fakeSurface) SetBrightness(byte) error { return nil }

func (f *fakeSurface) SetFrame(image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	return nil
}

func (f *fakeSurface) AddPointerHandler(fn device.PointerHandler) error {
	f.handlers.AddPointer(fn)
	return nil
}

func (f *fakeSurface) AddResizeHandler(fn device.ResizeHandler) error {
	f.handlers.AddResize(fn)
	return nil
}

func (f *fakeSurface) Listen(chan error) error { return nil }

func (f *fakeSurface) pointer(phase device.Phase, x, y float64, id int64) {
	f.handlers.Pointer(f, device.PointerEvent{Phase: phase, X: x, Y: y, TouchID: id}, nil)
}

type recorded struct {
	pad string
	e   axispad.TouchEvent
}

func newTestCoordinator(t *testing.T, ids ...string) (*Coordinator, *fakeSurface, *[]recorded) {
	t.Helper()
	s := &fakeSurface{rect: image.Rect(0, 0, 800, 480)}
	now := time.Unix(0, 0)
	c, err := New(s, Options{Clock: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, id := range ids {
		cfg := axispad.DefaultConfig()
		cfg.Size = 200
		cfg.ControlSize = 60
		if _, err := c.RegisterPad(id, cfg, render.DefaultStyle()); err != nil {
			t.Fatalf("RegisterPad: %v", err)
		}
	}

	var events []recorded
	c.AddListener(func(pad string, e axispad.TouchEvent) {
		events = append(events, recorded{pad, e})
	})
	if err := c.Attach(); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return c, s, &events
}

// TestArrangeSpacesEvenly checks pads share the free width equally.
func TestArrangeSpacesEvenly(t *testing.T) {
	frame := image.Rect(0, 0, 800, 480)
	rects := Arrange(frame, []r2.Vec{{X: 200, Y: 200}, {X: 200, Y: 200}})

	cell := 200.0 + 2*render.Padding
	gap := (800 - 2*cell) / 3
	if math.Abs(rects[0].X-(gap+render.Padding)) > 1e-9 {
		t.Fatalf("expected first pad at x=%v, got %+v", gap+render.Padding, rects[0])
	}
	if math.Abs(rects[1].X-rects[0].X-(cell+gap)) > 1e-9 {
		t.Fatalf("expected second pad one cell and gap later, got %+v", rects[1])
	}

	// Frame plus label is centred vertically.
	top := rects[0].Y - render.LabelHeight - render.Padding
	bottom := rects[0].Y + rects[0].Height + render.Padding
	if math.Abs((top+bottom)/2-240) > 1e-9 {
		t.Fatalf("expected vertical centre 240, got %v", (top+bottom)/2)
	}

	if Arrange(frame, nil) != nil {
		t.Fatalf("expected no rects for no pads")
	}
}

// TestRegisterPadRejectsDuplicates checks pad ids are unique.
func TestRegisterPadRejectsDuplicates(t *testing.T) {
	c, _, _ := newTestCoordinator(t, "a")
	if _, err := c.RegisterPad("a", axispad.DefaultConfig(), render.DefaultStyle()); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
}

// TestDownRoutesToPadUnderPointer checks only the touched pad starts a session.
func TestDownRoutesToPadUnderPointer(t *testing.T) {
	c, s, events := newTestCoordinator(t, "left", "right")

	right, _ := c.Boundary("right")
	centre := right.Center()
	s.pointer(device.PhaseDown, centre.X, centre.Y, 1)
	s.pointer(device.PhaseMove, centre.X+50, centre.Y, 1)
	s.pointer(device.PhaseUp, centre.X+50, centre.Y, 1)

	if len(*events) != 3 {
		t.Fatalf("expected 3 events, got %+v", *events)
	}
	for _, r := range *events {
		if r.pad != "right" {
			t.Fatalf("expected only right pad events, got %+v", r)
		}
	}
	if got := (*events)[1].e.Ratio; math.Abs(got.X-0.5) > 1e-9 || got.Y != 0 {
		t.Fatalf("expected pan ratio {0.5 0}, got %+v", got)
	}
}

// TestTwoFingersDriveTwoPads checks concurrent contacts stay with their own pads.
func TestTwoFingersDriveTwoPads(t *testing.T) {
	c, s, events := newTestCoordinator(t, "left", "right")

	l, _ := c.Boundary("left")
	r, _ := c.Boundary("right")
	lc, rc := l.Center(), r.Center()

	s.pointer(device.PhaseDown, lc.X, lc.Y, 1)
	s.pointer(device.PhaseDown, rc.X, rc.Y, 2)
	s.pointer(device.PhaseMove, lc.X, lc.Y-25, 1)
	s.pointer(device.PhaseMove, rc.X+25, rc.Y, 2)

	last := map[string]axispad.Ratio{}
	for _, rec := range *events {
		last[rec.pad] = rec.e.Ratio
	}
	if got := last["left"]; got.X != 0 || math.Abs(got.Y+0.25) > 1e-9 {
		t.Fatalf("expected left at {0 -0.25}, got %+v", got)
	}
	if got := last["right"]; math.Abs(got.X-0.25) > 1e-9 || got.Y != 0 {
		t.Fatalf("expected right at {0.25 0}, got %+v", got)
	}

	s.pointer(device.PhaseCancel, 0, 0, 1)
	if got := (*events)[len(*events)-1]; got.pad != "left" || got.e.Type != axispad.EventEnd {
		t.Fatalf("expected left end on cancel, got %+v", got)
	}
}

// TestResizeMovesBoundaries checks a resize re-lays out pads and their hit areas.
func TestResizeMovesBoundaries(t *testing.T) {
	c, s, events := newTestCoordinator(t, "main")

	before, _ := c.Boundary("main")
	s.handlers.Resize(s, image.Rect(0, 0, 1200, 700), nil)
	after, _ := c.Boundary("main")
	if after == before {
		t.Fatalf("expected boundary to move on resize, still %+v", after)
	}

	// The old centre is now outside the pad.
	old := before.Center()
	s.pointer(device.PhaseDown, old.X, old.Y, 1)
	if len(*events) != 0 {
		t.Fatalf("expected the stale position to miss, got %+v", *events)
	}

	centre := after.Center()
	s.pointer(device.PhaseDown, centre.X, centre.Y, 1)
	if len(*events) != 1 {
		t.Fatalf("expected touch at the new centre to start, got %+v", *events)
	}
}

// TestConfigureRelaysOut checks reconfiguring a running pad resizes its slot
// and keeps hit testing in step with it.
func TestConfigureRelaysOut(t *testing.T) {
	c, s, events := newTestCoordinator(t, "main")

	cfg := axispad.DefaultConfig()
	cfg.Size = 120
	cfg.ControlSize = 40
	if err := c.Configure("main", cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	b, _ := c.Boundary("main")
	if b.Width != 120 || b.Height != 120 {
		t.Fatalf("expected a 120x120 slot, got %+v", b)
	}

	centre := b.Center()
	s.pointer(device.PhaseDown, centre.X, centre.Y, 1)
	s.pointer(device.PhaseMove, centre.X+30, centre.Y, 1)
	if len(*events) != 2 {
		t.Fatalf("expected start and pan, got %+v", *events)
	}
	if got := (*events)[1].e.Ratio; math.Abs(got.X-0.5) > 1e-9 || got.Y != 0 {
		t.Fatalf("expected pan ratio {0.5 0} on the smaller pad, got %+v", got)
	}
}

// TestConfigureErrors checks unknown ids and invalid settings are refused.
func TestConfigureErrors(t *testing.T) {
	c, _, _ := newTestCoordinator(t, "main")

	if err := c.Configure("other", axispad.DefaultConfig()); err == nil {
		t.Fatalf("expected unknown pad to fail")
	}

	bad := axispad.DefaultConfig()
	bad.StepSize = 2
	if err := c.Configure("main", bad); !errors.Is(err, axispad.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

// TestRenderDrawsKnob checks the composited frame shows the knob where the pad put it.
func TestRenderDrawsKnob(t *testing.T) {
	c, s, _ := newTestCoordinator(t, "main")

	b, _ := c.Boundary("main")
	centre := b.Center()
	s.pointer(device.PhaseDown, centre.X, centre.Y, 1)
	s.pointer(device.PhaseMove, centre.X+60, centre.Y, 1)

	img := c.Render()
	if img == nil || img.Bounds() != image.Rect(0, 0, 800, 480) {
		t.Fatalf("expected an 800x480 frame, got %v", img)
	}
	knob := img.RGBAAt(int(centre.X+60), int(centre.Y))
	bg := img.RGBAAt(2, 2)
	if knob == bg {
		t.Fatalf("expected knob pixels at the dragged position, got background %+v", knob)
	}

	c.renderFrame()
	if s.frames != 1 {
		t.Fatalf("expected one frame pushed, got %d", s.frames)
	}
}

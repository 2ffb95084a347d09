// Package device defines the abstraction layer for pointer surfaces: the
// places pads are drawn on and touched.
package device

import (
	"fmt"
	"image"
	"sync"
)

// Surface is the interface that abstracts a touchable display.
// Both the Stream Deck hardware adapter and the emulator implement it.
type Surface interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Surface info
	GetModelName() string
	GetFrameRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetFrame(img image.Image) error

	// Event handlers
	AddPointerHandler(fn PointerHandler) error
	AddResizeHandler(fn ResizeHandler) error

	// Event loop
	Listen(errCh chan error) error
}

// Phase is the stage of a pointer contact.
type Phase uint8

// Pointer phases
const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

var phaseNames = [...]string{
	PhaseDown:   "down",
	PhaseMove:   "move",
	PhaseUp:     "up",
	PhaseCancel: "cancel",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// ParsePhase parses "down", "move", "up" or "cancel".
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return PhaseDown, fmt.Errorf("unknown pointer phase %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("unknown pointer phase %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	v, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MouseTouchID is the touch id reported for mouse contacts. Real touches use
// the platform's ids, which are never negative.
const MouseTouchID int64 = -1

// PointerEvent is one pointer sample in surface coordinates.
type PointerEvent struct {
	Phase   Phase
	X, Y    float64
	TouchID int64
}

// Handler types
type (
	// PointerHandler is called for every pointer sample, in order per contact.
	PointerHandler func(s Surface, ev PointerEvent) error

	// ResizeHandler is called when the surface's frame rectangle changes.
	ResizeHandler func(s Surface, bounds image.Rectangle) error
)

// Handlers is a handler registry shared by surface implementations.
// Handlers run synchronously on the caller's goroutine; errors are forwarded
// to errCh without blocking.
type Handlers struct {
	mu      sync.RWMutex
	pointer []PointerHandler
	resize  []ResizeHandler
}

// AddPointer registers a pointer handler.
func (h *Handlers) AddPointer(fn PointerHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pointer = append(h.pointer, fn)
}

// AddResize registers a resize handler.
func (h *Handlers) AddResize(fn ResizeHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resize = append(h.resize, fn)
}

// HasPointer reports whether any pointer handler is registered.
func (h *Handlers) HasPointer() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pointer) > 0
}

// Pointer delivers ev to every pointer handler.
func (h *Handlers) Pointer(s Surface, ev PointerEvent, errCh chan error) {
	h.mu.RLock()
	handlers := h.pointer
	h.mu.RUnlock()

	for _, fn := range handlers {
		forward(errCh, fn(s, ev))
	}
}

// Resize delivers bounds to every resize handler.
func (h *Handlers) Resize(s Surface, bounds image.Rectangle, errCh chan error) {
	h.mu.RLock()
	handlers := h.resize
	h.mu.RUnlock()

	for _, fn := range handlers {
		forward(errCh, fn(s, bounds))
	}
}

func forward(errCh chan error, err error) {
	if err == nil || errCh == nil {
		return
	}
	select {
	case errCh <- err:
	default:
	}
}

package device

import (
	"image"
	"sync"
	"sync/atomic"

	"rafaelmartins.com/p/streamdeck"
)

// HardwareDevice exposes a Stream Deck touch strip as a Surface.
//
// The strip only reports finished gestures, so a tap becomes down+up and a
// swipe becomes down, move, up. Each gesture gets a fresh touch id.
type HardwareDevice struct {
	dev *streamdeck.Device

	handlers   Handlers
	install    sync.Once
	installErr error
	nextID     atomic.Int64

	mu    sync.Mutex
	errCh chan error
}

// NewHardware creates a new hardware surface wrapper.
func NewHardware(dev *streamdeck.Device) *HardwareDevice {
	return &HardwareDevice{dev: dev}
}

// Open opens the device for use.
func (h *HardwareDevice) Open() error {
	return h.dev.Open()
}

// Close closes the device.
func (h *HardwareDevice) Close() error {
	return h.dev.Close()
}

// IsOpen returns whether the device is open.
func (h *HardwareDevice) IsOpen() bool {
	return h.dev.IsOpen()
}

// GetModelName returns the device model name.
func (h *HardwareDevice) GetModelName() string {
	return h.dev.GetModelName()
}

// GetFrameRectangle returns the touch strip dimensions.
func (h *HardwareDevice) GetFrameRectangle() (image.Rectangle, error) {
	return h.dev.GetTouchStripImageRectangle()
}

// SetBrightness sets the device brightness.
func (h *HardwareDevice) SetBrightness(perc byte) error {
	return h.dev.SetBrightness(perc)
}

// SetFrame sets the touch strip image.
func (h *HardwareDevice) SetFrame(img image.Image) error {
	return h.dev.SetTouchStripImage(img)
}

// AddPointerHandler adds a pointer handler. The strip handlers are installed
// on the device with the first registration.
func (h *HardwareDevice) AddPointerHandler(fn PointerHandler) error {
	h.handlers.AddPointer(fn)
	h.install.Do(func() {
		if err := h.dev.AddTouchStripTouchHandler(h.onTouch); err != nil {
			h.installErr = err
			return
		}
		h.installErr = h.dev.AddTouchStripSwipeHandler(h.onSwipe)
	})
	return h.installErr
}

// AddResizeHandler adds a resize handler. The strip never resizes, so the
// handler is never called.
func (h *HardwareDevice) AddResizeHandler(fn ResizeHandler) error {
	h.handlers.AddResize(fn)
	return nil
}

// Listen starts the device event loop.
func (h *HardwareDevice) Listen(errCh chan error) error {
	h.mu.Lock()
	h.errCh = errCh
	h.mu.Unlock()
	return h.dev.Listen(errCh)
}

// Underlying returns the underlying streamdeck.Device for direct access when needed.
func (h *HardwareDevice) Underlying() *streamdeck.Device {
	return h.dev
}

func (h *HardwareDevice) onTouch(_ *streamdeck.Device, _ streamdeck.TouchStripTouchType, p image.Point) error {
	h.dispatch(TapEvents(p, h.nextID.Add(1)))
	return nil
}

func (h *HardwareDevice) onSwipe(_ *streamdeck.Device, origin, destination image.Point) error {
	h.dispatch(SwipeEvents(origin, destination, h.nextID.Add(1)))
	return nil
}

func (h *HardwareDevice) dispatch(events []PointerEvent) {
	h.mu.Lock()
	errCh := h.errCh
	h.mu.Unlock()

	for _, ev := range events {
		h.handlers.Pointer(h, ev, errCh)
	}
}

// TapEvents expands a strip tap into a pointer contact.
func TapEvents(p image.Point, touchID int64) []PointerEvent {
	return []PointerEvent{
		pointerAt(PhaseDown, p, touchID),
		pointerAt(PhaseUp, p, touchID),
	}
}

// SwipeEvents expands a strip swipe into a pointer contact.
func SwipeEvents(origin, destination image.Point, touchID int64) []PointerEvent {
	return []PointerEvent{
		pointerAt(PhaseDown, origin, touchID),
		pointerAt(PhaseMove, destination, touchID),
		pointerAt(PhaseUp, destination, touchID),
	}
}

package axispad

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned (wrapped) for configurations that would make
// the pad produce degenerate values.
var ErrInvalidConfig = errors.New("invalid pad configuration")

// Default sizes in pixels.
const (
	DefaultSize        = 300
	DefaultControlSize = 100
)

// InitialTouchType selects where the logical zero point is anchored when a
// touch goes down.
type InitialTouchType uint8

const (
	// NoSnap keeps the knob where it is and drags it relative to the touch.
	NoSnap InitialTouchType = iota
	// SnapToValue moves the knob under the touch immediately.
	SnapToValue
	// VisualSnapToCenter moves the pad under the touch while the value stays put.
	VisualSnapToCenter
)

var initialTouchNames = map[InitialTouchType]string{
	NoSnap:             "no-snap",
	SnapToValue:        "snap-to-value",
	VisualSnapToCenter: "visual-snap-to-center",
}

func (t InitialTouchType) String() string {
	if s, ok := initialTouchNames[t]; ok {
		return s
	}
	return fmt.Sprintf("InitialTouchType(%d)", uint8(t))
}

// ParseInitialTouchType parses the names used in config files.
func ParseInitialTouchType(s string) (InitialTouchType, error) {
	for t, name := range initialTouchNames {
		if name == s {
			return t, nil
		}
	}
	return NoSnap, fmt.Errorf("unknown initial touch type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t InitialTouchType) MarshalText() ([]byte, error) {
	if _, ok := initialTouchNames[t]; !ok {
		return nil, fmt.Errorf("unknown initial touch type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *InitialTouchType) UnmarshalText(text []byte) error {
	v, err := ParseInitialTouchType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ResolveMode selects which coordinates pointer samples carry.
type ResolveMode uint8

const (
	// ResolveRelative samples are relative to the pad's own view.
	ResolveRelative ResolveMode = iota
	// ResolveAbsolute samples are screen coordinates; the pad subtracts its
	// boundary origin and adds the status bar offset.
	ResolveAbsolute
)

func (m ResolveMode) String() string {
	switch m {
	case ResolveRelative:
		return "relative"
	case ResolveAbsolute:
		return "absolute"
	default:
		return fmt.Sprintf("ResolveMode(%d)", uint8(m))
	}
}

// ParseResolveMode parses "relative" or "absolute".
func ParseResolveMode(s string) (ResolveMode, error) {
	switch s {
	case "relative":
		return ResolveRelative, nil
	case "absolute":
		return ResolveAbsolute, nil
	}
	return ResolveRelative, fmt.Errorf("unknown gesture resolve mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m ResolveMode) MarshalText() ([]byte, error) {
	if m > ResolveAbsolute {
		return nil, fmt.Errorf("unknown gesture resolve mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ResolveMode) UnmarshalText(text []byte) error {
	v, err := ParseResolveMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config describes one pad. Use DefaultConfig as the starting point; the zero
// value is not valid.
type Config struct {
	// Size is the pad diameter in pixels.
	Size float64

	// ControlSize is the knob diameter in pixels.
	ControlSize float64

	// DisableX and DisableY lock an axis at zero.
	DisableX bool
	DisableY bool

	// InitialX and InitialY are the starting ratio, applied at construction
	// and whenever they change. Ignored on a disabled axis.
	InitialX float64
	InitialY float64

	// StepSize quantizes each ratio axis. Zero means continuous.
	StepSize float64

	// KeepControlCompletelyInPadBounds stops the knob's edge, rather than its
	// centre, at the pad edge.
	KeepControlCompletelyInPadBounds bool

	InitialTouchType InitialTouchType

	// IgnoreTouchDownInPadArea only accepts touch downs on the knob itself.
	IgnoreTouchDownInPadArea bool

	// ResetOnRelease returns the knob to the centre on release.
	ResetOnRelease bool

	GestureResolveMode ResolveMode

	// StatusBarOffset corrects absolute samples for fixed overlay chrome
	// above the surface.
	StatusBarOffset float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Size:               DefaultSize,
		ControlSize:        DefaultControlSize,
		ResetOnRelease:     true,
		InitialTouchType:   NoSnap,
		GestureResolveMode: ResolveRelative,
	}
}

// BoundRadius is the furthest the knob centre may travel from the pad centre.
func (c Config) BoundRadius() float64 {
	if c.KeepControlCompletelyInPadBounds {
		return c.Size/2 - c.ControlSize/2
	}
	return c.Size / 2
}

// PadExtent returns the on-screen footprint of the pad. A disabled axis
// collapses to the knob diameter.
func (c Config) PadExtent() (width, height float64) {
	width, height = c.Size, c.Size
	if c.DisableX {
		width = c.ControlSize
	}
	if c.DisableY {
		height = c.ControlSize
	}
	return width, height
}

// Validate reports configurations that would yield NaN or infinite ratios.
func (c Config) Validate() error {
	// Negated comparisons also reject NaN.
	if !(c.Size > 0) {
		return fmt.Errorf("%w: size must be positive, got %g", ErrInvalidConfig, c.Size)
	}
	if !(c.ControlSize > 0) {
		return fmt.Errorf("%w: control size must be positive, got %g", ErrInvalidConfig, c.ControlSize)
	}
	if !(c.BoundRadius() > 0) {
		return fmt.Errorf("%w: control size %g leaves no travel inside a pad of size %g",
			ErrInvalidConfig, c.ControlSize, c.Size)
	}
	if !(c.StepSize >= 0 && c.StepSize <= 1) {
		return fmt.Errorf("%w: step size must be within [0, 1], got %g", ErrInvalidConfig, c.StepSize)
	}
	if !(c.InitialX >= -1 && c.InitialX <= 1) || !(c.InitialY >= -1 && c.InitialY <= 1) {
		return fmt.Errorf("%w: initial position (%g, %g) outside [-1, 1]",
			ErrInvalidConfig, c.InitialX, c.InitialY)
	}
	if _, ok := initialTouchNames[c.InitialTouchType]; !ok {
		return fmt.Errorf("%w: unknown initial touch type %d", ErrInvalidConfig, c.InitialTouchType)
	}
	if c.GestureResolveMode > ResolveAbsolute {
		return fmt.Errorf("%w: unknown gesture resolve mode %d", ErrInvalidConfig, c.GestureResolveMode)
	}
	return nil
}

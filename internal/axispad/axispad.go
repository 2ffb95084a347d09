// Package axispad converts pointer drags over a circular pad into a bounded
// two-axis value, each axis in [-1, 1].
//
// A Pad owns the gesture state of one on-screen pad: it hit-tests touch
// downs, tracks a single active contact, clamps and quantizes the knob
// position and reports value events to the host. Rendering, animation and
// layout are external; the pad only talks to them through Animator, Observer
// and Layout.
//
// A Pad is not safe for concurrent use. Pointer samples, boundary changes and
// configuration changes must all be delivered from one goroutine (or under
// one lock, as the coordinator does).
package axispad

import (
	"time"

	"github.com/phinze/axispad/internal/anim"
	"gonum.org/v1/gonum/spatial/r2"
)

// EventType identifies what produced a control state.
type EventType uint8

const (
	// EventSetup marks a state derived from configuration (mount or a change
	// of the initial position). It is never delivered to the host.
	EventSetup EventType = iota
	// EventStart is an accepted touch down.
	EventStart
	// EventPan is a move of the active touch.
	EventPan
	// EventEnd is the release or cancellation of the active touch.
	EventEnd
)

func (e EventType) String() string {
	switch e {
	case EventSetup:
		return "setup"
	case EventStart:
		return "start"
	case EventPan:
		return "pan"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// PadPoint is a position relative to the pad centre, in pixels.
type PadPoint r2.Vec

// ScreenPoint is a raw pointer position as delivered by the input source:
// relative to the pad's own view in ResolveRelative mode, absolute screen
// coordinates in ResolveAbsolute mode.
type ScreenPoint r2.Vec

// Ratio is a normalized knob position, 0 at the pad centre and each axis in
// [-1, 1].
type Ratio r2.Vec

// TouchEvent is reported to the host for every user-driven state change.
type TouchEvent struct {
	Type  EventType
	Ratio Ratio
}

// ControlState is the knob position and the event that produced it.
type ControlState struct {
	Position PadPoint
	Type     EventType
}

// Sample is one pointer sample tagged with the contact that produced it.
type Sample struct {
	Point   ScreenPoint
	TouchID int64
}

// Rect is the pad's placement in screen coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// localCenter returns the pad centre relative to the rect's origin.
func (r Rect) localCenter() r2.Vec {
	return r2.Vec{X: r.Width / 2, Y: r.Height / 2}
}

// Center returns the pad centre in screen coordinates.
func (r Rect) Center() ScreenPoint {
	return ScreenPoint{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// SurfaceSample builds the sample a pad placed at bounds expects for a pointer
// at (x, y) in surface coordinates. Relative pads receive view-relative
// points, absolute pads the surface point untouched.
func SurfaceSample(mode ResolveMode, bounds Rect, x, y float64, touchID int64) Sample {
	pt := ScreenPoint{X: x, Y: y}
	if mode == ResolveRelative {
		pt = ScreenPoint{X: x - bounds.X, Y: y - bounds.Y}
	}
	return Sample{Point: pt, TouchID: touchID}
}

// Animator receives visual targets. The pad fires and forgets: it never
// waits for an animation to finish.
type Animator interface {
	AnimateTo(target r2.Vec, duration time.Duration, easing anim.Easing)
}

// Observer receives raw state changes, including setup states that never
// reach the host callback. It exists for instrumentation and tests.
type Observer interface {
	ControlChanged(state ControlState)
	PadOffsetChanged(offset PadPoint)
}

// Layout reports where the pad currently sits on screen. The pad queries it
// on construction and whenever InvalidateBoundary is called.
type Layout interface {
	PadBounds() Rect
}

// Hooks are the pad's collaborators. Every field is optional.
type Hooks struct {
	// OnTouch receives start, pan and end events.
	OnTouch func(TouchEvent)

	// Knob animates the control knob, in pad-centre pixels.
	Knob Animator

	// Offset animates the whole pad's visual offset.
	Offset Animator

	Observer Observer
	Layout   Layout
}

// Animation timings for the visual channels.
const (
	// ReleaseDuration is how long the knob takes to settle after an end event.
	ReleaseDuration = 350 * time.Millisecond

	// RecenterDuration is how long the pad takes to move under or away from
	// the touch in visual-snap-to-center mode.
	RecenterDuration = 200 * time.Millisecond
)

var (
	knobEasing   = anim.Elastic(4)
	offsetEasing = anim.Out(anim.Ease)
)

package anim

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Clock returns the current time. time.Now in production, a fake in tests.
type Clock func() time.Time

// Tween animates a 2D point toward a target. It satisfies axispad.Animator.
// A Tween is not safe for concurrent use.
type Tween struct {
	now Clock

	from, to r2.Vec
	start    time.Time
	duration time.Duration
	easing   Easing
}

// NewTween returns a tween resting at initial. A nil clock means time.Now.
func NewTween(now Clock, initial r2.Vec) *Tween {
	if now == nil {
		now = time.Now
	}
	return &Tween{now: now, from: initial, to: initial, easing: Linear}
}

// AnimateTo starts a new animation from wherever the tween currently is.
// A zero duration jumps straight to target.
func (tw *Tween) AnimateTo(target r2.Vec, d time.Duration, e Easing) {
	if e == nil {
		e = Linear
	}
	t := tw.now()
	tw.from = tw.valueAt(t)
	tw.to = target
	tw.start = t
	tw.duration = d
	tw.easing = e
}

// Value returns the interpolated point at the clock's current time.
func (tw *Tween) Value() r2.Vec {
	return tw.valueAt(tw.now())
}

// Target returns the point the tween is heading for.
func (tw *Tween) Target() r2.Vec {
	return tw.to
}

// Done reports whether the current animation has finished.
func (tw *Tween) Done() bool {
	return tw.progress(tw.now()) >= 1
}

func (tw *Tween) progress(t time.Time) float64 {
	if tw.duration <= 0 {
		return 1
	}
	p := float64(t.Sub(tw.start)) / float64(tw.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (tw *Tween) valueAt(t time.Time) r2.Vec {
	p := tw.progress(t)
	if p >= 1 {
		return tw.to
	}
	return r2.Add(tw.from, r2.Scale(tw.easing(p), r2.Sub(tw.to, tw.from)))
}

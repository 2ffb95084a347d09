// Package anim provides easing curves and a clock-driven 2D tween used to
// animate the pad knob and the pad's visual offset.
package anim

import "math"

// Easing maps animation progress t in [0, 1] to eased progress. The result
// may overshoot [0, 1] for springy curves.
type Easing func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 {
	return t
}

// Ease is the standard ease curve, a cubic Bezier through (0.42, 0) and (1, 1).
var Ease = Bezier(0.42, 0, 1, 1)

// Out runs e backwards, turning an ease-in into an ease-out.
func Out(e Easing) Easing {
	return func(t float64) float64 {
		return 1 - e(1-t)
	}
}

// Elastic is a spring that overshoots and settles. Larger bounciness
// oscillates more; zero gives a plain ease-in.
func Elastic(bounciness float64) Easing {
	p := bounciness * math.Pi
	return func(t float64) float64 {
		return 1 - math.Pow(math.Cos(t*math.Pi/2), 3)*math.Cos(t*p)
	}
}

// Bezier returns the cubic Bezier easing with control points (x1, y1) and
// (x2, y2), as used by CSS timing functions. x1 and x2 must lie in [0, 1].
func Bezier(x1, y1, x2, y2 float64) Easing {
	if x1 == y1 && x2 == y2 {
		return Linear
	}
	c := bezier{x1: x1, y1: y1, x2: x2, y2: y2}
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return c.y(c.solve(t))
	}
}

type bezier struct {
	x1, y1, x2, y2 float64
}

func cubic(a1, a2, s float64) float64 {
	return ((1-3*a2+3*a1)*s+(3*a2-6*a1))*s*s + 3*a1*s
}

func cubicSlope(a1, a2, s float64) float64 {
	return 3*(1-3*a2+3*a1)*s*s + 2*(3*a2-6*a1)*s + 3*a1
}

func (b bezier) y(s float64) float64 {
	return cubic(b.y1, b.y2, s)
}

// solve finds the curve parameter whose x equals t: Newton's method first,
// bisection when the slope is too flat to trust.
func (b bezier) solve(t float64) float64 {
	s := t
	for i := 0; i < 8; i++ {
		slope := cubicSlope(b.x1, b.x2, s)
		if math.Abs(slope) < 1e-6 {
			break
		}
		dx := cubic(b.x1, b.x2, s) - t
		if math.Abs(dx) < 1e-7 {
			return s
		}
		s -= dx / slope
	}

	lo, hi := 0.0, 1.0
	s = t
	for i := 0; i < 64; i++ {
		x := cubic(b.x1, b.x2, s)
		if math.Abs(x-t) < 1e-7 {
			break
		}
		if x < t {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}

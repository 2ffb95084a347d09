package axispad

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ClampToRadius caps the length of v at radius, keeping its direction.
// Vectors already inside the circle are returned unchanged.
func ClampToRadius(v r2.Vec, radius float64) r2.Vec {
	if r2.Norm2(v) <= radius*radius {
		return v
	}
	angle := math.Atan2(v.Y, v.X)
	return r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}

// QuantizeRatio limits ratio to [-1, 1] and snaps it to the nearest multiple
// of step (when step > 0). The result quantizes to itself.
func QuantizeRatio(ratio, step float64) float64 {
	ratio = clampUnit(ratio)
	if step > 0 {
		ratio = math.Round(ratio/step) * step
	}
	return clampUnit(ratio)
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// withinRadius reports whether v lies inside or on the circle of radius r.
func withinRadius(v r2.Vec, r float64) bool {
	return r2.Norm2(v) <= r*r
}

// Stick describes the bar drawn from the pad centre to the knob.
type Stick struct {
	// Length runs along Angle and includes the rounded end caps.
	Length    float64
	Thickness float64

	// Angle in radians, measured like atan2(y, x).
	Angle float64

	// Center is the middle of the bar relative to the pad centre.
	Center PadPoint
}

// StickFor returns the stick geometry for a knob at the given position.
func StickFor(knob PadPoint, thickness float64) Stick {
	v := r2.Vec(knob)
	dist := r2.Norm(v)
	angle := math.Atan2(v.Y, v.X)
	return Stick{
		Length:    dist + thickness,
		Thickness: thickness,
		Angle:     angle,
		Center:    PadPoint{X: dist / 2 * math.Cos(angle), Y: dist / 2 * math.Sin(angle)},
	}
}

// Stick returns the stick geometry for the current control state.
func (p *Pad) Stick(thickness float64) Stick {
	return StickFor(p.state.Position, thickness)
}

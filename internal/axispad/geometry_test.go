package axispad

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// TestClampToRadiusPreservesDirection checks clamped vectors keep their angle and land on the circle.
func TestClampToRadiusPreservesDirection(t *testing.T) {
	for x := -400.0; x <= 400; x += 37 {
		for y := -400.0; y <= 400; y += 41 {
			v := r2.Vec{X: x, Y: y}
			got := ClampToRadius(v, 150)

			if r2.Norm(v) <= 150 {
				if got != v {
					t.Fatalf("expected %+v unchanged, got %+v", v, got)
				}
				continue
			}
			if math.Abs(r2.Norm(got)-150) > 1e-9 {
				t.Fatalf("expected length 150 for %+v, got %v", v, r2.Norm(got))
			}
			if math.Abs(math.Atan2(got.Y, got.X)-math.Atan2(y, x)) > 1e-9 {
				t.Fatalf("expected direction of %+v kept, got %+v", v, got)
			}
		}
	}
}

// TestQuantizeRatio covers snapping, clamping and the continuous case.
func TestQuantizeRatio(t *testing.T) {
	tests := []struct {
		ratio, step, want float64
	}{
		{0.2667, 0, 0.2667},
		{1.5, 0, 1},
		{-1.5, 0, -1},
		{0.2667, 0.25, 0.25},
		{0.4, 0.25, 0.5},
		{-0.9333, 0.25, -1},
		{0.99, 0.45, 0.9},
		{0.1, 1, 0},
		{0.6, 1, 1},
		{-1.2, 0.3, -0.9},
		{1.4, 0.3, 0.9},
		{-3, 0.45, -0.9},
	}
	for _, tt := range tests {
		if got := QuantizeRatio(tt.ratio, tt.step); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("QuantizeRatio(%v, %v): expected %v, got %v", tt.ratio, tt.step, tt.want, got)
		}
	}
}

// TestQuantizeRatioIdempotent checks a quantized ratio quantizes to itself.
func TestQuantizeRatioIdempotent(t *testing.T) {
	for _, step := range []float64{0.05, 0.1, 0.25, 0.3, 1.0 / 3} {
		for r := -1.2; r <= 1.2; r += 0.013 {
			once := QuantizeRatio(r, step)
			if twice := QuantizeRatio(once, step); math.Abs(twice-once) > 1e-12 {
				t.Fatalf("step %v: %v quantized to %v then %v", step, r, once, twice)
			}
		}
	}
}

// TestQuantizeRatioOutOfRange checks ratios beyond the unit range snap to the
// last step inside it, and stay there when quantized again.
func TestQuantizeRatioOutOfRange(t *testing.T) {
	once := QuantizeRatio(-1.2, 0.3)
	if math.Abs(once+0.9) > 1e-12 {
		t.Fatalf("expected -0.9, got %v", once)
	}
	if twice := QuantizeRatio(once, 0.3); math.Abs(twice-once) > 1e-12 {
		t.Fatalf("expected %v to quantize to itself, got %v", once, twice)
	}
}

// TestStickFor checks the stick bar geometry for a few knob positions.
func TestStickFor(t *testing.T) {
	s := StickFor(PadPoint{}, 40)
	if s.Length != 40 || s.Center != (PadPoint{}) {
		t.Fatalf("expected a bare cap at the centre, got %+v", s)
	}

	s = StickFor(PadPoint{X: 0, Y: 100}, 40)
	if s.Length != 140 || math.Abs(s.Angle-math.Pi/2) > 1e-12 {
		t.Fatalf("expected length 140 pointing down, got %+v", s)
	}
	if math.Abs(s.Center.X) > 1e-9 || math.Abs(s.Center.Y-50) > 1e-9 {
		t.Fatalf("expected centre {0 50}, got %+v", s.Center)
	}

	s = StickFor(PadPoint{X: -30, Y: -40}, 20)
	if math.Abs(s.Length-70) > 1e-12 || math.Abs(s.Center.X+15) > 1e-9 || math.Abs(s.Center.Y+20) > 1e-9 {
		t.Fatalf("expected length 70 centred at {-15 -20}, got %+v", s)
	}
}

// TestSurfaceSample checks relative samples subtract the bounds origin.
func TestSurfaceSample(t *testing.T) {
	bounds := Rect{X: 10, Y: 20, Width: 300, Height: 300}

	rel := SurfaceSample(ResolveRelative, bounds, 160, 170, 3)
	if rel.Point != (ScreenPoint{X: 150, Y: 150}) || rel.TouchID != 3 {
		t.Fatalf("expected {150 150} for touch 3, got %+v", rel)
	}

	abs := SurfaceSample(ResolveAbsolute, bounds, 160, 170, 3)
	if abs.Point != (ScreenPoint{X: 160, Y: 170}) {
		t.Fatalf("expected raw point, got %+v", abs)
	}
}

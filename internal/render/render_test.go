package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/phinze/axispad/internal/axispad"
	"gonum.org/v1/gonum/spatial/r2"
)

// TestParseHexColor covers the accepted spellings and a few bad ones.
func TestParseHexColor(t *testing.T) {
	tests := map[string]color.NRGBA{
		"#5D3FD366": {0x5d, 0x3f, 0xd3, 0x66},
		"#7f00ff":   {0x7f, 0x00, 0xff, 0xff},
		"#fff":      {0xff, 0xff, 0xff, 0xff},
	}
	for in, want := range tests {
		got, err := ParseHexColor(in)
		if err != nil || got != want {
			t.Fatalf("%s: expected %+v, got %+v (%v)", in, want, got, err)
		}
		if back, _ := ParseHexColor(HexColor(got)); back != got {
			t.Fatalf("%s: expected %s to parse back, got %+v", in, HexColor(got), back)
		}
	}

	for _, bad := range []string{"5D3FD3", "#12345", "#zzzzzz"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}

// TestValueLabel checks the two-decimal label format.
func TestValueLabel(t *testing.T) {
	if got := ValueLabel(axispad.Ratio{X: 0.2, Y: -1.0 / 3}); got != "X: 0.20, Y: -0.33" {
		t.Fatalf("expected %q, got %q", "X: 0.20, Y: -0.33", got)
	}
}

// TestOuter checks the frame reserves the label strip above the pad.
func TestOuter(t *testing.T) {
	got := Outer(image.Rect(100, 100, 400, 400))
	want := image.Rect(100-Padding, 100-LabelHeight-Padding, 400+Padding, 400+Padding)
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestDrawPaintsKnobAtOffset checks the knob lands at its animated position.
func TestDrawPaintsKnobAtOffset(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	st := DefaultStyle()
	st.Background = color.NRGBA{}
	st.Stick = color.NRGBA{}
	st.Knob = color.NRGBA{0xff, 0, 0, 0xff}

	f := Frame{
		Bounds:      image.Rect(50, 50, 350, 350),
		Knob:        r2.Vec{X: 100, Y: 0},
		ControlSize: 100,
		Label:       ValueLabel(axispad.Ratio{X: 100.0 / 150}),
	}
	r.Draw(dst, f, st)

	// Knob centre is the pad centre (200, 200) plus (100, 0).
	if c := dst.RGBAAt(300, 200); c.R < 0xf0 || c.A < 0xf0 {
		t.Fatalf("expected an opaque red knob at (300, 200), got %+v", c)
	}
	if c := dst.RGBAAt(200, 200); c.R != 0 {
		t.Fatalf("expected no knob at the pad centre, got %+v", c)
	}
	if c := dst.RGBAAt(2, 398); c.A != 0 {
		t.Fatalf("expected the corner untouched, got %+v", c)
	}
}

// TestDrawActiveFrame checks the frame colour follows the active flag.
func TestDrawActiveFrame(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	st := DefaultStyle()
	st.ShowLabel = false
	st.Frame = color.NRGBA{0, 0, 0xff, 0xff}
	st.FrameActive = color.NRGBA{0, 0xff, 0, 0xff}

	f := Frame{Bounds: image.Rect(50, 50, 250, 250), ControlSize: 60}
	// The left frame edge runs down x = 46.
	edge := image.Pt(50-Padding, 150)

	idle := image.NewRGBA(image.Rect(0, 0, 300, 300))
	r.Draw(idle, f, st)
	if c := idle.RGBAAt(edge.X, edge.Y); c.B == 0 || c.G != 0 {
		t.Fatalf("expected blue idle frame, got %+v", c)
	}

	f.Active = true
	active := image.NewRGBA(image.Rect(0, 0, 300, 300))
	r.Draw(active, f, st)
	if c := active.RGBAAt(edge.X, edge.Y); c.G == 0 || c.B != 0 {
		t.Fatalf("expected green active frame, got %+v", c)
	}
}

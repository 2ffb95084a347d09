package axispad

import "gonum.org/v1/gonum/spatial/r2"

// session is the state of one accepted contact, from touch down until
// release or cancellation.
type session struct {
	touchID int64

	// anchor is subtracted from every later pad-centre-relative sample.
	anchor r2.Vec
}

// begin applies the initial touch policy to a touch at rel, with the knob
// currently at knob. It returns the session anchor, the pad's visual offset
// and the unclamped knob position for the start event.
func (t InitialTouchType) begin(rel, knob r2.Vec) (anchor, offset, start r2.Vec) {
	grab := r2.Sub(rel, knob)
	switch t {
	case SnapToValue:
		// The touch point is the value.
		return r2.Vec{}, r2.Vec{}, rel
	case VisualSnapToCenter:
		// The pad slides so the knob sits under the finger; the value keeps
		// following the finger's displacement from here.
		return grab, grab, knob
	default:
		return grab, r2.Vec{}, knob
	}
}

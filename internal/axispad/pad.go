package axispad

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pad is the axis pad controller. Create one with New.
type Pad struct {
	cfg    Config
	hooks  Hooks
	bounds Rect

	state  ControlState
	offset PadPoint

	// sess is nil while no contact is being tracked.
	sess *session
}

// New validates cfg and creates a pad. The initial control state (a setup
// state at InitialX/InitialY) and the initial pad offset are published to the
// observer and animators straight away; the host callback is not called.
func New(cfg Config, hooks Hooks) (*Pad, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pad{cfg: cfg, hooks: hooks}
	if hooks.Layout != nil {
		p.bounds = hooks.Layout.PadBounds()
	}

	p.state = ControlState{Position: p.initialPosition(), Type: EventSetup}
	p.publishControl()
	p.publishOffset()
	return p, nil
}

// TouchDown offers a new contact to the pad and reports whether it was
// accepted. Rejected touches change nothing and emit nothing. While a
// contact is active every other touch down is rejected.
func (p *Pad) TouchDown(s Sample) bool {
	if p.sess != nil {
		return false
	}

	rel := r2.Vec(p.resolve(s.Point))
	knob := r2.Vec(p.state.Position)
	if !p.hit(rel, knob) {
		return false
	}

	anchor, offset, start := p.cfg.InitialTouchType.begin(rel, knob)
	p.sess = &session{touchID: s.TouchID, anchor: anchor}

	p.commit(ControlState{Position: p.limit(start), Type: EventStart})
	p.setOffset(PadPoint(offset))
	return true
}

// TouchMove follows the active contact. Samples from any other contact are
// dropped.
func (p *Pad) TouchMove(s Sample) {
	if !p.owns(s.TouchID) {
		return
	}
	p.commit(ControlState{Position: p.follow(s.Point), Type: EventPan})
}

// TouchUp ends the active contact at the release sample. With ResetOnRelease
// the knob returns to the centre; otherwise it stays where the release sample
// puts it.
func (p *Pad) TouchUp(s Sample) {
	if !p.owns(s.TouchID) {
		return
	}
	end := ControlState{Type: EventEnd}
	if !p.cfg.ResetOnRelease {
		end.Position = p.follow(s.Point)
	}
	p.release(end)
}

// TouchCancel ends the active contact without a final sample, as when the
// platform cancels or fails the gesture. It resets like a release; without
// ResetOnRelease the knob keeps its last position.
func (p *Pad) TouchCancel(touchID int64) {
	if !p.owns(touchID) {
		return
	}
	end := ControlState{Type: EventEnd}
	if !p.cfg.ResetOnRelease {
		end.Position = p.state.Position
	}
	p.release(end)
}

// SetBoundary records the pad's current placement on screen. Call it on
// mount, after layout and whenever the window dimensions change.
func (p *Pad) SetBoundary(r Rect) {
	p.bounds = r
}

// InvalidateBoundary re-queries the Layout hook, if any.
func (p *Pad) InvalidateBoundary() {
	if p.hooks.Layout != nil {
		p.bounds = p.hooks.Layout.PadBounds()
	}
}

// Configure applies a new configuration. When the initial position or the
// bound radius changes, the knob is re-derived from InitialX/InitialY as a
// setup state, which the host callback never sees.
func (p *Pad) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	prev := p.cfg
	p.cfg = cfg

	radiusChanged := prev.BoundRadius() != cfg.BoundRadius()
	if !radiusChanged && prev.InitialX == cfg.InitialX && prev.InitialY == cfg.InitialY {
		return nil
	}

	next := ControlState{Position: p.initialPosition(), Type: EventSetup}
	if radiusChanged {
		// Ratios change with the radius even if the pixels do not.
		p.state = next
		p.publishControl()
		return nil
	}
	p.commit(next)
	return nil
}

// State returns the current control state.
func (p *Pad) State() ControlState {
	return p.state
}

// Ratio returns the current normalized value.
func (p *Pad) Ratio() Ratio {
	return p.ratio(p.state.Position)
}

// PadOffset returns the pad's visual offset target.
func (p *Pad) PadOffset() PadPoint {
	return p.offset
}

// Active reports whether a contact is being tracked, and which.
func (p *Pad) Active() (touchID int64, ok bool) {
	if p.sess == nil {
		return 0, false
	}
	return p.sess.touchID, true
}

// Config returns the pad's configuration.
func (p *Pad) Config() Config {
	return p.cfg
}

// Boundary returns the last recorded placement.
func (p *Pad) Boundary() Rect {
	return p.bounds
}

func (p *Pad) owns(touchID int64) bool {
	return p.sess != nil && p.sess.touchID == touchID
}

// resolve converts a raw sample into pad-centre-relative pixels.
func (p *Pad) resolve(pt ScreenPoint) PadPoint {
	local := r2.Vec(pt)
	if p.cfg.GestureResolveMode == ResolveAbsolute {
		local = r2.Vec{
			X: pt.X - p.bounds.X,
			Y: pt.Y - p.bounds.Y + p.cfg.StatusBarOffset,
		}
	}
	return PadPoint(r2.Sub(local, p.bounds.localCenter()))
}

// hit decides whether a touch down at rel may start a session. The knob is
// always grabbable, even when it has drifted outside the pad.
func (p *Pad) hit(rel, knob r2.Vec) bool {
	onKnob := withinRadius(r2.Sub(rel, knob), p.cfg.ControlSize/2)
	if p.cfg.IgnoreTouchDownInPadArea {
		return onKnob
	}
	return onKnob || withinRadius(rel, p.cfg.Size/2)
}

// follow computes the knob position for a sample of the active contact.
func (p *Pad) follow(pt ScreenPoint) PadPoint {
	return p.limit(r2.Sub(r2.Vec(p.resolve(pt)), p.sess.anchor))
}

// limit applies axis locks, the radial clamp and step quantization.
func (p *Pad) limit(v r2.Vec) PadPoint {
	if p.cfg.DisableX {
		v.X = 0
	}
	if p.cfg.DisableY {
		v.Y = 0
	}

	radius := p.cfg.BoundRadius()
	v = ClampToRadius(v, radius)

	var out PadPoint
	if !p.cfg.DisableX {
		out.X = QuantizeRatio(v.X/radius, p.cfg.StepSize) * radius
	}
	if !p.cfg.DisableY {
		out.Y = QuantizeRatio(v.Y/radius, p.cfg.StepSize) * radius
	}
	return out
}

func (p *Pad) initialPosition() PadPoint {
	radius := p.cfg.BoundRadius()
	var pos PadPoint
	if !p.cfg.DisableX {
		pos.X = p.cfg.InitialX * radius
	}
	if !p.cfg.DisableY {
		pos.Y = p.cfg.InitialY * radius
	}
	return pos
}

func (p *Pad) ratio(pos PadPoint) Ratio {
	radius := p.cfg.BoundRadius()
	return Ratio{X: pos.X / radius, Y: pos.Y / radius}
}

func (p *Pad) release(end ControlState) {
	p.sess = nil
	p.commit(end)
	p.setOffset(PadPoint{})
}

// commit publishes next unless it is identical to the current state.
func (p *Pad) commit(next ControlState) {
	if next == p.state {
		return
	}
	p.state = next
	p.publishControl()
}

func (p *Pad) publishControl() {
	if p.state.Type != EventSetup && p.hooks.OnTouch != nil {
		p.hooks.OnTouch(TouchEvent{Type: p.state.Type, Ratio: p.ratio(p.state.Position)})
	}

	if p.hooks.Knob != nil {
		// Live panning tracks the finger exactly; only the release eases.
		var d time.Duration
		if p.state.Type == EventEnd {
			d = ReleaseDuration
		}
		p.hooks.Knob.AnimateTo(r2.Vec(p.state.Position), d, knobEasing)
	}

	if p.hooks.Observer != nil {
		p.hooks.Observer.ControlChanged(p.state)
	}
}

func (p *Pad) setOffset(offset PadPoint) {
	if offset == p.offset {
		return
	}
	p.offset = offset
	p.publishOffset()
}

func (p *Pad) publishOffset() {
	if p.hooks.Offset != nil {
		p.hooks.Offset.AnimateTo(r2.Vec(p.offset), RecenterDuration, offsetEasing)
	}
	if p.hooks.Observer != nil {
		p.hooks.Observer.PadOffsetChanged(p.offset)
	}
}

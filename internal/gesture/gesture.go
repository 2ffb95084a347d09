// Package gesture loads, replays and records pointer gesture scripts.
//
// A script is a YAML document holding a pad configuration, the pad's
// placement and an ordered list of pointer samples in surface coordinates:
//
//	pad:
//	  id: main
//	  reset_on_release: false
//	bounds: {x: 0, y: 0, width: 300, height: 300}
//	steps:
//	  - {phase: down, x: 150, y: 150}
//	  - {phase: move, x: 180, y: 130}
//	  - {phase: up, x: 200, y: 160}
//
// Without bounds the pad sits at the origin with zero size, so sample
// coordinates are relative to the pad centre.
package gesture

import (
	"fmt"
	"os"
	"sync"

	"github.com/phinze/axispad/internal/axispad"
	"github.com/phinze/axispad/internal/config"
	"github.com/phinze/axispad/internal/device"
	"gopkg.in/yaml.v3"
)

// Script is a recorded or hand-written gesture.
type Script struct {
	Pad    config.PadConfig `yaml:"pad"`
	Bounds *Bounds          `yaml:"bounds,omitempty"`
	Steps  []Step           `yaml:"steps"`
}

// Bounds is the pad placement on the surface.
type Bounds struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Step is one pointer sample.
type Step struct {
	Phase device.Phase `yaml:"phase"`
	X     float64      `yaml:"x"`
	Y     float64      `yaml:"y"`
	Touch int64        `yaml:"touch,omitempty"`
}

// Result is what one step produced.
type Result struct {
	Step Step
	// Accepted is meaningful for down steps only.
	Accepted bool
	Events   []axispad.TouchEvent
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	return s, nil
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

// Write stores the script as YAML at path.
func (s *Script) Write(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling script: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Script) rect() axispad.Rect {
	if s.Bounds == nil {
		return axispad.Rect{}
	}
	return axispad.Rect(*s.Bounds)
}

// Play feeds every step to p in order, placing it at the script's bounds.
func (s *Script) Play(p *axispad.Pad) []bool {
	bounds := s.rect()
	p.SetBoundary(bounds)
	mode := p.Config().GestureResolveMode

	accepted := make([]bool, len(s.Steps))
	for i, st := range s.Steps {
		sample := axispad.SurfaceSample(mode, bounds, st.X, st.Y, st.Touch)
		switch st.Phase {
		case device.PhaseDown:
			accepted[i] = p.TouchDown(sample)
		case device.PhaseMove:
			p.TouchMove(sample)
		case device.PhaseUp:
			p.TouchUp(sample)
		case device.PhaseCancel:
			p.TouchCancel(st.Touch)
		}
	}
	return accepted
}

// Replay builds a fresh pad from the script's configuration, plays the
// script against it and reports what every step emitted.
func Replay(s *Script) ([]Result, error) {
	var pending []axispad.TouchEvent
	p, err := axispad.New(s.Pad.Pad(), axispad.Hooks{
		OnTouch: func(e axispad.TouchEvent) { pending = append(pending, e) },
	})
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(s.Steps))
	for i, st := range s.Steps {
		one := &Script{Bounds: s.Bounds, Steps: []Step{st}}
		accepted := one.Play(p)
		results[i] = Result{Step: st, Accepted: accepted[0], Events: pending}
		pending = nil
	}
	return results, nil
}

// Recorder captures live pointer events. Its Handle method is a
// device.PointerHandler.
type Recorder struct {
	mu    sync.Mutex
	steps []Step
}

// Handle records ev.
func (r *Recorder) Handle(_ device.Surface, ev device.PointerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, Step{Phase: ev.Phase, X: ev.X, Y: ev.Y, Touch: ev.TouchID})
	return nil
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

// Script returns the recording as a script for a pad placed at bounds.
func (r *Recorder) Script(pad config.PadConfig, bounds axispad.Rect) *Script {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := Bounds(bounds)
	return &Script{Pad: pad, Bounds: &b, Steps: append([]Step(nil), r.steps...)}
}

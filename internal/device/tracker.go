package device

import (
	"image"
	"maps"
	"slices"
)

// Input is one tick of polled pointer input. Down and Up hold the contacts
// that were pressed or released this tick, as reported by the input
// backend; Up positions are where the contact was last seen. Held holds
// every contact still pressed.
type Input struct {
	Down    map[int64]image.Point
	Up      map[int64]image.Point
	Held    map[int64]image.Point
	Focused bool
}

// Tracker turns polled input into pointer events. It remembers where each
// live contact was last reported so it can emit moves, and cancels every
// live contact when the surface loses focus.
type Tracker struct {
	live map[int64]image.Point
}

// Step returns the events for one tick, ordered by touch id. A contact
// pressed while unfocused never goes live, so it produces no events until
// it is pressed again.
func (t *Tracker) Step(in Input) []PointerEvent {
	if t.live == nil {
		t.live = make(map[int64]image.Point)
	}

	var events []PointerEvent
	if !in.Focused {
		for _, id := range slices.Sorted(maps.Keys(t.live)) {
			events = append(events, pointerAt(PhaseCancel, t.live[id], id))
			delete(t.live, id)
		}
		return events
	}

	ids := make(map[int64]struct{}, len(in.Down)+len(in.Up)+len(in.Held))
	for _, m := range []map[int64]image.Point{in.Down, in.Up, in.Held} {
		for id := range m {
			ids[id] = struct{}{}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(ids)) {
		prev, live := t.live[id]
		if p, ok := in.Down[id]; ok && !live {
			events = append(events, pointerAt(PhaseDown, p, id))
			t.live[id], prev, live = p, p, true
		} else if p, ok := in.Held[id]; ok && live && p != prev {
			events = append(events, pointerAt(PhaseMove, p, id))
			t.live[id] = p
		}
		if p, ok := in.Up[id]; ok && live {
			events = append(events, pointerAt(PhaseUp, p, id))
			delete(t.live, id)
		}
	}
	return events
}

// Live reports how many contacts are currently held.
func (t *Tracker) Live() int {
	return len(t.live)
}

func pointerAt(phase Phase, p image.Point, id int64) PointerEvent {
	return PointerEvent{Phase: phase, X: float64(p.X), Y: float64(p.Y), TouchID: id}
}

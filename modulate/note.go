package modulate

// MaxVelocity is the largest note-on velocity.
const MaxVelocity = 127

// Event is a note-on event of one track during a frame.
type Event struct {
	Track    string
	Velocity int
}

// Note turns the note-on events of one track into a scalar in [0, 1].
//
// A one-off note reports velocity/127 on the frame of the event and 0
// afterwards. A decaying note falls by 1/Decay of its value each frame
// without event.
type Note struct {
	Track  string
	OneOff bool
	Decay  float64

	value float64
}

// NewNote returns a decaying note modulator.
func NewNote(track string, decay float64) *Note {
	return &Note{Track: track, Decay: decay}
}

// NewOneOffNote returns a one-off note modulator.
func NewOneOffNote(track string) *Note {
	return &Note{Track: track, OneOff: true}
}

// Value returns the last reported value.
func (n *Note) Value() float64 { return n.value }

// Update consumes the events of one frame. The loudest matching event
// wins.
func (n *Note) Update(events []Event) float64 {
	hit := -1
	for _, e := range events {
		if e.Track == n.Track && e.Velocity > hit {
			hit = e.Velocity
		}
	}
	switch {
	case hit >= 0:
		n.value = float64(min(max(hit, 0), MaxVelocity)) / MaxVelocity
	case n.OneOff || n.Decay <= 1:
		n.value = 0
	default:
		n.value -= n.value / n.Decay
	}
	return n.value
}

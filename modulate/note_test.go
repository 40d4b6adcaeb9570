package modulate

import "testing"

func TestNote_OneOff(t *testing.T) {
	n := NewOneOffNote("snare")
	if got := n.Update([]Event{{Track: "snare", Velocity: 127}}); got != 1 {
		t.Errorf("Update() = %v, want 1", got)
	}
	if got := n.Update(nil); got != 0 {
		t.Errorf("Update() without event = %v, want 0", got)
	}
}

func TestNote_Decay(t *testing.T) {
	n := NewNote("kick", 2)
	n.Update([]Event{{Track: "kick", Velocity: 127}})
	if got := n.Update(nil); got != 0.5 {
		t.Errorf("Update() = %v, want 0.5", got)
	}
	if got := n.Update([]Event{{Track: "hat", Velocity: 100}}); got != 0.25 {
		t.Errorf("Update() with other track = %v, want 0.25", got)
	}
}

func TestNote_LoudestWins(t *testing.T) {
	n := NewNote("kick", 10)
	events := []Event{
		{Track: "kick", Velocity: 20},
		{Track: "kick", Velocity: 254},
		{Track: "kick", Velocity: 64},
	}
	if got := n.Update(events); got != 1 {
		t.Errorf("Update() = %v, want 1 (clamped)", got)
	}
	if n.Value() != 1 {
		t.Errorf("Value() = %v, want 1", n.Value())
	}
}

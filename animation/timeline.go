// Package animation sequences parameter changes over frames.
//
// A Timeline is a list of scenes keyed by their start frame. Each frame the
// active scene is called with a Cue that tells it whether it just started,
// where it is and how long it lasts; scenes use the spacing helpers to
// precompute per-frame parameter paths on their first frame.
//
//	tl, _ := animation.NewTimeline(
//	    animation.Scene{Start: 0, Run: intro},
//	    animation.Scene{Start: 750, Run: kick},
//	    animation.Scene{Start: 2600}, // end
//	)
//	for frame := 0; tl.Update(frame); frame++ {
//	    img, _ := r.Render(frame)
//	    ...
//	}
package animation

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoScenes is returned by NewTimeline without scenes.
var ErrNoScenes = errors.New("animation: timeline has no scenes")

// SceneFunc runs one frame of a scene.
type SceneFunc func(c Cue)

// Scene starts at frame Start. A scene without Run ends the timeline.
type Scene struct {
	Start int
	Run   SceneFunc
}

// Cue describes the current frame of a scene.
type Cue struct {
	// Frame is the absolute frame number.
	Frame int
	// Init is true on the first frame the scene is run.
	Init bool
	// Pos is the frame number relative to the scene start.
	Pos int
	// Len is the scene length in frames, up to the next scene. The last
	// scene of an open timeline has Len 0.
	Len int
}

// Logspace returns Len values spaced evenly on a log scale from a to b.
func (c Cue) Logspace(a, b float64) []float64 { return Logspace(a, b, c.Len) }

// Geomspace returns Len complex values in geometric progression from a
// to b.
func (c Cue) Geomspace(a, b complex128) []complex128 { return Geomspace(a, b, c.Len) }

// Linspace returns Len values spaced evenly from a to b.
func (c Cue) Linspace(a, b float64) []float64 { return Linspace(a, b, c.Len) }

// Timeline runs scenes by frame.
type Timeline struct {
	scenes  []Scene
	current int
}

// NewTimeline sorts scenes by start frame. Two scenes may not share a
// start frame.
func NewTimeline(scenes ...Scene) (*Timeline, error) {
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}
	sorted := slices.Clone(scenes)
	slices.SortFunc(sorted, func(a, b Scene) int { return a.Start - b.Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start == sorted[i-1].Start {
			return nil, fmt.Errorf("animation: two scenes start at frame %d", sorted[i].Start)
		}
	}
	return &Timeline{scenes: sorted, current: -1}, nil
}

// End returns the first frame of the ending scene, or -1 when every scene
// runs.
func (t *Timeline) End() int {
	for _, s := range t.scenes {
		if s.Run == nil {
			return s.Start
		}
	}
	return -1
}

// Update runs the scene active at frame. It returns false once the timeline
// has ended. Frames before the first scene run nothing.
func (t *Timeline) Update(frame int) bool {
	idx := -1
	for i, s := range t.scenes {
		if s.Start > frame {
			break
		}
		idx = i
	}
	if idx < 0 {
		return true
	}
	s := t.scenes[idx]
	if s.Run == nil {
		return false
	}

	cue := Cue{
		Frame: frame,
		Init:  idx != t.current,
		Pos:   frame - s.Start,
	}
	if idx+1 < len(t.scenes) {
		cue.Len = t.scenes[idx+1].Start - s.Start
	}
	t.current = idx
	s.Run(cue)
	return true
}

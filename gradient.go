package fractal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/fractal/internal/color"
)

// ExtendMode defines how a gradient continues outside [0, 1].
type ExtendMode int

const (
	// ExtendPad extends edge colors beyond bounds (default behavior).
	ExtendPad ExtendMode = iota
	// ExtendRepeat repeats the gradient.
	ExtendRepeat
	// ExtendReflect mirrors the gradient.
	ExtendReflect
)

// ColorStop is a color at a position of a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  RGB
}

// Gradient maps t in [0, 1] to a color. Colors between stops are
// interpolated in linear light.
type Gradient struct {
	Name   string
	Extend ExtendMode

	stops    []ColorStop
	segments []ggrSegment
}

// NewGradient creates a gradient from stops. The stops are copied and
// sorted by offset.
func NewGradient(stops ...ColorStop) *Gradient {
	return &Gradient{stops: sortStops(stops)}
}

// Stops returns a copy of the sorted stops.
func (g *Gradient) Stops() []ColorStop {
	out := make([]ColorStop, len(g.stops))
	copy(out, g.stops)
	return out
}

// At returns the color at t.
func (g *Gradient) At(t float64) RGB {
	t = applyExtendMode(t, g.Extend)
	if len(g.segments) > 0 {
		return ggrAt(g.segments, t)
	}
	return colorAtOffset(g.stops, t)
}

// Table samples the gradient at n evenly spaced positions, the first at 0
// and the last at 1.
func (g *Gradient) Table(n int) []RGB {
	if n < 1 {
		n = 1
	}
	table := make([]RGB, n)
	if n == 1 {
		table[0] = g.At(0)
		return table
	}
	for i := range table {
		table[i] = g.At(float64(i) / float64(n-1))
	}
	return table
}

// sortStops sorts color stops by offset. Stops with equal offsets keep
// their order so a hard edge can be expressed with two stops.
func sortStops(stops []ColorStop) []ColorStop {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

// applyExtendMode applies the extend mode to normalize t to [0, 1].
func applyExtendMode(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		t -= math.Floor(t)
	case ExtendReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	default:
		t = clamp01(t)
	}
	return t
}

// colorAtOffset returns the interpolated color at t for sorted stops.
func colorAtOffset(stops []ColorStop, t float64) RGB {
	if len(stops) == 0 {
		return Interior
	}
	if len(stops) == 1 {
		return stops[0].Color
	}

	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset > t
	})
	if idx == 0 {
		return stops[0].Color
	}
	if idx >= len(stops) {
		return stops[len(stops)-1].Color
	}

	s1, s2 := stops[idx-1], stops[idx]
	if s2.Offset == s1.Offset {
		return s1.Color
	}
	localT := (t - s1.Offset) / (s2.Offset - s1.Offset)
	return RGB(color.MixLinear(uint32(s1.Color), uint32(s2.Color), localT))
}

// Built-in gradients.

// Sunrise runs from black through purple, red and orange to pale yellow.
func Sunrise() *Gradient {
	g := NewGradient(
		ColorStop{0, 0x000000},
		ColorStop{0.2, 0x2a0a4a},
		ColorStop{0.45, 0xb0203a},
		ColorStop{0.7, 0xf08020},
		ColorStop{1, 0xfff4b0},
	)
	g.Name = "sunrise"
	return g
}

// Ocean runs from deep navy through blue and cyan to white.
func Ocean() *Gradient {
	g := NewGradient(
		ColorStop{0, 0x000814},
		ColorStop{0.3, 0x003566},
		ColorStop{0.6, 0x0096c7},
		ColorStop{0.85, 0x90e0ef},
		ColorStop{1, 0xffffff},
	)
	g.Name = "ocean"
	return g
}

// Zebra alternates hard black and white bands.
func Zebra() *Gradient {
	const bands = 8
	stops := make([]ColorStop, 0, 2*bands)
	for i := range bands {
		c := RGB(0x000000)
		if i%2 == 1 {
			c = 0xffffff
		}
		stops = append(stops,
			ColorStop{float64(i) / bands, c},
			ColorStop{float64(i+1) / bands, c},
		)
	}
	g := NewGradient(stops...)
	g.Name = "zebra"
	return g
}

// GradientNames lists the built-in gradients.
func GradientNames() []string {
	return []string{"sunrise", "ocean", "zebra"}
}

// BuiltinGradient returns a built-in gradient by name.
func BuiltinGradient(name string) (*Gradient, error) {
	switch strings.ToLower(name) {
	case "sunrise":
		return Sunrise(), nil
	case "ocean":
		return Ocean(), nil
	case "zebra":
		return Zebra(), nil
	}
	return nil, fmt.Errorf("%w: unknown gradient %q", ErrInvalidParams, name)
}

// GIMP gradient files.

// ErrInvalidGGR is returned by ParseGGR for malformed input.
var ErrInvalidGGR = errors.New("fractal: invalid GIMP gradient")

type ggrBlend int

const (
	ggrLinear ggrBlend = iota
	ggrCurved
	ggrSine
	ggrSphereIncreasing
	ggrSphereDecreasing
)

type ggrColoring int

const (
	ggrRGB ggrColoring = iota
	ggrHSVCCW
	ggrHSVCW
)

type ggrSegment struct {
	left, middle, right float64
	lc, rc              colorful.Color
	blend               ggrBlend
	coloring            ggrColoring
}

// ParseGGR reads a GIMP gradient (.ggr). Alpha is ignored.
func ParseGGR(r io.Reader) (*Gradient, error) {
	sc := bufio.NewScanner(r)
	next := func() (string, bool) {
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}

	line, ok := next()
	if !ok || line != "GIMP Gradient" {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidGGR)
	}
	g := &Gradient{}
	line, ok = next()
	if ok && strings.HasPrefix(line, "Name:") {
		g.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		line, ok = next()
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing segment count", ErrInvalidGGR)
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%w: bad segment count %q", ErrInvalidGGR, line)
	}

	g.segments = make([]ggrSegment, 0, n)
	for i := range n {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrInvalidGGR, n, i)
		}
		seg, err := parseGGRSegment(line)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", ErrInvalidGGR, i, err)
		}
		g.segments = append(g.segments, seg)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func parseGGRSegment(line string) (ggrSegment, error) {
	fields := strings.Fields(line)
	if len(fields) < 11 {
		return ggrSegment{}, fmt.Errorf("want at least 11 fields, got %d", len(fields))
	}
	v := make([]float64, 11)
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return ggrSegment{}, err
		}
		v[i] = f
	}
	seg := ggrSegment{
		left:   v[0],
		middle: v[1],
		right:  v[2],
		lc:     colorful.Color{R: v[3], G: v[4], B: v[5]},
		rc:     colorful.Color{R: v[7], G: v[8], B: v[9]},
		blend:  ggrBlend(v[10]),
	}
	if len(fields) > 11 {
		c, err := strconv.Atoi(fields[11])
		if err != nil {
			return ggrSegment{}, err
		}
		seg.coloring = ggrColoring(c)
	}
	if seg.left > seg.middle || seg.middle > seg.right {
		return ggrSegment{}, fmt.Errorf("positions %v %v %v out of order", seg.left, seg.middle, seg.right)
	}
	return seg, nil
}

func ggrAt(segs []ggrSegment, t float64) RGB {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].right >= t })
	if i == len(segs) {
		i = len(segs) - 1
	}
	s := segs[i]

	var pos, mid float64
	if w := s.right - s.left; w > 0 {
		pos = (t - s.left) / w
		mid = (s.middle - s.left) / w
	} else {
		pos, mid = 0.5, 0.5
	}
	pos = clamp01(pos)

	var f float64
	switch s.blend {
	case ggrCurved:
		if mid <= 0 {
			f = 1
		} else {
			f = math.Pow(pos, math.Log(0.5)/math.Log(mid))
		}
	case ggrSine:
		f = (math.Sin(-math.Pi/2+math.Pi*linearFactor(mid, pos)) + 1) / 2
	case ggrSphereIncreasing:
		p := linearFactor(mid, pos) - 1
		f = math.Sqrt(1 - p*p)
	case ggrSphereDecreasing:
		p := linearFactor(mid, pos)
		f = 1 - math.Sqrt(1-p*p)
	default:
		f = linearFactor(mid, pos)
	}

	var c colorful.Color
	switch s.coloring {
	case ggrHSVCCW, ggrHSVCW:
		c = s.lc.BlendHsv(s.rc, f)
	default:
		c = s.lc.BlendRgb(s.rc, f)
	}
	return RGB(color.PackUnit(c.R, c.G, c.B))
}

// linearFactor places the segment midpoint at 0.5.
func linearFactor(mid, pos float64) float64 {
	if pos <= mid {
		if mid < 1e-10 {
			return 0
		}
		return 0.5 * pos / mid
	}
	if 1-mid < 1e-10 {
		return 1
	}
	return 0.5 + 0.5*(pos-mid)/(1-mid)
}

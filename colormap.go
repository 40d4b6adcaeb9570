package fractal

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/fractal/internal/color"
)

// ColorMapper turns a sample into a color. Every mapper returns Interior
// for samples in the MaxIterReached state.
type ColorMapper interface {
	Map(s Sample) RGB
}

// ColorMapperFunc adapts a function to ColorMapper. The function is only
// called for escaped samples.
type ColorMapperFunc func(s Sample) RGB

// Map implements ColorMapper.
func (f ColorMapperFunc) Map(s Sample) RGB {
	if s.State == MaxIterReached {
		return Interior
	}
	return f(s)
}

// DefaultTableSize is the number of entries of a gradient lookup table.
const DefaultTableSize = 4096

// NewColorMapper resolves the strategy for mode. The gradient is only used
// by ColorGradient; nil selects the sunrise gradient.
func NewColorMapper(mode ColorMode, g *Gradient) (ColorMapper, error) {
	switch mode {
	case ColorGrayscale:
		return ColorMapperFunc(grayscale), nil
	case ColorGradient:
		if g == nil {
			g = Sunrise()
		}
		return NewTableMapper(g.Table(DefaultTableSize)), nil
	case ColorHot:
		return ColorMapperFunc(hot), nil
	case ColorObfu:
		return ColorMapperFunc(obfu), nil
	case ColorDark:
		return ColorMapperFunc(dark), nil
	case ColorBright:
		return ColorMapperFunc(bright), nil
	case ColorLyapunov:
		return LyapunovColors(22, 0.65), nil
	}
	return nil, fmt.Errorf("%w: color mode %v", ErrInvalidParams, mode)
}

// TableMapper indexes a precomputed table with int(mu*(N-1)).
type TableMapper struct {
	table []RGB
}

// NewTableMapper creates a mapper over table. The table must not be empty.
func NewTableMapper(table []RGB) *TableMapper {
	return &TableMapper{table: table}
}

// Map implements ColorMapper.
func (m *TableMapper) Map(s Sample) RGB {
	if s.State == MaxIterReached {
		return Interior
	}
	idx := int(clamp01(s.Value) * float64(len(m.table)-1))
	return m.table[idx]
}

// Len returns the table size.
func (m *TableMapper) Len() int {
	return len(m.table)
}

func grayscale(s Sample) RGB {
	return RGB(color.Gray(clamp01(s.Value)))
}

// hot is the Bernstein polynomial blend.
func hot(s Sample) RGB {
	t := clamp01(s.Value)
	u := 1 - t
	r := 9 * u * t * t * t
	g := 15 * u * u * t * t
	b := 8.5 * u * u * u * t
	return RGB(color.PackUnit(r, g, b))
}

// obfu is the log-sine light blue map. It cycles on the raw escape count.
func obfu(s Sample) RGB {
	x := float64(s.Iter)
	if x == 0 {
		return Interior
	}
	rg := math.Abs(math.Sin(7 * math.Log(x+50)))
	b := math.Abs(math.Sin(7 * math.Log(x+150)))
	return RGB(color.Pack250(10+150*rg, 40+150*rg, 100+150*b))
}

func dark(s Sample) RGB {
	return hsv(0.6+0.4*clamp01(s.Value)/2, 0.7, 0.5)
}

func bright(s Sample) RGB {
	return hsv(0.4+clamp01(s.Value), 0.7, 0.7)
}

// LyapunovColors maps negative exponents (order) to a hue and saturation
// sweep away from baseHue and non-negative exponents (chaos) to baseHue.
// size is the exponent magnitude of a full sweep.
func LyapunovColors(size, baseHue float64) ColorMapper {
	return ColorMapperFunc(func(s Sample) RGB {
		x := s.Value
		if x >= 0 {
			return hsv(baseHue, 0.6, 0.7)
		}
		v := math.Abs(x) / size
		return hsv(baseHue-0.4*v, min(0.6+0.4*v, 1), 0.7)
	})
}

// hsv packs a color given with hue in turns. The hue wraps around.
func hsv(h, s, v float64) RGB {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	c := colorful.Hsv(h*360, s, v)
	return RGB(color.PackUnit(c.R, c.G, c.B))
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

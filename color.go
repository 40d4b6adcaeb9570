package fractal

import (
	"fmt"
	"strconv"

	"github.com/gogpu/fractal/internal/color"
)

// RGB is a packed 0xRRGGBB color.
type RGB uint32

// Interior is the color of points that never escaped.
const Interior RGB = 0

// Hex parses "#rrggbb" or "rrggbb".
func Hex(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return 0, fmt.Errorf("fractal: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("fractal: invalid hex color %q: %w", s, err)
	}
	return RGB(v), nil
}

// Channels returns the 8-bit channels.
func (c RGB) Channels() (r, g, b uint8) {
	return color.Unpack(uint32(c))
}

// RGBA implements image/color.Color. Colors are always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.Channels()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xffff
}

// String returns the color as #rrggbb.
func (c RGB) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// Package color packs display colors into 0xRRGGBB words and blends them
// in linear light.
//
// Packed words are what the color mappers produce per pixel and what the
// gradient lookup tables store, so the hot path never touches image/color.
package color

// Pack packs 8-bit channels into a 0xRRGGBB word.
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a 0xRRGGBB word into 8-bit channels.
func Unpack(c uint32) (r, g, b uint8) {
	//nolint:gosec // masked to 8 bits
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// PackUnit packs channels given in [0,1]. Values outside are clamped.
func PackUnit(r, g, b float64) uint32 {
	return Pack(unitByte(r), unitByte(g), unitByte(b))
}

// Pack250 packs channels already scaled to [0,255]. Values outside are clamped.
func Pack250(r, g, b float64) uint32 {
	return Pack(clampByte(r), clampByte(g), clampByte(b))
}

// Gray packs v in [0,1] as a neutral gray.
func Gray(v float64) uint32 {
	c := unitByte(v)
	return Pack(c, c, c)
}

// MixLinear interpolates between a and b at t in [0,1] in linear light and
// returns the sRGB result.
func MixLinear(a, b uint32, t float64) uint32 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ar, ag, ab := Unpack(a)
	br, bg, bb := Unpack(b)
	t32 := float32(t)
	mix := func(x, y uint8) uint8 {
		lx := SRGBToLinear(x)
		ly := SRGBToLinear(y)
		return LinearToSRGB(lx + t32*(ly-lx))
	}
	return Pack(mix(ar, br), mix(ag, bg), mix(ab, bb))
}

func unitByte(v float64) uint8 {
	return clampByte(v * 255)
}

// clampByte truncates like the int() conversion of the demo scripts.
func clampByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

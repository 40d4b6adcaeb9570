package color

import "math"

// sRGBToLinearLUT converts an sRGB byte to linear light.
var sRGBToLinearLUT [256]float32

// linearToSRGBLUT converts linear light sampled at 12-bit precision back to
// an sRGB byte.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := range sRGBToLinearLUT {
		sRGBToLinearLUT[i] = float32(decode(float64(i) / 255))
	}
	for i := range linearToSRGBLUT {
		s := int(encode(float64(i)/4095)*255 + 0.5)
		//nolint:gosec // G115: clamped to [0,255]
		linearToSRGBLUT[i] = uint8(min(max(s, 0), 255))
	}
}

// SRGBToLinear converts an sRGB byte to a linear value in [0,1].
func SRGBToLinear(s uint8) float32 {
	return sRGBToLinearLUT[s]
}

// LinearToSRGB converts a linear value to an sRGB byte.
// Input is clamped to [0,1].
func LinearToSRGB(l float32) uint8 {
	if l <= 0 {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return linearToSRGBLUT[int(l*4095+0.5)]
}

// decode is the sRGB EOTF.
func decode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// encode is the sRGB OETF.
func encode(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

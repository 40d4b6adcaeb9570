package fractal

import (
	"image"
	"testing"
)

func TestFormulaText(t *testing.T) {
	tests := []struct {
		p    Params
		want string
	}{
		{Params{Kind: Julia, Seed: complex(-0.15, 0.95)}, "z*z-0.15000+0.95000j"},
		{Params{Kind: Julia, Seed: complex(0.282, -0.48)}, "z*z+0.28200-0.48000j"},
		{Params{Kind: Mandelbrot}, "z*z+c"},
		{Params{Kind: MarkusLyapunov, LyapunovSequence: "AAB"}, "x*r*(1-x) AAB"},
	}
	for _, tt := range tests {
		if got := FormulaText(tt.p); got != tt.want {
			t.Errorf("FormulaText(%v) = %q, want %q", tt.p.Kind, got, tt.want)
		}
	}
}

func TestOverlay_Axis(t *testing.T) {
	vp, _ := NewViewport(0, 2, 40, 40)
	view := vp.Snapshot()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))

	o := &Overlay{Axis: true}
	o.Draw(img, view, DefaultParams(Mandelbrot), 0)

	if c := img.RGBAAt(20, 3); c != axisColor {
		t.Errorf("pixel on imaginary axis = %v, want %v", c, axisColor)
	}
	if c := img.RGBAAt(3, 20); c != axisColor {
		t.Errorf("pixel on real axis = %v, want %v", c, axisColor)
	}
	if c := img.RGBAAt(3, 3); c == axisColor {
		t.Error("axis color off the axes")
	}
}

func TestOverlay_AxisOutOfView(t *testing.T) {
	vp, _ := NewViewport(complex(10, 10), 1, 20, 20)
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	(&Overlay{Axis: true}).Draw(img, vp.Snapshot(), DefaultParams(Mandelbrot), 0)

	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("pixel byte %d = %d, want untouched image", i, v)
		}
	}
}

func TestOverlay_SeedMarker(t *testing.T) {
	vp, _ := NewViewport(0, 2, 40, 40)
	view := vp.Snapshot()
	p := DefaultParams(Julia)
	p.Seed = complex(1, 1)

	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	(&Overlay{Seed: true}).Draw(img, view, p, 0)

	x, y := view.PlaneToPixel(p.Seed)
	if c := img.RGBAAt(x, y); c != markColor {
		t.Errorf("seed pixel = %v, want %v", c, markColor)
	}
}

func TestOverlay_Text(t *testing.T) {
	vp, _ := NewViewport(0, 2, 200, 60)
	img := image.NewRGBA(image.Rect(0, 0, 200, 60))
	(&Overlay{Formula: true, Frame: true}).Draw(img, vp.Snapshot(), DefaultParams(Julia), 12)

	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("text overlay drew nothing")
	}
}

func TestFrameText(t *testing.T) {
	p := DefaultParams(Mandelbrot)
	p.MaxIter = 12000
	if got, want := FrameText(p, 7), "0007  max_iter 12,000"; got != want {
		t.Errorf("FrameText() = %q, want %q", got, want)
	}
}

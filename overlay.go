package fractal

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Overlay draws explorer annotations on top of a rendered frame.
type Overlay struct {
	// Axis draws the real and imaginary axes when they are in view.
	Axis bool
	// Formula prints the iterated function with its constant.
	Formula bool
	// Seed marks the Julia seed when it is in view.
	Seed bool
	// Frame prints the frame index and iteration limit in the bottom left
	// corner.
	Frame bool

	// TextSize is the font size in pixels. Zero means 14.
	TextSize float64
}

var (
	axisColor = color.RGBA{28, 28, 28, 0xff}
	textColor = color.RGBA{242, 242, 242, 0xff}
	markColor = color.RGBA{242, 60, 60, 0xff}
)

var (
	faceOnce sync.Once
	faceFont *opentype.Font
	faceErr  error

	facesMu     sync.Mutex
	facesBySize = map[float64]font.Face{}
)

// overlayFace returns the Go Regular face at size, cached per size.
func overlayFace(size float64) (font.Face, error) {
	faceOnce.Do(func() {
		faceFont, faceErr = opentype.Parse(goregular.TTF)
	})
	if faceErr != nil {
		return nil, faceErr
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := facesBySize[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(faceFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	facesBySize[size] = f
	return f, nil
}

// FormulaText returns the formula line drawn by the overlay.
func FormulaText(p Params) string {
	c := p.Seed
	switch p.Kind {
	case Julia:
		return fmt.Sprintf("z*z%+.5f%+.5fj", real(c), imag(c))
	case BurningJulia:
		return fmt.Sprintf("(|x|+i|y|)^2%+.5f%+.5fj", real(c), imag(c))
	case BurningShip:
		return "(|x|+i|y|)^2+c"
	case MarkusLyapunov:
		return "x*r*(1-x) " + p.LyapunovSequence
	}
	return "z*z+c"
}

var labelPrinter = message.NewPrinter(language.English)

// FrameText returns the frame line drawn by the overlay. Iteration limits
// are grouped by thousands.
func FrameText(p Params, frame int) string {
	return fmt.Sprintf("%04d", frame) + labelPrinter.Sprintf("  max_iter %d", p.MaxIter)
}

// Draw annotates img, a frame rendered from view with p.
func (o *Overlay) Draw(img *image.RGBA, view View, p Params, frame int) {
	if o.Axis {
		drawAxis(img, view)
	}
	if o.Seed && p.Kind.IsJulia() && view.Included(p.Seed) {
		x, y := view.PlaneToPixel(p.Seed)
		drawCross(img, x, y, 4, markColor)
	}

	size := o.TextSize
	if size <= 0 {
		size = 14
	}
	if !o.Formula && !o.Frame {
		return
	}
	face, err := overlayFace(size)
	if err != nil {
		Logger().Warn("fractal: overlay font unavailable", "err", err)
		return
	}
	line := int(size + 4)
	if o.Formula {
		drawText(img, face, 8, line, FormulaText(p))
	}
	if o.Frame {
		drawText(img, face, 8, view.Height-8, FrameText(p, frame))
	}
}

func drawAxis(img *image.RGBA, view View) {
	b := img.Bounds()
	x, y := view.PlaneToPixel(0)
	if real(view.Min) <= 0 && real(view.Max) >= 0 {
		for py := b.Min.Y; py < b.Max.Y; py++ {
			img.SetRGBA(x, py, axisColor)
		}
	}
	if imag(view.Min) <= 0 && imag(view.Max) >= 0 {
		for px := b.Min.X; px < b.Max.X; px++ {
			img.SetRGBA(px, y, axisColor)
		}
	}
}

func drawCross(img *image.RGBA, x, y, r int, c color.RGBA) {
	for d := -r; d <= r; d++ {
		img.SetRGBA(x+d, y, c)
		img.SetRGBA(x, y+d, c)
	}
}

func drawText(img *image.RGBA, face font.Face, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

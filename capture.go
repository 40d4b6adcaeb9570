package fractal

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// Recorder writes one PNG per frame into a directory. An external tool
// assembles the numbered files into a video.
type Recorder struct {
	dir string
}

// NewRecorder creates dir if needed and returns a recorder writing into it.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("fractal: create record dir: %w", err)
	}
	Logger().Info("fractal: recording frames", "dir", dir)
	return &Recorder{dir: dir}, nil
}

// Dir returns the output directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// FramePath returns the file name of a frame: DIR/%04d.png.
func (r *Recorder) FramePath(frame int) string {
	return filepath.Join(r.dir, fmt.Sprintf("%04d.png", frame))
}

// Capture writes img as the given frame and returns the file path.
func (r *Recorder) Capture(img image.Image, frame int) (string, error) {
	path := r.FramePath(frame)
	f, err := os.Create(path) //nolint:gosec // path is built from the record dir
	if err != nil {
		return "", fmt.Errorf("fractal: capture frame %d: %w", frame, err)
	}
	if err := EncodePNG(f, img); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("fractal: capture frame %d: %w", frame, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("fractal: capture frame %d: %w", frame, err)
	}
	return path, nil
}

// pngEncoder favors speed: frames are written once and re-encoded into a
// video.
var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG writes img to w in PNG format.
func EncodePNG(w io.Writer, img image.Image) error {
	return pngEncoder.Encode(w, img)
}

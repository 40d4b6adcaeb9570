// Package stream serves live fractal frames over a websocket.
//
// A client connects to /ws and receives the current frame as a binary PNG
// message. Each JSON command it sends (see Command) mutates the view or the
// parameters of its own renderer and is answered with a new frame, or with a
// JSON Reply carrying the error.
package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gogpu/fractal"
)

// Point is a complex number on the wire.
type Point struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

func (p Point) complex() complex128 { return complex(p.Re, p.Im) }

// Zoom zooms around a window pixel.
type Zoom struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Factor float64 `json:"factor"`
}

// Command is a client request. Every set field is applied, in field order,
// before the next frame is rendered; an empty command re-renders.
type Command struct {
	Center  *Point   `json:"center,omitempty"`
	Radius  *float64 `json:"radius,omitempty"`
	Zoom    *Zoom    `json:"zoom,omitempty"`
	Seed    *Point   `json:"seed,omitempty"`
	MaxIter *int     `json:"max_iter,omitempty"`
}

// Reply is sent as a text message when a command fails.
type Reply struct {
	Error string `json:"error"`
}

// RendererFunc creates the renderer of one connection.
type RendererFunc func() (*fractal.Renderer, error)

// Server renders frames for websocket clients. Each connection owns a
// renderer, closed when the connection ends.
type Server struct {
	newRenderer    RendererFunc
	originPatterns []string
	writeTimeout   time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithOriginPatterns sets the host patterns accepted for cross-origin
// connections, as in websocket.AcceptOptions.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.originPatterns = patterns
	}
}

// WithWriteTimeout bounds the time spent sending one frame.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// NewServer returns a server creating one renderer per connection with
// newRenderer.
func NewServer(newRenderer RendererFunc, opts ...Option) *Server {
	s := &Server{
		newRenderer:  newRenderer,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler: the websocket endpoint on /ws and a
// viewer page on /.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/", serveIndex)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fractal.Logger().Info("stream: listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		fractal.Logger().Warn("stream: accept failed", "err", err)
		return
	}
	defer c.CloseNow()

	err = s.serveConn(r.Context(), c)
	switch {
	case err == nil:
		c.Close(websocket.StatusNormalClosure, "")
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway,
		errors.Is(err, context.Canceled):
	default:
		fractal.Logger().Warn("stream: connection closed", "remote", r.RemoteAddr, "err", err)
		c.Close(websocket.StatusInternalError, "render failed")
	}
}

// serveConn runs the command loop of one connection.
func (s *Server) serveConn(ctx context.Context, c *websocket.Conn) error {
	r, err := s.newRenderer()
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Close()

	frame := 0
	if err := s.sendFrame(ctx, c, r, frame); err != nil {
		return err
	}
	for {
		var cmd Command
		if err := wsjson.Read(ctx, c, &cmd); err != nil {
			return err
		}
		if err := apply(r, cmd); err != nil {
			if err := s.write(ctx, func(ctx context.Context) error {
				return wsjson.Write(ctx, c, Reply{Error: err.Error()})
			}); err != nil {
				return err
			}
			continue
		}
		frame++
		if err := s.sendFrame(ctx, c, r, frame); err != nil {
			return err
		}
	}
}

func (s *Server) sendFrame(ctx context.Context, c *websocket.Conn, r *fractal.Renderer, frame int) error {
	img, err := r.Render(frame)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := fractal.EncodePNG(&buf, img); err != nil {
		return fmt.Errorf("encode frame %d: %w", frame, err)
	}
	return s.write(ctx, func(ctx context.Context) error {
		return c.Write(ctx, websocket.MessageBinary, buf.Bytes())
	})
}

func (s *Server) write(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return fn(ctx)
}

// apply mutates r according to cmd. A command that fails leaves r
// unchanged.
func apply(r *fractal.Renderer, cmd Command) error {
	if cmd.MaxIter != nil && *cmd.MaxIter <= 0 {
		return fmt.Errorf("%w: max_iter %d must be positive", fractal.ErrInvalidParams, *cmd.MaxIter)
	}
	if cmd.Center != nil || cmd.Radius != nil || cmd.Zoom != nil {
		err := r.Viewport().Update(func(v fractal.View) (complex128, float64, error) {
			c, radius := v.Center, v.Radius
			if cmd.Center != nil {
				c = cmd.Center.complex()
			}
			if cmd.Radius != nil {
				radius = *cmd.Radius
			}
			if !(radius > 0) {
				return 0, 0, fmt.Errorf("%w: got %v", fractal.ErrZeroRadius, radius)
			}
			v = v.Moved(c, radius)
			if z := cmd.Zoom; z != nil {
				return v.PixelToPlane(z.X, z.Y), v.Radius * z.Factor, nil
			}
			return v.Center, v.Radius, nil
		})
		if err != nil {
			return err
		}
	}
	if cmd.Seed != nil {
		r.SetSeed(cmd.Seed.complex())
	}
	if cmd.MaxIter != nil {
		if err := r.SetMaxIter(*cmd.MaxIter); err != nil {
			return err
		}
	}
	return nil
}

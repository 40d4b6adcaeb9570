package fractal

import "errors"

// Configuration errors. They are fatal: the caller should fix the
// configuration rather than retry.
var (
	// ErrZeroRadius is returned when a view radius is not strictly positive.
	ErrZeroRadius = errors.New("fractal: radius must be > 0")

	// ErrInvalidSize is returned for a window with a non-positive dimension.
	ErrInvalidSize = errors.New("fractal: window size must be positive")

	// ErrIndivisibleChunks is returned when the pixel count is not a
	// multiple of the worker count.
	ErrIndivisibleChunks = errors.New("fractal: pixel count not divisible by worker count")

	// ErrInvalidParams is returned for malformed fractal parameters.
	ErrInvalidParams = errors.New("fractal: invalid parameters")
)

// Dispatch errors. No partial result is returned with them.
var (
	// ErrWorkerPanic is returned when a chunk evaluation panicked.
	ErrWorkerPanic = errors.New("fractal: worker panicked")

	// ErrChunkLength is returned when a chunk function returns a result
	// whose length differs from its input.
	ErrChunkLength = errors.New("fractal: chunk result length mismatch")

	// ErrClosed is returned when dispatching after Close.
	ErrClosed = errors.New("fractal: dispatcher is closed")
)

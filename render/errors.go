package render

import "errors"

// Sentinel errors returned by the render side. Callers can test for
// them with errors.Is after unwrapping.
var (
	// ErrNilDevice is returned when a constructor receives a nil device
	// or queue.
	ErrNilDevice = errors.New("postfx: device and queue must not be nil")

	// ErrViewNotFound is returned by the render node when the view it
	// was scheduled with has no record in the view store. This is a
	// frame-graph wiring defect, not a recoverable condition.
	ErrViewNotFound = errors.New("postfx: view not found in render store")

	// ErrSlotMissing is returned when a node input slot was never
	// populated on the graph context.
	ErrSlotMissing = errors.New("postfx: node input slot not set")

	// ErrStagingOverflow is returned when a uniform push exceeds the
	// space reserved for the frame.
	ErrStagingOverflow = errors.New("postfx: uniform staging overflow")

	// ErrCacheDestroyed is returned when a texture is requested from a
	// cache that has already been destroyed.
	ErrCacheDestroyed = errors.New("postfx: texture cache destroyed")
)

// Package denoise implements the orchestration core: channel discovery and
// layer assembly, tiled scheduling with 3x3 neighborhood context,
// multi-frame temporal assembly, and safe write-back, driven through the
// device package's callback protocol.
package denoise

import "errors"

var (
	// ErrLayerMissing is returned when no layer in an opened image has the
	// full INPUT+OUTPUT denoising channel set.
	ErrLayerMissing = errors.New("denoise: layer missing")

	// ErrChannelsIncomplete is wrapped together with ErrLayerMissing when
	// no layer qualifies and at least one candidate layer lacked some of
	// the canonical input or output channels. An incomplete layer next to
	// a complete one is dropped without an error.
	ErrChannelsIncomplete = errors.New("denoise: layer channels incomplete")

	// ErrNeighborMismatch is returned when a neighbor frame's resolution
	// or channel layout does not match the center frame.
	ErrNeighborMismatch = errors.New("denoise: neighbor frame mismatch")

	// ErrMetadataMissing is returned during layer discovery when a layer's
	// per-layer sample count attribute is absent or unparsable and no
	// samples override was given.
	ErrMetadataMissing = errors.New("denoise: metadata missing")

	// ErrCapExceeded is returned when a run requests more temporal frames
	// than a Config allows.
	ErrCapExceeded = errors.New("denoise: frame count exceeds configured cap")

	// ErrNoTiles is returned by a run over a zero-area image.
	ErrNoTiles = errors.New("denoise: no tiles to process")
)

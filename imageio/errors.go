// Package imageio declares the multi-channel image container abstraction
// consumed by the denoiser core. The concrete reader/writer (an EXR-style
// multi-layer, multi-view container) is an external collaborator; this
// package specifies only the operations the core calls.
package imageio

import "errors"

var (
	// ErrNotRegularFile is returned when a path does not name a regular file.
	ErrNotRegularFile = errors.New("imageio: not a regular file")

	// ErrOpen is returned when the underlying container fails to open.
	ErrOpen = errors.New("imageio: open failed")

	// ErrRead is returned when a full-channel read from the container fails.
	ErrRead = errors.New("imageio: read failed")

	// ErrWrite is returned when writing channels to the container fails.
	ErrWrite = errors.New("imageio: write failed")

	// ErrRename is returned when promoting a temp file to its final path fails.
	ErrRename = errors.New("imageio: rename failed")

	// ErrNoDriver is returned when no registered driver claims a file extension.
	ErrNoDriver = errors.New("imageio: no driver for extension")
)

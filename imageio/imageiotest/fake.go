// Package imageiotest provides an in-memory imageio.Container fake used by
// the denoiser's own tests, modeled directly on the codec package's
// TestPixelData: a minimal hand-rolled stand-in for the real external
// collaborator, not a mocking-framework generated double.
package imageiotest

import (
	"fmt"
	"sync"

	"github.com/boberfly/denoise/imageio"
)

// Container is an in-memory imageio.Container backed by a plain float32
// slice. Tests build one directly (no file I/O) to exercise layer
// discovery, tiling, and write-back without a real EXR-style backend.
type Container struct {
	mu     sync.Mutex
	spec   imageio.Spec
	data   []float32
	closed bool
}

// New creates a Container seeded with spec and pixel data. data must be
// spec.NumChannels*spec.Width*spec.Height long, or nil to allocate a
// zeroed buffer of that size.
func New(spec imageio.Spec, data []float32) *Container {
	n := spec.Width * spec.Height * spec.NumChannels
	if data == nil {
		data = make([]float32, n)
	}
	return &Container{spec: spec.Clone(), data: data}
}

// Spec implements imageio.Container.
func (c *Container) Spec() imageio.Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec.Clone()
}

// ReadAllFloat32 implements imageio.Container.
func (c *Container) ReadAllFloat32() ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("imageiotest: read after close")
	}
	out := make([]float32, len(c.data))
	copy(out, c.data)
	return out, nil
}

// WriteAllFloat32 implements imageio.Container.
func (c *Container) WriteAllFloat32(data []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("imageiotest: write after close")
	}
	want := c.spec.Width * c.spec.Height * c.spec.NumChannels
	if len(data) != want {
		return fmt.Errorf("imageiotest: write size %d, want %d", len(data), want)
	}
	c.data = append([]float32(nil), data...)
	return nil
}

// Close implements imageio.Container.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Data returns a copy of the current pixel buffer, for test assertions.
func (c *Container) Data() []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float32, len(c.data))
	copy(out, c.data)
	return out
}

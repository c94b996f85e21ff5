// Package devicetest provides a fake device.Device used by the denoiser's
// own tests and by callers with no real compute backend available. It runs
// a small worker pool over goroutines, modeled on the tile worker pool in
// rklaeser-studyguide.parallel's processor package, with a pluggable Kernel
// standing in for the actual denoising math (spec.md §1d).
package devicetest

import (
	"fmt"
	"sync"

	"github.com/boberfly/denoise/device"
)

// Kernel processes one neighborhood's tiles, writing into n.Output().Buffer.
// The default kernel used by New just copies the noisy image channels
// straight through, enough to exercise the acquire/map/unmap/release cycle
// without claiming to denoise anything.
type Kernel func(n device.Neighborhood, params device.DenoiseParams)

// IdentityKernel copies the center tile's noisy-image channels into the
// output tile unchanged.
func IdentityKernel(n device.Neighborhood, params device.DenoiseParams) {
	const (
		noisyR = 8
		noisyG = 9
		noisyB = 10
	)
	center := n.Center()
	out := n.Output()
	for y := 0; y < center.H; y++ {
		for x := 0; x < center.W; x++ {
			src := center.PixelOffset(center.X+x, center.Y+y, device.PassStride)
			dst := out.PixelOffset(center.X+x, center.Y+y, device.TargetPassStride)
			if src+noisyB >= len(center.Buffer) || dst+2 >= len(out.Buffer) {
				continue
			}
			out.Buffer[dst+0] = center.Buffer[src+noisyR]
			out.Buffer[dst+1] = center.Buffer[src+noisyG]
			out.Buffer[dst+2] = center.Buffer[src+noisyB]
		}
	}
}

// SerialDevice is a device.Device that runs every job's tiles through
// Kernel on a fixed-size worker pool, with no real GPU/accelerator behind
// it. Safe for concurrent TaskAdd/TaskWait from multiple goroutines is not
// supported; one task is driven to completion per TaskAdd call.
type SerialDevice struct {
	Kernel     Kernel
	NumWorkers int

	mu       sync.Mutex
	firstErr error
}

// New returns a SerialDevice with the identity kernel and numWorkers workers.
// numWorkers <= 0 is treated as 1.
func New(numWorkers int) *SerialDevice {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &SerialDevice{Kernel: IdentityKernel, NumWorkers: numWorkers}
}

// TaskAdd runs job to completion, fanning its tiles out across the pool.
func (d *SerialDevice) TaskAdd(job device.Job) error {
	params := job.Params()

	var wg sync.WaitGroup
	for i := 0; i < d.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.worker(job, params)
		}()
	}
	wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.firstErr
}

// TaskWait always returns immediately: TaskAdd already drove the task to
// completion before returning, so there is nothing left to wait on.
func (d *SerialDevice) TaskWait() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.firstErr
}

func (d *SerialDevice) worker(job device.Job, params device.DenoiseParams) {
	for {
		if job.Cancelled() {
			return
		}
		tile, ok := job.AcquireTile()
		if !ok {
			return
		}

		n, err := job.MapNeighboringTiles(tile)
		if err != nil {
			d.setErr(fmt.Errorf("devicetest: map tile %d: %w", tile.Index, err))
			job.ReleaseTile(tile)
			return
		}

		d.Kernel(n, params)

		if err := job.UnmapNeighboringTiles(n); err != nil {
			d.setErr(fmt.Errorf("devicetest: unmap tile %d: %w", tile.Index, err))
		}
		job.ReleaseTile(tile)
	}
}

func (d *SerialDevice) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.firstErr == nil {
		d.firstErr = err
	}
}

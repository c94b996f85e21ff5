package denoise

import (
	"fmt"
	"sync"

	"github.com/boberfly/denoise/device"
)

// progressFunc is called once per successful AcquireTile with the running
// count and the total. The zero value is replaced by a stdout reporter in
// NewTileQueue.
type progressFunc func(done, total int)

// TileQueue partitions an image into rectangular tiles and hands them out
// one at a time under a mutex (spec.md §4.4). Release is a no-op: a tile
// stays owned by whichever worker holds it until unmap.
type TileQueue struct {
	mu       sync.Mutex
	tiles    []device.Tile
	next     int
	done     int
	progress progressFunc
}

// NewTileQueue partitions a width x height image into a ceil(W/tw) x
// ceil(H/th) grid of tiles in raster order, clipped to image bounds. frame
// labels progress output when label is non-empty.
func NewTileQueue(width, height, tw, th int, buffer []float32, label string) *TileQueue {
	q := &TileQueue{progress: defaultProgress(label)}

	if width <= 0 || height <= 0 {
		return q
	}

	cols := ceilDiv(width, tw)
	rows := ceilDiv(height, th)
	idx := 0
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			x := tx * tw
			y := ty * th
			w := minInt(tw, width-x)
			h := minInt(th, height-y)
			q.tiles = append(q.tiles, device.Tile{
				X: x, Y: y, W: w, H: h,
				Index:  idx,
				Stride: width,
				Offset: 0,
				Kind:   device.KindDenoise,
				Buffer: buffer,
			})
			idx++
		}
	}
	return q
}

// AcquireTile pops the front tile under the queue's mutex, reporting
// progress, or returns (Tile{}, false) once exhausted.
func (q *TileQueue) AcquireTile() (device.Tile, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= len(q.tiles) {
		return device.Tile{}, false
	}
	t := q.tiles[q.next]
	q.next++
	q.done++
	q.progress(q.done, len(q.tiles))
	return t, true
}

// ReleaseTile is a no-op: the tile's lifecycle ends at unmap, not here
// (spec.md §4.4 Release, §9 open question).
func (q *TileQueue) ReleaseTile(device.Tile) {}

// Total is the tile count the queue was built with.
func (q *TileQueue) Total() int { return len(q.tiles) }

// Done returns the number of tiles handed out so far.
func (q *TileQueue) Done() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.done
}

func defaultProgress(label string) progressFunc {
	return func(done, total int) {
		if label != "" {
			fmt.Printf("[%s] tile %d/%d\n", label, done, total)
			return
		}
		fmt.Printf("tile %d/%d\n", done, total)
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

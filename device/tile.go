// Package device declares the compute-device callback protocol (spec.md
// §6.2): the wire types a Task hands to the Device, and the capability
// interface the Device invokes back. The device that actually executes
// the denoising kernel is an external collaborator (spec.md §1a); this
// package specifies only the protocol it is driven through, the way
// codec.Codec specifies only the encode/decode surface a real codec
// implements.
package device

// TileKind distinguishes the handful of tile roles the protocol defines.
// Only one is used today, but the type keeps the door open the way
// jpeg2000's ROIShape/ROIStyle enums do for features not yet implemented.
type TileKind int

const (
	// KindDenoise marks a tile carrying denoising work (spec.md §3).
	KindDenoise TileKind = iota
)

// Tile is an axis-aligned rectangle into a shared float32 buffer. Stride is
// the row stride of Buffer in pixels (not floats); Offset is added to
// y*Stride+x before multiplying by the buffer's per-pixel channel count to
// locate a pixel's first channel. A zero-area Tile (W==0 or H==0) is valid
// and denotes an off-image neighbor slot.
type Tile struct {
	X, Y   int
	W, H   int
	Index  int
	Stride int
	Offset int
	Kind   TileKind

	// Buffer is the tile's backing storage. For the center tile and its
	// eight context neighbors this is the Task's shared device input
	// buffer (PassStride channels per pixel); for the output tile (slot 9)
	// it is a freshly allocated per-tile buffer (TargetPassStride channels
	// per pixel). Ownership: the Task owns input buffers for the task's
	// lifetime; output buffers are exclusively owned by whoever holds the
	// Tile between map and unmap (spec.md §3 Ownership).
	Buffer []float32

	// StartSample/NumSamples describe the sample range a center tile
	// carries (spec.md §4.4); unused (left zero) on synthesized context
	// and output tiles.
	StartSample int
	NumSamples  int
}

// PixelOffset returns the index of pixel (x,y)'s first channel within t.Buffer,
// given chans channels per pixel (PassStride for input-side tiles,
// TargetPassStride for the output tile).
func (t Tile) PixelOffset(x, y, chans int) int {
	return ((y * t.Stride) + x + t.Offset) * chans
}

// Neighborhood is the 10-element tile descriptor synthesized for one center
// tile: slots 0-8 are the 3x3 grid in raster order (slot 4 is the center;
// missing corners are zero-area tiles clipped to image bounds), slot 9 is
// the output tile.
type Neighborhood [10]Tile

// Center is shorthand for n[4], the tile the neighborhood was built around.
func (n Neighborhood) Center() Tile { return n[4] }

// Output is shorthand for n[9], the tile the kernel writes combined
// channels into.
func (n Neighborhood) Output() Tile { return n[9] }

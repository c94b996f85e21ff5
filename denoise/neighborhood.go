package denoise

import (
	"fmt"
	"sync"

	"github.com/boberfly/denoise/channelmap"
	"github.com/boberfly/denoise/device"
)

// outputRegistry is the mutex-guarded tile-index -> output-buffer map
// (spec.md §5 Output mutex). Held only across insert/lookup/remove, never
// across the buffer copy back into an Image's pixels.
type outputRegistry struct {
	mu   sync.Mutex
	bufs map[int]*device.Tile
}

func newOutputRegistry() *outputRegistry {
	return &outputRegistry{bufs: make(map[int]*device.Tile)}
}

func (r *outputRegistry) insert(tileIndex int, tile *device.Tile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bufs[tileIndex]; exists {
		return fmt.Errorf("denoise: output buffer already registered for tile %d", tileIndex)
	}
	r.bufs[tileIndex] = tile
	return nil
}

func (r *outputRegistry) take(tileIndex int) (*device.Tile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.bufs[tileIndex]
	if ok {
		delete(r.bufs, tileIndex)
	}
	return t, ok
}

// neighborhoodMapper synthesizes the 3x3 context neighborhood and output
// tile around a center tile (spec.md §4.5).
type neighborhoodMapper struct {
	width, height int
	tileWidth     int
	tileHeight    int
	layer         *Layer
	image         *Image
	registry      *outputRegistry
}

func newNeighborhoodMapper(width, height, tw, th int, layer *Layer, image *Image) *neighborhoodMapper {
	return &neighborhoodMapper{
		width: width, height: height,
		tileWidth: tw, tileHeight: th,
		layer: layer, image: image,
		registry: newOutputRegistry(),
	}
}

// Map builds the 10-slot neighborhood for center, allocating and seeding
// its output tile.
func (m *neighborhoodMapper) Map(center device.Tile) (device.Neighborhood, error) {
	var n device.Neighborhood

	for i := 0; i < 9; i++ {
		if i == 4 {
			n[4] = center
			continue
		}
		dx := (i % 3) - 1
		dy := (i / 3) - 1
		x0 := clampInt(center.X+dx*m.tileWidth, 0, m.width)
		x1 := clampInt(center.X+(dx+1)*m.tileWidth, 0, m.width)
		y0 := clampInt(center.Y+dy*m.tileHeight, 0, m.height)
		y1 := clampInt(center.Y+(dy+1)*m.tileHeight, 0, m.height)

		n[i] = device.Tile{
			X: x0, Y: y0,
			W: maxInt(x1-x0, 0), H: maxInt(y1-y0, 0),
			Index:  center.Index,
			Stride: m.width,
			Offset: 0,
			Kind:   device.KindDenoise,
			Buffer: center.Buffer,
		}
	}

	outBuf := make([]float32, 3*center.W*center.H)
	seedOutputBuffer(outBuf, center)

	out := device.Tile{
		X: center.X, Y: center.Y,
		W: center.W, H: center.H,
		Index:  center.Index,
		Stride: center.W,
		Offset: -(center.Y*center.W + center.X),
		Kind:   device.KindDenoise,
		Buffer: outBuf,
	}
	n[9] = out

	if err := m.registry.insert(center.Index, &n[9]); err != nil {
		return device.Neighborhood{}, err
	}
	return n, nil
}

// seedOutputBuffer fills out with the noisy image extracted from center's
// rectangle, the kernel's required initial value for pixels it skips.
//
// center.Buffer is the Task's device input buffer, already reshuffled into
// the canonical channelmap slot layout by Image.ReadPixels/ReadNeighborPixels
// — so slot NoisyImageR+k is read directly here, with no further
// layer.InputToImageChannel indirection (that table maps canonical slots to
// raw file-channel indices, and only applies when reading straight out of
// an Image's file-order pixel buffer).
func seedOutputBuffer(out []float32, center device.Tile) {
	for y := 0; y < center.H; y++ {
		for x := 0; x < center.W; x++ {
			srcBase := ((center.Y+y)*center.Stride + (center.X + x)) * device.PassStride
			dstBase := (y*center.W + x) * device.TargetPassStride
			for k := 0; k < 3; k++ {
				out[dstBase+k] = center.Buffer[srcBase+channelmap.NoisyImageR+k]
			}
		}
	}
}

// Unmap reads back n's output tile, reshuffles it into image's pixels, and
// releases the output buffer.
func (m *neighborhoodMapper) Unmap(n device.Neighborhood) error {
	center := n.Center()
	out, ok := m.registry.take(center.Index)
	if !ok {
		return fmt.Errorf("denoise: no output buffer registered for tile %d", center.Index)
	}

	for y := 0; y < center.H; y++ {
		for x := 0; x < center.W; x++ {
			pixelBase := ((center.Y+y)*m.width + (center.X + x)) * m.image.NumChannels
			outBase := (y*center.W + x) * device.TargetPassStride
			for k := 0; k < channelmap.NumOutputSlots; k++ {
				m.image.Pixels[pixelBase+m.layer.OutputToImageChannel[k]] = out.Buffer[outBase+k]
			}
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

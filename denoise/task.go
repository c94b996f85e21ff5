package denoise

import (
	"github.com/boberfly/denoise/channelmap"
	"github.com/boberfly/denoise/device"
	"github.com/boberfly/denoise/preprocess"
)

// Task is a per-frame denoising unit bound to one Image, one center frame
// index, and a list of neighbor frame offsets relative to it. It implements
// device.Job, driving the Tile Queue and Neighborhood Mapper through the
// callback protocol.
type Task struct {
	image          *Image
	config         Config
	centerFrame    int
	neighborFrames []int // offsets relative to centerFrame

	queue   *TileQueue
	mapper  *neighborhoodMapper
	buffer  *device.InputBuffer
	cancel  bool
	lastErr string
}

// newTask builds a Task for one frame.
func newTask(image *Image, config Config, centerFrame int, neighborFrames []int) *Task {
	return &Task{
		image:          image,
		config:         config,
		centerFrame:    centerFrame,
		neighborFrames: neighborFrames,
	}
}

// loadInputPixels assembles layer's device input buffer: the center frame's
// reshuffled pixels followed by one slab per neighbor frame, then applies
// preprocessing to every slab.
func (t *Task) loadInputPixels(layer *Layer) error {
	numFrames := 1 + len(t.neighborFrames)
	if t.buffer == nil || t.buffer.NumFrames != numFrames {
		t.buffer = device.NewInputBuffer(t.image.Width, t.image.Height, numFrames)
	}

	centerSlab := t.buffer.Data[t.buffer.FrameOffset(0):t.buffer.FrameOffset(1)]
	t.image.ReadPixels(layer, centerSlab)

	for n := range t.neighborFrames {
		slab := t.buffer.Data[t.buffer.FrameOffset(n+1):t.buffer.FrameOffset(n+2)]
		if err := t.image.ReadNeighborPixels(n, layer, slab); err != nil {
			return err
		}
	}

	for f := 0; f < numFrames; f++ {
		slab := t.buffer.Data[t.buffer.FrameOffset(f):t.buffer.FrameOffset(f+1)]
		preprocess.Process(slab, t.image.Width, t.image.Height, channelmap.Intensity, device.PassStride, t.config.ClampInput, t.config.blurRadius())
	}
	return nil
}

// beginLayer resets the Tile Queue and Neighborhood Mapper for layer,
// reusing the already-loaded device input buffer. label is used for
// progress output (spec.md §4.4, frame-prefixed when there is more than
// one output frame).
func (t *Task) beginLayer(layer *Layer, label string) {
	tw, th := t.config.tileWidth(), t.config.tileHeight()
	t.queue = NewTileQueue(t.image.Width, t.image.Height, tw, th, t.buffer.Data, label)
	for i := range t.queue.tiles {
		t.queue.tiles[i].NumSamples = layer.Samples
	}
	t.mapper = newNeighborhoodMapper(t.image.Width, t.image.Height, tw, th, layer, t.image)
}

// Params implements device.Job.
func (t *Task) Params() device.DenoiseParams {
	return device.DenoiseParams{
		FrameStride:          t.image.Width * t.image.Height * device.PassStride,
		DenoisingFrames:      append([]int{0}, t.neighborFrames...),
		DenoisingDoFilter:    true,
		DenoisingWritePasses: false,
		DenoisingFromRender:  false,
	}
}

// AcquireTile implements device.TileCallbacks.
func (t *Task) AcquireTile() (device.Tile, bool) { return t.queue.AcquireTile() }

// MapNeighboringTiles implements device.TileCallbacks.
func (t *Task) MapNeighboringTiles(center device.Tile) (device.Neighborhood, error) {
	return t.mapper.Map(center)
}

// UnmapNeighboringTiles implements device.TileCallbacks.
func (t *Task) UnmapNeighboringTiles(n device.Neighborhood) error { return t.mapper.Unmap(n) }

// ReleaseTile implements device.TileCallbacks.
func (t *Task) ReleaseTile(tile device.Tile) { t.queue.ReleaseTile(tile) }

// Cancelled implements device.TileCallbacks. The core never initiates
// cancellation on its own (spec.md §9 open question); Cancel lets an
// embedder wire one in.
func (t *Task) Cancelled() bool { return t.cancel }

// Cancel requests that the task stop acquiring new tiles.
func (t *Task) Cancel() { t.cancel = true }

// Err returns the task's single mutable error string, empty if the task
// has not failed.
func (t *Task) Err() string { return t.lastErr }

func (t *Task) setErr(err error) {
	if err == nil || t.lastErr != "" {
		return
	}
	t.lastErr = err.Error()
}

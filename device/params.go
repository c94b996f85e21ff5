package device

// Channel layout constants shared with the wire contract in channelmap
// (spec.md §3). Duplicated here, not imported, because device must stay the
// bottom layer of the package graph: it describes the kernel's protocol in
// the abstract, independent of the concrete channel-name table channelmap
// carries.
const (
	PassStride       = 15
	TargetPassStride = 3

	// PassDenoisingData selects the frame whose features the kernel reads;
	// PassDenoisingClean, when set, names a second frame supplying a clean
	// reference instead of the noisy render (spec.md §4.3).
	PassDenoisingData  = 0
	PassDenoisingClean = -1
)

// DenoiseParams mirrors the parameter block a real denoising device expects
// alongside a task (spec.md §4): which frames participate, how many passes
// separate them in the input buffer, and feature toggles the kernel
// branches on but this module does not implement (spec.md §1d).
type DenoiseParams struct {
	FrameStride int

	// DenoisingFrames lists the offsets, relative to the center frame,
	// assembled into the input buffer (spec.md §4.2). A single-frame run
	// is []int{0}.
	DenoisingFrames []int

	DenoisingDoFilter    bool
	DenoisingWritePasses bool
	DenoisingFromRender  bool
}

// NumFrames is len(p.DenoisingFrames).
func (p DenoiseParams) NumFrames() int { return len(p.DenoisingFrames) }

// InputBuffer is the device-side feature buffer assembled for one task: a
// flat float32 slice holding NumFrames frames of Width*Height pixels at
// PassStride channels each, frames concatenated along FrameStride (spec.md
// §4.2 "Frame Stride").
type InputBuffer struct {
	Data        []float32
	Width       int
	Height      int
	NumFrames   int
	FrameStride int
}

// NewInputBuffer allocates a zeroed buffer sized for numFrames frames of a
// width x height image at PassStride channels per pixel.
func NewInputBuffer(width, height, numFrames int) *InputBuffer {
	frameStride := width * height * PassStride
	return &InputBuffer{
		Data:        make([]float32, frameStride*numFrames),
		Width:       width,
		Height:      height,
		NumFrames:   numFrames,
		FrameStride: frameStride,
	}
}

// FrameOffset returns the element offset of frame index f within b.Data.
func (b *InputBuffer) FrameOffset(f int) int { return f * b.FrameStride }

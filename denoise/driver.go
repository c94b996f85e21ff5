package denoise

import (
	"fmt"

	"github.com/boberfly/denoise/device"
)

// FrameSpec pairs one input path with its output path; an empty OutputPath
// skips that frame.
type FrameSpec struct {
	InputPath  string
	OutputPath string
}

// Denoiser runs the Frame Driver (spec.md §4.6) over a list of frames,
// serially, aborting the whole run on the first failure.
type Denoiser struct {
	Frames []FrameSpec
	Config Config
	Dev    device.Device

	lastErr  string
	progress Progress
}

// Progress is a read-only snapshot of a run, additive to the required
// stdout reporting: frame counters for callers that want to poll instead.
type Progress struct {
	FramesDone  int
	FramesTotal int
}

// NewDenoiser returns a Denoiser over frames, driven by dev, using config.
func NewDenoiser(frames []FrameSpec, config Config, dev device.Device) *Denoiser {
	return &Denoiser{Frames: frames, Config: config, Dev: dev, progress: Progress{FramesTotal: len(frames)}}
}

// Err returns the run's single mutable error string, empty until a failure.
func (d *Denoiser) Err() string { return d.lastErr }

// Progress returns a snapshot of how far the run has gotten.
func (d *Denoiser) Progress() Progress { return d.progress }

// Run iterates every frame, skipping ones with an empty OutputPath,
// computing the radius-bounded neighbor set, and driving one Task to
// completion per frame. It aborts on the first error.
func (d *Denoiser) Run() error {
	if err := d.Config.Validate(); err != nil {
		d.setErr(err)
		return err
	}

	for frame := range d.Frames {
		if d.Frames[frame].OutputPath == "" {
			continue
		}

		neighborOffsets := computeNeighbors(frame, len(d.Frames), d.Config.NeighborFrames)

		if err := d.runFrame(frame, neighborOffsets); err != nil {
			d.setErr(err)
			return err
		}
		d.progress.FramesDone++
	}
	return nil
}

func (d *Denoiser) runFrame(frame int, neighborOffsets []int) (retErr error) {
	spec := d.Frames[frame]

	img, err := Load(spec.InputPath, d.Config.SamplesOverride)
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}

	var neighborPaths []string
	for _, off := range neighborOffsets {
		neighborPaths = append(neighborPaths, d.Frames[frame+off].InputPath)
	}
	maxFrames := d.Config.maxFrames()
	if err := img.LoadNeighbors(neighborPaths, maxFrames); err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}

	task := newTask(img, d.Config, frame, neighborOffsets)
	defer func() { task.setErr(retErr) }()
	label := ""
	if len(d.Frames) > 1 {
		label = fmt.Sprintf("frame %d", frame)
	}

	for _, layer := range img.Layers {
		if err := task.loadInputPixels(layer); err != nil {
			return fmt.Errorf("frame %d layer %q: %w", frame, layer.Name, err)
		}

		task.beginLayer(layer, label)
		if task.queue.Total() == 0 {
			return fmt.Errorf("frame %d layer %q: %w", frame, layer.Name, ErrNoTiles)
		}

		if err := d.Dev.TaskAdd(task); err != nil {
			return fmt.Errorf("frame %d layer %q: %w", frame, layer.Name, err)
		}
		if err := d.Dev.TaskWait(); err != nil {
			return fmt.Errorf("frame %d layer %q: %w", frame, layer.Name, err)
		}
	}

	if err := img.SaveOutput(spec.OutputPath); err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	return nil
}

func (d *Denoiser) setErr(err error) {
	if err == nil || d.lastErr != "" {
		return
	}
	d.lastErr = err.Error()
}

// computeNeighbors returns, relative to frame, the offsets of every frame
// within radius whose absolute index is in range and not frame itself
// (spec.md §4.6 step 2).
func computeNeighbors(frame, numFrames, radius int) []int {
	var offsets []int
	for f := 0; f < numFrames; f++ {
		if f == frame {
			continue
		}
		if absInt(f-frame) <= radius {
			offsets = append(offsets, f-frame)
		}
	}
	return offsets
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package denoise

import (
	"fmt"

	"github.com/boberfly/denoise/channelmap"
	"github.com/boberfly/denoise/imageio"
)

// neighborReader is an opened neighbor frame kept alive for streaming reads
// across the layers of one Task.
type neighborReader struct {
	path      string
	container imageio.Container
	spec      imageio.Spec
}

// Image holds the center frame's pixels, the input spec snapshot preserved
// for write-back, the layers discovered in it, and any open neighbor
// readers.
type Image struct {
	Width       int
	Height      int
	NumChannels int
	Pixels      []float32

	inputSpec imageio.Spec
	Layers    []*Layer

	neighbors []*neighborReader
	multiView bool
}

// Load opens path, snapshots its spec, runs the Layer Resolver, and reads
// every channel into Pixels as float32.
func Load(path string, samplesOverride int) (*Image, error) {
	if !imageio.IsRegularFile(path) {
		return nil, fmt.Errorf("%w: %s", imageio.ErrNotRegularFile, path)
	}
	c, err := imageio.Open(path)
	if err != nil {
		return nil, err
	}

	spec := c.Spec()
	layers, err := parseChannels(spec, samplesOverride)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	pixels, err := c.ReadAllFloat32()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.Close(); err != nil {
		return nil, err
	}

	img := &Image{
		Width:       spec.Width,
		Height:      spec.Height,
		NumChannels: spec.NumChannels,
		Pixels:      pixels,
		inputSpec:   spec,
		Layers:      layers,
		multiView:   detectMultiView(spec),
	}
	return img, nil
}

// LoadNeighbors opens every neighbor frame named in paths, verifies
// identical dimensions, and resolves every layer's
// NeighborInputToImageChannel table against each one. It fails with
// ErrCapExceeded when paths names more than maxFrames-1 neighbors.
func (img *Image) LoadNeighbors(paths []string, maxFrames int) error {
	if len(paths) > maxFrames-1 {
		return fmt.Errorf("%w: %d neighbors requested, cap is %d", ErrCapExceeded, len(paths), maxFrames-1)
	}

	for _, layer := range img.Layers {
		layer.NeighborInputToImageChannel = make([][]int, len(paths))
	}

	for n, path := range paths {
		if !imageio.IsRegularFile(path) {
			return fmt.Errorf("%w: %s", imageio.ErrNotRegularFile, path)
		}
		c, err := imageio.Open(path)
		if err != nil {
			return err
		}
		spec := c.Spec()
		if spec.Width != img.Width || spec.Height != img.Height {
			_ = c.Close()
			return fmt.Errorf("%w: neighbor %s is %dx%d, center is %dx%d", ErrNeighborMismatch, path, spec.Width, spec.Height, img.Width, img.Height)
		}

		for _, layer := range img.Layers {
			remap, err := matchChannels(layer, spec, img.multiView)
			if err != nil {
				_ = c.Close()
				return err
			}
			layer.NeighborInputToImageChannel[n] = remap
		}

		img.neighbors = append(img.neighbors, &neighborReader{path: path, container: c, spec: spec})
	}
	return nil
}

// ReadPixels copies the center image into dst with the channel reshuffle:
// dst[i*15+j] = Pixels[i*NumChannels + layer.InputToImageChannel[j]].
func (img *Image) ReadPixels(layer *Layer, dst []float32) {
	n := img.Width * img.Height
	for i := 0; i < n; i++ {
		base := i * img.NumChannels
		out := i * channelmap.NumInputSlots
		for j := 0; j < channelmap.NumInputSlots; j++ {
			dst[out+j] = img.Pixels[base+layer.InputToImageChannel[j]]
		}
	}
}

// ReadNeighborPixels reads neighbor neighborIdx's full image and reshuffles
// it into dst using layer.NeighborInputToImageChannel[neighborIdx].
func (img *Image) ReadNeighborPixels(neighborIdx int, layer *Layer, dst []float32) error {
	nb := img.neighbors[neighborIdx]
	raw, err := nb.container.ReadAllFloat32()
	if err != nil {
		return fmt.Errorf("%w: neighbor %s: %v", imageio.ErrRead, nb.path, err)
	}

	remap := layer.NeighborInputToImageChannel[neighborIdx]
	n := img.Width * img.Height
	for i := 0; i < n; i++ {
		base := i * nb.spec.NumChannels
		out := i * channelmap.NumInputSlots
		for j := 0; j < channelmap.NumInputSlots; j++ {
			dst[out+j] = raw[base+remap[j]]
		}
	}
	return nil
}

// SaveOutput clones the input spec, ensures every layer's samples
// attribute is present, closes neighbor readers, and writes Pixels back to
// path via a temp-sibling-then-rename sequence.
func (img *Image) SaveOutput(path string) error {
	outSpec := img.inputSpec.Clone()
	for _, layer := range img.Layers {
		name := samplesAttrName(layer.Name)
		if _, ok := outSpec.StringAttr(name); !ok {
			outSpec.SetStringAttr(name, fmt.Sprintf("%d", layer.Samples))
		}
	}

	img.closeNeighbors()

	tmpPath := imageio.TempSiblingPath(path)
	c, err := imageio.Create(tmpPath, outSpec)
	if err != nil {
		return err
	}

	writeErr := c.WriteAllFloat32(img.Pixels)
	closeErr := c.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	return imageio.PromoteTemp(tmpPath, path, writeErr)
}

func (img *Image) closeNeighbors() {
	for _, nb := range img.neighbors {
		_ = nb.container.Close()
	}
	img.neighbors = nil
}

// NumNeighbors is len(img.neighbors), the count of currently open neighbor
// readers.
func (img *Image) NumNeighbors() int { return len(img.neighbors) }

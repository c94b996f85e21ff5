package denoise

import (
	"testing"

	"github.com/boberfly/denoise/channelmap"
	"github.com/boberfly/denoise/device"
)

func fullLayer() *Layer {
	in := make([]int, channelmap.NumInputSlots)
	for i := range in {
		in[i] = i
	}
	out := []int{channelmap.NumInputSlots + 0, channelmap.NumInputSlots + 1, channelmap.NumInputSlots + 2}
	return &Layer{Name: "RenderLayer", InputToImageChannel: in, OutputToImageChannel: out, Samples: 16}
}

func TestNeighborhoodMapSeedsOutputWithNoisyImage(t *testing.T) {
	const width, height = 4, 4
	layer := fullLayer()
	buffer := make([]float32, width*height*device.PassStride)
	for p := 0; p < width*height; p++ {
		buffer[p*device.PassStride+channelmap.NoisyImageR] = float32(p)
		buffer[p*device.PassStride+channelmap.NoisyImageG] = float32(p) + 0.5
		buffer[p*device.PassStride+channelmap.NoisyImageB] = float32(p) + 0.25
	}

	img := &Image{Width: width, Height: height, NumChannels: channelmap.NumInputSlots + channelmap.NumOutputSlots}
	img.Pixels = make([]float32, width*height*img.NumChannels)

	mapper := newNeighborhoodMapper(width, height, 2, 2, layer, img)

	center := device.Tile{X: 0, Y: 0, W: 2, H: 2, Index: 0, Stride: width, Buffer: buffer}
	n, err := mapper.Map(center)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	out := n.Output()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			p := y*width + x
			base := (y*2 + x) * 3
			if out.Buffer[base+0] != float32(p) {
				t.Fatalf("output R at (%d,%d) = %v, want %v", x, y, out.Buffer[base+0], float32(p))
			}
		}
	}
}

func TestNeighborhoodMapDoubleInsertFails(t *testing.T) {
	const width, height = 2, 2
	layer := fullLayer()
	buffer := make([]float32, width*height*device.PassStride)
	img := &Image{Width: width, Height: height, NumChannels: channelmap.NumInputSlots + channelmap.NumOutputSlots}
	img.Pixels = make([]float32, width*height*img.NumChannels)

	mapper := newNeighborhoodMapper(width, height, 2, 2, layer, img)
	center := device.Tile{X: 0, Y: 0, W: 2, H: 2, Index: 0, Stride: width, Buffer: buffer}

	if _, err := mapper.Map(center); err != nil {
		t.Fatalf("first Map: %v", err)
	}
	if _, err := mapper.Map(center); err == nil {
		t.Fatal("expected error on double registration of the same tile index")
	}
}

func TestNeighborhoodUnmapWritesCombinedChannelsOnly(t *testing.T) {
	const width, height = 2, 2
	layer := fullLayer()
	buffer := make([]float32, width*height*device.PassStride)
	img := &Image{Width: width, Height: height, NumChannels: channelmap.NumInputSlots + channelmap.NumOutputSlots}
	img.Pixels = make([]float32, width*height*img.NumChannels)
	for i := range img.Pixels {
		img.Pixels[i] = 42 // sentinel: anything not overwritten must stay 42
	}

	mapper := newNeighborhoodMapper(width, height, 2, 2, layer, img)
	center := device.Tile{X: 0, Y: 0, W: 2, H: 2, Index: 0, Stride: width, Buffer: buffer}

	n, err := mapper.Map(center)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	for i := range n.Output().Buffer {
		n.Output().Buffer[i] = 1.0
	}

	if err := mapper.Unmap(n); err != nil {
		t.Fatalf("Unmap: %v", err)
	}

	for p := 0; p < width*height; p++ {
		base := p * img.NumChannels
		for c := 0; c < img.NumChannels; c++ {
			isCombined := c == layer.OutputToImageChannel[0] || c == layer.OutputToImageChannel[1] || c == layer.OutputToImageChannel[2]
			if isCombined {
				if img.Pixels[base+c] != 1.0 {
					t.Fatalf("combined channel %d at pixel %d = %v, want 1", c, p, img.Pixels[base+c])
				}
			} else if img.Pixels[base+c] != 42 {
				t.Fatalf("non-combined channel %d at pixel %d = %v, want untouched 42", c, p, img.Pixels[base+c])
			}
		}
	}
}

func TestNeighborhoodBoundaryTilesClipToImage(t *testing.T) {
	const width, height = 5, 5
	layer := fullLayer()
	buffer := make([]float32, width*height*device.PassStride)
	img := &Image{Width: width, Height: height, NumChannels: channelmap.NumInputSlots + channelmap.NumOutputSlots}
	img.Pixels = make([]float32, width*height*img.NumChannels)

	mapper := newNeighborhoodMapper(width, height, 3, 3, layer, img)
	// Bottom-right corner tile: only the top-left, top and left neighbor
	// slots (indices 0, 1, 3) plus the tile itself (index 4) are non-empty
	// here; the right column and bottom row fall off the image.
	center := device.Tile{X: 3, Y: 3, W: 2, H: 2, Index: 3, Stride: width, Buffer: buffer}

	n, err := mapper.Map(center)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	// slot 8 is (dx=1,dy=1): bottom-right neighbor, off image entirely.
	if n[8].W != 0 || n[8].H != 0 {
		t.Fatalf("bottom-right neighbor = %dx%d, want 0x0 (off image)", n[8].W, n[8].H)
	}
}

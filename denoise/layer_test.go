package denoise

import (
	"errors"
	"testing"

	"github.com/boberfly/denoise/imageio"
)

func fullChannelNames(layer string) []string {
	return []string{
		layer + ".Denoising Depth.Z",
		layer + ".Denoising Normal.X",
		layer + ".Denoising Normal.Y",
		layer + ".Denoising Normal.Z",
		layer + ".Denoising Shadowing.X",
		layer + ".Denoising Albedo.R",
		layer + ".Denoising Albedo.G",
		layer + ".Denoising Albedo.B",
		layer + ".Noisy Image.R",
		layer + ".Noisy Image.G",
		layer + ".Noisy Image.B",
		layer + ".Denoising Variance.R",
		layer + ".Denoising Variance.G",
		layer + ".Denoising Variance.B",
		layer + ".Denoising Intensity.X",
		layer + ".Combined.R",
		layer + ".Combined.G",
		layer + ".Combined.B",
	}
}

func TestParseChannelsSingleCompleteLayer(t *testing.T) {
	spec := imageio.Spec{
		Width: 2, Height: 2,
		ChannelNames: fullChannelNames("RenderLayer"),
		Attributes:   map[string]interface{}{"cycles.RenderLayer.samples": "16"},
	}
	spec.NumChannels = len(spec.ChannelNames)

	layers, err := parseChannels(spec, 0)
	if err != nil {
		t.Fatalf("parseChannels: %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1", len(layers))
	}
	layer := layers[0]
	if layer.Name != "RenderLayer" {
		t.Fatalf("layer.Name = %q, want RenderLayer", layer.Name)
	}
	if layer.Samples != 16 {
		t.Fatalf("layer.Samples = %d, want 16", layer.Samples)
	}
	for i, v := range layer.InputToImageChannel {
		if v < 0 {
			t.Fatalf("InputToImageChannel[%d] = %d, want >= 0", i, v)
		}
	}
	for i, v := range layer.OutputToImageChannel {
		if v < 0 {
			t.Fatalf("OutputToImageChannel[%d] = %d, want >= 0", i, v)
		}
	}
}

func TestParseChannelsIncompleteLayerDropped(t *testing.T) {
	names := fullChannelNames("RenderLayer")
	names = names[:len(names)-1] // drop Combined.B
	spec := imageio.Spec{
		Width: 1, Height: 1,
		ChannelNames: names,
		Attributes:   map[string]interface{}{"cycles.RenderLayer.samples": "16"},
	}
	spec.NumChannels = len(spec.ChannelNames)

	_, err := parseChannels(spec, 0)
	if !errors.Is(err, ErrLayerMissing) {
		t.Fatalf("parseChannels error = %v, want ErrLayerMissing", err)
	}
}

func TestParseChannelsPassThroughExtras(t *testing.T) {
	names := append(fullChannelNames("RenderLayer"), "Shadow.R", "Mist.Z")
	spec := imageio.Spec{
		Width: 1, Height: 1,
		ChannelNames: names,
		Attributes:   map[string]interface{}{"cycles.RenderLayer.samples": "16"},
	}
	spec.NumChannels = len(spec.ChannelNames)

	layers, err := parseChannels(spec, 0)
	if err != nil {
		t.Fatalf("parseChannels: %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1 (pass-through channels must not form layers)", len(layers))
	}
}

func TestParseChannelsMultiView(t *testing.T) {
	var names []string
	for _, view := range []string{"left", "right"} {
		for _, n := range fullChannelNames("RenderLayer") {
			// fullChannelNames gives "RenderLayer.pass.component"; splice
			// the view in before the final component: RenderLayer.pass.view.component.
			names = append(names, insertView(n, view))
		}
	}
	spec := imageio.Spec{
		Width: 1, Height: 1,
		ChannelNames: names,
		Attributes: map[string]interface{}{
			"multiView":                        []string{"left", "right"},
			"cycles.RenderLayer.left.samples":  "8",
			"cycles.RenderLayer.right.samples": "8",
		},
	}
	spec.NumChannels = len(spec.ChannelNames)

	layers, err := parseChannels(spec, 0)
	if err != nil {
		t.Fatalf("parseChannels: %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("len(layers) = %d, want 2", len(layers))
	}
	names2 := map[string]bool{}
	for _, l := range layers {
		names2[l.Name] = true
	}
	if !names2["RenderLayer.left"] || !names2["RenderLayer.right"] {
		t.Fatalf("layer names = %v, want RenderLayer.left and RenderLayer.right", names2)
	}
}

// insertView turns "layer.pass.component" into "layer.pass.view.component".
func insertView(name, view string) string {
	idx := lastDot(name)
	return name[:idx] + "." + view + name[idx:]
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

func TestParseChannelsMissingSamples(t *testing.T) {
	spec := imageio.Spec{
		Width: 1, Height: 1,
		ChannelNames: fullChannelNames("RenderLayer"),
	}
	spec.NumChannels = len(spec.ChannelNames)

	_, err := parseChannels(spec, 0)
	if !errors.Is(err, ErrMetadataMissing) {
		t.Fatalf("parseChannels error = %v, want ErrMetadataMissing", err)
	}
}

func TestParseChannelsSamplesOverride(t *testing.T) {
	spec := imageio.Spec{
		Width: 1, Height: 1,
		ChannelNames: fullChannelNames("RenderLayer"),
	}
	spec.NumChannels = len(spec.ChannelNames)

	layers, err := parseChannels(spec, 32)
	if err != nil {
		t.Fatalf("parseChannels: %v", err)
	}
	if layers[0].Samples != 32 {
		t.Fatalf("Samples = %d, want 32 (override)", layers[0].Samples)
	}
}

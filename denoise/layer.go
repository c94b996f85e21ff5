package denoise

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boberfly/denoise/channelmap"
	"github.com/boberfly/denoise/imageio"
)

// Layer is a named group of channels discovered in a source image, with
// the reshuffle tables that absorb arbitrary file channel ordering.
type Layer struct {
	Name                        string
	Channels                    []string
	LayerToImageChannel         []int
	InputToImageChannel         []int   // length channelmap.NumInputSlots
	OutputToImageChannel        []int   // length channelmap.NumOutputSlots
	NeighborInputToImageChannel [][]int // [neighborIdx][slot]
	Samples                     int
}

// multiViewAttr is the container attribute name that advertises stereo/
// multiview mode (spec.md §4.2 step 1).
const multiViewAttr = "multiView"

// samplesAttrPrefix/samplesAttrSuffix bracket the per-layer metadata
// attribute name "cycles.<layer>.samples".
const (
	samplesAttrPrefix = "cycles."
	samplesAttrSuffix = ".samples"
)

func samplesAttrName(layer string) string {
	return samplesAttrPrefix + layer + samplesAttrSuffix
}

// parseChannels discovers layers in spec's channel list, keeping only
// those with a complete INPUT+OUTPUT channel set. samplesOverride, when
// positive, supplies every layer's sample count instead of reading
// metadata.
func parseChannels(spec imageio.Spec, samplesOverride int) ([]*Layer, error) {
	multiView := detectMultiView(spec)

	type provisional struct {
		name     string
		channels []string
		indices  []int
	}
	order := make([]string, 0)
	byKey := make(map[string]*provisional)

	for idx, name := range spec.ChannelNames {
		layerKey, ok := splitChannelName(name, multiView)
		if !ok {
			continue // passed through untouched, not placed in any layer
		}
		p, exists := byKey[layerKey]
		if !exists {
			p = &provisional{name: layerKey}
			byKey[layerKey] = p
			order = append(order, layerKey)
		}
		p.channels = append(p.channels, channelSuffix(name, multiView))
		p.indices = append(p.indices, idx)
	}

	layers := make([]*Layer, 0, len(order))
	var incomplete []string
	for _, key := range order {
		p := byKey[key]
		layer := &Layer{
			Name:                key,
			Channels:            p.channels,
			LayerToImageChannel: p.indices,
		}

		inMap, ok := detectSlots(channelmap.InputChannels(), layer.Channels, layer.LayerToImageChannel)
		if !ok {
			incomplete = append(incomplete, key)
			continue
		}
		outMap, ok := detectSlots(channelmap.OutputChannels(), layer.Channels, layer.LayerToImageChannel)
		if !ok {
			incomplete = append(incomplete, key)
			continue
		}
		layer.InputToImageChannel = inMap
		layer.OutputToImageChannel = outMap

		samples, err := resolveSamples(spec, key, samplesOverride)
		if err != nil {
			return nil, err
		}
		layer.Samples = samples

		layers = append(layers, layer)
	}

	if len(layers) == 0 {
		if len(incomplete) > 0 {
			return nil, fmt.Errorf("%w: %w: candidate layers %v are missing required channels", ErrLayerMissing, ErrChannelsIncomplete, incomplete)
		}
		return nil, fmt.Errorf("%w: no layer has the full denoising channel set", ErrLayerMissing)
	}
	return layers, nil
}

func detectMultiView(spec imageio.Spec) bool {
	views, ok := spec.StringSliceAttr(multiViewAttr)
	return ok && len(views) >= 2
}

// splitChannelName splits "layer.pass.view.channel" (or "layer.pass.channel"
// without a view) on the last '.' repeatedly, returning the effective layer
// key (spec.md §4.2 step 2). Names with too few components are skipped.
func splitChannelName(name string, multiView bool) (string, bool) {
	parts := strings.Split(name, ".")
	need := 3
	if multiView {
		need = 4
	}
	if len(parts) < need {
		return "", false
	}

	// parts: [...layer] [pass] [view?] [channel]
	n := len(parts)
	var view string
	passIdx := n - 2
	if multiView {
		view = parts[n-2]
		passIdx = n - 3
	}
	layer := strings.Join(parts[:passIdx], ".")
	if layer == "" {
		return "", false
	}
	if multiView {
		return layer + "." + view, true
	}
	return layer, true
}

// channelSuffix returns the "pass.component" portion of name used for
// matching against the canonical channel tables.
func channelSuffix(name string, multiView bool) string {
	parts := strings.Split(name, ".")
	n := len(parts)
	if multiView {
		return parts[n-3] + "." + parts[n-1]
	}
	return parts[n-2] + "." + parts[n-1]
}

// detectSlots resolves every slot in slots against layerChannels/indices,
// returning (nil, false) if any slot has no exact match.
func detectSlots(slots []channelmap.Slot, layerChannels []string, indices []int) ([]int, bool) {
	out := make([]int, len(slots))
	for _, slot := range slots {
		found := -1
		for i, ch := range layerChannels {
			if ch == slot.Name {
				found = indices[i]
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		out[slot.Index] = found
	}
	return out, true
}

func resolveSamples(spec imageio.Spec, layer string, samplesOverride int) (int, error) {
	if samplesOverride > 0 {
		return samplesOverride, nil
	}
	raw, ok := spec.StringAttr(samplesAttrName(layer))
	if !ok {
		return 0, fmt.Errorf("%w: layer %q has no %s attribute and no override set", ErrMetadataMissing, layer, samplesAttrName(layer))
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: layer %q attribute %s = %q is not a positive integer", ErrMetadataMissing, layer, samplesAttrName(layer), raw)
	}
	return n, nil
}

// matchChannels resolves, for each INPUT slot, the index in
// neighborChannels whose name equals the name the center used at the same
// slot, and returns that table; the caller stores it in
// layer.NeighborInputToImageChannel.
func matchChannels(layer *Layer, neighborSpec imageio.Spec, multiView bool) ([]int, error) {
	out := make([]int, channelmap.NumInputSlots)
	for i, slot := range channelmap.InputChannels() {
		centerImgIdx := layer.InputToImageChannel[slot.Index]
		centerName := ""
		for li, idx := range layer.LayerToImageChannel {
			if idx == centerImgIdx {
				centerName = layer.Channels[li]
				break
			}
		}
		found := -1
		for idx, name := range neighborSpec.ChannelNames {
			key, ok := splitChannelName(name, multiView)
			if !ok {
				continue
			}
			if key != layer.Name {
				continue
			}
			if channelSuffix(name, multiView) == centerName {
				found = idx
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: layer %q misses denoising data pass %q in neighbor frame", ErrNeighborMismatch, layer.Name, slot.Name)
		}
		out[i] = found
	}
	return out, nil
}

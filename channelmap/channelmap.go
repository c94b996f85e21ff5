// Package channelmap holds the static wire contract between the denoiser
// core and the compute device: the fixed ordered list of input and output
// feature channels and their buffer offsets (spec.md §3 "Channel Map").
// It carries no state, mirroring jpeg2000/colorspace's pure, dependency-free
// shape.
package channelmap

// Fixed INPUT slot offsets, part of the wire contract with the kernel.
const (
	Depth          = 0 // depth.Z
	NormalX        = 1
	NormalY        = 2
	NormalZ        = 3
	Shadowing      = 4 // shadowing.X
	AlbedoR        = 5
	AlbedoG        = 6
	AlbedoB        = 7
	NoisyImageR    = 8
	NoisyImageG    = 9
	NoisyImageB    = 10
	VarianceR      = 11
	VarianceG      = 12
	VarianceB      = 13
	Intensity      = 14 // intensity.X
	NumInputSlots  = 15
	NumOutputSlots = 3
)

// Fixed OUTPUT slot offsets.
const (
	CombinedR = 0
	CombinedG = 1
	CombinedB = 2
)

// Slot names the pair of (slot index, "pass.component" name) used to match
// a channel discovered in a file against the canonical denoising layout.
type Slot struct {
	Index int
	Name  string
}

// inputChannels is the canonical ordered INPUT list: 15 slots at fixed
// offsets, matched against a layer's discovered "pass.component" strings.
var inputChannels = []Slot{
	{Depth, "Denoising Depth.Z"},
	{NormalX, "Denoising Normal.X"},
	{NormalY, "Denoising Normal.Y"},
	{NormalZ, "Denoising Normal.Z"},
	{Shadowing, "Denoising Shadowing.X"},
	{AlbedoR, "Denoising Albedo.R"},
	{AlbedoG, "Denoising Albedo.G"},
	{AlbedoB, "Denoising Albedo.B"},
	{NoisyImageR, "Noisy Image.R"},
	{NoisyImageG, "Noisy Image.G"},
	{NoisyImageB, "Noisy Image.B"},
	{VarianceR, "Denoising Variance.R"},
	{VarianceG, "Denoising Variance.G"},
	{VarianceB, "Denoising Variance.B"},
	{Intensity, "Denoising Intensity.X"},
}

// outputChannels is the canonical ordered OUTPUT list: 3 slots.
var outputChannels = []Slot{
	{CombinedR, "Combined.R"},
	{CombinedG, "Combined.G"},
	{CombinedB, "Combined.B"},
}

// InputChannels returns the static ordered (slot, "pass.component") pairs
// a layer must supply in full to be eligible for denoising.
func InputChannels() []Slot {
	out := make([]Slot, len(inputChannels))
	copy(out, inputChannels)
	return out
}

// OutputChannels returns the static ordered (slot, "pass.component") pairs
// written back after denoising.
func OutputChannels() []Slot {
	out := make([]Slot, len(outputChannels))
	copy(out, outputChannels)
	return out
}

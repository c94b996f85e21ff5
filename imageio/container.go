package imageio

// Spec is a snapshot of a container's shape and metadata: dimensions,
// ordered channel names as they appear in the file, and arbitrary typed
// attributes (e.g. "multiView" as a string slice, "cycles.<layer>.samples"
// as a string). It is cloned at load time so it can be mutated and
// written back without touching whatever produced it.
type Spec struct {
	Width        int
	Height       int
	NumChannels  int
	ChannelNames []string
	Attributes   map[string]interface{}
}

// Clone returns a deep-enough copy of the spec for safe independent mutation.
func (s Spec) Clone() Spec {
	names := make([]string, len(s.ChannelNames))
	copy(names, s.ChannelNames)

	attrs := make(map[string]interface{}, len(s.Attributes))
	for k, v := range s.Attributes {
		attrs[k] = v
	}

	return Spec{
		Width:        s.Width,
		Height:       s.Height,
		NumChannels:  s.NumChannels,
		ChannelNames: names,
		Attributes:   attrs,
	}
}

// StringAttr returns a string attribute, or false if absent or of another type.
func (s Spec) StringAttr(name string) (string, bool) {
	v, ok := s.Attributes[name]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// SetStringAttr sets a string attribute, creating the map if necessary.
func (s *Spec) SetStringAttr(name, value string) {
	if s.Attributes == nil {
		s.Attributes = make(map[string]interface{})
	}
	s.Attributes[name] = value
}

// StringSliceAttr returns a []string attribute, or false if absent or of another type.
func (s Spec) StringSliceAttr(name string) ([]string, bool) {
	v, ok := s.Attributes[name]
	if !ok {
		return nil, false
	}
	sl, ok := v.([]string)
	return sl, ok
}

// Container is the consumed surface of the multi-channel image reader/writer
// (spec.md §6.1). It is the only collaborator the denoiser core needs from
// the underlying file format; this package never implements one itself.
type Container interface {
	// Spec returns the container's dimensions, channel names, and attributes.
	Spec() Spec

	// ReadAllFloat32 reads every channel for every pixel as 32-bit float,
	// row-major, interleaved by channel: index = (y*Width+x)*NumChannels+c.
	ReadAllFloat32() ([]float32, error)

	// WriteAllFloat32 writes a buffer shaped like ReadAllFloat32's result.
	// Only valid on a container opened for writing.
	WriteAllFloat32(data []float32) error

	// Close releases any file handles held by the container.
	Close() error
}

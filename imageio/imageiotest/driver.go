package imageiotest

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/boberfly/denoise/imageio"
)

func init() {
	// Spec.Attributes is a map[string]interface{}; gob requires every
	// concrete type ever stored in it to be registered up front.
	gob.Register("")
	gob.Register([]string{})
}

// Driver is a real-file-backed imageio.Driver used only by tests, so that
// write-then-rename behavior (spec.md §4.3/§6.3) can be exercised against
// an actual filesystem. It is registered under a throwaway extension; it
// is not, and does not pretend to be, a real multi-layer image format —
// that format is an external collaborator out of scope for this module
// (spec.md §1b), same as the real codec under test in codec/test_helpers.go.
type Driver struct{}

// Ext is the extension this package registers its fake format under.
const Ext = ".denoisetest"

type onDisk struct {
	Spec imageio.Spec
	Data []float32
}

// Open reads a fixture file written by Create/WriteAllFloat32.
func (Driver) Open(path string) (imageio.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rec onDisk
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return nil, fmt.Errorf("imageiotest: decode %s: %w", path, err)
	}
	return &fileContainer{path: path, spec: rec.Spec, data: rec.Data}, nil
}

// Create creates a new fixture file for writing, seeded with spec.
func (Driver) Create(path string, spec imageio.Spec) (imageio.Container, error) {
	return &fileContainer{path: path, spec: spec.Clone()}, nil
}

type fileContainer struct {
	path string
	spec imageio.Spec
	data []float32
}

func (c *fileContainer) Spec() imageio.Spec { return c.spec.Clone() }

func (c *fileContainer) ReadAllFloat32() ([]float32, error) {
	out := make([]float32, len(c.data))
	copy(out, c.data)
	return out, nil
}

func (c *fileContainer) WriteAllFloat32(data []float32) error {
	c.data = append([]float32(nil), data...)

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(onDisk{Spec: c.spec, Data: c.data})
}

func (c *fileContainer) Close() error { return nil }

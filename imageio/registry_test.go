package imageio_test

import (
	"errors"
	"testing"

	"github.com/boberfly/denoise/imageio"
	"github.com/boberfly/denoise/imageio/imageiotest"
)

func TestRegistryOpenUnknownExtension(t *testing.T) {
	if _, err := imageio.Open("missing.unknownformat"); !errors.Is(err, imageio.ErrNoDriver) {
		t.Fatalf("Open() error = %v, want ErrNoDriver", err)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	imageio.Register(imageiotest.Ext, imageiotest.Driver{})

	dir := t.TempDir()
	path := dir + "/frame" + imageiotest.Ext

	spec := imageio.Spec{Width: 2, Height: 1, NumChannels: 1, ChannelNames: []string{"A.Z"}}
	c, err := imageio.Create(path, spec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := c.WriteAllFloat32([]float32{1, 2}); err != nil {
		t.Fatalf("WriteAllFloat32: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := imageio.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := reopened.ReadAllFloat32()
	if err != nil {
		t.Fatalf("ReadAllFloat32: %v", err)
	}
	if len(data) != 2 || data[0] != 1 || data[1] != 2 {
		t.Fatalf("ReadAllFloat32() = %v, want [1 2]", data)
	}
}

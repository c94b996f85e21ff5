package imageiotest_test

import (
	"testing"

	"github.com/boberfly/denoise/imageio"
	"github.com/boberfly/denoise/imageio/imageiotest"
)

func TestContainerReadWriteRoundTrip(t *testing.T) {
	spec := imageio.Spec{Width: 2, Height: 2, NumChannels: 2, ChannelNames: []string{"A.Z", "B.Z"}}
	c := imageiotest.New(spec, nil)

	data := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	if err := c.WriteAllFloat32(data); err != nil {
		t.Fatalf("WriteAllFloat32: %v", err)
	}

	got, err := c.ReadAllFloat32()
	if err != nil {
		t.Fatalf("ReadAllFloat32: %v", err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("ReadAllFloat32()[%d] = %v, want %v", i, got[i], data[i])
		}
	}
}

func TestContainerWriteWrongSize(t *testing.T) {
	spec := imageio.Spec{Width: 2, Height: 2, NumChannels: 1, ChannelNames: []string{"A.Z"}}
	c := imageiotest.New(spec, nil)

	if err := c.WriteAllFloat32([]float32{1, 2, 3}); err == nil {
		t.Fatal("expected error writing wrong-sized buffer")
	}
}

func TestContainerClosedRejectsIO(t *testing.T) {
	spec := imageio.Spec{Width: 1, Height: 1, NumChannels: 1, ChannelNames: []string{"A.Z"}}
	c := imageiotest.New(spec, nil)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := c.ReadAllFloat32(); err == nil {
		t.Fatal("expected error reading from a closed container")
	}
	if err := c.WriteAllFloat32([]float32{1}); err == nil {
		t.Fatal("expected error writing to a closed container")
	}
}

func TestContainerSpecIsolatedFromCaller(t *testing.T) {
	spec := imageio.Spec{Width: 1, Height: 1, NumChannels: 1, ChannelNames: []string{"A.Z"}}
	c := imageiotest.New(spec, nil)

	got := c.Spec()
	got.ChannelNames[0] = "mutated"

	again := c.Spec()
	if again.ChannelNames[0] == "mutated" {
		t.Fatal("Spec() leaked a mutable reference to internal state")
	}
}

package denoise

import "fmt"

// DefaultMaxFrames is the compile-time cap on total frames (center plus
// neighbors) a single run may assemble. Config.MaxFrames of zero means
// "use this default", so tests can shrink the cap without recompiling.
const DefaultMaxFrames = 9

// DefaultTileWidth and DefaultTileHeight are the Tile Queue's default
// partition size when Config leaves TileWidth/TileHeight unset.
const (
	DefaultTileWidth  = 64
	DefaultTileHeight = 64
)

// Config holds the run-time options recognized by the core. It carries no
// CLI or environment parsing of its own; a caller builds one however it
// likes and passes it in.
type Config struct {
	// NeighborFrames is the temporal half-window: how many frames on each
	// side of the center frame are assembled as context.
	NeighborFrames int

	// Radius scales the intensity blur: the effective blur radius is
	// Radius*5 pixels.
	Radius int

	// ClampInput enables pre-clamping every feature value to [-1e8, 1e8]
	// before blurring.
	ClampInput bool

	// TileWidth/TileHeight size the Tile Queue's partition. Zero means use
	// DefaultTileWidth/DefaultTileHeight.
	TileWidth  int
	TileHeight int

	// SamplesOverride, when positive, is used as every layer's sample
	// count instead of reading the per-layer metadata attribute.
	SamplesOverride int

	// MaxFrames overrides DefaultMaxFrames. Zero means use the default.
	MaxFrames int
}

// NewConfig returns a Config seeded with the package defaults.
func NewConfig() Config {
	return Config{
		TileWidth:  DefaultTileWidth,
		TileHeight: DefaultTileHeight,
	}
}

// Validate rejects configurations that cannot produce a run: negative tile
// dimensions (zero selects the default), or negative frame/sample counts.
func (c Config) Validate() error {
	if c.TileWidth < 0 || c.TileHeight < 0 {
		return fmt.Errorf("denoise: negative tile size %dx%d", c.TileWidth, c.TileHeight)
	}
	if c.tileWidth() <= 0 || c.tileHeight() <= 0 {
		return fmt.Errorf("denoise: tile size must be positive, got %dx%d", c.tileWidth(), c.tileHeight())
	}
	if c.NeighborFrames < 0 {
		return fmt.Errorf("denoise: negative neighbor_frames %d", c.NeighborFrames)
	}
	if c.Radius < 0 {
		return fmt.Errorf("denoise: negative radius %d", c.Radius)
	}
	if c.SamplesOverride < 0 {
		return fmt.Errorf("denoise: negative samples_override %d", c.SamplesOverride)
	}
	if c.maxFrames() < 1 {
		return fmt.Errorf("denoise: max_frames must be at least 1, got %d", c.maxFrames())
	}
	return nil
}

func (c Config) tileWidth() int {
	if c.TileWidth == 0 {
		return DefaultTileWidth
	}
	return c.TileWidth
}

func (c Config) tileHeight() int {
	if c.TileHeight == 0 {
		return DefaultTileHeight
	}
	return c.TileHeight
}

func (c Config) maxFrames() int {
	if c.MaxFrames == 0 {
		return DefaultMaxFrames
	}
	return c.MaxFrames
}

// blurRadius is the effective intensity-blur half-window in pixels.
func (c Config) blurRadius() int { return c.Radius * 5 }

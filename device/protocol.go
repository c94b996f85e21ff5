package device

// TileCallbacks is the set of hooks a compute device calls back into while
// it works a task, mirroring the acquire/map/unmap/release cycle in spec.md
// §3. Implementations must be safe for concurrent use by the worker pool a
// Device runs internally.
type TileCallbacks interface {
	// AcquireTile returns the next unclaimed tile and true, or a zero Tile
	// and false once the queue is exhausted.
	AcquireTile() (Tile, bool)

	// MapNeighboringTiles synthesizes the 3x3 context neighborhood and
	// output tile around center, allocating and seeding the output buffer.
	MapNeighboringTiles(center Tile) (Neighborhood, error)

	// UnmapNeighboringTiles writes the neighborhood's output tile back to
	// its owning image and releases the output buffer. Called exactly once
	// per successful MapNeighboringTiles.
	UnmapNeighboringTiles(n Neighborhood) error

	// ReleaseTile tells the job that the device is finished with tile,
	// after its unmap (or after a failed map). Progress is counted at
	// AcquireTile, not here.
	ReleaseTile(tile Tile)

	// Cancelled reports whether the task should stop acquiring new tiles.
	// Checked by the device between tiles, never mid-tile.
	Cancelled() bool
}

// Job is the unit of work a Device executes: a task's callbacks plus the
// parameters describing how its input buffer is laid out.
type Job interface {
	TileCallbacks
	Params() DenoiseParams
}

// Device is the compute backend the denoiser core drives through Job. Only
// its calling protocol belongs to this module (spec.md §1a); the denoising
// kernel itself is supplied by whoever implements Device.
type Device interface {
	// TaskAdd submits job for execution. It may return before the job is
	// complete; TaskWait is the point at which completion is guaranteed.
	TaskAdd(job Job) error

	// TaskWait blocks until every job added via TaskAdd has finished,
	// returning the first error encountered, if any.
	TaskWait() error
}

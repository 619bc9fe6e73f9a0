package game

// Config holds game configuration options.
type Config struct {
	// Seed for the root junction. Used for reproducible network generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Profile names a generation profile from profiles.json.
	Profile string

	// GeneratePhysics enables collision primitives for built junctions.
	GeneratePhysics bool

	// PreloadWorkers bounds the background junction builders.
	PreloadWorkers int

	// CellSize is the world length covered by one terminal cell.
	CellSize float64
}

// DefaultConfig returns the standard game settings.
func DefaultConfig() Config {
	return Config{
		Profile:        "classic",
		PreloadWorkers: 4,
		CellSize:       40,
	}
}

package world

import (
	"github.com/samdwyer/tunneler/internal/gamedata"
	"github.com/samdwyer/tunneler/internal/geometry"
	"github.com/samdwyer/tunneler/internal/physics"
)

// Config holds the construction settings threaded into a Network.
type Config struct {
	// Connection count drawn from [MinConnections, MaxConnections).
	MinConnections int
	MaxConnections int

	// Child offset length drawn from [MinConnectionDistance, MaxConnectionDistance).
	MinConnectionDistance float64
	MaxConnectionDistance float64

	// OverlapDistance is the radius of the exclusion circle registered
	// around every accepted child.
	OverlapDistance float64

	// Average sub-shape radii.
	JunctionWidth float64
	SegmentWidth  float64

	// Junction sub-shape count drawn from [MinSubShapes, MaxSubShapes).
	MinSubShapes int
	MaxSubShapes int

	// Shaper selects the junction shape strategy ("simple" or "radial").
	Shaper string

	MinSegmentLength float64
	StaggerPasses    int
	StaggerDecay     float64

	// MaxShapeRetries caps the attempts made to attach one sub-shape.
	MaxShapeRetries int

	// MaxClutter is the exclusive upper bound of mobiles placed per segment.
	MaxClutter int

	GeneratePhysics bool
	PhysicsMaxBlock float64
	PhysicsMargin   float64
}

// DefaultConfig returns the standard construction settings.
func DefaultConfig() Config {
	return Config{
		MinConnections:        2,
		MaxConnections:        5,
		MinConnectionDistance: 2500,
		MaxConnectionDistance: 7500,
		OverlapDistance:       1000,
		JunctionWidth:         250,
		SegmentWidth:          100,
		MinSubShapes:          8,
		MaxSubShapes:          32,
		Shaper:                gamedata.ShaperSimple,
		MinSegmentLength:      200,
		StaggerPasses:         8,
		StaggerDecay:          geometry.DefaultFractalDecay,
		MaxShapeRetries:       geometry.DefaultMaxShapeRetries,
		MaxClutter:            20,
		GeneratePhysics:       false,
		PhysicsMaxBlock:       physics.DefaultMaxBlock,
		PhysicsMargin:         physics.DefaultMargin,
	}
}

// ConfigFromProfile applies a generation profile over the defaults. Zero
// fields in the profile keep their default value.
func ConfigFromProfile(p *gamedata.ProfileDef) Config {
	cfg := DefaultConfig()
	if p == nil {
		return cfg
	}

	if p.Shaper != "" {
		cfg.Shaper = p.Shaper
	}
	if p.MaxConnections > 0 {
		cfg.MinConnections = p.MinConnections
		cfg.MaxConnections = p.MaxConnections
	}
	if p.MaxConnectionDistance > 0 {
		cfg.MinConnectionDistance = p.MinConnectionDistance
		cfg.MaxConnectionDistance = p.MaxConnectionDistance
	}
	if p.OverlapDistance > 0 {
		cfg.OverlapDistance = p.OverlapDistance
	}
	if p.JunctionWidth > 0 {
		cfg.JunctionWidth = p.JunctionWidth
	}
	if p.SegmentWidth > 0 {
		cfg.SegmentWidth = p.SegmentWidth
	}
	if p.MinSegmentLength > 0 {
		cfg.MinSegmentLength = p.MinSegmentLength
	}
	if p.StaggerPasses > 0 {
		cfg.StaggerPasses = p.StaggerPasses
	}
	return cfg
}

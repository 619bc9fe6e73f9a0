package world

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tunneler/internal/entity"
	"github.com/samdwyer/tunneler/internal/gamedata"
	"github.com/samdwyer/tunneler/internal/geometry"
	"github.com/samdwyer/tunneler/internal/polygon"
	"github.com/samdwyer/tunneler/internal/telemetry"
)

// JunctionShaper computes a junction's internal shape from its stream.
type JunctionShaper interface {
	Create(ctx context.Context, j *Junction) (polygon.Polygon, error)
}

// SegmentBuilder builds the segment from child's parent to child, which
// sits at childOffset in the parent's frame. It draws from the parent's
// stream.
type SegmentBuilder interface {
	Create(ctx context.Context, child *Junction, childOffset orb.Point, parentDistance float64) (*Segment, error)
}

// Populator places clutter for an accepted segment. It runs while parent is
// being built, so it may draw from parent.Rand() but must not call parent's
// other methods. Positions are in the parent's frame.
type Populator interface {
	Populate(ctx context.Context, parent *Junction, seg *Segment) []entity.Mobile
}

// SimpleShaper grows a junction from a central sub-shape plus sub-shapes
// scattered on evenly spaced radials.
type SimpleShaper struct {
	Width        float64
	MinSubShapes int
	MaxSubShapes int
	MaxTries     int
}

// Create implements JunctionShaper.
func (s SimpleShaper) Create(ctx context.Context, j *Junction) (polygon.Polygon, error) {
	rng := j.Rand()
	shape := geometry.CreateShape(rng, orb.Point{}, s.Width)
	grower := geometry.Grower{Rng: rng, BaseRadius: s.Width, MaxTries: s.MaxTries}

	count := rng.Int(s.MinSubShapes, s.MaxSubShapes)
	for i := 0; i < count; i++ {
		length := rng.Float(0, s.Width)
		angle := 2 * math.Pi * float64(i) / float64(count)
		center := orb.Point{math.Cos(angle) * length, math.Sin(angle) * length}

		var err error
		shape, err = grower.Grow(ctx, shape, center)
		if err != nil {
			return polygon.Polygon{}, err
		}
	}
	return shape, nil
}

const (
	radialMinLength = 50.0
	radialMaxLength = 250.0
	radialReference = 250.0 // junction width the radial lengths are given for
)

// RadialShaper builds a single star-shaped polygon from radials of random
// length.
type RadialShaper struct {
	Width      float64
	MinRadials int
	MaxRadials int
}

// Create implements JunctionShaper.
func (s RadialShaper) Create(ctx context.Context, j *Junction) (polygon.Polygon, error) {
	rng := j.Rand()
	scale := s.Width / radialReference
	if scale <= 0 {
		scale = 1
	}

	count := rng.Int(s.MinRadials, s.MaxRadials)
	if count < 3 {
		count = 3
	}

	points := make([]orb.Point, count)
	for i := range points {
		length := rng.Float(radialMinLength, radialMaxLength) * scale
		angle := 2 * math.Pi * float64(i) / float64(count)
		points[i] = orb.Point{math.Cos(angle) * length, math.Sin(angle) * length}
	}
	return polygon.New(points...), nil
}

// SimpleSegmentBuilder staggers a straight line into a ragged centerline and
// grows the tunnel along it.
type SimpleSegmentBuilder struct {
	Width            float64
	MinSegmentLength float64
	Passes           int
	Decay            float64
	MaxTries         int
}

// Create implements SegmentBuilder.
func (b SimpleSegmentBuilder) Create(ctx context.Context, child *Junction, childOffset orb.Point, parentDistance float64) (*Segment, error) {
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "segment.create")
	defer span.End()

	startTime := time.Now()

	parent := child.Parent()
	if parent == nil {
		panic(fmt.Errorf("junction %d has no parent: %w", child.Handle(), ErrUnknownJunction))
	}
	rng := parent.Rand()

	points := geometry.Stagger([]orb.Point{{}, childOffset}, rng, b.MinSegmentLength, b.Decay, b.Passes)

	grower := geometry.Grower{Rng: rng, BaseRadius: b.Width, MaxTries: b.MaxTries}
	var shape polygon.Polygon
	for _, p := range points {
		var err error
		shape, err = grower.Grow(ctx, shape, p)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	line := NewCenterPointList(points)
	line.Optimize()

	span.SetAttributes(
		attribute.Int("segment.staggered_points", len(points)),
		attribute.Int("segment.center_points", len(line)),
		attribute.Int("segment.shape_points", shape.PointCount()),
		attribute.Float64("segment.length", line.MaxRelativeDistance()),
		attribute.Int64("segment.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return &Segment{
		Parent:        parent.Handle(),
		Child:         child.Handle(),
		ChildOffset:   childOffset,
		Shape:         shape,
		CenterPoints:  line,
		StartDistance: parentDistance,
		EndDistance:   parentDistance + line.MaxRelativeDistance(),
	}, nil
}

// ClutterPopulator scatters weighted clutter inside the child junction of
// each accepted segment.
type ClutterPopulator struct {
	Registry *gamedata.ClutterRegistry
	MaxCount int
}

// Populate implements Populator.
func (c ClutterPopulator) Populate(ctx context.Context, parent *Junction, seg *Segment) []entity.Mobile {
	if c.Registry == nil || c.Registry.Count() == 0 {
		return nil
	}
	child, ok := parent.net.Lookup(seg.Child)
	if !ok {
		return nil
	}
	shape, err := child.InternalShape(ctx)
	if err != nil || shape.IsEmpty() {
		return nil
	}

	rng := parent.Rand()
	count := rng.Int(0, c.MaxCount)
	mobiles := make([]entity.Mobile, 0, count)

	for i := 0; i < count; i++ {
		// Somewhere between the child's centre and one of its vertices.
		vertex := shape.Point(rng.Int(0, shape.PointCount()))
		weight := rng.Float(0.1, 0.9)
		def := c.Registry.SpawnRandom(rng)
		radius := rng.Float(def.MinRadius, def.MaxRadius)

		point := orb.Point{
			seg.ChildOffset[0] + vertex[0]*weight,
			seg.ChildOffset[1] + vertex[1]*weight,
		}
		mobiles = append(mobiles, entity.NewMobile(def, point, radius))
	}
	return mobiles
}

// NoClutter is a Populator that places nothing.
type NoClutter struct{}

// Populate implements Populator.
func (NoClutter) Populate(context.Context, *Junction, *Segment) []entity.Mobile {
	return nil
}

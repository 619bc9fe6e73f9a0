package world

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tunneler/internal/entity"
	"github.com/samdwyer/tunneler/internal/geometry"
	"github.com/samdwyer/tunneler/internal/physics"
	"github.com/samdwyer/tunneler/internal/polygon"
	"github.com/samdwyer/tunneler/internal/random"
	"github.com/samdwyer/tunneler/internal/telemetry"
)

var (
	// ErrNegativeDistance is the panic payload for a negative distance.
	ErrNegativeDistance = errors.New("cannot set a negative distance")
	// ErrReentrantBuild is the panic payload when BuildConnections is
	// re-entered for a junction that is already being built.
	ErrReentrantBuild = errors.New("building connections is not reentrant")
	// ErrMissingSegment is the panic payload when a parent has no segment
	// leading to one of its children.
	ErrMissingSegment = errors.New("parent has no segment to child")
	// ErrUnknownJunction is the panic payload for a handle that is not part
	// of the network.
	ErrUnknownJunction = errors.New("unknown junction")
	// ErrShapeAlreadyBuilt is the panic payload when an internal shape is
	// overridden after it was built or set.
	ErrShapeAlreadyBuilt = errors.New("internal shape already built")
)

// State is the construction state of a junction.
type State int

const (
	// StateUnbuilt is a junction with nothing computed.
	StateUnbuilt State = iota
	// StateShapeBuilt is a junction with its internal shape fixed.
	StateShapeBuilt
	// StateConnectionsBuilt is a junction with its segments and children.
	StateConnectionsBuilt
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateShapeBuilt:
		return "shape-built"
	case StateConnectionsBuilt:
		return "connections-built"
	default:
		return "unknown"
	}
}

// Junction is a seeded room in the tunnel network. Its centre is the origin
// of its own coordinate frame.
type Junction struct {
	net    *Network
	handle Handle
	parent Handle
	seed   int64
	rng    *random.Random

	mu       sync.Mutex
	state    State
	internal polygon.Polygon
	combined *polygon.Polygon
	inbound  polygon.Polygon // parent's internal shape, in the parent's frame
	segments []*Segment
	distance float64
	mobiles  []entity.Mobile
	physics  []physics.Primitive
}

func newJunction(n *Network, h, parent Handle, seed int64) *Junction {
	return &Junction{
		net:    n,
		handle: h,
		parent: parent,
		seed:   seed,
		rng:    random.New(seed),
	}
}

// Handle returns the junction's handle.
func (j *Junction) Handle() Handle {
	return j.handle
}

// Seed returns the seed of the junction's stream.
func (j *Junction) Seed() int64 {
	return j.seed
}

// ParentHandle returns the parent's handle, or NoHandle for the root.
func (j *Junction) ParentHandle() Handle {
	return j.parent
}

// Parent returns the parent junction, or nil for the root.
func (j *Junction) Parent() *Junction {
	if j.parent == NoHandle {
		return nil
	}
	return j.net.Junction(j.parent)
}

// Rand returns the junction's stream. Only construction strategies running
// inside this junction's build may draw from it.
func (j *Junction) Rand() *random.Random {
	return j.rng
}

// State returns the construction state.
func (j *Junction) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// HasBuiltConnections reports whether the segments have been built.
func (j *Junction) HasBuiltConnections() bool {
	return j.State() == StateConnectionsBuilt
}

// Distance returns the path length from the root to this junction.
func (j *Junction) Distance() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.distance
}

// SetDistance sets the path length from the root. It panics with
// ErrNegativeDistance for a negative value.
func (j *Junction) SetDistance(d float64) {
	if d < 0 {
		panic(fmt.Errorf("junction %d distance %g: %w", j.handle, d, ErrNegativeDistance))
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.distance = d
}

// Reset discards everything built for the junction, releases the junctions
// spawned beneath it and rewinds its stream to the original seed.
func (j *Junction) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.resetLocked()
}

func (j *Junction) resetLocked() {
	j.net.releaseChildren(j.handle)

	j.state = StateUnbuilt
	j.internal = polygon.Polygon{}
	j.combined = nil
	j.inbound = polygon.Polygon{}
	j.segments = nil
	j.mobiles = nil
	j.physics = nil
	j.rng.Reset()
}

// BuildShape computes the internal shape. It does nothing if the shape is
// already built.
func (j *Junction) BuildShape(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.buildShapeLocked(ctx)
}

func (j *Junction) buildShapeLocked(ctx context.Context) error {
	if j.state >= StateShapeBuilt {
		return nil
	}

	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "junction.build_shape")
	defer span.End()

	startTime := time.Now()

	shape, err := j.net.shaper.Create(ctx, j)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("junction %d shape: %w", j.handle, err)
	}
	j.internal = shape
	j.state = StateShapeBuilt

	span.SetAttributes(
		attribute.Int("junction.handle", int(j.handle)),
		attribute.Int64("junction.seed", j.seed),
		attribute.Int("junction.points", shape.PointCount()),
		attribute.Int64("junction.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

// InternalShape returns the junction's own shape, building it if needed.
func (j *Junction) InternalShape(ctx context.Context) (polygon.Polygon, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.buildShapeLocked(ctx); err != nil {
		return polygon.Polygon{}, err
	}
	return j.internal, nil
}

// SetInternalShape replaces the shaper's result for an unbuilt junction.
// It panics with ErrShapeAlreadyBuilt once the shape exists.
func (j *Junction) SetInternalShape(shape polygon.Polygon) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state >= StateShapeBuilt {
		panic(fmt.Errorf("junction %d: %w", j.handle, ErrShapeAlreadyBuilt))
	}
	j.internal = shape
	j.state = StateShapeBuilt
}

type buildingKey struct{}

// building is the chain of junctions whose connections are being built on
// the current call path.
type building struct {
	handle Handle
	next   *building
}

func isBuilding(ctx context.Context, h Handle) bool {
	b, _ := ctx.Value(buildingKey{}).(*building)
	for ; b != nil; b = b.next {
		if b.handle == h {
			return true
		}
	}
	return false
}

func withBuilding(ctx context.Context, h Handle) context.Context {
	b, _ := ctx.Value(buildingKey{}).(*building)
	return context.WithValue(ctx, buildingKey{}, &building{handle: h, next: b})
}

// BuildConnections builds the junction's segments and child junctions. It
// does nothing if they are already built. The parent's connections are
// built first. Concurrent callers block until the first build finishes;
// re-entering the build for the same junction on one call path panics with
// ErrReentrantBuild.
func (j *Junction) BuildConnections(ctx context.Context) error {
	if isBuilding(ctx, j.handle) {
		panic(fmt.Errorf("junction %d: %w", j.handle, ErrReentrantBuild))
	}
	ctx = withBuilding(ctx, j.handle)

	// Everything needed from the parent is read before locking j, so locks
	// are only ever taken parent first.
	var in *Segment
	var parentShape polygon.Polygon
	if parent := j.Parent(); parent != nil {
		if err := parent.BuildConnections(ctx); err != nil {
			return err
		}
		if in = parent.SegmentTo(j.handle); in == nil {
			panic(fmt.Errorf("junction %d: %w", j.handle, ErrMissingSegment))
		}
		var err error
		if parentShape, err = parent.InternalShape(ctx); err != nil {
			return err
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state == StateConnectionsBuilt {
		return nil
	}
	return j.buildConnectionsLocked(ctx, in, parentShape)
}

func (j *Junction) buildConnectionsLocked(ctx context.Context, in *Segment, parentShape polygon.Polygon) error {
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "junction.build_connections")
	defer span.End()

	startTime := time.Now()

	// The shape comes first so the stream order never depends on callers.
	if err := j.buildShapeLocked(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	cfg := j.net.cfg
	var overlaps []polygon.Polygon

	if in != nil {
		in = in.Swap()
		j.segments = append(j.segments, in)
		j.inbound = parentShape
		overlaps = append(overlaps, geometry.CreateCircle(in.ChildOffset, cfg.OverlapDistance))
	}

	target := j.rng.Int(cfg.MinConnections, cfg.MaxConnections)
	accepted, rejected := 0, 0

	for i := 0; i < target; i++ {
		angle := j.rng.Float(0, 2*math.Pi)
		length := j.rng.Float(cfg.MinConnectionDistance, cfg.MaxConnectionDistance)
		offset := orb.Point{math.Cos(angle) * length, math.Sin(angle) * length}

		child := j.net.spawn(j.rng.NextSeed(), j.handle)
		seg, footprint, err := j.connect(ctx, child, offset)
		if err != nil && !errors.Is(err, geometry.ErrShapeRetriesExhausted) {
			// Anything but degenerate geometry leaves the stream half
			// consumed, so start over from the seed next time.
			span.RecordError(err)
			j.resetLocked()
			return err
		}
		if err != nil {
			telemetry.Warn(ctx, "candidate could not be shaped", err,
				attribute.Int("junction.candidate", i))
			j.net.release(child.handle)
			rejected++
			continue
		}

		if overlapsAny(overlaps, footprint) {
			telemetry.Warn(ctx, "candidate overlaps", nil,
				attribute.Int("junction.candidate", i))
			j.net.release(child.handle)
			rejected++
			continue
		}
		overlaps = append(overlaps, geometry.CreateCircle(offset, cfg.OverlapDistance))

		j.mobiles = append(j.mobiles, j.net.populator.Populate(ctx, j, seg)...)
		j.segments = append(j.segments, seg)
		accepted++
	}

	j.state = StateConnectionsBuilt
	j.combined = nil

	if cfg.GeneratePhysics {
		shape, err := j.combinedLocked(ctx)
		if err != nil {
			span.RecordError(err)
			return err
		}
		sink := &physics.Collector{}
		physics.Decompose(ctx, shape, physics.Options{
			Margin:   cfg.PhysicsMargin,
			MaxBlock: cfg.PhysicsMaxBlock,
		}, sink)
		j.physics = sink.Primitives()
	}

	span.SetAttributes(
		attribute.String("network.id", j.net.id.String()),
		attribute.Int("junction.handle", int(j.handle)),
		attribute.Int64("junction.seed", j.seed),
		attribute.Int("junction.connections_target", target),
		attribute.Int("junction.accepted", accepted),
		attribute.Int("junction.rejected", rejected),
		attribute.Int("junction.mobiles", len(j.mobiles)),
		attribute.Int("junction.physics_shapes", len(j.physics)),
		attribute.Int64("junction.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}

// connect shapes a candidate child and the segment leading to it. It
// returns the segment and the footprint used for overlap tests.
func (j *Junction) connect(ctx context.Context, child *Junction, offset orb.Point) (*Segment, polygon.Polygon, error) {
	childShape, err := child.InternalShape(ctx)
	if err != nil {
		return nil, polygon.Polygon{}, err
	}

	seg, err := j.net.segments.Create(ctx, child, offset, j.distance)
	if err != nil {
		return nil, polygon.Polygon{}, fmt.Errorf("segment to junction %d: %w", child.handle, err)
	}
	seg.Parent = j.handle
	seg.Child = child.handle
	seg.ChildOffset = offset

	child.SetDistance(seg.EndDistance)

	return seg, seg.footprint(childShape), nil
}

func overlapsAny(overlaps []polygon.Polygon, shape polygon.Polygon) bool {
	for _, o := range overlaps {
		if o.HasIntersection(shape) {
			return true
		}
	}
	return false
}

// SegmentTo returns the segment whose child is h, or nil. It does not build
// anything.
func (j *Junction) SegmentTo(h Handle) *Segment {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, s := range j.segments {
		if s.Child == h {
			return s
		}
	}
	return nil
}

// Segments returns the junction's segments, building them if needed. When
// the junction has a parent, the first segment leads back to it.
func (j *Junction) Segments(ctx context.Context) ([]*Segment, error) {
	if err := j.BuildConnections(ctx); err != nil {
		return nil, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*Segment, len(j.segments))
	copy(out, j.segments)
	return out, nil
}

// outbound returns the built segments leading to children.
func (j *Junction) outbound() []*Segment {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*Segment
	for _, s := range j.segments {
		if s.Child != j.parent {
			out = append(out, s)
		}
	}
	return out
}

// CenterPoints returns the centre points of every segment in order.
func (j *Junction) CenterPoints(ctx context.Context) ([]CenterPoint, error) {
	segments, err := j.Segments(ctx)
	if err != nil {
		return nil, err
	}
	var out []CenterPoint
	for _, s := range segments {
		out = append(out, s.CenterPoints...)
	}
	return out, nil
}

// Shape returns the union of the junction, its segments and the junctions
// at their far ends, building connections if needed.
func (j *Junction) Shape(ctx context.Context) (polygon.Polygon, error) {
	if err := j.BuildConnections(ctx); err != nil {
		return polygon.Polygon{}, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.combinedLocked(ctx)
}

func (j *Junction) combinedLocked(ctx context.Context) (polygon.Polygon, error) {
	if j.combined != nil {
		return *j.combined, nil
	}

	shape := j.internal.Duplicate()
	for _, s := range j.segments {
		childShape := j.inbound
		if s.Child != j.parent {
			var err error
			if childShape, err = j.net.Junction(s.Child).InternalShape(ctx); err != nil {
				return polygon.Polygon{}, err
			}
		}
		shape = shape.Union(s.Shape)
		shape = shape.Union(childShape.Translate(s.ChildOffset[0], s.ChildOffset[1]))
	}

	j.combined = &shape
	return shape, nil
}

// CalculateDistance returns the shortest path length from the root to point,
// given in this junction's frame, through this junction or one of the
// junctions it connects to.
func (j *Junction) CalculateDistance(ctx context.Context, point orb.Point) (float64, error) {
	segments, err := j.Segments(ctx)
	if err != nil {
		return 0, err
	}

	dis := geometry.Distance(orb.Point{}, point) + j.Distance()
	for _, s := range segments {
		d := geometry.Distance(s.ChildOffset, point) + j.net.Junction(s.Child).Distance()
		dis = math.Min(dis, d)
	}
	return dis, nil
}

// Mobiles returns the clutter placed while building connections.
func (j *Junction) Mobiles() []entity.Mobile {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]entity.Mobile, len(j.mobiles))
	copy(out, j.mobiles)
	return out
}

// PhysicsShapes returns the collision primitives, building connections if
// needed. It is empty unless the network generates physics.
func (j *Junction) PhysicsShapes(ctx context.Context) ([]physics.Primitive, error) {
	if err := j.BuildConnections(ctx); err != nil {
		return nil, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.physics, nil
}

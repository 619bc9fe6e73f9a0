// Package physics decomposes the solid rock around a junction into simple
// immobile collision primitives for an external physics engine.
package physics

import (
	"context"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tunneler/internal/geometry"
	"github.com/samdwyer/tunneler/internal/polygon"
	"github.com/samdwyer/tunneler/internal/telemetry"
)

const (
	// DefaultMargin is how far the rock rectangle extends past the shape.
	DefaultMargin = 10.0
	// DefaultMaxBlock is the largest side a single primitive may span.
	DefaultMaxBlock = 500.0
	// DefaultMaxDepth bounds the quad-split recursion.
	DefaultMaxDepth = 12

	// solidTolerance is the area difference under which a 4-point region is
	// treated as a plain rectangle.
	solidTolerance = 0.1
)

// Primitive is a position-free polygon handed to the physics engine.
type Primitive struct {
	Vertices []orb.Point
	Immobile bool // infinite mass
	Solid    bool // plain axis-aligned rectangle
}

// Area returns the area enclosed by the primitive's vertices.
func (p Primitive) Area() float64 {
	return polygon.New(p.Vertices...).Area()
}

// Sink receives primitives as they are produced.
type Sink interface {
	Add(p Primitive)
}

// Collector is a Sink that keeps every primitive in memory. It is safe for
// concurrent use.
type Collector struct {
	mu         sync.Mutex
	primitives []Primitive
}

// Add stores a primitive.
func (c *Collector) Add(p Primitive) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.primitives = append(c.primitives, p)
}

// Primitives returns a copy of the collected primitives.
func (c *Collector) Primitives() []Primitive {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Primitive, len(c.primitives))
	copy(out, c.primitives)
	return out
}

// Len returns the number of collected primitives.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.primitives)
}

// Options controls the decomposition.
type Options struct {
	Margin   float64
	MaxBlock float64
	MaxDepth int
}

// DefaultOptions returns the standard decomposition settings.
func DefaultOptions() Options {
	return Options{
		Margin:   DefaultMargin,
		MaxBlock: DefaultMaxBlock,
		MaxDepth: DefaultMaxDepth,
	}
}

// Decompose computes the inverse of shape inside its inflated bounding
// rectangle and emits it to sink as convex-ish blocks. Regions with several
// contours or wider than MaxBlock are split into quadrants recursively. It
// returns the number of primitives emitted.
func Decompose(ctx context.Context, shape polygon.Polygon, opts Options, sink Sink) int {
	tracer := telemetry.Tracer("physics")
	ctx, span := tracer.Start(ctx, "physics.decompose")
	defer span.End()

	startTime := time.Now()

	if shape.IsEmpty() {
		return 0
	}
	if opts.MaxBlock <= 0 {
		opts.MaxBlock = DefaultMaxBlock
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	bounds := shape.Bounds().Pad(opts.Margin)
	inverse := shape.Xor(geometry.CreateRectangle(bounds))

	d := decomposer{ctx: ctx, opts: opts, sink: sink}
	d.split(0, inverse, bounds)

	span.SetAttributes(
		attribute.Int("physics.primitives", d.count),
		attribute.Int("physics.max_depth", d.deepest),
		attribute.Int64("physics.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return d.count
}

type decomposer struct {
	ctx     context.Context
	opts    Options
	sink    Sink
	count   int
	deepest int
}

// split emits poly, which lies within bounds, or divides it into quadrants.
func (d *decomposer) split(depth int, poly polygon.Polygon, bounds orb.Bound) {
	if poly.IsEmpty() {
		return
	}
	if depth > d.deepest {
		d.deepest = depth
	}

	width := bounds.Max[0] - bounds.Min[0]
	height := bounds.Max[1] - bounds.Min[1]

	if poly.ContourCount() == 1 {
		if poly.IsHole() {
			return
		}
		if poly.PointCount() == 4 && boundArea(poly.Bounds())-poly.Area() <= solidTolerance {
			d.emit(poly, true)
			return
		}
	}

	if poly.ContourCount() > 1 || width > d.opts.MaxBlock || height > d.opts.MaxBlock {
		if depth < d.opts.MaxDepth {
			for row := 0; row < 2; row++ {
				for col := 0; col < 2; col++ {
					d.quadrant(depth+1, poly, bounds, row, col)
				}
			}
			return
		}
		telemetry.Warn(d.ctx, "split depth exhausted", nil,
			attribute.Int("physics.contours", poly.ContourCount()))
	}

	for i := 0; i < poly.ContourCount(); i++ {
		if !poly.IsHoleAt(i) {
			d.emit(poly.Contour(i), false)
		}
	}
}

// quadrant clips poly to one quarter of bounds and processes the result.
func (d *decomposer) quadrant(depth int, poly polygon.Polygon, bounds orb.Bound, row, col int) {
	w := (bounds.Max[0] - bounds.Min[0]) / 2
	h := (bounds.Max[1] - bounds.Min[1]) / 2
	min := orb.Point{bounds.Min[0] + float64(col)*w, bounds.Min[1] + float64(row)*h}
	rect := orb.Bound{Min: min, Max: orb.Point{min[0] + w, min[1] + h}}

	d.split(depth, geometry.CreateRectangle(rect).Intersection(poly), rect)
}

func boundArea(b orb.Bound) float64 {
	return (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1])
}

func (d *decomposer) emit(poly polygon.Polygon, solid bool) {
	d.sink.Add(Primitive{
		Vertices: poly.Points(),
		Immobile: true,
		Solid:    solid,
	})
	d.count++
}

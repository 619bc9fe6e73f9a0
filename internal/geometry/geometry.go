// Package geometry provides the shape builders and fractal path tools used
// to carve junctions and segments.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/samdwyer/tunneler/internal/polygon"
	"github.com/samdwyer/tunneler/internal/random"
)

const (
	// CircleSides is the number of sides used to approximate a circle.
	CircleSides = 32

	minShapeVertices = 3
	maxShapeVertices = 7 // exclusive
)

// Distance returns the Euclidean distance between two points.
func Distance(p1, p2 orb.Point) float64 {
	return planar.Distance(p1, p2)
}

// CreateShape builds a convex polygon of 3-6 vertices around center. The
// radius is baseRadius scaled by a random factor in [0.5, 1.5) and the
// vertices are evenly spaced from a random starting angle.
func CreateShape(rng *random.Random, center orb.Point, baseRadius float64) polygon.Polygon {
	radius := baseRadius * rng.Float(0.5, 1.5)
	count := rng.Int(minShapeVertices, maxShapeVertices)
	angle := rng.Float(0, 2*math.Pi)

	points := make([]orb.Point, count)
	for i := range points {
		points[i] = orb.Point{
			center[0] + math.Cos(angle)*radius,
			center[1] + math.Sin(angle)*radius,
		}
		angle += 2 * math.Pi / float64(count)
	}
	return polygon.New(points...)
}

// CreateCircle approximates a circle with a regular 32-sided polygon. It is
// meant for exclusion tests, not for display.
func CreateCircle(center orb.Point, radius float64) polygon.Polygon {
	points := make([]orb.Point, CircleSides)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / CircleSides
		points[i] = orb.Point{
			center[0] + math.Cos(angle)*radius,
			center[1] + math.Sin(angle)*radius,
		}
	}
	return polygon.New(points...)
}

// CreateRectangle builds the 4-point rectangle covering bounds, always wound
// counter-clockwise starting from the minimum corner.
func CreateRectangle(bounds orb.Bound) polygon.Polygon {
	return polygon.New(
		orb.Point{bounds.Min[0], bounds.Min[1]},
		orb.Point{bounds.Max[0], bounds.Min[1]},
		orb.Point{bounds.Max[0], bounds.Max[1]},
		orb.Point{bounds.Min[0], bounds.Max[1]},
	)
}

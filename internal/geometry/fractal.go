package geometry

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/random"
)

// DefaultFractalDecay is the fraction of a segment's length used as the
// maximum perpendicular displacement of its midpoint.
const DefaultFractalDecay = 0.2

// StaggerPoints performs one midpoint-displacement pass. Every adjacent pair
// further apart than minSegmentLength gets a new point at its midpoint,
// displaced perpendicular to the pair by a random offset in
// [-decay*dist, decay*dist). The returned bool is false if no pair was split,
// in which case the input slice is returned unchanged.
func StaggerPoints(points []orb.Point, rng *random.Random, minSegmentLength, decay float64) ([]orb.Point, bool) {
	if len(points) < 2 {
		return points, false
	}

	out := make([]orb.Point, 0, len(points)*2)
	changed := false

	for i := 0; i < len(points)-1; i++ {
		p1, p2 := points[i], points[i+1]
		out = append(out, p1)

		dist := Distance(p1, p2)
		if dist <= minSegmentLength {
			continue
		}

		mid := orb.Point{(p1[0] + p2[0]) / 2, (p1[1] + p2[1]) / 2}
		delta := dist * decay
		diff := rng.Float(-delta, delta)

		dx := p2[0] - p1[0]
		dy := p2[1] - p1[1]

		switch {
		case dy == 0:
			mid[1] += diff
		case dx == 0:
			mid[0] += diff
		default:
			theta := math.Atan2(dy, dx) - math.Pi/2
			mid[0] += diff * math.Cos(theta)
			mid[1] += diff * math.Sin(theta)
		}

		out = append(out, mid)
		changed = true
	}
	out = append(out, points[len(points)-1])

	if !changed {
		return points, false
	}
	return out, true
}

// Stagger repeats StaggerPoints for up to passes iterations, stopping early
// once a pass splits nothing.
func Stagger(points []orb.Point, rng *random.Random, minSegmentLength, decay float64, passes int) []orb.Point {
	for i := 0; i < passes; i++ {
		var changed bool
		points, changed = StaggerPoints(points, rng, minSegmentLength, decay)
		if !changed {
			break
		}
	}
	return points
}

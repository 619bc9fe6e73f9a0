// Package polygon implements the 2-D polygon algebra used to build tunnel
// geometry: boolean operations, translation, hole detection and measurement
// of polygons made of one or more closed contours.
package polygon

import (
	"math"

	"github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Polygon is one or more closed contours, some of which may be holes.
// Polygons are values: boolean operations, Translate and Duplicate all
// return new polygons and never modify their receivers.
type Polygon struct {
	contours polyclip.Polygon
	holes    []bool
}

// New creates a single-contour polygon from the given vertices. The contour
// is closed implicitly; a repeated closing vertex is dropped.
func New(points ...orb.Point) Polygon {
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) == 0 {
		return Polygon{}
	}

	c := make(polyclip.Contour, 0, len(points))
	for _, p := range points {
		c = append(c, polyclip.Point{X: p[0], Y: p[1]})
	}
	return Polygon{
		contours: polyclip.Polygon{c},
		holes:    []bool{false},
	}
}

// fromClip wraps the result of a clipping operation, classifying each
// contour as an outer boundary or a hole by nesting depth.
func fromClip(pc polyclip.Polygon) Polygon {
	out := make(polyclip.Polygon, 0, len(pc))
	for _, c := range pc {
		if len(c) >= 3 {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return Polygon{}
	}

	p := Polygon{contours: out, holes: make([]bool, len(out))}
	rings := p.Rings()
	for i := range rings {
		probe, ok := interiorPoint(rings[i])
		if !ok {
			continue
		}
		depth := 0
		for j := range rings {
			if j != i && planar.RingContains(rings[j], probe) {
				depth++
			}
		}
		p.holes[i] = depth%2 == 1
	}
	return p
}

// interiorPoint returns a point just inside the ring next to its first
// non-degenerate edge.
func interiorPoint(r orb.Ring) (orb.Point, bool) {
	sign := 1.0
	if r.Orientation() == orb.CW {
		sign = -1.0
	}
	for i := 0; i+1 < len(r); i++ {
		dx := r[i+1][0] - r[i][0]
		dy := r[i+1][1] - r[i][1]
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		eps := 1e-6 * length
		mx := (r[i][0] + r[i+1][0]) / 2
		my := (r[i][1] + r[i+1][1]) / 2
		// Interior is to the left of a counter-clockwise edge.
		return orb.Point{mx - sign*dy/length*eps, my + sign*dx/length*eps}, true
	}
	return orb.Point{}, false
}

// IsEmpty returns true if the polygon has no contours.
func (p Polygon) IsEmpty() bool {
	return len(p.contours) == 0
}

// ContourCount returns the number of contours, holes included.
func (p Polygon) ContourCount() int {
	return len(p.contours)
}

// OuterCount returns the number of contours that are not holes.
func (p Polygon) OuterCount() int {
	n := 0
	for _, h := range p.holes {
		if !h {
			n++
		}
	}
	return n
}

// PointCount returns the total number of vertices over all contours.
func (p Polygon) PointCount() int {
	n := 0
	for _, c := range p.contours {
		n += len(c)
	}
	return n
}

// Contour returns contour i as a single-contour polygon that keeps its
// hole classification.
func (p Polygon) Contour(i int) Polygon {
	return Polygon{
		contours: polyclip.Polygon{p.contours[i].Clone()},
		holes:    []bool{p.holes[i]},
	}
}

// IsHoleAt returns true if contour i is a hole.
func (p Polygon) IsHoleAt(i int) bool {
	return p.holes[i]
}

// IsHole returns true if the polygon is non-empty and every contour is a hole.
func (p Polygon) IsHole() bool {
	if p.IsEmpty() {
		return false
	}
	for _, h := range p.holes {
		if !h {
			return false
		}
	}
	return true
}

// Point returns vertex i, counting across contours in order.
func (p Polygon) Point(i int) orb.Point {
	for _, c := range p.contours {
		if i < len(c) {
			return orb.Point{c[i].X, c[i].Y}
		}
		i -= len(c)
	}
	panic("polygon: point index out of range")
}

// Points returns every vertex, contour by contour.
func (p Polygon) Points() []orb.Point {
	pts := make([]orb.Point, 0, p.PointCount())
	for _, c := range p.contours {
		for _, v := range c {
			pts = append(pts, orb.Point{v.X, v.Y})
		}
	}
	return pts
}

// Rings returns each contour as a closed orb ring.
func (p Polygon) Rings() []orb.Ring {
	rings := make([]orb.Ring, 0, len(p.contours))
	for _, c := range p.contours {
		r := make(orb.Ring, 0, len(c)+1)
		for _, v := range c {
			r = append(r, orb.Point{v.X, v.Y})
		}
		if len(r) > 0 {
			r = append(r, r[0])
		}
		rings = append(rings, r)
	}
	return rings
}

// Bounds returns the axis-aligned bounding box. An empty polygon has a
// zero bound.
func (p Polygon) Bounds() orb.Bound {
	rings := p.Rings()
	if len(rings) == 0 {
		return orb.Bound{}
	}
	b := rings[0].Bound()
	for _, r := range rings[1:] {
		b = b.Union(r.Bound())
	}
	return b
}

// Area returns the filled area: outer contours count positively and holes
// negatively.
func (p Polygon) Area() float64 {
	area := 0.0
	for i, r := range p.Rings() {
		a := math.Abs(planar.Area(r))
		if p.holes[i] {
			area -= a
		} else {
			area += a
		}
	}
	return area
}

// Contains returns true if the point lies in the filled region (even-odd
// over all contours).
func (p Polygon) Contains(pt orb.Point) bool {
	inside := false
	for _, r := range p.Rings() {
		if planar.RingContains(r, pt) {
			inside = !inside
		}
	}
	return inside
}

// Translate returns a copy of the polygon moved by (dx, dy).
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := p.Duplicate()
	for _, c := range out.contours {
		for i := range c {
			c[i].X += dx
			c[i].Y += dy
		}
	}
	return out
}

// Duplicate returns a deep copy of the polygon.
func (p Polygon) Duplicate() Polygon {
	if p.IsEmpty() {
		return Polygon{}
	}
	holes := make([]bool, len(p.holes))
	copy(holes, p.holes)
	return Polygon{contours: p.contours.Clone(), holes: holes}
}

// Equal returns true if both polygons have identical contours.
func (p Polygon) Equal(q Polygon) bool {
	if len(p.contours) != len(q.contours) {
		return false
	}
	for i := range p.contours {
		if len(p.contours[i]) != len(q.contours[i]) {
			return false
		}
		for j := range p.contours[i] {
			if p.contours[i][j] != q.contours[i][j] {
				return false
			}
		}
	}
	return true
}

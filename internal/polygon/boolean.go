package polygon

import (
	"github.com/ctessum/polyclip-go"
)

// areaEpsilon is the area below which an intersection is treated as
// touching rather than overlapping.
const areaEpsilon = 1e-6

// Union returns the region covered by either polygon.
func (p Polygon) Union(q Polygon) Polygon {
	switch {
	case q.IsEmpty():
		return p.Duplicate()
	case p.IsEmpty():
		return q.Duplicate()
	case p.Equal(q):
		return p.Duplicate()
	}
	return fromClip(p.contours.Construct(polyclip.UNION, q.contours))
}

// Intersection returns the region covered by both polygons.
func (p Polygon) Intersection(q Polygon) Polygon {
	switch {
	case p.IsEmpty() || q.IsEmpty():
		return Polygon{}
	case p.Equal(q):
		return p.Duplicate()
	case !p.Bounds().Intersects(q.Bounds()):
		return Polygon{}
	}
	return fromClip(p.contours.Construct(polyclip.INTERSECTION, q.contours))
}

// Xor returns the region covered by exactly one of the polygons.
func (p Polygon) Xor(q Polygon) Polygon {
	switch {
	case q.IsEmpty():
		return p.Duplicate()
	case p.IsEmpty():
		return q.Duplicate()
	case p.Equal(q):
		return Polygon{}
	}
	return fromClip(p.contours.Construct(polyclip.XOR, q.contours))
}

// Difference returns the region of p not covered by q.
func (p Polygon) Difference(q Polygon) Polygon {
	switch {
	case p.IsEmpty() || p.Equal(q):
		return Polygon{}
	case q.IsEmpty():
		return p.Duplicate()
	}
	return fromClip(p.contours.Construct(polyclip.DIFFERENCE, q.contours))
}

// HasIntersection returns true if the polygons overlap with a non-zero area.
func (p Polygon) HasIntersection(q Polygon) bool {
	if p.IsEmpty() || q.IsEmpty() || !p.Bounds().Intersects(q.Bounds()) {
		return false
	}
	return p.Intersection(q).Area() > areaEpsilon
}

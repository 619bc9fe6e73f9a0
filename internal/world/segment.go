package world

import (
	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/polygon"
)

// Segment is the tunnel connecting a parent junction to a child junction.
// Shape and CenterPoints are expressed relative to the parent's centre.
type Segment struct {
	Parent      Handle
	Child       Handle
	ChildOffset orb.Point // child centre relative to the parent centre

	Shape        polygon.Polygon
	CenterPoints CenterPointList

	// Distances from the root at the parent and child ends.
	StartDistance float64
	EndDistance   float64
}

// Swap returns the same tunnel seen from the child: parent and child are
// exchanged, the shape is translated to the child's frame and the
// centerline runs from the child back to the parent.
func (s *Segment) Swap() *Segment {
	dx, dy := -s.ChildOffset[0], -s.ChildOffset[1]

	line := make(CenterPointList, len(s.CenterPoints))
	for i, cp := range s.CenterPoints {
		line[i].Point = orb.Point{cp.Point[0] + dx, cp.Point[1] + dy}
	}

	return &Segment{
		Parent:        s.Child,
		Child:         s.Parent,
		ChildOffset:   orb.Point{dx, dy},
		Shape:         s.Shape.Translate(dx, dy),
		CenterPoints:  line.Reverse(),
		StartDistance: s.EndDistance,
		EndDistance:   s.StartDistance,
	}
}

// Length returns the centerline length.
func (s *Segment) Length() float64 {
	return s.CenterPoints.MaxRelativeDistance()
}

// footprint is the area claimed by the segment and the junction at its end.
func (s *Segment) footprint(childShape polygon.Polygon) polygon.Polygon {
	return childShape.Translate(s.ChildOffset[0], s.ChildOffset[1]).Union(s.Shape)
}

package world

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/geometry"
)

// CenterPoint is a point on a segment's centerline together with the path
// length from the start of the line.
type CenterPoint struct {
	Point            orb.Point
	RelativeDistance float64
}

// CenterPointList is an ordered centerline.
type CenterPointList []CenterPoint

// NewCenterPointList builds a centerline through points with cumulative
// Euclidean distances.
func NewCenterPointList(points []orb.Point) CenterPointList {
	l := make(CenterPointList, len(points))
	for i, p := range points {
		l[i].Point = p
	}
	l.recompute()
	return l
}

// MaxRelativeDistance returns the path length of the whole line.
func (l CenterPointList) MaxRelativeDistance() float64 {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].RelativeDistance
}

// Points returns the bare coordinates.
func (l CenterPointList) Points() []orb.Point {
	out := make([]orb.Point, len(l))
	for i, cp := range l {
		out[i] = cp.Point
	}
	return out
}

// Optimize drops detours from the line. Walking from the last kept point,
// a candidate is skipped whenever some later point is at least as close;
// the walk then resumes from the closest such point. The first and last
// points are always kept and distances are recomputed afterwards.
func (l *CenterPointList) Optimize() {
	src := *l
	if len(src) <= 2 {
		l.recompute()
		return
	}

	kept := CenterPointList{src[0]}
	last := src[0].Point

	for i := 1; i < len(src); i++ {
		best := geometry.Distance(last, src[i].Point)
		skip := false

		for j := i + 1; j < len(src); j++ {
			if d := geometry.Distance(last, src[j].Point); d <= best {
				best = d
				i = j - 1
				skip = true
			}
		}
		if skip {
			continue
		}

		kept = append(kept, src[i])
		last = src[i].Point
	}

	kept.recompute()
	*l = kept
}

// Reverse returns the line walked backwards with distances recomputed.
func (l CenterPointList) Reverse() CenterPointList {
	out := make(CenterPointList, len(l))
	for i, cp := range l {
		out[len(l)-1-i] = cp
	}
	out.recompute()
	return out
}

func (l CenterPointList) recompute() {
	for i := range l {
		if i == 0 {
			l[i].RelativeDistance = 0
			continue
		}
		d := l[i-1].RelativeDistance + geometry.Distance(l[i-1].Point, l[i].Point)
		if d < 0 {
			panic(fmt.Errorf("centerline point %d: %w", i, ErrNegativeDistance))
		}
		l[i].RelativeDistance = d
	}
}

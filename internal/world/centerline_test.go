package world

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/tdewolff/test"
)

func TestNewCenterPointListDistances(t *testing.T) {
	l := NewCenterPointList([]orb.Point{{0, 0}, {3, 4}, {3, 10}})

	test.Float(t, l[0].RelativeDistance, 0)
	test.Float(t, l[1].RelativeDistance, 5)
	test.Float(t, l[2].RelativeDistance, 11)
	test.Float(t, l.MaxRelativeDistance(), 11)
}

func TestOptimizeRemovesBacktracking(t *testing.T) {
	l := NewCenterPointList([]orb.Point{{0, 0}, {10, 0}, {5, 0}, {20, 0}})
	l.Optimize()

	want := []orb.Point{{0, 0}, {5, 0}, {20, 0}}
	if len(l) != len(want) {
		t.Fatalf("Expected %d points, got %d: %v", len(want), len(l), l.Points())
	}
	for i, p := range want {
		if l[i].Point != p {
			t.Errorf("Point %d: expected %v, got %v", i, p, l[i].Point)
		}
	}
	test.Float(t, l.MaxRelativeDistance(), 20)
}

func TestOptimizeMonotonicity(t *testing.T) {
	tests := []struct {
		name   string
		points []orb.Point
	}{
		{"straight", []orb.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"zigzag", []orb.Point{{0, 0}, {5, 5}, {10, -5}, {15, 5}, {20, 0}}},
		{"loop back", []orb.Point{{0, 0}, {10, 10}, {0, 2}, {-5, 8}, {30, 0}}},
		{"two points", []orb.Point{{0, 0}, {7, 7}}},
		{"single", []orb.Point{{1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewCenterPointList(tt.points)
			before := l.MaxRelativeDistance()
			l.Optimize()

			if len(l) > len(tt.points) {
				t.Errorf("Optimize grew the list from %d to %d", len(tt.points), len(l))
			}
			if l.MaxRelativeDistance() > before+1e-9 {
				t.Errorf("Optimize lengthened the line from %g to %g", before, l.MaxRelativeDistance())
			}
			if l[0].Point != tt.points[0] || l[len(l)-1].Point != tt.points[len(tt.points)-1] {
				t.Error("Optimize must keep both end points")
			}
			assertMonotonic(t, l)
		})
	}
}

func TestReverse(t *testing.T) {
	l := NewCenterPointList([]orb.Point{{0, 0}, {3, 4}, {3, 10}})
	r := l.Reverse()

	if r[0].Point != (orb.Point{3, 10}) {
		t.Errorf("Reverse should start at the old end, got %v", r[0].Point)
	}
	test.Float(t, r[1].RelativeDistance, 6)
	test.Float(t, r.MaxRelativeDistance(), l.MaxRelativeDistance())
	assertMonotonic(t, r)
}

func assertMonotonic(t *testing.T, l CenterPointList) {
	t.Helper()
	if len(l) == 0 {
		return
	}
	if l[0].RelativeDistance != 0 {
		t.Errorf("First relative distance is %g, want 0", l[0].RelativeDistance)
	}
	for i := 1; i < len(l); i++ {
		if l[i].RelativeDistance < l[i-1].RelativeDistance {
			t.Errorf("Relative distance decreases at %d: %g < %g", i, l[i].RelativeDistance, l[i-1].RelativeDistance)
		}
	}
}

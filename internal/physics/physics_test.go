package physics

import (
	"context"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/geometry"
	"github.com/samdwyer/tunneler/internal/polygon"
)

func totalArea(prims []Primitive) float64 {
	sum := 0.0
	for _, p := range prims {
		sum += p.Area()
	}
	return sum
}

func TestDecomposeCoversRock(t *testing.T) {
	shape := geometry.CreateRectangle(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}})

	tests := []struct {
		name     string
		maxBlock float64
	}{
		{"large blocks", 500},
		{"small blocks", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &Collector{}
			opts := DefaultOptions()
			opts.MaxBlock = tt.maxBlock

			n := Decompose(context.Background(), shape, opts, sink)
			if n != sink.Len() {
				t.Errorf("Decompose returned %d, sink holds %d", n, sink.Len())
			}
			if n < 4 {
				t.Errorf("Expected the frame to split into at least 4 blocks, got %d", n)
			}

			// Rock area is the inflated rectangle minus the tunnel
			want := 120.0*120.0 - 100.0*100.0
			if got := totalArea(sink.Primitives()); math.Abs(got-want) > 1e-6*want {
				t.Errorf("Primitive area %g, want %g", got, want)
			}

			for i, p := range sink.Primitives() {
				if !p.Immobile {
					t.Errorf("Primitive %d is not immobile", i)
				}
				if len(p.Vertices) < 3 {
					t.Errorf("Primitive %d has %d vertices", i, len(p.Vertices))
				}
			}
		})
	}
}

func TestDecomposeSolidBlocks(t *testing.T) {
	shape := geometry.CreateRectangle(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})
	sink := &Collector{}
	opts := DefaultOptions()
	opts.Margin = 100
	opts.MaxBlock = 30

	Decompose(context.Background(), shape, opts, sink)

	solid := 0
	for _, p := range sink.Primitives() {
		if p.Solid {
			solid++
			if len(p.Vertices) != 4 {
				t.Errorf("Solid primitive has %d vertices", len(p.Vertices))
			}
		}
	}
	if solid == 0 {
		t.Error("Expected plain rectangular rock blocks to be emitted as solid")
	}
}

func TestDecomposeBlockSize(t *testing.T) {
	shape := geometry.CreateCircle(orb.Point{}, 400)
	sink := &Collector{}
	opts := DefaultOptions()
	opts.MaxBlock = 200

	Decompose(context.Background(), shape, opts, sink)

	for i, p := range sink.Primitives() {
		b := polygon.New(p.Vertices...).Bounds()
		if w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]; w > 200+1e-9 || h > 200+1e-9 {
			t.Errorf("Primitive %d spans %gx%g, larger than max block", i, w, h)
		}
	}
}

func TestDecomposeEmpty(t *testing.T) {
	sink := &Collector{}
	if n := Decompose(context.Background(), polygon.Polygon{}, DefaultOptions(), sink); n != 0 {
		t.Errorf("Expected no primitives for an empty shape, got %d", n)
	}
}

func TestDecomposeSolidSmallerThanBlock(t *testing.T) {
	// An L-shaped tunnel leaves a 40x40 block of rock in the corner of its
	// 100x100 bounds.
	shape := polygon.New(
		orb.Point{40, 0}, orb.Point{100, 0}, orb.Point{100, 100},
		orb.Point{0, 100}, orb.Point{0, 40}, orb.Point{40, 40},
	)
	sink := &Collector{}
	opts := DefaultOptions()
	opts.Margin = 0
	opts.MaxBlock = 1000

	n := Decompose(context.Background(), shape, opts, sink)
	if n != 1 {
		t.Fatalf("Expected a single primitive, got %d", n)
	}
	p := sink.Primitives()[0]
	if !p.Solid {
		t.Error("Expected the corner block to be marked solid")
	}
	if math.Abs(p.Area()-1600) > 1e-6 {
		t.Errorf("Corner block area %g, want 1600", p.Area())
	}
}

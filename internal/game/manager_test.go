package game

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/entity"
	"github.com/samdwyer/tunneler/internal/geometry"
	"github.com/samdwyer/tunneler/internal/polygon"
	"github.com/samdwyer/tunneler/internal/world"
)

func testNetwork(seed int64, physics bool) *world.Network {
	cfg := world.DefaultConfig()
	cfg.MinConnectionDistance = 600
	cfg.MaxConnectionDistance = 1200
	cfg.OverlapDistance = 250
	cfg.JunctionWidth = 80
	cfg.SegmentWidth = 40
	cfg.MinSubShapes = 4
	cfg.MaxSubShapes = 8
	cfg.MinSegmentLength = 80
	cfg.StaggerPasses = 4
	cfg.GeneratePhysics = physics
	cfg.PhysicsMaxBlock = 400
	return world.NewNetwork(seed, cfg, world.WithPopulator(world.NoClutter{}))
}

func TestViewModeString(t *testing.T) {
	tests := []struct {
		mode     ViewMode
		expected string
	}{
		{ModeFly, "fly"},
		{ModeGhost, "ghost"},
		{ViewMode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.expected {
			t.Errorf("ViewMode(%d).String() = %q, want %q", tt.mode, got, tt.expected)
		}
	}

	if ModeFly.Toggle() != ModeGhost || ModeGhost.Toggle() != ModeFly {
		t.Error("Toggle should alternate between fly and ghost")
	}
}

func TestManagerLoad(t *testing.T) {
	ctx := context.Background()
	net := testNetwork(17, true)
	m := NewManager(net, 2)

	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	root := net.Root()
	if !root.HasBuiltConnections() {
		t.Error("Load should build the current junction")
	}
	if len(m.Bodies(root.Handle())) == 0 {
		t.Error("Expected collision primitives for the root")
	}
}

func TestManagerSwitchesJunction(t *testing.T) {
	ctx := context.Background()
	net := testNetwork(23, false)
	m := NewManager(net, 2)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	segments, _ := net.Root().Segments(ctx)
	if len(segments) == 0 {
		t.Fatal("Expected at least one connection")
	}
	target := segments[0]

	// Just inside the switch distance of the first child
	start := orb.Point{target.ChildOffset[0] + m.SwitchDistance/2, target.ChildOffset[1]}
	probe := entity.NewProbe(start)

	switched, err := m.Update(ctx, probe)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !switched {
		t.Fatal("Expected to switch junctions")
	}
	if m.Current().Handle() != target.Child {
		t.Errorf("Expected current junction %d, got %d", target.Child, m.Current().Handle())
	}

	// The world position is kept: the probe is now relative to the child
	want := orb.Point{m.SwitchDistance / 2, 0}
	got := probe.Position()
	if math.Abs(got[0]-want[0]) > 1e-9 || math.Abs(got[1]-want[1]) > 1e-9 {
		t.Errorf("Probe at %v in the child frame, want %v", got, want)
	}
	if err := m.Wait(); err != nil {
		t.Errorf("Background work failed: %v", err)
	}
}

func TestManagerPreloadsNeighbours(t *testing.T) {
	ctx := context.Background()
	net := testNetwork(29, true)
	m := NewManager(net, 2)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	segments, _ := net.Root().Segments(ctx)
	if len(segments) == 0 {
		t.Fatal("Expected at least one connection")
	}
	target := segments[0]
	cfg := net.Config()

	// Between the switch distance and the overlap distance
	gap := (m.SwitchDistance + cfg.OverlapDistance) / 2
	probe := entity.NewProbe(orb.Point{target.ChildOffset[0] + gap, target.ChildOffset[1]})

	switched, err := m.Update(ctx, probe)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if switched {
		t.Fatal("Should not switch outside the switch distance")
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}

	child := net.Junction(target.Child)
	if !child.HasBuiltConnections() {
		t.Error("Neighbour should be built after preloading")
	}
	if len(m.Bodies(target.Child)) == 0 {
		t.Error("Neighbour collision primitives should be loaded")
	}
}

// flakyShaper fails until it is allowed to succeed.
type flakyShaper struct {
	ok *bool
}

func (f flakyShaper) Create(ctx context.Context, j *world.Junction) (polygon.Polygon, error) {
	if !*f.ok {
		return polygon.Polygon{}, geometry.ErrShapeRetriesExhausted
	}
	return geometry.CreateCircle(orb.Point{}, 100), nil
}

func TestManagerRetriesFailedPreload(t *testing.T) {
	ctx := context.Background()
	ok := false
	cfg := world.DefaultConfig()
	cfg.GeneratePhysics = true
	net := world.NewNetwork(31, cfg, world.WithShaper(flakyShaper{ok: &ok}), world.WithPopulator(world.NoClutter{}))
	m := NewManager(net, 1)

	if err := m.Load(ctx); !errors.Is(err, geometry.ErrShapeRetriesExhausted) {
		t.Fatalf("Expected ErrShapeRetriesExhausted, got %v", err)
	}
	if _, loaded := m.preloaded[net.Root().Handle()]; loaded {
		t.Fatal("A failed preload should not be remembered")
	}

	ok = true
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}
	if len(m.Bodies(net.Root().Handle())) == 0 {
		t.Error("Expected collision primitives after the retry")
	}
}

package game

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/tunneler/internal/entity"
	"github.com/samdwyer/tunneler/internal/geometry"
	"github.com/samdwyer/tunneler/internal/physics"
	"github.com/samdwyer/tunneler/internal/telemetry"
	"github.com/samdwyer/tunneler/internal/world"
)

// DefaultSwitchDistance is how close the probe must come to a neighbour's
// centre before it becomes the current junction.
const DefaultSwitchDistance = 100.0

// Manager tracks the junction the probe is in and builds the neighbours it
// is heading towards in the background.
type Manager struct {
	net            *world.Network
	SwitchDistance float64

	group *errgroup.Group

	mu        sync.Mutex
	current   *world.Junction
	preloaded map[world.Handle]*physics.Collector
}

// NewManager creates a manager starting at the network root. Background
// builds use at most workers goroutines.
func NewManager(net *world.Network, workers int) *Manager {
	g := &errgroup.Group{}
	if workers > 0 {
		g.SetLimit(workers)
	}
	return &Manager{
		net:            net,
		SwitchDistance: DefaultSwitchDistance,
		group:          g,
		current:        net.Root(),
		preloaded:      make(map[world.Handle]*physics.Collector),
	}
}

// Current returns the junction the probe is in.
func (m *Manager) Current() *world.Junction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Bodies returns the collision primitives loaded for h, or nil if it has
// not been preloaded yet.
func (m *Manager) Bodies(h world.Handle) []physics.Primitive {
	m.mu.Lock()
	c := m.preloaded[h]
	m.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Primitives()
}

// Load builds the current junction in the foreground.
func (m *Manager) Load(ctx context.Context) error {
	return m.preload(ctx, m.Current())
}

// preload builds j and feeds its collision primitives into a collector
// kept for when the probe arrives.
func (m *Manager) preload(ctx context.Context, j *world.Junction) error {
	m.mu.Lock()
	if _, ok := m.preloaded[j.Handle()]; ok {
		m.mu.Unlock()
		return nil
	}
	sink := &physics.Collector{}
	m.preloaded[j.Handle()] = sink
	m.mu.Unlock()

	prims, err := j.PhysicsShapes(ctx)
	if err != nil {
		// Forget the junction so a later Update can try again.
		m.mu.Lock()
		delete(m.preloaded, j.Handle())
		m.mu.Unlock()
		return err
	}
	for _, p := range prims {
		sink.Add(p)
	}
	return nil
}

// Update checks the probe against the current junction's neighbours. Within
// SwitchDistance of a neighbour the probe moves into it and is re-expressed
// in its frame. Otherwise neighbours within the overlap distance are
// preloaded and those within the minimum connection distance are built in
// the background. It reports whether the current junction changed.
func (m *Manager) Update(ctx context.Context, probe *entity.Probe) (bool, error) {
	current := m.Current()
	segments, err := current.Segments(ctx)
	if err != nil {
		return false, err
	}
	cfg := m.net.Config()

	var preload, build []*world.Junction
	for _, s := range segments {
		distance := geometry.Distance(probe.Position(), s.ChildOffset)

		if distance <= m.SwitchDistance {
			m.switchTo(ctx, current, s, probe)
			return true, nil
		}

		child := m.net.Junction(s.Child)
		m.mu.Lock()
		_, loaded := m.preloaded[s.Child]
		m.mu.Unlock()

		switch {
		case distance <= cfg.OverlapDistance && !loaded:
			preload = append(preload, child)
		case distance <= cfg.MinConnectionDistance && !child.HasBuiltConnections():
			build = append(build, child)
		}
	}

	for _, j := range preload {
		m.group.Go(func() error {
			return m.preload(ctx, j)
		})
	}
	for _, j := range build {
		m.group.Go(func() error {
			return j.BuildConnections(ctx)
		})
	}
	return false, nil
}

func (m *Manager) switchTo(ctx context.Context, from *world.Junction, s *world.Segment, probe *entity.Probe) {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "manager.switch")
	defer span.End()

	probe.Move(-s.ChildOffset[0], -s.ChildOffset[1])

	m.mu.Lock()
	m.current = m.net.Junction(s.Child)
	m.mu.Unlock()

	span.SetAttributes(
		attribute.Int("junction.from", int(from.Handle())),
		attribute.Int("junction.to", int(s.Child)),
	)
}

// Wait blocks until every background build has finished and returns the
// first error.
func (m *Manager) Wait() error {
	return m.group.Wait()
}

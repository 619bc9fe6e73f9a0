// Package world builds the tunnel network: seeded junctions joined by
// segments, constructed lazily and reproducibly from per-junction streams.
package world

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/tunneler/internal/gamedata"
	"github.com/samdwyer/tunneler/internal/telemetry"
)

// Handle identifies a junction within its Network.
type Handle int

// NoHandle marks a missing parent.
const NoHandle Handle = -1

// Network owns every junction of one tunnel tree.
type Network struct {
	id  uuid.UUID
	cfg Config

	shaper    JunctionShaper
	segments  SegmentBuilder
	populator Populator

	mu        sync.RWMutex
	junctions map[Handle]*Junction
	children  map[Handle][]Handle
	next      Handle
	root      Handle
}

// Option customises a Network.
type Option func(*Network)

// WithShaper overrides the junction shape strategy.
func WithShaper(s JunctionShaper) Option {
	return func(n *Network) { n.shaper = s }
}

// WithSegmentBuilder overrides the segment strategy.
func WithSegmentBuilder(b SegmentBuilder) Option {
	return func(n *Network) { n.segments = b }
}

// WithPopulator overrides the clutter strategy.
func WithPopulator(p Populator) Option {
	return func(n *Network) { n.populator = p }
}

// NewNetwork creates a network whose root junction uses seed. Nothing is
// built until a junction is asked for its shape or connections.
func NewNetwork(seed int64, cfg Config, opts ...Option) *Network {
	n := &Network{
		id:        uuid.New(),
		cfg:       cfg,
		junctions: make(map[Handle]*Junction),
		children:  make(map[Handle][]Handle),
	}

	switch cfg.Shaper {
	case gamedata.ShaperRadial:
		n.shaper = RadialShaper{Width: cfg.JunctionWidth, MinRadials: cfg.MinSubShapes, MaxRadials: cfg.MaxSubShapes}
	default:
		n.shaper = SimpleShaper{Width: cfg.JunctionWidth, MinSubShapes: cfg.MinSubShapes, MaxSubShapes: cfg.MaxSubShapes, MaxTries: cfg.MaxShapeRetries}
	}
	n.segments = SimpleSegmentBuilder{
		Width:            cfg.SegmentWidth,
		MinSegmentLength: cfg.MinSegmentLength,
		Passes:           cfg.StaggerPasses,
		Decay:            cfg.StaggerDecay,
		MaxTries:         cfg.MaxShapeRetries,
	}
	n.populator = ClutterPopulator{Registry: gamedata.MustLoadClutterRegistry(), MaxCount: cfg.MaxClutter}

	for _, opt := range opts {
		opt(n)
	}

	n.root = n.spawn(seed, NoHandle).handle
	return n
}

// ID returns the network's identity.
func (n *Network) ID() uuid.UUID {
	return n.id
}

// Config returns the construction settings.
func (n *Network) Config() Config {
	return n.cfg
}

// Root returns the root junction.
func (n *Network) Root() *Junction {
	return n.Junction(n.root)
}

// Junction returns the junction for h. It panics with ErrUnknownJunction if
// h is not part of the network.
func (n *Network) Junction(h Handle) *Junction {
	j, ok := n.Lookup(h)
	if !ok {
		panic(fmt.Errorf("handle %d: %w", h, ErrUnknownJunction))
	}
	return j
}

// Lookup returns the junction for h and whether it exists.
func (n *Network) Lookup(h Handle) (*Junction, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	j, ok := n.junctions[h]
	return j, ok
}

// Len returns the number of live junctions.
func (n *Network) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.junctions)
}

// spawn registers a new unbuilt junction.
func (n *Network) spawn(seed int64, parent Handle) *Junction {
	n.mu.Lock()
	defer n.mu.Unlock()

	j := newJunction(n, n.next, parent, seed)
	n.junctions[j.handle] = j
	if parent != NoHandle {
		n.children[parent] = append(n.children[parent], j.handle)
	}
	n.next++
	return j
}

// release drops h and everything spawned beneath it.
func (n *Network) release(h Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if j, ok := n.junctions[h]; ok && j.parent != NoHandle {
		siblings := n.children[j.parent]
		for i, c := range siblings {
			if c == h {
				n.children[j.parent] = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	n.releaseLocked(h)
}

// releaseChildren drops everything spawned beneath h but keeps h.
func (n *Network) releaseChildren(h Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, c := range n.children[h] {
		n.releaseLocked(c)
	}
	delete(n.children, h)
}

func (n *Network) releaseLocked(h Handle) {
	for _, c := range n.children[h] {
		n.releaseLocked(c)
	}
	delete(n.children, h)
	delete(n.junctions, h)
}

// Preload builds the connections of every junction in handles using at most
// workers goroutines. The junctions must be distinct.
func (n *Network) Preload(ctx context.Context, handles []Handle, workers int) error {
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "network.preload")
	defer span.End()

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, h := range handles {
		j := n.Junction(h)
		g.Go(func() error {
			return j.BuildConnections(ctx)
		})
	}
	err := g.Wait()

	span.SetAttributes(
		attribute.String("network.id", n.id.String()),
		attribute.Int("network.preloaded", len(handles)),
		attribute.Int("network.junctions", n.Len()),
		attribute.Int64("network.generation_ms", time.Since(startTime).Milliseconds()),
	)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Expand builds the tree breadth first down to depth levels below the root
// and returns the handles in the order they were reached.
func (n *Network) Expand(ctx context.Context, depth, workers int) ([]Handle, error) {
	tracer := telemetry.Tracer("world")
	ctx, span := tracer.Start(ctx, "network.expand")
	defer span.End()
	span.SetAttributes(attribute.Int("network.depth", depth))

	visited := []Handle{n.root}
	level := []Handle{n.root}

	for d := 0; d < depth && len(level) > 0; d++ {
		if err := n.Preload(ctx, level, workers); err != nil {
			span.RecordError(err)
			return visited, err
		}

		var next []Handle
		for _, h := range level {
			for _, s := range n.Junction(h).outbound() {
				next = append(next, s.Child)
			}
		}
		visited = append(visited, next...)
		level = next
	}
	return visited, nil
}

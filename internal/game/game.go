package game

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tunneler/internal/entity"
	"github.com/samdwyer/tunneler/internal/telemetry"
	"github.com/samdwyer/tunneler/internal/ui"
	"github.com/samdwyer/tunneler/internal/world"
)

const (
	minCellSize = 5.0
	maxCellSize = 400.0
)

// Game holds the entire viewer state.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	manager  *Manager
	probe    *entity.Probe
	cfg      Config
	mode     ViewMode
	message  string
	running  bool
}

// New creates a new viewer for the network.
func New(net *world.Network, cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultConfig().CellSize
	}

	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		manager:  NewManager(net, cfg.PreloadWorkers),
		probe:    entity.NewProbe(orb.Point{}),
		cfg:      cfg,
		mode:     ModeFly,
		running:  true,
	}, nil
}

// Run executes the main viewer loop.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	// Initialize (traced)
	ctx, initSpan := tracer.Start(ctx, "game.init")
	if err := g.manager.Load(ctx); err != nil {
		initSpan.RecordError(err)
		initSpan.End()
		g.screen.Close()
		return err
	}
	initSpan.SetAttributes(
		attribute.Int64("junction.seed", g.manager.Current().Seed()),
		attribute.String("game.mode", g.mode.String()),
	)
	initSpan.End()

	// Main loop
	for g.running {
		if err := g.render(ctx); err != nil {
			g.screen.Close()
			return err
		}

		// Handle input (blocking)
		g.handleInput(ctx)
	}

	// Cleanup
	g.screen.Close()
	return g.manager.Wait()
}

// render draws the area around the probe.
func (g *Game) render(ctx context.Context) error {
	width, height := g.screen.Size()
	if height > 1 {
		height-- // status line
	}

	current := g.manager.Current()
	tiles, err := current.Raster(ctx, g.probe.Position(), width, height, g.cfg.CellSize)
	if err != nil {
		return err
	}
	distance, err := current.CalculateDistance(ctx, g.probe.Position())
	if err != nil {
		return err
	}

	view := ui.View{
		Tiles:    tiles,
		Centre:   g.probe.Position(),
		CellSize: g.cfg.CellSize,
		Mobiles:  current.Mobiles(),
		Probe:    g.probe,
		Depth:    current.Distance() / g.manager.net.Config().MaxConnectionDistance,
		Status: fmt.Sprintf("junction %d  seed %d  distance %.0f  cell %.0f  %s  %s",
			current.Handle(), current.Seed(), distance, g.cfg.CellSize, g.mode, g.message),
	}
	g.renderer.Render(view)
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	step := g.cfg.CellSize

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.tryMove(ctx, 0, step)
	case tcell.KeyDown:
		g.tryMove(ctx, 0, -step)
	case tcell.KeyLeft:
		g.tryMove(ctx, -step, 0)
	case tcell.KeyRight:
		g.tryMove(ctx, step, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'g', 'G':
			g.mode = g.mode.Toggle()
		case '+':
			g.cfg.CellSize = max(minCellSize, g.cfg.CellSize/2)
		case '-':
			g.cfg.CellSize = min(maxCellSize, g.cfg.CellSize*2)
		}
	}
}

// tryMove attempts to move the probe by the given delta.
func (g *Game) tryMove(ctx context.Context, dx, dy float64) {
	next := orb.Point{g.probe.Point[0] + dx, g.probe.Point[1] + dy}

	if g.mode == ModeFly {
		shape, err := g.manager.Current().Shape(ctx)
		if err != nil || !shape.Contains(next) {
			g.message = "blocked"
			return
		}
	}
	g.message = ""
	g.probe.Move(dx, dy)

	switched, err := g.manager.Update(ctx, g.probe)
	if err != nil {
		g.message = err.Error()
		return
	}
	if switched {
		g.message = fmt.Sprintf("entered junction %d", g.manager.Current().Handle())
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}

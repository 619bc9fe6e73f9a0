package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/entity"
	"github.com/samdwyer/tunneler/internal/world"
)

func newTestScreen(t *testing.T, width, height int) *Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	sim.SetSize(width, height)
	t.Cleanup(s.Close)
	return s
}

func TestRender(t *testing.T) {
	screen := newTestScreen(t, 4, 4)
	r := NewRenderer(screen)

	tiles := [][]world.Tile{
		{world.TileRock, world.TileRock, world.TileRock, world.TileRock},
		{world.TileRock, world.TileFloor, world.TileFloor, world.TileRock},
		{world.TileRock, world.TileFloor, world.TileFloor, world.TileRock},
	}
	probe := entity.NewProbe(orb.Point{})
	mobile := entity.Mobile{Kind: "housing", Glyph: 'o', Color: tcell.ColorWhite, Point: orb.Point{-5, -5}, Radius: 10}

	r.Render(View{
		Tiles:    tiles,
		Centre:   orb.Point{},
		CellSize: 10,
		Mobiles:  []entity.Mobile{mobile},
		Probe:    probe,
		Status:   "ok",
	})

	if ch, _ := screen.Content(0, 0); ch != '#' {
		t.Errorf("Expected rock at (0,0), got %c", ch)
	}
	// Cell (2,1) holds the origin
	if ch, _ := screen.Content(2, 1); ch != '@' {
		t.Errorf("Expected probe at (2,1), got %c", ch)
	}
	if ch, _ := screen.Content(1, 1); ch != 'o' {
		t.Errorf("Expected mobile at (1,1), got %c", ch)
	}
	if ch, _ := screen.Content(0, 3); ch != 'o' {
		t.Errorf("Expected status line on row 3, got %c", ch)
	}
}

func TestTileStyleDepthTint(t *testing.T) {
	near, _, _ := TileStyle(world.TileFloor, 0).Decompose()
	far, _, _ := TileStyle(world.TileFloor, 100).Decompose()
	if near == far {
		t.Error("Floor colour should change with depth")
	}
	clamped, _, _ := TileStyle(world.TileFloor, 1000).Decompose()
	if clamped != far {
		t.Error("Depth tint should saturate")
	}
}

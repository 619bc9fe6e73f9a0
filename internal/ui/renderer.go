package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/entity"
	"github.com/samdwyer/tunneler/internal/gamedata"
	"github.com/samdwyer/tunneler/internal/world"
)

var (
	// Floor colours near the root and far from it.
	nearFloor = colorful.Color{R: 0.55, G: 0.55, B: 0.60}
	farFloor  = colorful.Color{R: 0.35, G: 0.10, B: 0.45}
	rockColor = colorful.Color{R: 0.20, G: 0.20, B: 0.20}
)

// View is one frame of the area around the probe.
type View struct {
	Tiles    [][]world.Tile
	Centre   orb.Point
	CellSize float64
	Mobiles  []entity.Mobile
	Probe    *entity.Probe
	Depth    float64 // distance from the root, scaled so 1 is one connection
	Status   string
}

// Renderer handles drawing the network to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the tiles, mobiles, probe and status line.
func (r *Renderer) Render(v View) {
	r.screen.Clear()

	height := len(v.Tiles)
	width := 0
	if height > 0 {
		width = len(v.Tiles[0])
	}

	// Draw raster tiles
	for y, row := range v.Tiles {
		for x, tile := range row {
			r.screen.SetContent(x, y, tile.Rune(), TileStyle(tile, v.Depth))
		}
	}

	// Draw mobiles on top
	for _, m := range v.Mobiles {
		x, y, ok := world.PointCell(v.Centre, width, height, v.CellSize, m.Point)
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(m.Color)
		r.screen.SetContent(x, y, m.Glyph, style)
	}

	// Draw probe on top
	if v.Probe != nil {
		if x, y, ok := world.PointCell(v.Centre, width, height, v.CellSize, v.Probe.Position()); ok {
			probeStyle := tcell.StyleDefault.
				Foreground(tcell.ColorYellow).
				Bold(true)
			r.screen.SetContent(x, y, v.Probe.Symbol, probeStyle)
		}
	}

	r.RenderMessage(v.Status, height)
	r.screen.Show()
}

// TileStyle returns the style for a tile. Floor is tinted from grey towards
// violet the further the junction is from the root.
func TileStyle(tile world.Tile, depth float64) tcell.Style {
	switch tile {
	case world.TileRock:
		return tcell.StyleDefault.Foreground(gamedata.TCell(rockColor))
	case world.TileFloor:
		t := min(max(depth/8, 0), 1)
		return tcell.StyleDefault.Foreground(gamedata.TCell(nearFloor.BlendLab(farFloor, t)))
	default:
		return tcell.StyleDefault
	}
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	x := 0
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}

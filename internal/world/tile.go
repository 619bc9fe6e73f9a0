package world

// Tile represents a single raster cell.
type Tile rune

const (
	// TileRock represents solid rock outside the tunnels.
	TileRock Tile = '#'
	// TileFloor represents open tunnel space.
	TileFloor Tile = '.'
)

// IsPassable returns true if the tile can be flown through.
func (t Tile) IsPassable() bool {
	return t == TileFloor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

package world

import (
	"context"

	"github.com/paulmach/orb"
)

// Raster samples the combined shape on a width x height grid of square
// cells centred on centre. Row 0 is the top of the view (largest y).
func (j *Junction) Raster(ctx context.Context, centre orb.Point, width, height int, cellSize float64) ([][]Tile, error) {
	shape, err := j.Shape(ctx)
	if err != nil {
		return nil, err
	}

	bounds := shape.Bounds()
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			p := CellPoint(centre, width, height, cellSize, x, y)
			if !shape.IsEmpty() && bounds.Contains(p) && shape.Contains(p) {
				tiles[y][x] = TileFloor
			} else {
				tiles[y][x] = TileRock
			}
		}
	}
	return tiles, nil
}

// CellPoint returns the centre of raster cell (x, y).
func CellPoint(centre orb.Point, width, height int, cellSize float64, x, y int) orb.Point {
	return orb.Point{
		centre[0] + (float64(x-width/2)+0.5)*cellSize,
		centre[1] - (float64(y-height/2)+0.5)*cellSize,
	}
}

// PointCell returns the raster cell containing p and whether it is on the
// grid.
func PointCell(centre orb.Point, width, height int, cellSize float64, p orb.Point) (int, int, bool) {
	fx := (p[0]-centre[0])/cellSize + float64(width/2)
	fy := (centre[1]-p[1])/cellSize + float64(height/2)
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	x, y := int(fx), int(fy)
	return x, y, x < width && y < height
}

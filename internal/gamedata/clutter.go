package gamedata

import "github.com/gdamore/tcell/v2"

// ClutterDef defines a kind of module placed in junctions, loaded from JSON.
type ClutterDef struct {
	ID          string  `json:"id"`          // Unique identifier (e.g., "housing")
	Name        string  `json:"name"`        // Display name (e.g., "Housing Bubble")
	Glyph       string  `json:"glyph"`       // Single character for rendering (e.g., "o")
	Color       string  `json:"color"`       // Hex color code (e.g., "#FFFFFF")
	MinRadius   float64 `json:"minRadius"`   // Smallest bubble radius
	MaxRadius   float64 `json:"maxRadius"`   // Largest bubble radius (exclusive)
	SpawnWeight int     `json:"spawnWeight"` // Relative spawn frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (c *ClutterDef) GlyphRune() rune {
	if len(c.Glyph) == 0 {
		return '?'
	}
	return rune(c.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (c *ClutterDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(c.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// ClutterFile represents the structure of clutter.json.
type ClutterFile struct {
	Clutter []ClutterDef `json:"clutter"`
}

// LoadClutter loads clutter definitions from the embedded clutter.json file.
func LoadClutter() ([]ClutterDef, error) {
	file, err := Load[ClutterFile]("clutter.json")
	if err != nil {
		return nil, err
	}
	return file.Clutter, nil
}

package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/gamedata"
)

// ErrEmptyRadius is the panic payload for a mobile without a positive radius.
var ErrEmptyRadius = errors.New("cannot create a mobile with an empty radius")

// Mobile is a circular piece of clutter such as a housing bubble.
type Mobile struct {
	Kind   string // clutter ID from clutter.json
	Name   string
	Glyph  rune
	Color  tcell.Color
	Point  orb.Point
	Radius float64
}

// NewMobile creates a mobile of the given kind. It panics with
// ErrEmptyRadius if radius is not positive.
func NewMobile(def *gamedata.ClutterDef, point orb.Point, radius float64) Mobile {
	if radius <= 0 {
		panic(fmt.Errorf("%s radius %g: %w", def.ID, radius, ErrEmptyRadius))
	}
	return Mobile{
		Kind:   def.ID,
		Name:   def.Name,
		Glyph:  def.GlyphRune(),
		Color:  def.TCellColor(),
		Point:  point,
		Radius: radius,
	}
}

// Area returns the area covered by the mobile.
func (m Mobile) Area() float64 {
	return math.Pi * m.Radius * m.Radius
}

// Contains reports whether p lies inside the mobile.
func (m Mobile) Contains(p orb.Point) bool {
	dx, dy := p[0]-m.Point[0], p[1]-m.Point[1]
	return dx*dx+dy*dy <= m.Radius*m.Radius
}

package entity

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/gamedata"
)

func TestProbeMove(t *testing.T) {
	p := NewProbe(orb.Point{10, 20})
	p.Move(5, -5)

	if got := p.Position(); got != (orb.Point{15, 15}) {
		t.Errorf("Expected probe at (15,15), got %v", got)
	}
	if p.Symbol != '@' {
		t.Errorf("Expected symbol '@', got %c", p.Symbol)
	}
}

func TestNewMobile(t *testing.T) {
	def := &gamedata.ClutterDef{ID: "housing", Name: "Housing Bubble", Glyph: "o", Color: "#FFFFFF"}
	m := NewMobile(def, orb.Point{3, 4}, 10)

	if m.Kind != "housing" || m.Glyph != 'o' {
		t.Errorf("Unexpected mobile %+v", m)
	}
	if math.Abs(m.Area()-math.Pi*100) > 1e-9 {
		t.Errorf("Expected area 100π, got %g", m.Area())
	}
	if !m.Contains(orb.Point{10, 4}) {
		t.Error("Point on the rim should be contained")
	}
	if m.Contains(orb.Point{20, 4}) {
		t.Error("Distant point should not be contained")
	}
}

func TestNewMobileEmptyRadius(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrEmptyRadius) {
			t.Errorf("Expected ErrEmptyRadius panic, got %v", r)
		}
	}()
	NewMobile(&gamedata.ClutterDef{ID: "housing"}, orb.Point{}, 0)
}

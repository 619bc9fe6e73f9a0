// Package entity provides the objects placed in and moving through the
// tunnel network.
package entity

import "github.com/paulmach/orb"

// Probe is the explorer flown through the network by the viewer. Its
// position is in the frame of the current junction.
type Probe struct {
	Point  orb.Point
	Symbol rune // Display symbol ('@')
}

// NewProbe creates a new probe at the given position.
func NewProbe(p orb.Point) *Probe {
	return &Probe{
		Point:  p,
		Symbol: '@',
	}
}

// Move updates the probe position by the given delta.
func (p *Probe) Move(dx, dy float64) {
	p.Point[0] += dx
	p.Point[1] += dy
}

// Position returns the current coordinates.
func (p *Probe) Position() orb.Point {
	return p.Point
}

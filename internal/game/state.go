// Package game provides the network viewer loop and junction management.
package game

// ViewMode represents how the probe moves through the network.
type ViewMode int

const (
	// ModeFly is the default mode where rock blocks the probe.
	ModeFly ViewMode = iota
	// ModeGhost lets the probe pass through rock.
	ModeGhost
)

// String returns a human-readable mode name.
func (m ViewMode) String() string {
	switch m {
	case ModeFly:
		return "fly"
	case ModeGhost:
		return "ghost"
	default:
		return "unknown"
	}
}

// Toggle returns the other mode.
func (m ViewMode) Toggle() ViewMode {
	if m == ModeFly {
		return ModeGhost
	}
	return ModeFly
}

package gamedata

import (
	"errors"

	"github.com/samdwyer/tunneler/internal/random"
)

// ClutterRegistry holds loaded clutter definitions and provides spawning utilities.
type ClutterRegistry struct {
	clutter     []ClutterDef
	totalWeight int
}

// NewClutterRegistry creates a registry from loaded clutter definitions.
func NewClutterRegistry(clutter []ClutterDef) *ClutterRegistry {
	totalWeight := 0
	for _, c := range clutter {
		totalWeight += c.SpawnWeight
	}
	return &ClutterRegistry{
		clutter:     clutter,
		totalWeight: totalWeight,
	}
}

// LoadClutterRegistry loads and creates a registry from the embedded clutter.json.
func LoadClutterRegistry() (*ClutterRegistry, error) {
	clutter, err := LoadClutter()
	if err != nil {
		return nil, err
	}
	if len(clutter) == 0 {
		return nil, errors.New("no clutter loaded from clutter.json")
	}
	return NewClutterRegistry(clutter), nil
}

// MustLoadClutterRegistry loads a registry, panicking on error.
func MustLoadClutterRegistry() *ClutterRegistry {
	registry, err := LoadClutterRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random clutter definition using weighted probability.
// Clutter with higher spawnWeight is more likely to be selected.
func (r *ClutterRegistry) SpawnRandom(rng *random.Random) *ClutterDef {
	if r.totalWeight <= 0 || len(r.clutter) == 0 {
		return nil
	}

	// Pick a random value in the total weight range
	roll := rng.Int(0, r.totalWeight)

	// Find which definition this roll corresponds to
	cumulative := 0
	for i := range r.clutter {
		cumulative += r.clutter[i].SpawnWeight
		if roll < cumulative {
			return &r.clutter[i]
		}
	}

	// Fallback (shouldn't happen)
	return &r.clutter[0]
}

// GetByID returns the clutter definition with the given ID, or nil if not found.
func (r *ClutterRegistry) GetByID(id string) *ClutterDef {
	for i := range r.clutter {
		if r.clutter[i].ID == id {
			return &r.clutter[i]
		}
	}
	return nil
}

// All returns all clutter definitions.
func (r *ClutterRegistry) All() []ClutterDef {
	return r.clutter
}

// Count returns the number of clutter kinds in the registry.
func (r *ClutterRegistry) Count() int {
	return len(r.clutter)
}

// =============================================================================
// ProfileRegistry
// =============================================================================

// ProfileRegistry holds loaded generation profiles and provides lookup utilities.
type ProfileRegistry struct {
	profiles map[string]*ProfileDef
	all      []ProfileDef
}

// NewProfileRegistry creates a registry from loaded profile definitions.
func NewProfileRegistry(profiles []ProfileDef) *ProfileRegistry {
	registry := &ProfileRegistry{
		profiles: make(map[string]*ProfileDef),
		all:      profiles,
	}
	for i := range profiles {
		registry.profiles[profiles[i].ID] = &profiles[i]
	}
	return registry
}

// LoadProfileRegistry loads and creates a registry from the embedded profiles.json.
func LoadProfileRegistry() (*ProfileRegistry, error) {
	profiles, err := LoadProfiles()
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, errors.New("no profiles loaded from profiles.json")
	}
	return NewProfileRegistry(profiles), nil
}

// MustLoadProfileRegistry loads a registry, panicking on error.
func MustLoadProfileRegistry() *ProfileRegistry {
	registry, err := LoadProfileRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the profile with the given ID, or nil if not found.
func (r *ProfileRegistry) GetByID(id string) *ProfileDef {
	return r.profiles[id]
}

// All returns all profile definitions.
func (r *ProfileRegistry) All() []ProfileDef {
	return r.all
}

// Count returns the number of profiles in the registry.
func (r *ProfileRegistry) Count() int {
	return len(r.all)
}

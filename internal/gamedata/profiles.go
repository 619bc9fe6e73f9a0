package gamedata

// Junction shaper identifiers accepted in profiles.json.
const (
	ShaperSimple = "simple"
	ShaperRadial = "radial"
)

// ProfileDef defines a named set of generation parameters loaded from JSON.
type ProfileDef struct {
	ID                    string  `json:"id"`                    // Unique identifier (e.g., "classic")
	Name                  string  `json:"name"`                  // Display name
	Description           string  `json:"description"`           // One-line summary
	Shaper                string  `json:"shaper"`                // Junction shaper: "simple" or "radial"
	MinConnections        int     `json:"minConnections"`        // Inclusive lower bound of outgoing connections
	MaxConnections        int     `json:"maxConnections"`        // Exclusive upper bound of outgoing connections
	MinConnectionDistance float64 `json:"minConnectionDistance"` // Shortest child offset
	MaxConnectionDistance float64 `json:"maxConnectionDistance"` // Longest child offset (exclusive)
	OverlapDistance       float64 `json:"overlapDistance"`       // Radius of the exclusion circle around a child
	JunctionWidth         float64 `json:"junctionWidth"`         // Average junction sub-shape radius
	SegmentWidth          float64 `json:"segmentWidth"`          // Average segment sub-shape radius
	MinSegmentLength      float64 `json:"minSegmentLength"`      // Stagger stops splitting below this length
	StaggerPasses         int     `json:"staggerPasses"`         // Maximum midpoint displacement passes
}

// ProfilesFile represents the structure of profiles.json.
type ProfilesFile struct {
	Profiles []ProfileDef `json:"profiles"`
}

// LoadProfiles loads profile definitions from the embedded profiles.json file.
func LoadProfiles() ([]ProfileDef, error) {
	file, err := Load[ProfilesFile]("profiles.json")
	if err != nil {
		return nil, err
	}
	return file.Profiles, nil
}

package floorplan

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxNameDistance is the largest edit distance Find accepts, as a fraction of
// the longer name.
const maxNameDistance = 0.34

// Find returns the room or item whose name best matches name, ignoring case.
// An exact match wins; otherwise the closest name within maxNameDistance is
// used, rooms before items on ties. Corner and wall IDs are not searched.
func (m *Model) Find(name string) (Entity, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil, false
	}
	var (
		best  Entity
		score float64
	)
	consider := func(e Entity, n string) bool {
		n = strings.ToLower(n)
		if n == want {
			best, score = e, 0
			return true
		}
		d := float64(levenshtein.ComputeDistance(want, n)) / float64(max(len(want), len(n)))
		if d <= maxNameDistance && (best == nil || d < score) {
			best, score = e, d
		}
		return false
	}
	for _, r := range m.floorplan.rooms {
		if consider(r, r.Name) {
			return r, true
		}
	}
	for _, it := range m.items {
		if consider(it, it.Name()) {
			return it, true
		}
	}
	return best, best != nil
}

package terrain

import (
	"fmt"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/world"
)

// EnergyState is the energy-medium tile state.
type EnergyState uint8

const (
	// EnergyEmpty cells accept a relay.
	EnergyEmpty EnergyState = iota
	// EnergyConductive cells belong to an own powered structure.
	EnergyConductive
	// EnergyBlocked cells accept nothing; lasers pass over them.
	EnergyBlocked
)

// String implements fmt.Stringer.
func (s EnergyState) String() string {
	switch s {
	case EnergyEmpty:
		return "empty"
	case EnergyConductive:
		return "conductive"
	case EnergyBlocked:
		return "blocked"
	}
	return fmt.Sprintf("energy(%d)", s)
}

// Tower exclusion range along each axis, measured from the tower centre.
const (
	towerNear = 2
	towerFar  = 13
)

// EnergyMap is the classified energy layer.
type EnergyMap struct {
	Grid  grid.Grid
	State []EnergyState
	// Owner holds the structure id of conductive cells, -1 elsewhere.
	Owner []int
}

// NewEnergyMap allocates an energy map for g.
func NewEnergyMap(g grid.Grid) *EnergyMap {
	return &EnergyMap{
		Grid:  g,
		State: make([]EnergyState, g.Size()),
		Owner: make([]int, g.Size()),
	}
}

// Classify rebuilds the map from s, reusing the existing buffers.
// Returns ErrGridMismatch if s was taken on a different grid.
func (m *EnergyMap) Classify(s *world.Snapshot) error {
	if s.Grid != m.Grid {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrGridMismatch,
			s.Grid.Width, s.Grid.Height, m.Grid.Width, m.Grid.Height)
	}
	for i := range m.State {
		m.Owner[i] = -1
		if !s.Occupied[i] {
			m.State[i] = EnergyEmpty
			continue
		}
		id := s.Owner(i)
		if s.Own(id) && s.Structures[id].Kind.Traits.Has(world.Power) {
			m.State[i] = EnergyConductive
			m.Owner[i] = id
			continue
		}
		m.State[i] = EnergyBlocked
	}

	for id, st := range s.Structures {
		if !s.Own(id) || !st.Kind.Traits.Has(world.Tower) {
			continue
		}
		for _, d := range grid.Dirs {
			for k := towerNear; k <= towerFar; k++ {
				p := st.Center.Add(d, k)
				if !m.Grid.InBounds(p) {
					break
				}
				i := m.Grid.Index(p)
				if m.State[i] != EnergyConductive {
					m.State[i] = EnergyBlocked
				}
			}
		}
	}
	return nil
}

// SameOwner reports whether cells i and j belong to one conductive structure.
func (m *EnergyMap) SameOwner(i, j int) bool {
	return m.Owner[i] >= 0 && m.Owner[i] == m.Owner[j]
}

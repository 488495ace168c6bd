package world

import (
	"fmt"

	"github.com/katalvlaran/gridroute/grid"
)

// Structure is one built or planned structure.
type Structure struct {
	Kind     Kind
	Center   grid.Point
	Rotation grid.Dir
	Team     int
	// Planned structures are reserved by a pending construction plan and
	// count as present for routing.
	Planned bool
}

// Footprint returns the cells the structure covers.
func (s Structure) Footprint() grid.Footprint {
	return grid.Footprint{Center: s.Center, Size: s.Kind.Size}
}

// Snapshot is an immutable copy of the world state a route request runs
// against. Build it with NewSnapshot; the router never mutates it.
type Snapshot struct {
	Grid grid.Grid
	// Team is the requesting faction. Zero is not a valid team.
	Team int
	// Occupied marks cells a new piece cannot be placed on. Structure cells
	// are merged in by NewSnapshot.
	Occupied []bool
	// Structures lists built and planned structures of every team.
	Structures []Structure
	// Mask optionally forbids placement on caller-chosen cells.
	Mask []bool

	owner []int
}

// NewSnapshot validates the layers and structures and returns a snapshot
// that owns deep copies of them. mask may be nil.
//
// Returns ErrNoTeam, ErrLayerSize, ErrFootprint or ErrOverlap.
// Complexity: O(W×H + Σ footprint cells).
func NewSnapshot(g grid.Grid, team int, occupied []bool, structures []Structure, mask []bool) (*Snapshot, error) {
	if g.Size() == 0 {
		return nil, grid.ErrEmptyGrid
	}
	if team == 0 {
		return nil, ErrNoTeam
	}
	if occupied != nil && len(occupied) != g.Size() {
		return nil, fmt.Errorf("%w: occupied has %d cells, want %d", ErrLayerSize, len(occupied), g.Size())
	}
	if mask != nil && len(mask) != g.Size() {
		return nil, fmt.Errorf("%w: mask has %d cells, want %d", ErrLayerSize, len(mask), g.Size())
	}

	s := &Snapshot{
		Grid:       g,
		Team:       team,
		Occupied:   make([]bool, g.Size()),
		Structures: make([]Structure, len(structures)),
		owner:      make([]int, g.Size()),
	}
	copy(s.Occupied, occupied)
	copy(s.Structures, structures)
	if mask != nil {
		s.Mask = make([]bool, g.Size())
		copy(s.Mask, mask)
	}
	for i := range s.owner {
		s.owner[i] = -1
	}

	for id, st := range s.Structures {
		if st.Kind.Size <= 0 {
			return nil, fmt.Errorf("%w: %q at %v", ErrInvalidKind, st.Kind.Name, st.Center)
		}
		fp := st.Footprint()
		if !fp.Within(g) {
			return nil, fmt.Errorf("%w: %q at %v", ErrFootprint, st.Kind.Name, st.Center)
		}
		for _, p := range fp.Cells() {
			i := g.Index(p)
			if s.owner[i] >= 0 {
				other := s.Structures[s.owner[i]]
				return nil, fmt.Errorf("%w: %q at %v and %q at %v share %v",
					ErrOverlap, st.Kind.Name, st.Center, other.Kind.Name, other.Center, p)
			}
			s.owner[i] = id
			s.Occupied[i] = true
		}
	}
	return s, nil
}

// Owner returns the index into Structures of the structure covering cell i,
// or -1.
func (s *Snapshot) Owner(i int) int {
	return s.owner[i]
}

// StructureAt returns the structure covering p.
func (s *Snapshot) StructureAt(p grid.Point) (Structure, bool) {
	if !s.Grid.InBounds(p) {
		return Structure{}, false
	}
	id := s.owner[s.Grid.Index(p)]
	if id < 0 {
		return Structure{}, false
	}
	return s.Structures[id], true
}

// Own reports whether structure id belongs to the requesting team.
func (s *Snapshot) Own(id int) bool {
	return id >= 0 && s.Structures[id].Team == s.Team
}

// Masked reports whether cell i is in the caller mask.
func (s *Snapshot) Masked(i int) bool {
	return s.Mask != nil && s.Mask[i]
}

// WithOccupied returns a shallow copy whose occupancy layer additionally
// marks the given cells. Structures and mask are shared.
func (s *Snapshot) WithOccupied(cells ...grid.Point) *Snapshot {
	cp := *s
	cp.Occupied = make([]bool, len(s.Occupied))
	copy(cp.Occupied, s.Occupied)
	for _, p := range cells {
		if s.Grid.InBounds(p) {
			cp.Occupied[s.Grid.Index(p)] = true
		}
	}
	return &cp
}

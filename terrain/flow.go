package terrain

import (
	"fmt"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/world"
)

// FlowState is the liquid/item tile state.
type FlowState uint8

const (
	// FlowEmpty cells accept any piece.
	FlowEmpty FlowState = iota
	// FlowInvisible cells hold an own conduit that a route may cross with a
	// junction. Its axis is kept in FlowMap.Horizontal.
	FlowInvisible
	// FlowProtect cells hold an own bridge base.
	FlowProtect
	// FlowCollide cells are both damaged and dangerous.
	FlowCollide
	// FlowDamage cells lie in the span of an existing bridge.
	FlowDamage
	// FlowDanger cells are next to an emitter.
	FlowDanger
	// FlowBlock cells accept nothing.
	FlowBlock
)

var flowNames = [...]string{"empty", "invisible", "protect", "collide", "damage", "danger", "block"}

// String implements fmt.Stringer.
func (s FlowState) String() string {
	if int(s) < len(flowNames) {
		return flowNames[s]
	}
	return fmt.Sprintf("flow(%d)", s)
}

// Solid reports whether the state is Protect or Block, the two states the
// search treats as visited from the start.
func (s FlowState) Solid() bool {
	return s == FlowProtect || s == FlowBlock
}

// Hazard reports whether the cell is damaged, dangerous or both.
func (s FlowState) Hazard() bool {
	return s == FlowCollide || s == FlowDamage || s == FlowDanger
}

// BridgeReach is the farthest cell a bridge feeds, counted from its base.
const BridgeReach = 4

// FlowMap is the classified liquid or item layer.
type FlowMap struct {
	Grid   grid.Grid
	Medium world.Medium
	State  []FlowState
	// Output marks cells of structures that emit the medium.
	Output []bool
	// Horizontal holds the axis of invisible conduits.
	Horizontal []bool

	block, damage, danger []bool
}

// NewFlowMap allocates a flow map for g.
// Returns ErrMedium unless medium is world.Liquid or world.Item.
func NewFlowMap(g grid.Grid, medium world.Medium) (*FlowMap, error) {
	if medium != world.Liquid && medium != world.Item {
		return nil, fmt.Errorf("%w: got %v", ErrMedium, medium)
	}
	n := g.Size()
	return &FlowMap{
		Grid:       g,
		Medium:     medium,
		State:      make([]FlowState, n),
		Output:     make([]bool, n),
		Horizontal: make([]bool, n),
		block:      make([]bool, n),
		damage:     make([]bool, n),
		danger:     make([]bool, n),
	}, nil
}

// Classify rebuilds the map from s, reusing the existing buffers.
// Returns ErrGridMismatch if s was taken on a different grid.
func (m *FlowMap) Classify(s *world.Snapshot) error {
	if s.Grid != m.Grid {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrGridMismatch,
			s.Grid.Width, s.Grid.Height, m.Grid.Width, m.Grid.Height)
	}
	m.base(s)

	for i := range m.block {
		m.block[i], m.damage[i], m.danger[i] = false, false, false
	}
	for id, st := range s.Structures {
		if s.Own(id) {
			m.influence(st)
		}
	}

	for i, st := range m.State {
		if m.block[i] {
			m.State[i] = FlowBlock
			continue
		}
		if st != FlowEmpty {
			continue
		}
		switch {
		case m.damage[i] && m.danger[i]:
			m.State[i] = FlowCollide
		case m.damage[i]:
			m.State[i] = FlowDamage
		case m.danger[i]:
			m.State[i] = FlowDanger
		}
	}
	return nil
}

// base assigns Invisible, Protect, Block or Empty from occupancy alone.
func (m *FlowMap) base(s *world.Snapshot) {
	for i := range m.State {
		m.Horizontal[i] = false
		id := s.Owner(i)
		m.Output[i] = id >= 0 && s.Structures[id].Kind.Emits(m.Medium)
		if !s.Occupied[i] {
			m.State[i] = FlowEmpty
			continue
		}
		if !s.Own(id) {
			m.State[i] = FlowBlock
			continue
		}
		st := s.Structures[id]
		switch {
		case m.Medium == world.Liquid && st.Kind.Connector(world.Liquid):
			m.State[i] = FlowInvisible
			m.Horizontal[i] = st.Rotation.Horizontal()
		case st.Kind.Bridge(m.Medium):
			m.State[i] = FlowProtect
		default:
			m.State[i] = FlowBlock
		}
	}
}

// influence records the block, damage and danger flags one own structure
// casts. Only base states are read, so structures can be visited in any
// order.
func (m *FlowMap) influence(st world.Structure) {
	k := st.Kind
	switch {
	case k.Bridge(m.Medium):
		m.bridgeRay(st.Center, st.Rotation)
	case m.Medium == world.Liquid && k.Traits.Has(world.Conduit):
		m.blockAhead(st.Center, st.Rotation, true)
	case m.Medium == world.Liquid && k.Traits.Has(world.Junction):
		for _, d := range grid.Dirs {
			m.blockAhead(st.Center, d, true)
		}
	case m.Medium == world.Item && k.Traits.Has(world.Duct):
		m.blockAhead(st.Center, st.Rotation, false)
	case m.Medium == world.Item && k.Traits.Has(world.Surge):
		if p := st.Center.Add(st.Rotation, 1); m.Grid.InBounds(p) {
			m.danger[m.Grid.Index(p)] = true
		}
	case k.Emits(m.Medium):
		for _, p := range st.Footprint().OuterRing(m.Grid) {
			m.danger[m.Grid.Index(p)] = true
		}
	}
}

// bridgeRay flags the cells a bridge aims through, up to the next bridge
// base. A bridge whose ray meets no base is an end-chain bridge and the cell
// directly ahead is reserved for its output.
func (m *FlowMap) bridgeRay(at grid.Point, d grid.Dir) {
	first := -1
	for k := 1; k <= BridgeReach; k++ {
		p := at.Add(d, k)
		if !m.Grid.InBounds(p) {
			break
		}
		i := m.Grid.Index(p)
		if m.State[i] == FlowProtect {
			return
		}
		m.damage[i] = true
		if first < 0 {
			first = i
		}
	}
	if first >= 0 {
		m.block[first] = true
	}
}

// blockAhead blocks the cell a directional piece feeds. Bridge bases are
// never blocked; invisible conduits are spared when keepInvisible is set.
func (m *FlowMap) blockAhead(at grid.Point, d grid.Dir, keepInvisible bool) {
	p := at.Add(d, 1)
	if !m.Grid.InBounds(p) {
		return
	}
	i := m.Grid.Index(p)
	switch m.State[i] {
	case FlowProtect:
		return
	case FlowInvisible:
		if keepInvisible {
			return
		}
	}
	m.block[i] = true
}

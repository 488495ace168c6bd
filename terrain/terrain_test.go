package terrain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/terrain"
	"github.com/katalvlaran/gridroute/world"
)

var cat = world.DefaultCatalog()

func place(kind string, x, y int, rot grid.Dir, team int) world.Structure {
	return world.Structure{Kind: cat.MustLookup(kind), Center: grid.Point{X: x, Y: y}, Rotation: rot, Team: team}
}

func snapshot(t *testing.T, w, h int, structures ...world.Structure) *world.Snapshot {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	s, err := world.NewSnapshot(g, 1, nil, structures, nil)
	require.NoError(t, err)
	return s
}

//----------------------------------------------------------------------------//
// Energy
//----------------------------------------------------------------------------//

func TestEnergyMap_Classify(t *testing.T) {
	s := snapshot(t, 20, 20,
		place("battery", 0, 0, grid.Right, 1),
		place("battery", 1, 0, grid.Right, 2),
		place("wall", 2, 0, grid.Right, 1),
		place("generator", 5, 5, grid.Right, 1),
	)
	m := terrain.NewEnergyMap(s.Grid)
	require.NoError(t, m.Classify(s))

	at := func(x, y int) int { return s.Grid.Index(grid.Point{X: x, Y: y}) }
	assert.Equal(t, terrain.EnergyConductive, m.State[at(0, 0)])
	assert.Equal(t, terrain.EnergyBlocked, m.State[at(1, 0)], "other team")
	assert.Equal(t, terrain.EnergyBlocked, m.State[at(2, 0)], "unpowered")
	assert.Equal(t, terrain.EnergyEmpty, m.State[at(3, 0)])

	assert.True(t, m.SameOwner(at(5, 5), at(6, 6)))
	assert.False(t, m.SameOwner(at(0, 0), at(5, 5)))
	assert.False(t, m.SameOwner(at(3, 0), at(3, 0)), "empty cells have no owner")
}

// TestEnergyMap_Tower verifies the axial exclusion box of a beam tower.
func TestEnergyMap_Tower(t *testing.T) {
	s := snapshot(t, 30, 30,
		place("beam-tower", 10, 10, grid.Right, 1),
		place("battery", 14, 10, grid.Right, 1),
	)
	m := terrain.NewEnergyMap(s.Grid)
	require.NoError(t, m.Classify(s))

	at := func(x, y int) terrain.EnergyState { return m.State[s.Grid.Index(grid.Point{X: x, Y: y})] }
	assert.Equal(t, terrain.EnergyConductive, at(11, 10), "tower footprint")
	assert.Equal(t, terrain.EnergyBlocked, at(12, 10))
	assert.Equal(t, terrain.EnergyConductive, at(14, 10), "conductive cells survive")
	assert.Equal(t, terrain.EnergyBlocked, at(23, 10))
	assert.Equal(t, terrain.EnergyEmpty, at(24, 10), "beyond range")
	assert.Equal(t, terrain.EnergyBlocked, at(10, 0))
	assert.Equal(t, terrain.EnergyEmpty, at(12, 12), "diagonal untouched")
}

func TestEnergyMap_GridMismatch(t *testing.T) {
	s := snapshot(t, 4, 4)
	g, _ := grid.New(5, 4)
	require.ErrorIs(t, terrain.NewEnergyMap(g).Classify(s), terrain.ErrGridMismatch)
}

//----------------------------------------------------------------------------//
// Liquid and item
//----------------------------------------------------------------------------//

func TestNewFlowMap_Medium(t *testing.T) {
	g, _ := grid.New(3, 3)
	_, err := terrain.NewFlowMap(g, world.Energy)
	require.ErrorIs(t, err, terrain.ErrMedium)
}

func TestFlowMap_Liquid(t *testing.T) {
	s := snapshot(t, 12, 12,
		place("conduit", 1, 1, grid.Up, 1),
		place("bridge-conduit", 5, 1, grid.Right, 1),
		place("pump", 5, 6, grid.Right, 1),
		place("liquid-junction", 1, 8, grid.Right, 1),
		place("conduit", 10, 10, grid.Right, 2),
	)
	m, err := terrain.NewFlowMap(s.Grid, world.Liquid)
	require.NoError(t, err)
	require.NoError(t, m.Classify(s))
	at := func(x, y int) terrain.FlowState { return m.State[s.Grid.Index(grid.Point{X: x, Y: y})] }

	assert.Equal(t, terrain.FlowInvisible, at(1, 1))
	assert.False(t, m.Horizontal[s.Grid.Index(grid.Point{X: 1, Y: 1})])
	assert.Equal(t, terrain.FlowBlock, at(1, 2), "conduit output")

	assert.Equal(t, terrain.FlowProtect, at(5, 1))
	assert.Equal(t, terrain.FlowBlock, at(6, 1), "end-chain bridge output")
	assert.Equal(t, terrain.FlowDamage, at(7, 1))
	assert.Equal(t, terrain.FlowDamage, at(9, 1))
	assert.Equal(t, terrain.FlowEmpty, at(10, 1), "beyond bridge reach")

	// pump covers (5..6, 6..7)
	assert.Equal(t, terrain.FlowBlock, at(5, 6))
	assert.True(t, m.Output[s.Grid.Index(grid.Point{X: 6, Y: 7})])
	assert.Equal(t, terrain.FlowDanger, at(5, 5))
	assert.Equal(t, terrain.FlowDanger, at(7, 7))
	assert.Equal(t, terrain.FlowEmpty, at(7, 8), "corner")

	for _, p := range []grid.Point{{X: 2, Y: 8}, {X: 0, Y: 8}, {X: 1, Y: 9}, {X: 1, Y: 7}} {
		assert.Equal(t, terrain.FlowBlock, at(p.X, p.Y), "junction side %v", p)
	}

	assert.Equal(t, terrain.FlowBlock, at(10, 10), "foreign conduit")
	assert.Equal(t, terrain.FlowEmpty, at(11, 10), "foreign structures cast no influence")
}

// TestFlowMap_BridgeChain verifies a bridge feeding another bridge leaves
// the span damaged but does not reserve an output cell.
func TestFlowMap_BridgeChain(t *testing.T) {
	s := snapshot(t, 12, 4,
		place("bridge-conduit", 1, 1, grid.Right, 1),
		place("bridge-conduit", 4, 1, grid.Right, 1),
	)
	m, _ := terrain.NewFlowMap(s.Grid, world.Liquid)
	require.NoError(t, m.Classify(s))
	at := func(x int) terrain.FlowState { return m.State[s.Grid.Index(grid.Point{X: x, Y: 1})] }

	assert.Equal(t, terrain.FlowDamage, at(2))
	assert.Equal(t, terrain.FlowDamage, at(3))
	assert.Equal(t, terrain.FlowBlock, at(5), "second bridge is end-chain")
	assert.Equal(t, terrain.FlowDamage, at(8))
}

func TestFlowMap_Collide(t *testing.T) {
	s := snapshot(t, 10, 6,
		place("bridge-conduit", 0, 2, grid.Right, 1),
		place("liquid-router", 3, 3, grid.Right, 1),
	)
	m, _ := terrain.NewFlowMap(s.Grid, world.Liquid)
	require.NoError(t, m.Classify(s))
	// (3,2) is in the bridge span and below the router
	assert.Equal(t, terrain.FlowCollide, m.State[s.Grid.Index(grid.Point{X: 3, Y: 2})])
	assert.True(t, m.State[s.Grid.Index(grid.Point{X: 3, Y: 2})].Hazard())
}

func TestFlowMap_Item(t *testing.T) {
	s := snapshot(t, 8, 8,
		place("duct", 1, 1, grid.Right, 1),
		place("surge-conveyor", 1, 4, grid.Up, 1),
		place("duct-bridge", 5, 1, grid.Up, 1),
		place("conduit", 5, 6, grid.Right, 1),
	)
	m, err := terrain.NewFlowMap(s.Grid, world.Item)
	require.NoError(t, err)
	require.NoError(t, m.Classify(s))
	at := func(x, y int) terrain.FlowState { return m.State[s.Grid.Index(grid.Point{X: x, Y: y})] }

	assert.Equal(t, terrain.FlowBlock, at(1, 1), "own ducts are plain obstacles")
	assert.Equal(t, terrain.FlowBlock, at(2, 1))
	assert.Equal(t, terrain.FlowDanger, at(1, 5))
	assert.Equal(t, terrain.FlowProtect, at(5, 1))
	assert.Equal(t, terrain.FlowBlock, at(5, 2))
	assert.Equal(t, terrain.FlowDamage, at(5, 3))
	assert.Equal(t, terrain.FlowEmpty, at(6, 6), "liquid pieces do not emit items")
}

// TestFlowMap_OrderIndependent classifies the same structures in two orders
// and twice in a row; the results must match.
func TestFlowMap_OrderIndependent(t *testing.T) {
	structures := []world.Structure{
		place("conduit", 2, 2, grid.Right, 1),
		place("conduit", 3, 2, grid.Up, 1),
		place("bridge-conduit", 0, 2, grid.Right, 1),
		place("pump", 6, 5, grid.Right, 1),
		place("liquid-junction", 4, 6, grid.Right, 1),
		place("bridge-conduit", 8, 1, grid.Up, 1),
	}
	reversed := make([]world.Structure, len(structures))
	for i, st := range structures {
		reversed[len(structures)-1-i] = st
	}

	a := snapshot(t, 10, 10, structures...)
	b := snapshot(t, 10, 10, reversed...)
	ma, _ := terrain.NewFlowMap(a.Grid, world.Liquid)
	mb, _ := terrain.NewFlowMap(b.Grid, world.Liquid)
	require.NoError(t, ma.Classify(a))
	require.NoError(t, mb.Classify(b))
	assert.Equal(t, ma.State, mb.State)
	assert.Equal(t, ma.Output, mb.Output)

	first := append([]terrain.FlowState(nil), ma.State...)
	require.NoError(t, ma.Classify(a))
	assert.Equal(t, first, ma.State, "idempotent")
}

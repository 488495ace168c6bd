package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/terrain"
	"github.com/katalvlaran/gridroute/world"
)

var cat = world.DefaultCatalog()

func pt(x, y int) grid.Point { return grid.Point{X: x, Y: y} }

func place(kind string, x, y int, rot grid.Dir) world.Structure {
	return world.Structure{Kind: cat.MustLookup(kind), Center: pt(x, y), Rotation: rot, Team: 1}
}

// medium classifies a team-1 snapshot and wraps it in the route medium.
func medium(tb testing.TB, w, h int, m world.Medium, solid []grid.Point, structures ...world.Structure) route.Medium {
	tb.Helper()
	g, err := grid.New(w, h)
	require.NoError(tb, err)
	occupied := make([]bool, g.Size())
	for _, p := range solid {
		occupied[g.Index(p)] = true
	}
	snap, err := world.NewSnapshot(g, 1, occupied, structures, nil)
	require.NoError(tb, err)

	if m == world.Energy {
		em := terrain.NewEnergyMap(g)
		require.NoError(tb, em.Classify(snap))
		return route.Energy(em)
	}
	fm, err := terrain.NewFlowMap(g, m)
	require.NoError(tb, err)
	require.NoError(tb, fm.Classify(snap))
	if m == world.Item {
		return route.Item(fm)
	}
	return route.Liquid(fm)
}

// straight builds a route of unit steps along d.
func straight(m world.Medium, from grid.Point, d grid.Dir, n int) route.Route {
	r := route.Route{Medium: m, From: from, To: from.Add(d, n), StartDir: grid.NoDir}
	for k := 0; k < n; k++ {
		r.Nodes = append(r.Nodes, route.Node{Pos: from.Add(d, k), Dir: d, Step: 1})
	}
	return r
}

func pieces(list []plan.Instruction) []plan.Piece {
	out := make([]plan.Piece, len(list))
	for i, in := range list {
		out[i] = in.Piece
	}
	return out
}

// requireLinked checks that every instruction feeds the one before it, the
// first feeding to, and that only bridge pairs are more than one cell apart.
func requireLinked(tb testing.TB, list []plan.Instruction, to grid.Point) {
	tb.Helper()
	require.NotEmpty(tb, list)
	require.Equal(tb, to, list[0].Target())
	for k := 1; k < len(list); k++ {
		cur, down := list[k], list[k-1]
		require.Equal(tb, down.Pos, cur.Target(), "instruction %d (%v) does not feed %v", k, cur, down)
		require.Equal(tb, cur.Span, cur.Pos.Manhattan(down.Pos))
		if cur.Piece != plan.Bridge || down.Piece != plan.Bridge {
			require.Equal(tb, 1, cur.Span, "instruction %d: %v -> %v", k, cur, down)
		}
		require.True(tb, cur.Span >= 1 && cur.Span <= terrain.BridgeReach)
	}
}

package route_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/terrain"
	"github.com/katalvlaran/gridroute/world"
)

var cat = world.DefaultCatalog()

func pt(x, y int) grid.Point { return grid.Point{X: x, Y: y} }

func place(kind string, x, y int, rot grid.Dir, team int) world.Structure {
	return world.Structure{Kind: cat.MustLookup(kind), Center: pt(x, y), Rotation: rot, Team: team}
}

// snapshot builds a team-1 snapshot with the given solid cells and structures.
func snapshot(tb testing.TB, w, h int, solid []grid.Point, structures ...world.Structure) *world.Snapshot {
	tb.Helper()
	g, err := grid.New(w, h)
	require.NoError(tb, err)
	occupied := make([]bool, g.Size())
	for _, p := range solid {
		occupied[g.Index(p)] = true
	}
	s, err := world.NewSnapshot(g, 1, occupied, structures, nil)
	require.NoError(tb, err)
	return s
}

func flowSearcher(tb testing.TB, s *world.Snapshot, medium world.Medium) *route.Searcher {
	tb.Helper()
	m, err := terrain.NewFlowMap(s.Grid, medium)
	require.NoError(tb, err)
	require.NoError(tb, m.Classify(s))
	md := route.Liquid(m)
	if medium == world.Item {
		md = route.Item(m)
	}
	sr, err := route.NewSearcher(md)
	require.NoError(tb, err)
	return sr
}

func energySearcher(tb testing.TB, s *world.Snapshot) *route.Searcher {
	tb.Helper()
	m := terrain.NewEnergyMap(s.Grid)
	require.NoError(tb, m.Classify(s))
	sr, err := route.NewSearcher(route.Energy(m))
	require.NoError(tb, err)
	return sr
}

// requireChain checks that r is a connected chain from From to To without
// repeated cells and with steps inside the medium's range.
func requireChain(tb testing.TB, r route.Route, maxStep int) {
	tb.Helper()
	require.NotEmpty(tb, r.Nodes)
	require.Equal(tb, r.From, r.Nodes[0].Pos)
	seen := make(map[grid.Point]bool, len(r.Nodes))
	for i, n := range r.Nodes {
		require.False(tb, seen[n.Pos], "node %d at %v repeats a cell", i, n.Pos)
		require.Equal(tb, i, r.Index(n.Pos))
		seen[n.Pos] = true
		require.True(tb, n.Step >= 1 && n.Step <= maxStep, "node %d step %d", i, n.Step)
		if i+1 < len(r.Nodes) {
			require.Equal(tb, r.Nodes[i+1].Pos, n.End(), "node %d does not lead to node %d", i, i+1)
		}
	}
	require.Equal(tb, r.To, r.Nodes[len(r.Nodes)-1].End())
}

package plan_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/world"
)

func conn(x, y int) plan.Instruction {
	return plan.Instruction{Pos: pt(x, y), Rotation: grid.Right, Piece: plan.Connector, Name: "conduit", Span: 1}
}

func bridge(x, y, span int) plan.Instruction {
	return plan.Instruction{Pos: pt(x, y), Rotation: grid.Right, Piece: plan.Bridge, Name: "bridge-conduit", Span: span}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []plan.Instruction
		want []plan.Instruction
	}{
		{
			name: "connectors only",
			in:   []plan.Instruction{conn(2, 0), conn(1, 0), conn(0, 0)},
			want: []plan.Instruction{conn(2, 0), conn(1, 0), conn(0, 0)},
		},
		{
			name: "bridge reaching two back drops the middle bridge",
			in:   []plan.Instruction{conn(9, 0), bridge(8, 0, 1), bridge(6, 0, 2), bridge(5, 0, 1), conn(4, 0)},
			want: []plan.Instruction{conn(9, 0), bridge(8, 0, 1), bridge(5, 0, 3), conn(4, 0)},
		},
		{
			name: "bridge reaching the previous bridge drops connectors",
			in: []plan.Instruction{
				conn(9, 0), bridge(8, 0, 1), bridge(5, 0, 3),
				conn(4, 0), conn(3, 0),
				bridge(2, 0, 1), bridge(0, 0, 2),
			},
			want: []plan.Instruction{
				conn(9, 0), bridge(8, 0, 1), bridge(5, 0, 3), bridge(2, 0, 3), bridge(0, 0, 2),
			},
		},
		{
			name: "out of range keeps everything",
			in:   []plan.Instruction{bridge(9, 0, 1), conn(8, 0), conn(7, 0), conn(6, 0), conn(5, 0), bridge(4, 0, 1)},
			want: []plan.Instruction{bridge(9, 0, 1), conn(8, 0), conn(7, 0), conn(6, 0), conn(5, 0), bridge(4, 0, 1)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := append([]plan.Instruction(nil), tc.in...)
			assert.Equal(t, tc.want, plan.Merge(tc.in))
			assert.Equal(t, before, tc.in, "input untouched")
		})
	}
}

func TestSchedule(t *testing.T) {
	in := []plan.Instruction{conn(9, 0), bridge(8, 0, 1), bridge(5, 0, 3), bridge(2, 0, 3), conn(1, 0), bridge(0, 1, 1), bridge(0, 2, 1)}
	got := plan.Schedule(in)
	assert.Equal(t, []plan.Instruction{
		conn(9, 0), bridge(2, 0, 3), bridge(5, 0, 3), bridge(8, 0, 1), conn(1, 0), bridge(0, 2, 1), bridge(0, 1, 1),
	}, got)
	assert.Equal(t, conn(9, 0), in[0])
	assert.Equal(t, bridge(8, 0, 1), in[1], "input untouched")
	assert.Empty(t, plan.Schedule(nil))
}

func TestAssemble_Straight(t *testing.T) {
	m := medium(t, 10, 10, world.Liquid, nil)
	sr, err := route.NewSearcher(m)
	require.NoError(t, err)
	res, err := sr.Search(pt(0, 0), pt(5, 0))
	require.NoError(t, err)
	require.Equal(t, route.Succeeded, res.Status)

	got, err := plan.Assemble(m, route.Reduce(m, res.Route))
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, in := range got {
		assert.Equal(t, plan.Connector, in.Piece)
		assert.Equal(t, "conduit", in.Name)
		assert.Equal(t, pt(4-i, 0), in.Pos)
	}
}

func TestAssemble_Obstacle(t *testing.T) {
	m := medium(t, 10, 10, world.Liquid, []grid.Point{pt(2, 0)})
	sr, err := route.NewSearcher(m)
	require.NoError(t, err)
	res, err := sr.Search(pt(0, 0), pt(5, 0))
	require.NoError(t, err)
	require.Equal(t, route.Succeeded, res.Status)

	// The raw length is counted in cells. Counted in nodes it would only
	// tie: every node of this route becomes exactly one piece.
	raw := res.Route.Length()
	got, err := plan.Assemble(m, route.Reduce(m, res.Route))
	require.NoError(t, err)
	assert.Less(t, len(got), raw)
	assert.Equal(t, res.Route.Len(), len(got))
	assert.Equal(t, []plan.Instruction{
		{Pos: pt(4, 0), Rotation: grid.Right, Piece: plan.Connector, Name: "conduit", Span: 1},
		{Pos: pt(1, 0), Rotation: grid.Right, Piece: plan.Bridge, Name: "bridge-conduit", Span: 2},
		{Pos: pt(3, 0), Rotation: grid.Right, Piece: plan.Bridge, Name: "bridge-conduit", Span: 1},
		{Pos: pt(0, 0), Rotation: grid.Right, Piece: plan.Connector, Name: "conduit", Span: 1},
	}, got)
}

// TestMergeEmit_RandomMaps checks on seeded random maps that the merged
// plan is a linked chain ending on the target and that scheduling only
// reorders it.
func TestMergeEmit_RandomMaps(t *testing.T) {
	const n = 16
	for _, md := range []world.Medium{world.Liquid, world.Item} {
		for seed := int64(1); seed <= 40; seed++ {
			rng := rand.New(rand.NewSource(seed))
			var solid []grid.Point
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					if p := pt(x, y); p != pt(0, 0) && p != pt(n-1, n-1) && rng.Intn(4) == 0 {
						solid = append(solid, p)
					}
				}
			}
			m := medium(t, n, n, md, solid)
			sr, err := route.NewSearcher(m)
			require.NoError(t, err)
			res, err := sr.Search(pt(0, 0), pt(n-1, n-1), route.WithBudget(-1))
			require.NoError(t, err)
			if res.Status != route.Succeeded {
				continue
			}
			r := route.Reduce(m, res.Route)

			list, err := plan.Emit(m, r)
			require.NoError(t, err)
			require.Len(t, list, r.Len())
			merged := plan.Merge(list)
			requireLinked(t, merged, r.To)
			require.LessOrEqual(t, len(merged), res.Route.Length(), "seed %d", seed)

			final := plan.Schedule(merged)
			require.ElementsMatch(t, merged, final)
		}
	}
}

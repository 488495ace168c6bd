package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/world"
)

func TestEmit_Energy(t *testing.T) {
	m := medium(t, 10, 10, world.Energy, nil,
		place("battery", 0, 0, grid.Right),
		place("battery", 5, 0, grid.Right),
	)
	r := route.Route{
		Medium: world.Energy, From: pt(0, 0), To: pt(5, 0), StartDir: grid.NoDir,
		Nodes: []route.Node{
			{Pos: pt(0, 0), Dir: grid.Right, Step: 4},
			{Pos: pt(4, 0), Dir: grid.Right, Step: 1},
		},
	}
	got, err := plan.Emit(m, r)
	require.NoError(t, err)
	assert.Equal(t, []plan.Instruction{
		{Pos: pt(4, 0), Rotation: grid.Right, Piece: plan.Relay, Name: "beam-node", Span: 1},
	}, got)
}

func TestEmit_LiquidJunction(t *testing.T) {
	m := medium(t, 10, 10, world.Liquid, nil, place("conduit", 2, 0, grid.Up))
	got, err := plan.Emit(m, straight(world.Liquid, pt(0, 0), grid.Right, 4))
	require.NoError(t, err)
	assert.Equal(t, []plan.Piece{plan.Connector, plan.Junction, plan.Connector, plan.Connector}, pieces(got))
	assert.Equal(t, "liquid-junction", got[1].Name)
	assert.Equal(t, pt(2, 0), got[1].Pos)
}

// TestEmit_ItemArmor runs routes past a drill whose outer ring is dangerous.
// The drill covers (3,3)..(4,4).
func TestEmit_ItemArmor(t *testing.T) {
	m := medium(t, 10, 10, world.Item, nil, place("drill", 3, 3, grid.Right))
	C, A := plan.Connector, plan.Armored

	tests := []struct {
		name string
		r    route.Route
		want []plan.Piece
	}{
		{
			name: "interior exposed cells armored",
			r:    straight(world.Item, pt(1, 2), grid.Right, 6),
			want: []plan.Piece{C, C, A, A, C, C},
		},
		{
			name: "last node beside the drill armored",
			r:    straight(world.Item, pt(1, 2), grid.Right, 3),
			want: []plan.Piece{A, C, C},
		},
		{
			name: "last node feeding the drill plain",
			r:    straight(world.Item, pt(0, 3), grid.Right, 3),
			want: []plan.Piece{C, C, C},
		},
		{
			name: "first node never armored",
			r:    straight(world.Item, pt(3, 2), grid.Right, 3),
			want: []plan.Piece{C, A, C},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := plan.Emit(m, tc.r)
			require.NoError(t, err)
			assert.Equal(t, tc.want, pieces(got))
			for _, in := range got {
				assert.Equal(t, in.Piece.Name(world.Item), in.Name)
			}
		})
	}
}

func TestEmit_Splitter(t *testing.T) {
	r := straight(world.Liquid, pt(0, 1), grid.Right, 3)
	got, err := plan.Emit(medium(t, 10, 10, world.Liquid, nil), r, plan.WithSplitter(pt(0, 0), grid.Up))
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, plan.Instruction{Pos: pt(0, 0), Rotation: grid.Up, Piece: plan.Splitter, Name: "liquid-router", Span: 1}, got[3])

	r.Medium = world.Item
	im := medium(t, 10, 10, world.Item, nil)
	got, err = plan.Emit(im, r, plan.WithSplitter(pt(0, 0), grid.Up))
	require.NoError(t, err)
	assert.Equal(t, "duct-router", got[len(got)-1].Name)

	got, err = plan.Emit(im, r, plan.WithSplitter(pt(0, 0), grid.Up), plan.WithSplitterKind(plan.Underflow))
	require.NoError(t, err)
	assert.Equal(t, "underflow-duct", got[len(got)-1].Name)
}

func TestEmit_Errors(t *testing.T) {
	liquid := medium(t, 4, 4, world.Liquid, nil)
	energy := medium(t, 4, 4, world.Energy, nil)
	r := straight(world.Liquid, pt(0, 0), grid.Right, 2)
	er := r
	er.Medium = world.Energy

	tests := []struct {
		name string
		m    route.Medium
		r    route.Route
		opts []plan.Option
		want error
	}{
		{"nil medium", nil, r, nil, plan.ErrMediumMismatch},
		{"other medium", energy, r, nil, plan.ErrMediumMismatch},
		{"energy splitter", energy, er, []plan.Option{plan.WithSplitter(pt(0, 0), grid.Up)}, plan.ErrOptionViolation},
		{"splitter without rotation", liquid, r, []plan.Option{plan.WithSplitter(pt(0, 0), grid.NoDir)}, plan.ErrOptionViolation},
		{"unknown splitter kind", liquid, r, []plan.Option{plan.WithSplitterKind(plan.SplitterKind(9))}, plan.ErrOptionViolation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := plan.Emit(tc.m, tc.r, tc.opts...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPiece_Name(t *testing.T) {
	tests := []struct {
		p    plan.Piece
		m    world.Medium
		want string
	}{
		{plan.Relay, world.Energy, "beam-node"},
		{plan.Connector, world.Liquid, "conduit"},
		{plan.Bridge, world.Liquid, "bridge-conduit"},
		{plan.Splitter, world.Liquid, "liquid-router"},
		{plan.Armored, world.Item, "armored-duct"},
		{plan.Bridge, world.Item, "duct-bridge"},
		{plan.Junction, world.Item, ""},
		{plan.Connector, world.Energy, ""},
	}
	for _, tc := range tests {
		t.Run(tc.p.String()+"/"+tc.m.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.Name(tc.m))
		})
	}
}

func TestParseSplitterKind(t *testing.T) {
	k, err := plan.ParseSplitterKind("Overflow")
	require.NoError(t, err)
	assert.Equal(t, plan.Overflow, k)
	assert.Equal(t, "overflow-duct", k.Name())

	_, err = plan.ParseSplitterKind("sorter")
	assert.ErrorIs(t, err, plan.ErrOptionViolation)
}

package router_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/world"
)

func relay(x, y int) plan.Instruction {
	return plan.Instruction{Pos: pt(x, y), Rotation: grid.Right, Piece: plan.Relay, Name: "beam-node", Span: 1}
}

// ChainSuite links rows of batteries five cells apart.
type ChainSuite struct {
	suite.Suite
	ctx  context.Context
	snap *world.Snapshot
	r    *router.Router
}

func (s *ChainSuite) SetupTest() {
	s.ctx = context.Background()
	s.snap = snapshot(s.T(), 20, 5, nil, nil,
		place("battery", 0, 2, grid.Right, 1),
		place("battery", 5, 2, grid.Right, 1),
		place("battery", 10, 2, grid.Right, 1),
		place("battery", 15, 2, grid.Right, 1),
	)
	s.r = newRouter(s.T(), world.Energy, s.snap.Grid, router.DefaultConfig(world.Energy))
}

func (s *ChainSuite) chain(req router.ChainRequest) router.ChainOutcome {
	if req.Snapshot == nil {
		req.Snapshot = s.snap
	}
	out, err := s.r.Chain(s.ctx, req)
	s.Require().NoError(err)
	return out
}

func (s *ChainSuite) TestNearestFirst() {
	out := s.chain(router.ChainRequest{
		Sources: []grid.Point{pt(0, 2)},
		Targets: []grid.Point{pt(15, 2), pt(5, 2), pt(10, 2)},
	})
	s.Require().Equal(router.Found, out.Status)
	s.Require().Len(out.Hops, 3)
	for i, want := range [][2]grid.Point{{pt(0, 2), pt(5, 2)}, {pt(5, 2), pt(10, 2)}, {pt(10, 2), pt(15, 2)}} {
		h := out.Hops[i]
		s.Equal(want[0], h.From, "hop %d", i)
		s.Equal(want[1], h.To, "hop %d", i)
		s.Equal(router.Found, h.Status, "hop %d", i)
		s.False(h.MaskIgnored)
	}
	s.Equal([]plan.Instruction{relay(4, 2), relay(9, 2), relay(14, 2)}, out.Plan)
	s.Equal(3, out.Attempts)
	s.Positive(out.Evaluations)
	s.Positive(out.Search)
	s.LessOrEqual(out.Search, out.Elapsed)
	s.NoError(out.Err)
}

// TestClosestPair starts at the source closest to a target rather than at
// the first source.
func (s *ChainSuite) TestClosestPair() {
	out := s.chain(router.ChainRequest{
		Sources: []grid.Point{pt(0, 2), pt(15, 2)},
		Targets: []grid.Point{pt(10, 2)},
	})
	s.Require().Equal(router.Found, out.Status)
	s.Require().Len(out.Hops, 1)
	s.Equal(pt(15, 2), out.Hops[0].From)
	s.Equal(pt(10, 2), out.Hops[0].To)
	s.Require().Len(out.Plan, 1)
	s.Equal(pt(11, 2), out.Plan[0].Pos)
	s.Equal(grid.Left, out.Plan[0].Rotation)
}

func (s *ChainSuite) TestNoSources() {
	out := s.chain(router.ChainRequest{
		Targets: []grid.Point{pt(10, 2), pt(5, 2), pt(0, 2)},
	})
	s.Require().Equal(router.Found, out.Status)
	s.Require().Len(out.Hops, 2)
	s.Equal(pt(10, 2), out.Hops[0].From)
	s.Equal(pt(5, 2), out.Hops[0].To)
	s.Equal(pt(5, 2), out.Hops[1].From)
	s.Equal(pt(0, 2), out.Hops[1].To)
}

// TestUnreachableHop keeps the linked hops when a later target sits behind
// a wall wider than a laser.
func (s *ChainSuite) TestUnreachableHop() {
	var wall []grid.Point
	for x := 16; x <= 34; x++ {
		for y := 0; y < 5; y++ {
			wall = append(wall, pt(x, y))
		}
	}
	snap := snapshot(s.T(), 40, 5, wall, nil,
		place("battery", 0, 2, grid.Right, 1),
		place("battery", 5, 2, grid.Right, 1),
		place("battery", 35, 2, grid.Right, 1),
	)
	s.r = newRouter(s.T(), world.Energy, snap.Grid, router.DefaultConfig(world.Energy))
	out := s.chain(router.ChainRequest{
		Snapshot: snap,
		Sources:  []grid.Point{pt(0, 2)},
		Targets:  []grid.Point{pt(5, 2), pt(35, 2)},
	})
	s.Equal(router.NoRoute, out.Status)
	s.Require().Len(out.Hops, 2)
	s.Equal(router.Found, out.Hops[0].Status)
	s.Equal(router.NoRoute, out.Hops[1].Status)
	s.Empty(out.Hops[1].Plan)
	s.Equal(out.Hops[0].Plan, out.Plan)
	s.NoError(out.Err)
}

func (s *ChainSuite) TestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.ctx = ctx
	out := s.chain(router.ChainRequest{
		Sources: []grid.Point{pt(0, 2)},
		Targets: []grid.Point{pt(5, 2)},
	})
	s.Equal(router.Expired, out.Status)
	s.Empty(out.Hops)
	s.Empty(out.Plan)
	s.ErrorIs(out.Err, route.ErrAborted)
}

func (s *ChainSuite) TestErrors() {
	other := snapshot(s.T(), 8, 8, nil, nil)
	tests := []struct {
		name string
		req  router.ChainRequest
		want error
	}{
		{"no snapshot", router.ChainRequest{Targets: []grid.Point{pt(5, 2), pt(0, 2)}}, router.ErrNoSnapshot},
		{"other grid", router.ChainRequest{Snapshot: other, Targets: []grid.Point{pt(5, 2), pt(0, 2)}}, router.ErrGridMismatch},
		{"no targets", router.ChainRequest{Snapshot: s.snap, Sources: []grid.Point{pt(0, 2)}}, router.ErrNoTarget},
		{"lone target", router.ChainRequest{Snapshot: s.snap, Targets: []grid.Point{pt(5, 2)}}, router.ErrNoSource},
		{"source outside", router.ChainRequest{Snapshot: s.snap, Sources: []grid.Point{pt(-1, 2)}, Targets: []grid.Point{pt(5, 2)}}, router.ErrNoSource},
		{"target outside", router.ChainRequest{Snapshot: s.snap, Sources: []grid.Point{pt(0, 2)}, Targets: []grid.Point{pt(20, 2)}}, router.ErrNoTarget},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.r.Chain(s.ctx, tc.req)
			s.ErrorIs(err, tc.want)
		})
	}

	liquid := newRouter(s.T(), world.Liquid, s.snap.Grid, router.DefaultConfig(world.Liquid))
	_, err := liquid.Chain(s.ctx, router.ChainRequest{Snapshot: s.snap, Targets: []grid.Point{pt(5, 2), pt(0, 2)}})
	s.ErrorIs(err, router.ErrChainMedium)
}

func TestChainSuite(t *testing.T) {
	suite.Run(t, new(ChainSuite))
}

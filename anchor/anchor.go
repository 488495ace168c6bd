package anchor

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/world"
)

// Anchor is one candidate endpoint cell.
type Anchor struct {
	Pos grid.Point
	// Side is the side of the source footprint the cell lies on; the first
	// piece of a route starting here faces Side. NoDir for targets.
	Side grid.Dir
}

// Pair is one (source, target) combination to search.
type Pair struct {
	Source, Target Anchor
}

// Candidates holds the sorted anchor lists of one request.
type Candidates struct {
	Sources []Anchor
	Targets []Anchor
}

// Generate computes the anchors between src and dst on s. Sources are the
// unoccupied outer-ring cells of src; targets are the border cells of dst
// with at least one unoccupied in-bounds neighbour. Both lists are sorted by
// Manhattan distance to the other footprint's centre, squared Euclidean
// distance breaking ties, ring order breaking the rest.
//
// Identical footprints yield empty lists.
func Generate(s *world.Snapshot, src, dst grid.Footprint) Candidates {
	var c Candidates
	if src == dst {
		return c
	}
	g := s.Grid
	for _, p := range src.OuterRing(g) {
		if !s.Occupied[g.Index(p)] {
			c.Sources = append(c.Sources, Anchor{Pos: p, Side: src.Side(p)})
		}
	}
	for _, p := range dst.InnerRing() {
		if g.InBounds(p) && hasFreeNeighbour(s, p) {
			c.Targets = append(c.Targets, Anchor{Pos: p, Side: grid.NoDir})
		}
	}
	sortToward(c.Sources, dst.Center)
	sortToward(c.Targets, src.Center)
	return c
}

func hasFreeNeighbour(s *world.Snapshot, p grid.Point) bool {
	for _, n := range s.Grid.Neighbors(s.Grid.Index(p)) {
		if !s.Occupied[n] {
			return true
		}
	}
	return false
}

func sortToward(list []Anchor, c grid.Point) {
	sort.SliceStable(list, func(i, j int) bool {
		mi, mj := list[i].Pos.Manhattan(c), list[j].Pos.Manhattan(c)
		if mi != mj {
			return mi < mj
		}
		return list[i].Pos.Dist2(c) < list[j].Pos.Dist2(c)
	})
}

// Empty reports whether no pair can be formed.
func (c Candidates) Empty() bool {
	return len(c.Sources) == 0 || len(c.Targets) == 0
}

// Restrict returns a copy keeping only the sources on side d.
func (c Candidates) Restrict(d grid.Dir) Candidates {
	out := Candidates{Targets: c.Targets}
	for _, a := range c.Sources {
		if a.Side == d {
			out.Sources = append(out.Sources, a)
		}
	}
	return out
}

// Pairs returns every (source, target) combination once: first the paired
// ranks k = 0..max(len)-1 as (Sources[k mod n], Targets[k mod m]), then the
// remaining cross product in row order.
func (c Candidates) Pairs() []Pair {
	n, m := len(c.Sources), len(c.Targets)
	if n == 0 || m == 0 {
		return nil
	}
	seen := mapset.New[[2]int]()
	out := make([]Pair, 0, n*m)
	add := func(i, j int) {
		key := [2]int{i, j}
		if seen.Has(key) {
			return
		}
		seen.Put(key)
		out = append(out, Pair{Source: c.Sources[i], Target: c.Targets[j]})
	}
	for k := 0; k < max(n, m); k++ {
		add(k%n, k%m)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			add(i, j)
		}
	}
	return out
}

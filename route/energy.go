package route

import (
	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/terrain"
	"github.com/katalvlaran/gridroute/world"
)

// LaserRange is the longest hop between two energy relays.
const LaserRange = 10

// energy routes relay chains: each node hops 1..LaserRange cells over
// anything that is not conductive.
type energy struct {
	m     *terrain.EnergyMap
	state []terrain.EnergyState
}

// Energy returns the energy medium over m. m must stay classified for as
// long as the medium is used.
func Energy(m *terrain.EnergyMap) Medium {
	e := &energy{m: m}
	if m != nil {
		e.state = make([]terrain.EnergyState, m.Grid.Size())
	}
	return e
}

func (e *energy) Kind() world.Medium      { return world.Energy }
func (e *energy) Grid() grid.Grid         { return e.m.Grid }
func (e *energy) ready() bool             { return e.m != nil }
func (e *energy) reach() int              { return LaserRange }
func (e *energy) flipsAfterJump() bool    { return false }
func (e *energy) invisible(*walker) bool  { return false }
func (e *energy) committed(*walker, Node) {}
func (e *energy) retracted(*walker, Node) {}

func (e *energy) Tile(p grid.Point) Tile {
	if !e.m.Grid.InBounds(p) {
		return Tile{}
	}
	return Tile{Conductive: e.m.State[e.m.Grid.Index(p)] == terrain.EnergyConductive}
}

// prepare masks non-conductive cells and pre-visits every blocked cell.
// Both endpoints must be distinct conductive cells.
func (e *energy) prepare(w *walker) bool {
	copy(e.state, e.m.State)
	for i, masked := range w.opts.Mask {
		if masked && e.state[i] != terrain.EnergyConductive {
			e.state[i] = terrain.EnergyBlocked
		}
	}
	if w.opts.hasOverride && w.g.InBounds(w.opts.Override) {
		if i := w.g.Index(w.opts.Override); e.state[i] == terrain.EnergyBlocked {
			e.state[i] = terrain.EnergyEmpty
		}
	}
	for i, st := range e.state {
		w.visited[i] = st == terrain.EnergyBlocked
	}
	from := w.g.Index(w.from)
	return from != w.target &&
		e.state[from] == terrain.EnergyConductive &&
		e.state[w.target] == terrain.EnergyConductive
}

func (e *energy) finish(w *walker) outcome {
	if w.ci == w.target {
		return arrived
	}
	return proceed
}

// enter marks the cursor visited for good: energy backtracking never
// re-lands on an abandoned cell.
func (e *energy) enter(w *walker) {
	w.visited[w.ci] = true
}

func (e *energy) single(w *walker, d grid.Dir) verdict {
	return e.landing(w, d, 1)
}

func (e *energy) landing(w *walker, d grid.Dir, k int) verdict {
	c, ok := e.ray(e.state, w.ci, d, k)
	if !ok {
		return stop
	}
	conductive := e.state[c] == terrain.EnergyConductive
	switch {
	case w.visited[c] && conductive:
		return stop
	case w.visited[c]:
		return pass
	case conductive:
		return landStop
	}
	return land
}

// ray returns the cell k away from i along d when a laser from i can reach
// it: a laser leaving a conductive structure may only touch another
// conductive cell on its first cell, and only within the same structure.
func (e *energy) ray(state []terrain.EnergyState, i int, d grid.Dir, k int) (int, bool) {
	c := e.m.Grid.Step(i, d, k)
	if c < 0 {
		return -1, false
	}
	if state[i] == terrain.EnergyConductive && state[c] == terrain.EnergyConductive &&
		(k != 1 || !e.m.SameOwner(i, c)) {
		return -1, false
	}
	return c, true
}

// shorten points each node at the latest later node (or the target) its
// lasers reach.
func (e *energy) shorten(r Route) []Node {
	g := e.m.Grid
	at := make(map[int]int, len(r.Nodes)+1)
	for i, n := range r.Nodes {
		at[g.Index(n.Pos)] = i
	}
	at[g.Index(r.To)] = len(r.Nodes)

	out := make([]Node, 0, len(r.Nodes))
	for i := 0; i < len(r.Nodes); i++ {
		n := r.Nodes[i]
		ci := g.Index(n.Pos)
		best := i
		for _, d := range grid.Dirs {
			for k := 1; k <= LaserRange; k++ {
				c, ok := e.ray(e.m.State, ci, d, k)
				if !ok {
					break
				}
				if j, hit := at[c]; hit && j > best {
					best, n.Dir, n.Step = j, d, k
				}
				if e.m.State[c] == terrain.EnergyConductive {
					break
				}
			}
		}
		out = append(out, n)
		if best > i {
			i = best - 1
		}
	}
	return out
}

package route

import (
	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/terrain"
	"github.com/katalvlaran/gridroute/world"
)

// flow routes liquid and item chains: single connectors plus bridge jumps of
// 2..terrain.BridgeReach cells.
type flow struct {
	kind  world.Medium
	m     *terrain.FlowMap
	state []terrain.FlowState
	// guard counts the end-chain bridges protecting a cell.
	guard []int
	// guarded parallels the node stack: whether committing the node
	// raised guard counters.
	guarded []bool
}

// Liquid returns the liquid medium over m, which must be a liquid map.
func Liquid(m *terrain.FlowMap) Medium {
	return newFlow(world.Liquid, m)
}

// Item returns the item medium over m, which must be an item map.
func Item(m *terrain.FlowMap) Medium {
	return newFlow(world.Item, m)
}

func newFlow(kind world.Medium, m *terrain.FlowMap) *flow {
	f := &flow{kind: kind, m: m}
	if m != nil {
		n := m.Grid.Size()
		f.state = make([]terrain.FlowState, n)
		f.guard = make([]int, n)
	}
	return f
}

func (f *flow) Kind() world.Medium   { return f.kind }
func (f *flow) Grid() grid.Grid      { return f.m.Grid }
func (f *flow) ready() bool          { return f.m != nil && f.m.Medium == f.kind }
func (f *flow) reach() int           { return terrain.BridgeReach }
func (f *flow) flipsAfterJump() bool { return true }

func (f *flow) Tile(p grid.Point) Tile {
	if !f.m.Grid.InBounds(p) {
		return Tile{}
	}
	i := f.m.Grid.Index(p)
	st := f.m.State[i]
	return Tile{
		Invisible: st == terrain.FlowInvisible,
		Exposed:   st == terrain.FlowCollide || st == terrain.FlowDanger,
		Output:    f.m.Output[i],
	}
}

// prepare builds the working layer: masked cells and the target become
// Block (bridge bases stay Protect), the override cell becomes Empty, and
// every solid cell is pre-visited with all directions tried.
func (f *flow) prepare(w *walker) bool {
	copy(f.state, f.m.State)
	clear(f.guard)
	f.guarded = f.guarded[:0]

	for i, masked := range w.opts.Mask {
		if masked && f.state[i] != terrain.FlowProtect {
			f.state[i] = terrain.FlowBlock
		}
	}
	if w.opts.hasOverride && w.g.InBounds(w.opts.Override) {
		f.state[w.g.Index(w.opts.Override)] = terrain.FlowEmpty
	}
	if f.state[w.target] != terrain.FlowProtect {
		f.state[w.target] = terrain.FlowBlock
	}
	for i, st := range f.state {
		if st.Solid() {
			w.block(i)
		}
	}

	w.startDir = w.opts.StartDir
	from := w.g.Index(w.from)
	return from != w.target && !f.state[from].Solid()
}

// finish applies the terminal rule one step away from the target: the last
// piece must not reverse, must not have an emitter behind it and must not
// run along the axis of an invisible conduit. A cell failing the rule is
// abandoned.
func (f *flow) finish(w *walker) outcome {
	if w.cur.Manhattan(w.to) != 1 {
		return proceed
	}
	d := w.cur.DirTo(w.to)
	invisible := f.state[w.ci] == terrain.FlowInvisible
	legal := d != w.prevDir.Opposite() &&
		!f.behind(w.ci, d) &&
		!(invisible && f.m.Horizontal[w.ci] == d.Horizontal())
	if len(w.nodes) == 0 {
		legal = legal && (!w.startDir.Valid() || d != w.startDir.Opposite()) && (!invisible || d == w.startDir)
	} else {
		legal = legal && (!invisible || d == w.prevDir)
	}
	if !legal {
		return blocked
	}
	w.nodes = append(w.nodes, Node{Pos: w.cur, Dir: d, Step: 1})
	return arrived
}

// enter releases the cursor so it can be re-evaluated from a new entry.
func (f *flow) enter(w *walker) {
	w.visited[w.ci] = false
	w.nodeAt[w.ci] = -1
}

func (f *flow) invisible(w *walker) bool {
	return f.state[w.ci] == terrain.FlowInvisible
}

func (f *flow) single(w *walker, d grid.Dir) verdict {
	ci := w.ci
	n1 := w.g.Step(ci, d, 1)
	if n1 < 0 {
		return stop
	}
	step := w.evalStep()
	if !w.visited[n1] && !w.full(n1, d) && (step <= 1 || f.guard[ci] == 0) {
		if f.illegalSingle(w, d, step) {
			return stop
		}
		if len(w.nodes) == 0 && w.startDir.Valid() && d != w.startDir {
			return stop
		}
		return landStop
	}
	if f.guard[ci] == 0 && f.state[n1] != terrain.FlowProtect && f.canBridge(w, d, step) {
		return pass
	}
	return stop
}

func (f *flow) illegalSingle(w *walker, d grid.Dir, step int) bool {
	ci := w.ci
	st := f.state[ci]
	if st == terrain.FlowInvisible && f.m.Horizontal[ci] == d.Horizontal() {
		return true
	}
	if (st == terrain.FlowCollide || st == terrain.FlowDanger) && step == 1 && f.behind(ci, d) {
		return true
	}
	if step <= 1 {
		return false
	}
	// Right after a bridge the next cells must not feed a bridge base or
	// run into a part of the route built by bridges.
	for k := 1; k <= terrain.BridgeReach; k++ {
		c := w.g.Step(ci, d, k)
		if c < 0 {
			break
		}
		if f.state[c] == terrain.FlowProtect {
			return true
		}
		if !w.visited[c] {
			continue
		}
		j := w.nodeAt[c]
		if (j >= 0 && w.nodes[j].Step != 1) || (j-1 >= 0 && w.nodes[j-1].Step != 1) {
			return true
		}
	}
	return false
}

// canBridge reports whether a bridge may be based at the cursor facing d.
// A dangerous cell takes no bridge when an emitter sits on a side the
// previous piece does not feed from.
func (f *flow) canBridge(w *walker, d grid.Dir, step int) bool {
	switch f.state[w.ci] {
	case terrain.FlowInvisible, terrain.FlowCollide, terrain.FlowDamage:
		return false
	case terrain.FlowDanger:
		return step == 0 || !f.fedSide(w.ci, d, w.prevDir)
	}
	return true
}

func (f *flow) landing(w *walker, d grid.Dir, k int) verdict {
	c := w.g.Step(w.ci, d, k)
	if c < 0 {
		return stop
	}
	switch f.state[c] {
	case terrain.FlowInvisible, terrain.FlowCollide, terrain.FlowDamage:
		return pass
	}
	if w.visited[c] || w.full(c, d) {
		return pass
	}
	for j := 2; j < k; j++ {
		if f.state[w.g.Step(w.ci, d, j)] == terrain.FlowProtect {
			return stop
		}
	}
	return landStop
}

// committed raises the guard ahead of a single piece placed right after a
// bridge when an emitter could feed it from the side, making that bridge
// an end-chain bridge the route must not bridge over again.
func (f *flow) committed(w *walker, n Node) {
	last := len(w.nodes) - 1
	raise := n.Step == 1 && last > 0 && w.nodes[last-1].Step > 1 &&
		f.fedSide(w.g.Index(n.Pos), n.Dir, w.nodes[last-1].Dir)
	f.guarded = append(f.guarded, raise)
	if raise {
		f.adjustGuard(n, 1)
	}
}

func (f *flow) retracted(w *walker, n Node) {
	last := len(f.guarded) - 1
	if last < 0 {
		return
	}
	raised := f.guarded[last]
	f.guarded = f.guarded[:last]
	if raised {
		f.adjustGuard(n, -1)
	}
}

func (f *flow) adjustGuard(n Node, delta int) {
	i := f.m.Grid.Index(n.Pos)
	for k := 1; k <= terrain.BridgeReach; k++ {
		c := f.m.Grid.Step(i, n.Dir, k)
		if c < 0 {
			return
		}
		f.guard[c] += delta
	}
}

// fedSide reports whether an emitter sits on a side of cell i other than
// its output d, excluding the side the previous piece (facing p) enters
// from.
func (f *flow) fedSide(i int, d, p grid.Dir) bool {
	for _, s := range grid.Dirs {
		if s == d || p == s.Opposite() {
			continue
		}
		if c := f.m.Grid.Step(i, s, 1); c >= 0 && f.m.Output[c] {
			return true
		}
	}
	return false
}

// behind reports whether the cell opposite d emits the medium.
func (f *flow) behind(i int, d grid.Dir) bool {
	c := f.m.Grid.Step(i, d.Opposite(), 1)
	return c >= 0 && f.m.Output[c]
}

// shorten replaces single-piece detours with a direct turn into the latest
// later node adjacent to the current one.
func (f *flow) shorten(r Route) []Node {
	g := f.m.Grid
	at := make(map[int]int, len(r.Nodes))
	for i, n := range r.Nodes {
		at[g.Index(n.Pos)] = i
	}

	out := make([]Node, 0, len(r.Nodes))
	for i := 0; i < len(r.Nodes); i++ {
		n := r.Nodes[i]
		if j, d := f.shortcut(r, out, i, at); j > i {
			n.Dir = d
			i = j - 1
		}
		out = append(out, n)
	}
	return out
}

// shortcut returns the index of the latest later node node i can turn into
// and the turn direction, or i when there is none.
func (f *flow) shortcut(r Route, out []Node, i int, at map[int]int) (int, grid.Dir) {
	g := f.m.Grid
	n := r.Nodes[i]
	ci := g.Index(n.Pos)
	best, bestDir := i, grid.NoDir

	if n.Step != 1 || (i == 0 && r.StartDir.Valid()) {
		return best, bestDir
	}
	switch f.m.State[ci] {
	case terrain.FlowInvisible, terrain.FlowCollide, terrain.FlowDanger:
		return best, bestDir
	}
	prevDir := grid.NoDir
	if len(out) > 0 {
		prev := out[len(out)-1]
		if prev.Step != 1 {
			return best, bestDir
		}
		prevDir = prev.Dir
	}

	for _, d := range grid.Dirs {
		if d == n.Dir || (prevDir.Valid() && d == prevDir.Opposite()) {
			continue
		}
		c := g.Step(ci, d, 1)
		if c < 0 {
			continue
		}
		j, ok := at[c]
		if !ok || j <= best {
			continue
		}
		if f.behind(ci, d) || f.m.State[c] == terrain.FlowInvisible {
			continue
		}
		if r.Nodes[j].Step != 1 || r.Nodes[j-1].Step != 1 {
			continue
		}
		best, bestDir = j, d
	}
	return best, bestDir
}

package route

import (
	"fmt"
	"time"

	"github.com/katalvlaran/gridroute/grid"
)

// Searcher runs route searches for one Medium. The search layers are
// allocated once and reset on every call, so a Searcher is cheap to reuse
// but must not be used from two goroutines at once.
type Searcher struct {
	m Medium
	w walker
}

// NewSearcher allocates the search layers for m.
// Returns ErrMediumNotReady for a nil medium or a mismatched terrain map.
func NewSearcher(m Medium) (*Searcher, error) {
	if m == nil || !m.ready() {
		return nil, ErrMediumNotReady
	}
	g := m.Grid()
	n := g.Size()
	return &Searcher{
		m: m,
		w: walker{
			g:       g,
			visited: make([]bool, n),
			tried:   make([]bool, n*4),
			nodeAt:  make([]int, n),
			nodes:   make([]Node, 0, g.Width+g.Height),
		},
	}, nil
}

// Medium returns the medium the searcher was built for.
func (s *Searcher) Medium() Medium {
	return s.m
}

// Search walks from from toward to and returns the outcome.
//
// A missing route is not an error: Result.Status is Failed or Expired.
// Errors are returned only for invalid input: ErrOutOfBounds,
// ErrOptionViolation or ErrMaskSize.
//
// Complexity: O(W×H×4×R) evaluations worst case.
func (s *Searcher) Search(from, to grid.Point, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Result{}, o.err
	}
	g := s.w.g
	if !g.InBounds(from) || !g.InBounds(to) {
		return Result{}, fmt.Errorf("%w: %v -> %v on %dx%d", ErrOutOfBounds, from, to, g.Width, g.Height)
	}
	if o.Mask != nil && len(o.Mask) != g.Size() {
		return Result{}, fmt.Errorf("%w: %d cells, want %d", ErrMaskSize, len(o.Mask), g.Size())
	}

	w := &s.w
	w.reset(from, to, o)
	res := Result{Status: w.run(s.m)}
	res.Evaluations = w.evals
	res.Elapsed = time.Since(w.started)
	res.Err = w.cause
	if res.Status == Succeeded {
		res.Route = Route{
			Medium:   s.m.Kind(),
			From:     from,
			To:       to,
			StartDir: w.startDir,
			Nodes:    append([]Node(nil), w.nodes...),
		}
	}
	return res, nil
}

// walker encapsulates the mutable state of one search.
type walker struct {
	g    grid.Grid
	opts Options

	from, to grid.Point
	target   int

	// visited marks committed (or solid) cells.
	visited []bool
	// tried marks cell×direction pairs known to dead-end; it survives
	// backtracking.
	tried []bool
	// nodeAt holds the stack index of the node committed at a cell, or -1.
	nodeAt []int
	nodes  []Node

	cur      grid.Point
	ci       int
	prevDir  grid.Dir
	prevStep int
	initDir  grid.Dir
	startDir grid.Dir
	retried  bool

	best     Node
	bestDist int

	evals    int
	started  time.Time
	deadline time.Time
	timed    bool
	cause    error
}

func (w *walker) reset(from, to grid.Point, o Options) {
	clear(w.visited)
	clear(w.tried)
	for i := range w.nodeAt {
		w.nodeAt[i] = -1
	}
	w.nodes = w.nodes[:0]

	w.opts = o
	w.from, w.to = from, to
	w.target = w.g.Index(to)
	w.initDir = axisToward(from, to)
	w.startDir = grid.NoDir
	w.retried = false

	w.evals = 0
	w.cause = nil
	w.started = time.Now()
	w.timed = o.Budget >= 0
	w.deadline = w.started.Add(o.Budget)
}

// run is the main loop. The stack of committed nodes is the only memory of
// the path; index arithmetic replaces recursion.
func (w *walker) run(m Medium) Status {
	if !m.prepare(w) {
		return Failed
	}
	w.moveTo(w.from)
	w.prevDir, w.prevStep = w.initDir, 1

	var buf [4]grid.Dir
	for {
		if w.checkpoint() {
			return Expired
		}
		out := m.finish(w)
		if out == arrived {
			if w.late() {
				return Expired
			}
			return Succeeded
		}
		m.enter(w)
		if out != blocked && w.expand(m, buf[:0]) {
			w.commit(m)
			continue
		}
		if !w.backtrack(m) {
			return Failed
		}
	}
}

// checkpoint counts one evaluation and, on the first one and every
// Frequency-th after it, consults the context, the abort hook and the
// deadline.
func (w *walker) checkpoint() bool {
	w.evals++
	if (w.evals-1)%w.opts.Frequency != 0 {
		return false
	}
	select {
	case <-w.opts.Ctx.Done():
		w.cause = fmt.Errorf("%w: %w", ErrAborted, w.opts.Ctx.Err())
		return true
	default:
	}
	if w.opts.Abort != nil && w.opts.Abort() {
		w.cause = ErrAborted
		return true
	}
	return w.late()
}

// late reports whether the deadline has passed. Arrival consults it too, so
// a route found after the budget ran out between two checkpoints is still
// Expired.
func (w *walker) late() bool {
	return w.timed && !time.Now().Before(w.deadline)
}

// expand evaluates every allowed direction from the cursor and keeps the
// candidate strictly closest to the target; the first evaluated wins ties.
func (w *walker) expand(m Medium, buf []grid.Dir) bool {
	w.bestDist = w.g.Width + w.g.Height
	found := false
	reach := m.reach()
	for _, d := range w.order(m, buf) {
		if !w.allowed(m, d) {
			continue
		}
		for k := 1; k <= reach; k++ {
			var v verdict
			if k == 1 {
				v = m.single(w, d)
			} else {
				v = m.landing(w, d, k)
			}
			if v.lands() {
				if dist := w.cur.Add(d, k).Manhattan(w.to); dist < w.bestDist {
					w.best = Node{Pos: w.cur, Dir: d, Step: k}
					w.bestDist = dist
					found = true
				}
			}
			if v.stops() {
				break
			}
		}
	}
	return found
}

// order returns the direction priority at the cursor.
func (w *walker) order(m Medium, buf []grid.Dir) []grid.Dir {
	h1, h2 := grid.Left, grid.Right
	if w.cur.X < w.to.X {
		h1, h2 = grid.Right, grid.Left
	}
	v1, v2 := grid.Down, grid.Up
	if w.cur.Y < w.to.Y {
		v1, v2 = grid.Up, grid.Down
	}
	// Right after a bridge the perpendiculars go first, so the route does
	// not grow parallel straight lanes that later bridges cannot cross.
	jumped := m.flipsAfterJump() && w.prevStep > 1

	if w.opts.TargetMode {
		if abs(w.cur.X-w.to.X) > abs(w.cur.Y-w.to.Y) {
			if jumped {
				return append(buf, v1, v2, h1, h2)
			}
			return append(buf, h1, v1, v2, h2)
		}
		if jumped {
			return append(buf, h1, h2, v1, v2)
		}
		return append(buf, v1, h1, h2, v2)
	}

	p := w.prevDir
	a1, a2 := h1, h2
	if p.Horizontal() {
		a1, a2 = v1, v2
	}
	if jumped {
		buf = append(buf, a1, a2, p)
	} else {
		buf = append(buf, p, a1, a2)
	}
	if len(w.nodes) == 0 {
		buf = append(buf, buf[0].Opposite())
	}
	return buf
}

// allowed filters reversals and the fixed axis of invisible cells.
func (w *walker) allowed(m Medium, d grid.Dir) bool {
	invisible := m.invisible(w)
	if len(w.nodes) == 0 {
		if w.startDir.Valid() && d == w.startDir.Opposite() {
			return false
		}
		return !invisible || d == w.startDir
	}
	return d != w.prevDir.Opposite() && (!invisible || d == w.prevDir)
}

func (w *walker) commit(m Medium) {
	n := w.best
	w.nodeAt[w.ci] = len(w.nodes)
	w.visited[w.ci] = true
	w.tried[w.ci*4+int(n.Dir)] = true
	w.nodes = append(w.nodes, n)
	m.committed(w, n)
	if w.opts.Trace != nil {
		w.opts.Trace(Advancing, n)
	}
	w.moveTo(n.End())
	w.prevDir, w.prevStep = n.Dir, n.Step
}

// backtrack abandons the cursor and returns to the previous node. It
// reports false when there is nothing left to return to.
func (w *walker) backtrack(m Medium) bool {
	if len(w.nodes) == 0 {
		// A pinned first node gets one more attempt with its neighbours
		// sealed, which leaves only bridge starts.
		if w.startDir.Valid() && !w.retried {
			w.retried = true
			w.seal(w.ci)
			return true
		}
		return false
	}

	back := w.prevDir.Opposite()
	for _, d := range grid.Dirs {
		if d != back {
			w.tried[w.ci*4+int(d)] = true
		}
	}

	last := len(w.nodes) - 1
	n := w.nodes[last]
	w.nodes = w.nodes[:last]
	m.retracted(w, n)
	if w.opts.Trace != nil {
		w.opts.Trace(Backtracking, n)
	}
	w.moveTo(n.Pos)
	if last > 0 {
		top := w.nodes[last-1]
		w.prevDir, w.prevStep = top.Dir, top.Step
	} else {
		w.prevDir, w.prevStep = w.initDir, 1
	}
	return true
}

// seal marks the neighbours of i visited with every direction tried.
func (w *walker) seal(i int) {
	for _, d := range grid.Dirs {
		if j := w.g.Step(i, d, 1); j >= 0 {
			w.block(j)
		}
	}
}

func (w *walker) block(i int) {
	w.visited[i] = true
	for d := 0; d < 4; d++ {
		w.tried[i*4+d] = true
	}
}

func (w *walker) moveTo(p grid.Point) {
	w.cur = p
	w.ci = w.g.Index(p)
}

// evalStep is the previous step length, or 0 at the first node so that the
// first piece accepts input from any side.
func (w *walker) evalStep() int {
	if len(w.nodes) == 0 {
		return 0
	}
	return w.prevStep
}

// full reports whether entering cell i along d leaves no untried way on.
func (w *walker) full(i int, d grid.Dir) bool {
	a, b := d.Turns()
	base := i * 4
	return w.tried[base+int(d)] && w.tried[base+int(a)] && w.tried[base+int(b)]
}

// axisToward returns the direction along the dominant axis from p to q.
func axisToward(p, q grid.Point) grid.Dir {
	if abs(p.X-q.X) > abs(p.Y-q.Y) {
		if p.X < q.X {
			return grid.Right
		}
		return grid.Left
	}
	if p.Y < q.Y {
		return grid.Up
	}
	return grid.Down
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

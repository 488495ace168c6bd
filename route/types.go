package route

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/world"
)

// Sentinel errors for route search.
var (
	// ErrOutOfBounds is returned when an endpoint lies outside the grid.
	ErrOutOfBounds = errors.New("route: endpoint outside grid")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("route: invalid option supplied")

	// ErrMediumNotReady is returned for a nil medium or a medium whose
	// terrain map belongs to another medium.
	ErrMediumNotReady = errors.New("route: medium not ready")

	// ErrMaskSize is returned when a mask does not cover the grid exactly.
	ErrMaskSize = errors.New("route: mask size does not match grid")

	// ErrAborted marks a search stopped by its context or abort hook.
	ErrAborted = errors.New("route: search aborted")
)

// Defaults used by DefaultOptions.
const (
	DefaultFrequency = 1000
	DefaultBudget    = 100 * time.Millisecond
)

// Status is the terminal (or transient) state of a search. Search only
// returns terminal states; the transient ones reach the WithTrace hook.
type Status uint8

const (
	// Advancing: a forward step was committed.
	Advancing Status = iota
	// Backtracking: the last committed step was undone.
	Backtracking
	// Succeeded: the route reaches the target.
	Succeeded
	// Failed: the first node ran out of directions.
	Failed
	// Expired: the deadline passed or the search was aborted.
	Expired
)

var statusNames = [...]string{"advancing", "backtracking", "succeeded", "failed", "expired"}

// String implements fmt.Stringer.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", s)
}

// Node is one committed decision: at Pos, go Step cells along Dir.
type Node struct {
	Pos  grid.Point
	Dir  grid.Dir
	Step int
}

// End returns the cell the node leads to.
func (n Node) End() grid.Point {
	return n.Pos.Add(n.Dir, n.Step)
}

// Route is an ordered chain of nodes from From to To. Every node ends where
// the next one starts; the last node ends on To.
type Route struct {
	Medium   world.Medium
	From, To grid.Point
	// StartDir is the facing the first node was pinned to, or NoDir.
	StartDir grid.Dir
	Nodes    []Node
}

// Len returns the number of nodes.
func (r Route) Len() int {
	return len(r.Nodes)
}

// Length returns the number of cells covered, the sum of all steps.
func (r Route) Length() int {
	total := 0
	for _, n := range r.Nodes {
		total += n.Step
	}
	return total
}

// Index returns the position of the node placed at p, or -1.
func (r Route) Index(p grid.Point) int {
	for i, n := range r.Nodes {
		if n.Pos == p {
			return i
		}
	}
	return -1
}

// Result is the outcome of one Search call.
type Result struct {
	Status      Status
	Route       Route
	Evaluations int
	Elapsed     time.Duration
	// Err is ErrAborted (possibly wrapping the context error) when an
	// Expired search was cancelled instead of running out of time.
	Err error
}

// Option configures a search via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation by Search.
type Option func(*Options)

// Options holds the per-call search parameters.
type Options struct {
	// Ctx is checked at every checkpoint.
	Ctx context.Context

	// Frequency is the number of evaluations between deadline checks.
	// The first evaluation is always checked.
	Frequency int

	// Budget is the wall-clock budget of the call. Negative disables it.
	Budget time.Duration

	// TargetMode orders directions toward the target; otherwise the
	// previous direction is kept until an obstacle.
	TargetMode bool

	// StartDir pins the facing of the first node (flow media only).
	StartDir grid.Dir

	// Override is a cell treated as empty for this call.
	Override    grid.Point
	hasOverride bool

	// Mask marks cells that must not hold a piece. Nil means no mask.
	Mask []bool

	// Abort is polled at every checkpoint; true stops the search.
	Abort func() bool

	// Trace receives every commit (Advancing) and every undo (Backtracking)
	// with the node concerned. Nil disables tracing.
	Trace func(Status, Node)

	err error
}

// DefaultOptions returns Options with:
//   - context.Background()
//   - Frequency 1000, Budget 100ms
//   - target mode on
//   - no start direction, override, mask or abort hook.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		Frequency:  DefaultFrequency,
		Budget:     DefaultBudget,
		TargetMode: true,
		StartDir:   grid.NoDir,
	}
}

// WithContext sets a context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithFrequency sets the number of evaluations between deadline checks.
//
//	n > 0:  check every n evaluations
//	n <= 0: invalid option → ErrOptionViolation
func WithFrequency(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: Frequency must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.Frequency = n
	}
}

// WithBudget sets the wall-clock budget. A negative budget disables the
// deadline; a zero budget expires at the first checkpoint.
func WithBudget(d time.Duration) Option {
	return func(o *Options) {
		o.Budget = d
	}
}

// WithTargetMode selects target-direction (true) or continuation ordering.
func WithTargetMode(on bool) Option {
	return func(o *Options) {
		o.TargetMode = on
	}
}

// WithStartDir pins the first node's facing. NoDir clears it.
func WithStartDir(d grid.Dir) Option {
	return func(o *Options) {
		if d != grid.NoDir && !d.Valid() {
			o.err = fmt.Errorf("%w: StartDir %d", ErrOptionViolation, d)
			return
		}
		o.StartDir = d
	}
}

// WithOverride treats p as an empty cell for this call.
func WithOverride(p grid.Point) Option {
	return func(o *Options) {
		o.Override = p
		o.hasOverride = true
	}
}

// WithMask forbids placement on the marked cells.
func WithMask(mask []bool) Option {
	return func(o *Options) {
		o.Mask = mask
	}
}

// WithAbort registers an external cancellation hook.
func WithAbort(fn func() bool) Option {
	return func(o *Options) {
		o.Abort = fn
	}
}

// WithTrace registers fn to observe the walk step by step.
func WithTrace(fn func(Status, Node)) Option {
	return func(o *Options) {
		o.Trace = fn
	}
}

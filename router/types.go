package router

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/world"
)

// Sentinel errors for route requests.
var (
	// ErrNoSnapshot is returned for a request without a snapshot.
	ErrNoSnapshot = errors.New("router: request has no snapshot")

	// ErrGridMismatch is returned when the snapshot grid differs from the
	// grid the router was built for.
	ErrGridMismatch = errors.New("router: snapshot grid does not match router")

	// ErrNoSource is returned when the source cell lies outside the grid.
	ErrNoSource = errors.New("router: source outside grid")

	// ErrNoTarget is returned when the target cell lies outside the grid.
	ErrNoTarget = errors.New("router: target outside grid")

	// ErrConfig is returned by New for an invalid Config.
	ErrConfig = errors.New("router: invalid config")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("router: invalid option supplied")
)

// Status is the result class of a request.
type Status uint8

const (
	// NoRoute: every anchor pair was tried without success.
	NoRoute Status = iota
	// Found: Outcome.Plan holds the build plan.
	Found
	// Expired: the total budget ran out or the request was aborted.
	Expired
)

var statusNames = [...]string{"no-route", "found", "expired"}

// String implements fmt.Stringer.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", s)
}

// Config tunes one medium's router.
type Config struct {
	// Frequency is the number of evaluations between deadline checks.
	Frequency int
	// AttemptBudget bounds one anchor pair; TotalBudget bounds the request.
	AttemptBudget time.Duration
	TotalBudget   time.Duration
	// TargetMode orders directions toward the target.
	TargetMode bool
	// MaskFallback retries without the exclusion mask when the masked
	// attempts find nothing.
	MaskFallback bool
	// Mask selects the own structures that get an exclusion ring.
	Mask world.MaskCategories
	// ReplaceOne turns an own source connector into a splitter instead of
	// restricting the route to the connector's front (flow media).
	ReplaceOne bool
	// ReplaceWith is the item splitter block.
	ReplaceWith plan.SplitterKind
}

// DefaultConfig returns the defaults for m:
//   - Frequency 1000, target mode on, mask fallback on
//   - budgets 20ms/200ms for energy, 100ms/1s for liquid and item
//   - exclusion ring around cores
//   - source connectors replaced by a router.
func DefaultConfig(m world.Medium) Config {
	c := Config{
		Frequency:     route.DefaultFrequency,
		AttemptBudget: 100 * time.Millisecond,
		TotalBudget:   time.Second,
		TargetMode:    true,
		MaskFallback:  true,
		Mask:          world.MaskCategories{Core: true},
		ReplaceOne:    m != world.Energy,
		ReplaceWith:   plan.Router,
	}
	if m == world.Energy {
		c.AttemptBudget = 20 * time.Millisecond
		c.TotalBudget = 200 * time.Millisecond
	}
	return c
}

// Validate reports the first invalid field as ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.Frequency <= 0:
		return fmt.Errorf("%w: frequency must be positive (%d)", ErrConfig, c.Frequency)
	case c.AttemptBudget < 0:
		return fmt.Errorf("%w: attempt budget %v", ErrConfig, c.AttemptBudget)
	case c.TotalBudget < c.AttemptBudget:
		return fmt.Errorf("%w: total budget %v below attempt budget %v", ErrConfig, c.TotalBudget, c.AttemptBudget)
	case c.ReplaceWith > plan.Underflow:
		return fmt.Errorf("%w: replace with %v", ErrConfig, c.ReplaceWith)
	}
	return nil
}

// Request is one route request.
type Request struct {
	Snapshot *world.Snapshot
	From, To grid.Point
	// Abort is polled between attempts and at every search checkpoint;
	// true expires the request. May be nil.
	Abort func() bool
}

// Outcome is the answer to a Request.
type Outcome struct {
	Medium world.Medium
	Status Status
	// Plan is the ordered build plan when Status is Found.
	Plan []plan.Instruction
	// Route is the reduced route the plan was assembled from.
	Route route.Route
	// RawLength is the cell length of the route before reduction.
	RawLength int
	// Attempts counts searches run; Evaluations sums their evaluations.
	Attempts    int
	Evaluations int
	// MaskIgnored is set when the route was found without the mask.
	MaskIgnored bool
	// Search sums the wall time of the attempts; Elapsed covers the whole
	// request including classification and plan assembly.
	Search  time.Duration
	Elapsed time.Duration
	// Err carries route.ErrAborted when an Expired request was cancelled.
	Err error
}

// Option configures a Router.
type Option func(*Options)

// Options holds Router settings.
type Options struct {
	Logger *slog.Logger
	err    error
}

// DefaultOptions returns Options with a discarding logger.
func DefaultOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithLogger sets the logger. nil is an ErrOptionViolation.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			o.err = fmt.Errorf("%w: nil logger", ErrOptionViolation)
			return
		}
		o.Logger = l
	}
}

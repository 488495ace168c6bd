package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/world"
)

// Sentinel errors.
var (
	// ErrNilFactory is returned by New when no router factory is given.
	ErrNilFactory = errors.New("worker: nil router factory")

	// ErrQueueFull is returned by Submit when the queue has no free slot.
	ErrQueueFull = errors.New("worker: queue full")

	// ErrStopped is returned by Submit once Run has returned.
	ErrStopped = errors.New("worker: stopped")

	// ErrRunning is returned by a second call to Run.
	ErrRunning = errors.New("worker: already running")

	// ErrTaskPanic marks a result whose task panicked.
	ErrTaskPanic = errors.New("worker: task panicked")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("worker: invalid option supplied")
)

// DefaultQueueSize is the queue capacity used when none is configured.
const DefaultQueueSize = 16

// Router is the part of *router.Router the worker drives.
type Router interface {
	Grid() grid.Grid
	Route(ctx context.Context, req router.Request) (router.Outcome, error)
}

// Factory builds the router for medium m on grid g.
type Factory func(m world.Medium, g grid.Grid) (Router, error)

// NewFactory returns a Factory building *router.Router values with the
// configuration of their medium; media missing from cfgs use
// router.DefaultConfig.
func NewFactory(cfgs map[world.Medium]router.Config, opts ...router.Option) Factory {
	return func(m world.Medium, g grid.Grid) (Router, error) {
		cfg, ok := cfgs[m]
		if !ok {
			cfg = router.DefaultConfig(m)
		}
		r, err := router.New(m, g, cfg, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Request is one queued route request.
type Request struct {
	Medium   world.Medium
	Snapshot *world.Snapshot
	From, To grid.Point
}

// Result is a published answer.
type Result struct {
	ID      uuid.UUID
	Medium  world.Medium
	From    grid.Point
	To      grid.Point
	Epoch   uint64
	Outcome router.Outcome
	// Err is a precondition error from the router or ErrTaskPanic.
	Err error
	// Waited is the time spent queued; Total runs from Submit to publish.
	Waited time.Duration
	Total  time.Duration
}

// task is a Request stamped by Submit.
type task struct {
	Request
	id       uuid.UUID
	epoch    uint64
	enqueued time.Time
}

// Option configures a Worker.
type Option func(*Options)

// Options holds Worker settings.
type Options struct {
	QueueSize int
	Logger    *slog.Logger
	err       error
}

// DefaultOptions returns a queue of DefaultQueueSize and a discarding logger.
func DefaultOptions() Options {
	return Options{
		QueueSize: DefaultQueueSize,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithQueueSize sets the queue capacity; n < 1 is an ErrOptionViolation.
func WithQueueSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: queue size %d", ErrOptionViolation, n)
			return
		}
		o.QueueSize = n
	}
}

// WithLogger sets the logger; nil is an ErrOptionViolation.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			o.err = fmt.Errorf("%w: nil logger", ErrOptionViolation)
			return
		}
		o.Logger = l
	}
}

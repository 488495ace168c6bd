package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/world"
)

// Worker owns the routers and runs every request on its Run goroutine.
type Worker struct {
	factory Factory
	log     *slog.Logger

	queue   chan task
	results chan Result
	epoch   atomic.Uint64
	running atomic.Bool
	stopped atomic.Bool

	// routers is touched only by the Run goroutine.
	routers map[world.Medium]Router
}

// New returns an idle Worker. Call Run to start consuming.
func New(factory Factory, opts ...Option) (*Worker, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &Worker{
		factory: factory,
		log:     o.Logger,
		queue:   make(chan task, o.QueueSize),
		results: make(chan Result, 1),
		routers: make(map[world.Medium]Router, len(world.Media)),
	}, nil
}

// Submit enqueues req under the current epoch and returns its id.
// Returns ErrQueueFull or ErrStopped without blocking.
func (w *Worker) Submit(req Request) (uuid.UUID, error) {
	if w.stopped.Load() {
		return uuid.Nil, ErrStopped
	}
	t := task{Request: req, id: uuid.New(), epoch: w.epoch.Load(), enqueued: time.Now()}
	select {
	case w.queue <- t:
		return t.id, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %d pending", ErrQueueFull, cap(w.queue))
	}
}

// Invalidate starts a new epoch, dropping queued and in-flight work, and
// returns the new epoch.
func (w *Worker) Invalidate() uint64 {
	e := w.epoch.Add(1)
	w.log.Debug("worker: invalidated", slog.Uint64("epoch", e))
	return e
}

// Epoch returns the current epoch.
func (w *Worker) Epoch() uint64 { return w.epoch.Load() }

// Pending returns the number of queued requests.
func (w *Worker) Pending() int { return len(w.queue) }

// Results returns the result stream. It is closed when Run returns.
func (w *Worker) Results() <-chan Result { return w.results }

// Run consumes the queue until ctx is done. Cancelling ctx also bumps the
// epoch so a search in flight stops at its next checkpoint.
// Returns ErrRunning on a second call; a plain cancellation returns nil.
func (w *Worker) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(w.results)
	defer w.stopped.Store(true)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.loop(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		w.Invalidate()
		return nil
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (w *Worker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-w.queue:
			res, ok := w.process(ctx, t)
			if !ok {
				continue
			}
			if w.stale(t) {
				w.drop(t, "before publish")
				continue
			}
			res.Total = time.Since(t.enqueued)
			select {
			case w.results <- res:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (w *Worker) stale(t task) bool { return t.epoch != w.epoch.Load() }

func (w *Worker) drop(t task, where string) {
	w.log.Debug("worker: dropped stale request",
		slog.String("id", t.id.String()),
		slog.String("where", where),
		slog.Uint64("epoch", t.epoch),
		slog.Uint64("current", w.epoch.Load()))
}

// process routes one task. ok is false when the task went stale.
func (w *Worker) process(ctx context.Context, t task) (res Result, ok bool) {
	if w.stale(t) {
		w.drop(t, "on dequeue")
		return Result{}, false
	}
	started := time.Now()
	res = Result{ID: t.id, Medium: t.Medium, From: t.From, To: t.To, Epoch: t.epoch, Waited: started.Sub(t.enqueued)}

	defer func() {
		if p := recover(); p != nil {
			w.log.Error("worker: task panicked",
				slog.String("id", t.id.String()),
				slog.String("medium", t.Medium.String()),
				slog.Any("from", t.From), slog.Any("to", t.To),
				slog.Uint64("epoch", t.epoch),
				slog.Uint64("current", w.epoch.Load()),
				slog.Any("panic", p),
				slog.String("stack", string(debug.Stack())))
			res.Outcome = router.Outcome{}
			res.Err = fmt.Errorf("%w: %v", ErrTaskPanic, p)
			ok = true
		}
	}()

	if t.Snapshot == nil {
		res.Err = router.ErrNoSnapshot
		w.fail(t, res.Err)
		return res, true
	}
	r, err := w.router(t.Medium, t.Snapshot)
	if err != nil {
		res.Err = err
		w.fail(t, err)
		return res, true
	}
	out, err := r.Route(ctx, router.Request{
		Snapshot: t.Snapshot,
		From:     t.From,
		To:       t.To,
		Abort:    func() bool { return w.stale(t) },
	})
	if err != nil {
		res.Err = err
		w.fail(t, err)
		return res, true
	}
	if out.Status == router.Expired && w.stale(t) {
		w.drop(t, "in flight")
		return Result{}, false
	}
	res.Outcome = out
	w.log.Debug("worker: routed",
		slog.String("id", t.id.String()),
		slog.String("medium", t.Medium.String()),
		slog.String("status", out.Status.String()),
		slog.Duration("search", out.Search),
		slog.Duration("total", time.Since(t.enqueued)))
	return res, true
}

func (w *Worker) fail(t task, err error) {
	w.log.Error("worker: request failed",
		slog.String("id", t.id.String()),
		slog.String("medium", t.Medium.String()),
		slog.Any("from", t.From), slog.Any("to", t.To),
		slog.Uint64("epoch", t.epoch),
		slog.Any("err", err))
}

// router returns the cached router for m, rebuilding it when snap lives on
// another grid.
func (w *Worker) router(m world.Medium, snap *world.Snapshot) (Router, error) {
	if r, ok := w.routers[m]; ok && r.Grid() == snap.Grid {
		return r, nil
	}
	r, err := w.factory(m, snap.Grid)
	if err != nil {
		return nil, err
	}
	w.routers[m] = r
	w.log.Debug("worker: router built",
		slog.String("medium", m.String()),
		slog.Int("width", snap.Grid.Width),
		slog.Int("height", snap.Grid.Height))
	return r, nil
}

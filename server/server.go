// Package server exposes a worker.Worker over HTTP.
//
// Endpoints:
//
//	POST /v1/route       TOML scenario body, waits for the result (JSON)
//	                     ?map=1 adds the ASCII rendering of the plan
//	POST /v1/invalidate  starts a new epoch; pending /v1/route calls get 409
//	GET  /v1/results     websocket stream of every published result
//	GET  /healthz        epoch and queue depth
//
// The server is the only reader of the worker's result channel: Dispatch
// hands each result to the waiting /v1/route call and to every websocket
// subscriber.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gridroute/worker"
	"github.com/katalvlaran/gridroute/world"
)

// Sentinel errors.
var (
	// ErrNilWorker is returned by New without a worker.
	ErrNilWorker = errors.New("server: nil worker")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("server: invalid option supplied")

	// errInvalidated is delivered to /v1/route calls cut off by Invalidate.
	errInvalidated = errors.New("server: request invalidated")
)

// DefaultTimeout bounds how long /v1/route waits for its result.
const DefaultTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Options)

// Options holds Server settings.
type Options struct {
	Logger  *slog.Logger
	Catalog *world.Catalog
	Timeout time.Duration
	err     error
}

// DefaultOptions returns a discarding logger, the default catalog and
// DefaultTimeout.
func DefaultOptions() Options {
	return Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Catalog: world.DefaultCatalog(),
		Timeout: DefaultTimeout,
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

// WithCatalog sets the catalog scenarios are decoded against.
func WithCatalog(c *world.Catalog) Option {
	return func(o *Options) {
		if c == nil {
			o.err = fmt.Errorf("%w: nil catalog", ErrOptionViolation)
			return
		}
		o.Catalog = c
	}
}

// WithTimeout bounds the synchronous wait of /v1/route; d must be positive.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d <= 0 {
			o.err = fmt.Errorf("%w: timeout %v", ErrOptionViolation, d)
			return
		}
		o.Timeout = d
	}
}

// Server routes HTTP requests into a worker.
type Server struct {
	w       *worker.Worker
	cat     *world.Catalog
	log     *slog.Logger
	timeout time.Duration
	engine  *gin.Engine

	mu      sync.Mutex
	waiting map[uuid.UUID]chan delivery

	hub *hub
}

// delivery is what a waiting /v1/route call receives.
type delivery struct {
	res worker.Result
	err error
}

// New builds the HTTP handler around w.
func New(w *worker.Worker, opts ...Option) (*Server, error) {
	if w == nil {
		return nil, ErrNilWorker
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	s := &Server{
		w:       w,
		cat:     o.Catalog,
		log:     o.Logger,
		timeout: o.Timeout,
		waiting: make(map[uuid.UUID]chan delivery),
		hub:     newHub(o.Logger),
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Dispatch forwards worker results until the result channel closes or ctx
// is done.
func (s *Server) Dispatch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case res, ok := <-s.w.Results():
			if !ok {
				s.hub.closeAll()
				return nil
			}
			s.deliver(res)
		}
	}
}

func (s *Server) deliver(res worker.Result) {
	s.mu.Lock()
	ch, ok := s.waiting[res.ID]
	delete(s.waiting, res.ID)
	s.mu.Unlock()
	if ok {
		ch <- delivery{res: res}
	}
	s.hub.broadcast(encodeResult(res))
}

// submit enqueues req and registers a waiter before the worker can answer.
func (s *Server) submit(req worker.Request) (uuid.UUID, <-chan delivery, error) {
	ch := make(chan delivery, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.w.Submit(req)
	if err != nil {
		return uuid.Nil, nil, err
	}
	s.waiting[id] = ch
	return id, ch, nil
}

func (s *Server) forget(id uuid.UUID) {
	s.mu.Lock()
	delete(s.waiting, id)
	s.mu.Unlock()
}

// invalidate bumps the worker epoch and releases every waiter.
func (s *Server) invalidate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	epoch := s.w.Invalidate()
	for id, ch := range s.waiting {
		ch <- delivery{err: errInvalidated}
		delete(s.waiting, id)
	}
	return epoch
}

// Serve runs the worker, the dispatcher and an HTTP listener on addr until
// ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.w.Run(ctx) })
	g.Go(func() error { return s.Dispatch(ctx) })
	g.Go(func() error {
		s.log.Info("server: listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.closeAll()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}

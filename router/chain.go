package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/world"
)

// ErrChainMedium is returned by Chain on a router that does not route energy.
var ErrChainMedium = errors.New("router: chain needs an energy router")

// ChainRequest links a group of powered structures into one energy network.
type ChainRequest struct {
	Snapshot *world.Snapshot
	// Sources are the structures already powered. May be empty when there
	// are at least two Targets; the first target then starts the chain.
	Sources []grid.Point
	// Targets are the structures to link, in any order.
	Targets []grid.Point
	// Abort is polled like Request.Abort. May be nil.
	Abort func() bool
}

// Hop is one link of a chain.
type Hop struct {
	From, To    grid.Point
	Status      Status
	MaskIgnored bool
	Plan        []plan.Instruction
}

// ChainOutcome is the answer to a ChainRequest.
type ChainOutcome struct {
	// Status is Found when every target was linked, Expired when the
	// budget ran out first and NoRoute when a hop found nothing.
	Status Status
	// Hops lists the links in the order they were attempted. A hop without
	// a route keeps its place with an empty plan, and the chain goes on
	// from its target.
	Hops []Hop
	// Plan concatenates the plans of the linked hops.
	Plan        []plan.Instruction
	Attempts    int
	Evaluations int
	Search      time.Duration
	Elapsed     time.Duration
	// Err carries route.ErrAborted when an Expired chain was cancelled.
	Err error
}

// Chain links every target of req. The first hop joins the closest
// source/target pair by Manhattan distance; each later hop joins the last
// target to the nearest target not yet linked. Every hop gets the mask
// fallback. The total budget is the configured TotalBudget once per
// target, and each hop is clipped to what is left of it.
//
// Returns ErrChainMedium on a liquid or item router, ErrNoSnapshot,
// ErrGridMismatch, ErrNoSource or ErrNoTarget for malformed requests.
func (r *Router) Chain(ctx context.Context, req ChainRequest) (ChainOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.medium != world.Energy {
		return ChainOutcome{}, fmt.Errorf("%w: got %v", ErrChainMedium, r.medium)
	}
	if err := r.checkChain(req); err != nil {
		return ChainOutcome{}, err
	}

	x := &request{
		r:       r,
		ctx:     ctx,
		req:     Request{Snapshot: req.Snapshot, Abort: req.Abort},
		started: time.Now(),
	}
	x.deadline = x.started.Add(r.cfg.TotalBudget * time.Duration(len(req.Targets)))
	if err := r.energy.Classify(req.Snapshot); err != nil {
		return ChainOutcome{}, err
	}
	mask := masked(req.Snapshot.MaskAround(r.cfg.Mask))
	r.log.Debug("router: chain",
		slog.Int("sources", len(req.Sources)),
		slog.Int("targets", len(req.Targets)))

	left := append([]grid.Point(nil), req.Targets...)
	var from grid.Point
	k := 0
	if si, ti := closestPair(req.Sources, left); si >= 0 {
		from, k = req.Sources[si], ti
	} else {
		from, left = left[0], left[1:]
		k = nearest(from, left)
	}

	out := ChainOutcome{Status: Found}
	for {
		if x.expired() {
			out.Status = Expired
			break
		}
		to := left[k]
		left = append(left[:k], left[k+1:]...)
		hop, err := x.link(from, to, mask)
		if err != nil {
			r.log.Error("router: chain failed", slog.Any("from", from), slog.Any("to", to), slog.Any("err", err))
			return ChainOutcome{}, err
		}
		out.Hops = append(out.Hops, hop)
		out.Plan = append(out.Plan, hop.Plan...)
		if hop.Status == Expired || (hop.Status != Found && out.Status == Found) {
			out.Status = hop.Status
		}
		if len(left) == 0 {
			break
		}
		from, k = to, nearest(to, left)
	}

	out.Attempts = x.out.Attempts
	out.Evaluations = x.out.Evaluations
	out.Search = x.out.Search
	out.Err = x.out.Err
	if out.Status == Expired && out.Err == nil && (ctx.Err() != nil || (req.Abort != nil && req.Abort())) {
		out.Err = fmt.Errorf("%w: request cancelled", route.ErrAborted)
	}
	if out.Status != Expired {
		out.Err = nil
	}
	out.Elapsed = time.Since(x.started)
	r.log.Debug("router: chain outcome",
		slog.String("status", out.Status.String()),
		slog.Int("hops", len(out.Hops)),
		slog.Int("attempts", out.Attempts),
		slog.Int("pieces", len(out.Plan)),
		slog.Duration("search", out.Search),
		slog.Duration("elapsed", out.Elapsed))
	return out, nil
}

func (r *Router) checkChain(req ChainRequest) error {
	switch {
	case req.Snapshot == nil:
		return ErrNoSnapshot
	case req.Snapshot.Grid != r.g:
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrGridMismatch,
			req.Snapshot.Grid.Width, req.Snapshot.Grid.Height, r.g.Width, r.g.Height)
	case len(req.Targets) == 0:
		return fmt.Errorf("%w: no targets", ErrNoTarget)
	case len(req.Sources) == 0 && len(req.Targets) < 2:
		return fmt.Errorf("%w: nothing to chain from", ErrNoSource)
	}
	for _, p := range req.Sources {
		if !r.g.InBounds(p) {
			return fmt.Errorf("%w: %v", ErrNoSource, p)
		}
	}
	for _, p := range req.Targets {
		if !r.g.InBounds(p) {
			return fmt.Errorf("%w: %v", ErrNoTarget, p)
		}
	}
	return nil
}

// link routes one hop of a chain.
func (x *request) link(from, to grid.Point, mask []bool) (Hop, error) {
	h := Hop{From: from, To: to, Status: NoRoute}
	res, ignored, err := x.beam(from, to, mask)
	if err != nil {
		return h, err
	}
	if res.Status != route.Succeeded {
		if x.expired() {
			h.Status = Expired
		}
		return h, nil
	}
	_, list, err := x.assemble(res)
	if err != nil {
		return h, err
	}
	h.Status, h.MaskIgnored, h.Plan = Found, ignored, list
	return h, nil
}

// closestPair returns the indexes of the source and target closest to each
// other, the first such pair on ties, or -1, -1 without sources.
func closestPair(sources, targets []grid.Point) (int, int) {
	si, ti, best := -1, -1, 0
	for i, s := range sources {
		for j, t := range targets {
			if d := s.Manhattan(t); si < 0 || d < best {
				si, ti, best = i, j, d
			}
		}
	}
	return si, ti
}

// nearest returns the index of the point of ps closest to p, the first on
// ties.
func nearest(p grid.Point, ps []grid.Point) int {
	k, best := 0, 0
	for i, q := range ps {
		if d := p.Manhattan(q); i == 0 || d < best {
			k, best = i, d
		}
	}
	return k
}

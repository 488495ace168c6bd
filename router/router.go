package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/gridroute/anchor"
	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/terrain"
	"github.com/katalvlaran/gridroute/world"
)

// LevelTrace logs every step of every search. It sits below slog.LevelDebug
// and is only worth enabling on small maps.
const LevelTrace = slog.LevelDebug - 4

// Router answers route requests of one medium on one grid.
type Router struct {
	medium world.Medium
	g      grid.Grid
	cfg    Config
	log    *slog.Logger

	energy *terrain.EnergyMap
	flow   *terrain.FlowMap
	sr     *route.Searcher
}

// New allocates the terrain and search layers for medium on g.
// Returns ErrConfig, ErrOptionViolation or grid.ErrEmptyGrid.
func New(medium world.Medium, g grid.Grid, cfg Config, opts ...Option) (*Router, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g.Size() <= 0 {
		return nil, grid.ErrEmptyGrid
	}

	r := &Router{medium: medium, g: g, cfg: cfg, log: o.Logger.With(slog.String("medium", medium.String()))}
	var md route.Medium
	switch medium {
	case world.Energy:
		r.energy = terrain.NewEnergyMap(g)
		md = route.Energy(r.energy)
	case world.Liquid, world.Item:
		fm, err := terrain.NewFlowMap(g, medium)
		if err != nil {
			return nil, err
		}
		r.flow = fm
		md = route.Liquid(fm)
		if medium == world.Item {
			md = route.Item(fm)
		}
	default:
		return nil, fmt.Errorf("%w: %v", world.ErrUnknownMedium, medium)
	}
	sr, err := route.NewSearcher(md)
	if err != nil {
		return nil, err
	}
	r.sr = sr
	return r, nil
}

// Medium returns the routed medium.
func (r *Router) Medium() world.Medium { return r.medium }

// Grid returns the grid the router was built for.
func (r *Router) Grid() grid.Grid { return r.g }

// Config returns the router configuration.
func (r *Router) Config() Config { return r.cfg }

// Route answers req. ctx cancellation expires the request like Abort does.
//
// Returns ErrNoSnapshot, ErrGridMismatch, ErrNoSource or ErrNoTarget for
// malformed requests; a missing route is reported through Outcome.Status.
func (r *Router) Route(ctx context.Context, req Request) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case req.Snapshot == nil:
		return Outcome{}, ErrNoSnapshot
	case req.Snapshot.Grid != r.g:
		return Outcome{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrGridMismatch,
			req.Snapshot.Grid.Width, req.Snapshot.Grid.Height, r.g.Width, r.g.Height)
	case !r.g.InBounds(req.From):
		return Outcome{}, fmt.Errorf("%w: %v", ErrNoSource, req.From)
	case !r.g.InBounds(req.To):
		return Outcome{}, fmt.Errorf("%w: %v", ErrNoTarget, req.To)
	}

	x := &request{
		r:       r,
		ctx:     ctx,
		req:     req,
		started: time.Now(),
		out:     Outcome{Medium: r.medium, Status: NoRoute},
	}
	x.deadline = x.started.Add(r.cfg.TotalBudget)
	r.log.Debug("router: request",
		slog.Any("from", req.From), slog.Any("to", req.To),
		slog.Duration("budget", r.cfg.TotalBudget))

	var err error
	if r.medium == world.Energy {
		err = x.energy()
	} else {
		err = x.flow()
	}
	if err != nil {
		r.log.Error("router: request failed", slog.Any("from", req.From), slog.Any("to", req.To), slog.Any("err", err))
		return Outcome{}, err
	}
	if x.out.Status != Found && x.expired() {
		x.out.Status = Expired
		if x.out.Err == nil && (ctx.Err() != nil || (req.Abort != nil && req.Abort())) {
			x.out.Err = fmt.Errorf("%w: request cancelled", route.ErrAborted)
		}
	}
	x.out.Elapsed = time.Since(x.started)
	r.log.Debug("router: outcome",
		slog.String("status", x.out.Status.String()),
		slog.Int("attempts", x.out.Attempts),
		slog.Int("evaluations", x.out.Evaluations),
		slog.Int("pieces", len(x.out.Plan)),
		slog.Bool("mask_ignored", x.out.MaskIgnored),
		slog.Duration("search", x.out.Search),
		slog.Duration("elapsed", x.out.Elapsed))
	return x.out, nil
}

// request is the state of one Route call.
type request struct {
	r        *Router
	ctx      context.Context
	req      Request
	started  time.Time
	deadline time.Time
	out      Outcome
	// splitter holds the plan options replacing the source connector.
	splitter []plan.Option
}

func (x *request) expired() bool {
	return x.ctx.Err() != nil ||
		(x.req.Abort != nil && x.req.Abort()) ||
		!time.Now().Before(x.deadline)
}

// search runs one attempt, clipping the attempt budget to what is left of
// the total.
func (x *request) search(from, to grid.Point, extra ...route.Option) (route.Result, error) {
	cfg := x.r.cfg
	budget := min(cfg.AttemptBudget, time.Until(x.deadline))
	if budget < 0 {
		budget = 0
	}
	opts := []route.Option{
		route.WithContext(x.ctx),
		route.WithFrequency(cfg.Frequency),
		route.WithBudget(budget),
		route.WithTargetMode(cfg.TargetMode),
		route.WithAbort(x.req.Abort),
	}
	if log := x.r.log; log.Enabled(x.ctx, LevelTrace) {
		opts = append(opts, route.WithTrace(func(st route.Status, n route.Node) {
			log.Log(x.ctx, LevelTrace, "router: step",
				slog.String("state", st.String()),
				slog.Any("at", n.Pos), slog.String("dir", n.Dir.String()), slog.Int("step", n.Step))
		}))
	}
	res, err := x.r.sr.Search(from, to, append(opts, extra...)...)
	if err != nil {
		return res, err
	}
	x.out.Attempts++
	x.out.Evaluations += res.Evaluations
	x.out.Search += res.Elapsed
	if res.Err != nil {
		x.out.Err = res.Err
	}
	x.r.log.Debug("router: attempt",
		slog.Any("from", from), slog.Any("to", to),
		slog.String("status", res.Status.String()),
		slog.Int("evaluations", res.Evaluations),
		slog.Duration("elapsed", res.Elapsed))
	return res, nil
}

// accept reduces a successful route and records its plan as the outcome.
func (x *request) accept(res route.Result) error {
	reduced, list, err := x.assemble(res)
	if err != nil {
		return err
	}
	x.out.Status = Found
	x.out.Route = reduced
	x.out.RawLength = res.Route.Length()
	x.out.Plan = list
	x.out.Err = nil
	return nil
}

func (x *request) assemble(res route.Result) (route.Route, []plan.Instruction, error) {
	md := x.r.sr.Medium()
	reduced := route.Reduce(md, res.Route)
	list, err := plan.Assemble(md, reduced, x.splitter...)
	return reduced, list, err
}

func (x *request) energy() error {
	snap := x.req.Snapshot
	if err := x.r.energy.Classify(snap); err != nil {
		return err
	}
	res, ignored, err := x.beam(x.req.From, x.req.To, masked(snap.MaskAround(x.r.cfg.Mask)))
	if err != nil || res.Status != route.Succeeded {
		return err
	}
	x.out.MaskIgnored = ignored
	return x.accept(res)
}

// beam runs one energy attempt under mask and, when the config allows it,
// a second one without. ignored reports that only the second succeeded.
func (x *request) beam(from, to grid.Point, mask []bool) (route.Result, bool, error) {
	res, err := x.search(from, to, route.WithMask(mask))
	if err != nil || res.Status == route.Succeeded {
		return res, false, err
	}
	if !x.r.cfg.MaskFallback || mask == nil || x.expired() {
		return res, false, nil
	}
	res, err = x.search(from, to)
	return res, err == nil && res.Status == route.Succeeded, err
}

func (x *request) flow() error {
	m := x.r.medium
	snap := x.req.Snapshot
	src, srcOK := snap.StructureAt(x.req.From)
	dst, dstOK := snap.StructureAt(x.req.To)
	srcFP := grid.Footprint{Center: x.req.From, Size: 1}
	if srcOK {
		srcFP = src.Footprint()
	}
	dstFP := grid.Footprint{Center: x.req.To, Size: 1}
	if dstOK {
		dstFP = dst.Footprint()
	}

	// Never feed the output side of a directional destination piece.
	if dstOK && dst.Team == snap.Team && (dst.Kind.Connector(m) || dst.Kind.Bridge(m)) {
		snap = snap.WithOccupied(dst.Center.Add(dst.Rotation, 1))
	}
	if err := x.r.flow.Classify(snap); err != nil {
		return err
	}

	cands := anchor.Generate(snap, srcFP, dstFP)
	srcOwn := srcOK && src.Team == snap.Team
	connector := srcOwn && src.Kind.Connector(m)
	directional := connector || (srcOwn && src.Kind.Bridge(m))
	replace := connector && x.r.cfg.ReplaceOne
	if directional && !replace {
		cands = cands.Restrict(src.Rotation)
	}
	if replace {
		x.splitter = []plan.Option{
			plan.WithSplitter(src.Center, src.Rotation),
			plan.WithSplitterKind(x.r.cfg.ReplaceWith),
		}
	}
	override := grid.Point{X: -1, Y: -1}
	if directional {
		if p := src.Center.Add(src.Rotation, 1); snap.Grid.InBounds(p) && !snap.Occupied[snap.Grid.Index(p)] {
			override = p
		}
	}

	pairs := cands.Pairs()
	x.r.log.Debug("router: anchors",
		slog.Int("sources", len(cands.Sources)),
		slog.Int("targets", len(cands.Targets)),
		slog.Int("pairs", len(pairs)))
	if len(pairs) == 0 {
		return nil
	}

	mask := masked(snap.MaskAround(x.r.cfg.Mask))
	res, found, err := x.tryPairs(pairs, mask, override)
	if err != nil {
		return err
	}
	if !found && x.r.cfg.MaskFallback && mask != nil && !x.expired() {
		if res, found, err = x.tryPairs(pairs, nil, override); err != nil {
			return err
		}
		x.out.MaskIgnored = found
	}
	if !found {
		return nil
	}
	return x.accept(res)
}

// tryPairs searches the pairs in order until one succeeds. The source
// anchor and the cells around the target anchor are lifted from the mask
// for the attempt so masked endpoints stay reachable.
func (x *request) tryPairs(pairs []anchor.Pair, mask []bool, override grid.Point) (route.Result, bool, error) {
	g := x.r.g
	var lifted []int
	var saved []bool
	for _, p := range pairs {
		if x.expired() {
			return route.Result{}, false, nil
		}
		opts := []route.Option{route.WithStartDir(p.Source.Side)}
		if p.Source.Pos == override {
			opts = append(opts, route.WithOverride(override))
		}
		if mask != nil {
			lifted = append(lifted[:0], g.Index(p.Source.Pos))
			lifted = append(lifted, g.Neighbors(g.Index(p.Target.Pos))...)
			saved = saved[:0]
			for _, i := range lifted {
				saved = append(saved, mask[i])
				mask[i] = false
			}
			opts = append(opts, route.WithMask(mask))
		}

		res, err := x.search(p.Source.Pos, p.Target.Pos, opts...)
		// Restore in reverse so a cell lifted twice gets its first value.
		for k := len(lifted) - 1; mask != nil && k >= 0; k-- {
			mask[lifted[k]] = saved[k]
		}
		if err != nil {
			return res, false, err
		}
		if res.Status == route.Succeeded {
			return res, true, nil
		}
	}
	return route.Result{}, false, nil
}

// masked returns mask, or nil when it marks nothing.
func masked(mask []bool) []bool {
	for _, m := range mask {
		if m {
			return mask
		}
	}
	return nil
}

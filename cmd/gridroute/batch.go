package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/worker"
	"github.com/katalvlaran/gridroute/world"
)

func (a *app) batchCmd() *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "batch SCENARIO...",
		Short: "Route many scenarios through the background worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be positive, got %d", jobs)
			}
			scs, err := a.loadAll(cmd.Context(), args, jobs)
			if err != nil {
				return err
			}
			results, err := a.runBatch(cmd.Context(), scs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			failed := 0
			for i, res := range results {
				switch {
				case res.Err != nil:
					failed++
					fmt.Fprintf(w, "%s: error: %v\n", args[i], res.Err)
				case res.Outcome.Status != router.Found:
					failed++
					fmt.Fprintf(w, "%s: %s after %d attempts (search %v, total %v)\n", args[i], res.Outcome.Status,
						res.Outcome.Attempts, res.Outcome.Search.Round(time.Microsecond), res.Total.Round(time.Microsecond))
				default:
					fmt.Fprintf(w, "%s: %s, %d pieces (%v)\n", args[i], res.Outcome.Status,
						len(res.Outcome.Plan), res.Total.Round(time.Microsecond))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d scenarios", errNoRoute, failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "scenario files decoded in parallel")
	return cmd
}

// loadAll decodes the scenario files, at most jobs at a time.
func (a *app) loadAll(ctx context.Context, paths []string, jobs int) ([]*world.Scenario, error) {
	scs := make([]*world.Scenario, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc, err := a.scenario(path)
			scs[i] = sc
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scs, nil
}

// runBatch feeds scs to a worker and returns the results in input order.
// Submission backs off on a full queue by draining one result.
func (a *app) runBatch(ctx context.Context, scs []*world.Scenario) ([]worker.Result, error) {
	routers, err := a.cfg.Routers()
	if err != nil {
		return nil, err
	}
	w, err := worker.New(worker.NewFactory(routers, router.WithLogger(a.log)),
		worker.WithQueueSize(a.cfg.Worker.QueueSize),
		worker.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	runCtx, stop := context.WithCancel(ctx)
	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return w.Run(runCtx) })

	results := make([]worker.Result, len(scs))
	index := make(map[uuid.UUID]int, len(scs))
	next, done := 0, 0
	for err == nil && done < len(scs) {
		if next < len(scs) {
			sc := scs[next]
			id, serr := w.Submit(worker.Request{Medium: sc.Medium, Snapshot: sc.Snapshot, From: sc.From, To: sc.To})
			if serr == nil {
				index[id] = next
				next++
				continue
			}
			if !errors.Is(serr, worker.ErrQueueFull) {
				err = serr
				break
			}
		}
		select {
		case res, ok := <-w.Results():
			if !ok {
				err = worker.ErrStopped
				break
			}
			results[index[res.ID]] = res
			done++
		case <-runCtx.Done():
			err = context.Cause(runCtx)
		}
	}
	stop()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

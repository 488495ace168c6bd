package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/gridroute/config"
	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/world"
)

// app is the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	medium     string

	cfg config.Config
	log *slog.Logger
	cat *world.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gridroute",
		Short:         "Plan energy, liquid and item routes on a grid",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML settings file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.medium, "medium", "m", "", "override the scenario medium (energy, liquid, item)")

	root.AddCommand(a.routeCmd(), a.batchCmd(), a.viewCmd(), a.serveCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log, a.cat = cfg, log, world.DefaultCatalog()
	return nil
}

// scenario loads path and applies the --medium override.
func (a *app) scenario(path string) (*world.Scenario, error) {
	sc, err := world.LoadScenario(path, a.cat)
	if err != nil {
		return nil, err
	}
	if a.medium != "" {
		if sc.Medium, err = world.ParseMedium(a.medium); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func (a *app) router(sc *world.Scenario) (*router.Router, error) {
	rc, err := a.cfg.Router(sc.Medium)
	if err != nil {
		return nil, err
	}
	return router.New(sc.Medium, sc.Snapshot.Grid, rc, router.WithLogger(a.log))
}

// routeOnce answers one scenario on a fresh router.
func (a *app) routeOnce(ctx context.Context, sc *world.Scenario) (router.Outcome, error) {
	r, err := a.router(sc)
	if err != nil {
		return router.Outcome{}, err
	}
	out, err := r.Route(ctx, router.Request{Snapshot: sc.Snapshot, From: sc.From, To: sc.To})
	if err != nil {
		return router.Outcome{}, fmt.Errorf("%s: %w", sc.Name, err)
	}
	return out, nil
}

// chainOnce links the targets of sc from its source on a fresh router.
func (a *app) chainOnce(ctx context.Context, sc *world.Scenario) (router.ChainOutcome, error) {
	r, err := a.router(sc)
	if err != nil {
		return router.ChainOutcome{}, err
	}
	out, err := r.Chain(ctx, router.ChainRequest{
		Snapshot: sc.Snapshot,
		Sources:  []grid.Point{sc.From},
		Targets:  sc.Targets,
	})
	if err != nil {
		return router.ChainOutcome{}, fmt.Errorf("%s: %w", sc.Name, err)
	}
	return out, nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/katalvlaran/gridroute/render"
	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/world"
)

var errNoRoute = errors.New("no route")

func (a *app) routeCmd() *cobra.Command {
	var showMap bool
	cmd := &cobra.Command{
		Use:   "route SCENARIO",
		Short: "Route one scenario and print its build plan",
		Long: `Route one scenario and print its build plan.

A scenario with a targets list is an energy chain: every target is linked,
starting from the source and always hopping to the nearest target left.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.scenario(args[0])
			if err != nil {
				return err
			}
			if len(sc.Targets) > 0 {
				return a.chain(cmd, sc, showMap)
			}
			out, err := a.routeOnce(cmd.Context(), sc)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printOutcome(w, sc, out, colour(w))
			if showMap {
				fmt.Fprint(w, render.ASCII(sc.Snapshot, out.Plan))
			}
			if out.Status != router.Found {
				return errNoRoute
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMap, "map", false, "print the map with the plan drawn on it")
	return cmd
}

// colour reports whether w is a terminal.
func colour(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) chain(cmd *cobra.Command, sc *world.Scenario, showMap bool) error {
	out, err := a.chainOnce(cmd.Context(), sc)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	tty := colour(w)
	fmt.Fprintf(w, "%s %s chain %v -> %d targets: %s, %d pieces, %d attempts, %d evaluations, search %v, total %v\n",
		scenarioName(sc), sc.Medium, sc.From, len(sc.Targets), paint(out.Status, tty), len(out.Plan),
		out.Attempts, out.Evaluations, out.Search.Round(time.Microsecond), out.Elapsed.Round(time.Microsecond))
	for _, h := range out.Hops {
		fmt.Fprintf(w, "  hop %v -> %v: %s, %d pieces\n", h.From, h.To, paint(h.Status, tty), len(h.Plan))
		if h.MaskIgnored {
			fmt.Fprintln(w, "    (placement mask ignored)")
		}
	}
	for _, in := range out.Plan {
		fmt.Fprintln(w, in)
	}
	if showMap {
		fmt.Fprint(w, render.ASCII(sc.Snapshot, out.Plan))
	}
	if out.Status != router.Found {
		return errNoRoute
	}
	return nil
}

// paint colours a status green or red on a terminal.
func paint(s router.Status, tty bool) string {
	if !tty {
		return s.String()
	}
	code := "31"
	if s == router.Found {
		code = "32"
	}
	return "\x1b[" + code + "m" + s.String() + "\x1b[0m"
}

func scenarioName(sc *world.Scenario) string {
	if sc.Name == "" {
		return "scenario"
	}
	return sc.Name
}

func printOutcome(w io.Writer, sc *world.Scenario, out router.Outcome, tty bool) {
	status := paint(out.Status, tty)
	name := scenarioName(sc)
	fmt.Fprintf(w, "%s %s %v -> %v: %s, %d pieces, %d attempts, %d evaluations, search %v, total %v\n",
		name, sc.Medium, sc.From, sc.To, status, len(out.Plan), out.Attempts, out.Evaluations,
		out.Search.Round(time.Microsecond), out.Elapsed.Round(time.Microsecond))
	if out.MaskIgnored {
		fmt.Fprintln(w, "  (placement mask ignored)")
	}
	for _, in := range out.Plan {
		fmt.Fprintln(w, in)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/gridroute/render"
	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/world"
)

func (a *app) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view SCENARIO",
		Short: "Show a scenario and its plan in the terminal (q to quit, r to reroute)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !colour(os.Stdout) {
				return errors.New("view needs a terminal")
			}
			sc, err := a.scenario(args[0])
			if err != nil {
				return err
			}
			s, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := s.Init(); err != nil {
				return err
			}
			defer s.Fini()
			return a.view(cmd.Context(), s, sc)
		},
	}
}

// view routes sc, draws it on s and handles keys until quit or ctx is done.
func (a *app) view(ctx context.Context, s tcell.Screen, sc *world.Scenario) error {
	go func() {
		<-ctx.Done()
		_ = s.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	out, err := a.routeOnce(ctx, sc)
	if err != nil {
		return err
	}
	draw := func() {
		s.Clear()
		render.Draw(s, sc.Snapshot, out.Plan)
		status := fmt.Sprintf("%s %v -> %v: %s, %d pieces, %v  [r]eroute [q]uit",
			sc.Medium, sc.From, sc.To, out.Status, len(out.Plan), out.Elapsed.Round(time.Microsecond))
		_, h := s.Size()
		row := min(sc.Snapshot.Grid.Height+1, h-1)
		style := tcell.StyleDefault.Reverse(true)
		if out.Status != router.Found {
			style = style.Foreground(tcell.ColorRed)
		}
		for i, r := range status {
			s.SetContent(i, row, r, nil, style)
		}
		s.Show()
	}
	draw()

	for {
		switch ev := s.PollEvent().(type) {
		case nil, *tcell.EventInterrupt:
			return nil
		case *tcell.EventResize:
			s.Sync()
			draw()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				return nil
			case ev.Rune() == 'r':
				if out, err = a.routeOnce(ctx, sc); err != nil {
					return err
				}
				draw()
			}
		}
	}
}

// Package render draws a snapshot with a build plan on top, as text or on a
// tcell screen.
//
// Rows are printed top row first (highest y first), the same way scenario
// files list them.
//
//	.  free          #  solid terrain    x  masked
//	@  own structure &  foreign          o  planned structure
//	> ^ < v  connector by rotation       A  armored connector
//	+  junction      =  bridge           S  splitter
//	*  relay
package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/world"
)

type class uint8

const (
	classFree class = iota
	classSolid
	classMasked
	classOwn
	classForeign
	classPlanned
	classPiece
	classBridge
	classArmored
	classSplitter
)

var styles = [...]tcell.Style{
	classFree:     tcell.StyleDefault.Foreground(tcell.ColorGray),
	classSolid:    tcell.StyleDefault.Foreground(tcell.ColorSilver),
	classMasked:   tcell.StyleDefault.Foreground(tcell.ColorMaroon),
	classOwn:      tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true),
	classForeign:  tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	classPlanned:  tcell.StyleDefault.Foreground(tcell.ColorBlue),
	classPiece:    tcell.StyleDefault.Foreground(tcell.ColorGreen),
	classBridge:   tcell.StyleDefault.Foreground(tcell.ColorYellow),
	classArmored:  tcell.StyleDefault.Foreground(tcell.ColorTeal),
	classSplitter: tcell.StyleDefault.Foreground(tcell.ColorPurple),
}

type glyph struct {
	r rune
	c class
}

var arrows = [...]rune{grid.Right: '>', grid.Up: '^', grid.Left: '<', grid.Down: 'v'}

// layout returns one glyph per cell, row-major as the grid indexes.
func layout(snap *world.Snapshot, list []plan.Instruction) []glyph {
	g := snap.Grid
	out := make([]glyph, g.Size())
	for i := range out {
		switch {
		case snap.Owner(i) >= 0:
			st := snap.Structures[snap.Owner(i)]
			switch {
			case st.Team != snap.Team:
				out[i] = glyph{'&', classForeign}
			case st.Planned:
				out[i] = glyph{'o', classPlanned}
			default:
				out[i] = glyph{'@', classOwn}
			}
		case snap.Occupied[i]:
			out[i] = glyph{'#', classSolid}
		case snap.Masked(i):
			out[i] = glyph{'x', classMasked}
		default:
			out[i] = glyph{'.', classFree}
		}
	}
	for _, in := range list {
		if !g.InBounds(in.Pos) {
			continue
		}
		out[g.Index(in.Pos)] = pieceGlyph(in)
	}
	return out
}

func pieceGlyph(in plan.Instruction) glyph {
	switch in.Piece {
	case plan.Connector:
		if in.Rotation.Valid() {
			return glyph{arrows[in.Rotation], classPiece}
		}
		return glyph{'-', classPiece}
	case plan.Armored:
		return glyph{'A', classArmored}
	case plan.Junction:
		return glyph{'+', classPiece}
	case plan.Bridge:
		return glyph{'=', classBridge}
	case plan.Splitter:
		return glyph{'S', classSplitter}
	}
	return glyph{'*', classPiece}
}

// ASCII renders snap with list drawn over it, one line per row.
func ASCII(snap *world.Snapshot, list []plan.Instruction) string {
	g := snap.Grid
	cells := layout(snap, list)
	var b strings.Builder
	b.Grow((g.Width + 1) * g.Height)
	for y := g.Height - 1; y >= 0; y-- {
		for x := 0; x < g.Width; x++ {
			b.WriteRune(cells[g.Index(grid.Point{X: x, Y: y})].r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Draw paints snap and list onto s with its top-left corner at the screen
// origin, clipped to the screen size. The caller calls s.Show.
func Draw(s tcell.Screen, snap *world.Snapshot, list []plan.Instruction) {
	g := snap.Grid
	cells := layout(snap, list)
	w, h := s.Size()
	for row := 0; row < g.Height && row < h; row++ {
		y := g.Height - 1 - row
		for x := 0; x < g.Width && x < w; x++ {
			c := cells[g.Index(grid.Point{X: x, Y: y})]
			s.SetContent(x, row, c.r, nil, styles[c.c])
		}
	}
}

package route

import (
	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/world"
)

// Tile is the medium-independent view of a cell that plan assembly reads.
type Tile struct {
	// Conductive: an own powered structure (energy).
	Conductive bool
	// Invisible: an own conduit a route crosses with a junction (liquid).
	Invisible bool
	// Exposed: damaged and dangerous, or dangerous (flow media).
	Exposed bool
	// Output: part of a structure emitting the medium.
	Output bool
}

// Medium is the per-medium part of the search. It wraps a classified
// terrain map and owns the working layers derived from it, so a Medium
// must not be shared by searches running at the same time.
//
// The interface is sealed; use Energy, Liquid or Item.
type Medium interface {
	// Kind returns the transported medium.
	Kind() world.Medium
	// Grid returns the grid of the wrapped terrain map.
	Grid() grid.Grid
	// Tile classifies p. Cells outside the grid are the zero Tile.
	Tile(p grid.Point) Tile

	ready() bool
	reach() int
	flipsAfterJump() bool
	// prepare resets the working layers; false fails the search at once.
	prepare(w *walker) bool
	// finish decides whether the cursor completes the route.
	finish(w *walker) outcome
	// enter runs when the cursor cell is expanded.
	enter(w *walker)
	// invisible reports whether the cursor crosses an own conduit.
	invisible(w *walker) bool
	// single evaluates the adjacent cell, landing the cell k>1 away.
	single(w *walker, d grid.Dir) verdict
	landing(w *walker, d grid.Dir, k int) verdict
	committed(w *walker, n Node)
	retracted(w *walker, n Node)
	// shorten runs one reduction pass.
	shorten(r Route) []Node
}

// verdict is the result of evaluating one cell along a direction.
type verdict uint8

const (
	pass     verdict = iota // not a candidate, keep scanning
	land                    // candidate, keep scanning
	stop                    // not a candidate, stop
	landStop                // candidate, stop
)

func (v verdict) lands() bool { return v == land || v == landStop }
func (v verdict) stops() bool { return v == stop || v == landStop }

// outcome is the result of the terminal check at the cursor.
type outcome uint8

const (
	proceed outcome = iota
	arrived
	blocked
)

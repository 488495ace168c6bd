package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/world"
)

// Sentinel errors for plan assembly.
var (
	// ErrMediumMismatch is returned when the medium is nil or differs from
	// the medium the route was found with.
	ErrMediumMismatch = errors.New("plan: medium does not match route")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("plan: invalid option supplied")
)

// Piece is the role of one placed block.
type Piece uint8

const (
	// Relay is an energy laser node.
	Relay Piece = iota
	// Connector is a single-cell directional conduit or duct.
	Connector
	// Armored is a duct that only accepts items from behind.
	Armored
	// Junction crosses an existing conduit.
	Junction
	// Bridge jumps Span cells along its rotation.
	Bridge
	// Splitter replaces the source connector to branch off it.
	Splitter
)

var pieceNames = [...]string{"relay", "connector", "armored", "junction", "bridge", "splitter"}

// String implements fmt.Stringer.
func (p Piece) String() string {
	if int(p) < len(pieceNames) {
		return pieceNames[p]
	}
	return fmt.Sprintf("piece(%d)", p)
}

// Name returns the catalog name of the block playing p in medium m, or ""
// when m has no such piece. The item splitter is named by SplitterKind.
func (p Piece) Name(m world.Medium) string {
	switch m {
	case world.Energy:
		if p == Relay {
			return "beam-node"
		}
	case world.Liquid:
		switch p {
		case Connector:
			return "conduit"
		case Junction:
			return "liquid-junction"
		case Bridge:
			return "bridge-conduit"
		case Splitter:
			return "liquid-router"
		}
	case world.Item:
		switch p {
		case Connector:
			return "duct"
		case Armored:
			return "armored-duct"
		case Bridge:
			return "duct-bridge"
		case Splitter:
			return Router.Name()
		}
	}
	return ""
}

// SplitterKind selects the block an item source duct is replaced with.
type SplitterKind uint8

const (
	// Router spreads items to every side.
	Router SplitterKind = iota
	// Overflow feeds the front and spills sideways when blocked.
	Overflow
	// Underflow feeds the sides and spills forward when blocked.
	Underflow
)

var splitterNames = [...]string{"router", "overflow", "underflow"}

// String implements fmt.Stringer.
func (k SplitterKind) String() string {
	if int(k) < len(splitterNames) {
		return splitterNames[k]
	}
	return fmt.Sprintf("splitter(%d)", k)
}

// Name returns the catalog name of the item splitter block.
func (k SplitterKind) Name() string {
	switch k {
	case Overflow:
		return "overflow-duct"
	case Underflow:
		return "underflow-duct"
	}
	return "duct-router"
}

// ParseSplitterKind converts "router", "overflow" or "underflow".
func ParseSplitterKind(s string) (SplitterKind, error) {
	for i, n := range splitterNames {
		if n == strings.ToLower(s) {
			return SplitterKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: splitter kind %q", ErrOptionViolation, s)
}

// Instruction places one block.
type Instruction struct {
	Pos      grid.Point
	Rotation grid.Dir
	Piece    Piece
	// Name is the catalog name of the block.
	Name string
	// Span is the distance to the downstream piece, 1 for everything but
	// bridges and relays.
	Span int
}

// Target returns the cell the piece feeds.
func (in Instruction) Target() grid.Point {
	return in.Pos.Add(in.Rotation, in.Span)
}

// String renders "bridge-conduit (1,0) right 2".
func (in Instruction) String() string {
	return fmt.Sprintf("%s %v %v %d", in.Name, in.Pos, in.Rotation, in.Span)
}

// Options configures Emit and Assemble.
type Options struct {
	// Splitter requests replacing the source connector at SplitterAt.
	Splitter     bool
	SplitterAt   grid.Point
	SplitterRot  grid.Dir
	SplitterKind SplitterKind

	err error
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns options without a splitter.
func DefaultOptions() Options {
	return Options{SplitterRot: grid.NoDir, SplitterKind: Router}
}

// WithSplitter appends a splitter replacing the existing source connector at
// pos, keeping its rotation rot.
func WithSplitter(pos grid.Point, rot grid.Dir) Option {
	return func(o *Options) {
		if !rot.Valid() {
			o.err = fmt.Errorf("%w: splitter rotation %v", ErrOptionViolation, rot)
			return
		}
		o.Splitter, o.SplitterAt, o.SplitterRot = true, pos, rot
	}
}

// WithSplitterKind selects the item splitter block.
func WithSplitterKind(k SplitterKind) Option {
	return func(o *Options) {
		if int(k) >= len(splitterNames) {
			o.err = fmt.Errorf("%w: splitter kind %d", ErrOptionViolation, k)
			return
		}
		o.SplitterKind = k
	}
}

package plan

import (
	"fmt"

	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/world"
)

// Emit converts r into instructions ordered from the target back to the
// source. m must be the medium r was found with; its Tile view decides
// junctions, armored ducts and which energy nodes already sit on a powered
// structure.
//
// Energy emits a relay for every node outside a conductive structure. Flow
// media emit a connector when the node and its predecessor are single
// steps and a bridge otherwise; a connector on an own conduit becomes a
// junction, and an item connector on an exposed cell becomes armored except
// on the first node, and on the last node unless an emitter sits beside it.
//
// Returns ErrMediumMismatch or ErrOptionViolation.
// Complexity: O(N).
func Emit(m route.Medium, r route.Route, opts ...Option) ([]Instruction, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if m == nil || m.Kind() != r.Medium {
		return nil, fmt.Errorf("%w: route is %v", ErrMediumMismatch, r.Medium)
	}
	if o.Splitter && r.Medium == world.Energy {
		return nil, fmt.Errorf("%w: energy has no splitter", ErrOptionViolation)
	}

	var out []Instruction
	if r.Medium == world.Energy {
		out = emitEnergy(m, r)
	} else {
		out = emitFlow(m, r)
	}
	if o.Splitter {
		s := Instruction{Pos: o.SplitterAt, Rotation: o.SplitterRot, Piece: Splitter, Span: 1}
		s.Name = Splitter.Name(r.Medium)
		if r.Medium == world.Item {
			s.Name = o.SplitterKind.Name()
		}
		out = append(out, s)
	}
	return out, nil
}

func emitEnergy(m route.Medium, r route.Route) []Instruction {
	out := make([]Instruction, 0, len(r.Nodes))
	for i := len(r.Nodes) - 1; i >= 0; i-- {
		n := r.Nodes[i]
		if m.Tile(n.Pos).Conductive {
			continue
		}
		out = append(out, Instruction{Pos: n.Pos, Rotation: n.Dir, Piece: Relay, Name: Relay.Name(world.Energy), Span: n.Step})
	}
	return out
}

func emitFlow(m route.Medium, r route.Route) []Instruction {
	last := len(r.Nodes) - 1
	out := make([]Instruction, 0, len(r.Nodes))
	for i := last; i >= 0; i-- {
		n := r.Nodes[i]
		p := Bridge
		if n.Step == 1 && (i == 0 || r.Nodes[i-1].Step == 1) {
			p = connector(m, r.Medium, n, i == 0, i == last && i > 0)
		}
		out = append(out, Instruction{Pos: n.Pos, Rotation: n.Dir, Piece: p, Name: p.Name(r.Medium), Span: n.Step})
	}
	return out
}

// connector picks the single-cell piece for n.
func connector(m route.Medium, medium world.Medium, n route.Node, first, last bool) Piece {
	t := m.Tile(n.Pos)
	switch {
	case t.Invisible:
		return Junction
	case medium != world.Item || !t.Exposed || first:
		return Connector
	case last:
		// The cell past the last duct is often the only reason the cell
		// is exposed; armor only against an emitter alongside.
		a, b := n.Dir.Turns()
		if m.Tile(n.Pos.Add(a, 1)).Output || m.Tile(n.Pos.Add(b, 1)).Output {
			return Armored
		}
		return Connector
	}
	return Armored
}

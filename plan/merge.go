package plan

import (
	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/route"
	"github.com/katalvlaran/gridroute/terrain"
)

// Merge drops pieces a bridge can jump over. For each bridge, in list
// order: if it reaches the bridge two bridges back, everything between the
// two goes; otherwise, if it reaches the previous bridge, the pieces between
// them go. The surviving bridge's Span is set to the new gap. list must be in
// Emit order and is left untouched.
// Complexity: O(N).
func Merge(list []Instruction) []Instruction {
	out := make([]Instruction, 0, len(list))
	b1, b2 := -1, -1 // last and second-to-last bridge in out
	for _, in := range list {
		if in.Piece != Bridge {
			out = append(out, in)
			continue
		}
		keep := -1
		switch {
		case b2 >= 0 && reaches(in.Pos, in.Rotation, out[b2].Pos):
			keep, b1 = b2, b2
		case b1 >= 0 && reaches(in.Pos, in.Rotation, out[b1].Pos):
			keep = b1
		}
		if keep >= 0 {
			out = out[:keep+1]
			in.Span = in.Pos.Manhattan(out[keep].Pos)
		}
		out = append(out, in)
		b2, b1 = b1, len(out)-1
	}
	return out
}

// Schedule reverses every maximal run of consecutive bridges so each run is
// built from its tip back toward its base. list is left untouched.
// Complexity: O(N).
func Schedule(list []Instruction) []Instruction {
	out := append([]Instruction(nil), list...)
	for i := 0; i < len(out); {
		if out[i].Piece != Bridge {
			i++
			continue
		}
		j := i
		for j < len(out) && out[j].Piece == Bridge {
			j++
		}
		for a, b := i, j-1; a < b; a, b = a+1, b-1 {
			out[a], out[b] = out[b], out[a]
		}
		i = j
	}
	return out
}

// Assemble is Schedule(Merge(Emit(m, r, opts...))).
func Assemble(m route.Medium, r route.Route, opts ...Option) ([]Instruction, error) {
	list, err := Emit(m, r, opts...)
	if err != nil {
		return nil, err
	}
	return Schedule(Merge(list)), nil
}

// reaches reports whether a bridge at b facing rot feeds p.
func reaches(b grid.Point, rot grid.Dir, p grid.Point) bool {
	for k := 1; k <= terrain.BridgeReach; k++ {
		if b.Add(rot, k) == p {
			return true
		}
	}
	return false
}

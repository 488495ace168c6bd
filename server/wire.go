package server

import (
	"github.com/katalvlaran/gridroute/grid"
	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/worker"
)

type errorBody struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

type instructionBody struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation string `json:"rotation"`
	Piece    string `json:"piece"`
	Name     string `json:"name"`
	Span     int    `json:"span"`
}

type resultBody struct {
	ID          string            `json:"id"`
	Medium      string            `json:"medium"`
	From        [2]int            `json:"from"`
	To          [2]int            `json:"to"`
	Epoch       uint64            `json:"epoch"`
	Status      string            `json:"status"`
	Plan        []instructionBody `json:"plan"`
	RawLength   int               `json:"raw_length"`
	Attempts    int               `json:"attempts"`
	Evaluations int               `json:"evaluations"`
	MaskIgnored bool              `json:"mask_ignored,omitempty"`
	SearchMS    float64           `json:"search_ms"`
	TotalMS     float64           `json:"total_ms"`
	Error       string            `json:"error,omitempty"`
	Map         string            `json:"map,omitempty"`
}

func point(p grid.Point) [2]int { return [2]int{p.X, p.Y} }

func encodeInstructions(list []plan.Instruction) []instructionBody {
	out := make([]instructionBody, len(list))
	for i, in := range list {
		out[i] = instructionBody{
			X:        in.Pos.X,
			Y:        in.Pos.Y,
			Rotation: in.Rotation.String(),
			Piece:    in.Piece.String(),
			Name:     in.Name,
			Span:     in.Span,
		}
	}
	return out
}

func encodeResult(res worker.Result) resultBody {
	out := res.Outcome
	b := resultBody{
		ID:          res.ID.String(),
		Medium:      res.Medium.String(),
		From:        point(res.From),
		To:          point(res.To),
		Epoch:       res.Epoch,
		Status:      out.Status.String(),
		Plan:        encodeInstructions(out.Plan),
		RawLength:   out.RawLength,
		Attempts:    out.Attempts,
		Evaluations: out.Evaluations,
		MaskIgnored: out.MaskIgnored,
		SearchMS:    float64(out.Search.Microseconds()) / 1000,
		TotalMS:     float64(res.Total.Microseconds()) / 1000,
	}
	if res.Err != nil {
		b.Error = res.Err.Error()
	}
	return b
}

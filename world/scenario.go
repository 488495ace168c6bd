package world

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/gridroute/grid"
)

// Scenario is a decoded route request: a snapshot plus endpoints.
type Scenario struct {
	Name     string
	Medium   Medium
	From, To grid.Point
	// Targets, when set, asks for an energy chain from From through every
	// target instead of a single route to To.
	Targets  []grid.Point
	Snapshot *Snapshot
}

type scenarioDoc struct {
	Name       string         `toml:"name"`
	Team       int            `toml:"team"`
	Medium     string         `toml:"medium"`
	From       [2]int         `toml:"from"`
	To         [2]int         `toml:"to"`
	Targets    [][2]int       `toml:"targets"`
	Rows       []string       `toml:"rows"`
	Kinds      []kindDoc      `toml:"kind"`
	Structures []structureDoc `toml:"structure"`
}

type kindDoc struct {
	Name     string   `toml:"name"`
	Size     int      `toml:"size"`
	Traits   []string `toml:"traits"`
	Category string   `toml:"category"`
}

type structureDoc struct {
	Kind     string `toml:"kind"`
	At       [2]int `toml:"at"`
	Rotation string `toml:"rotation"`
	Team     int    `toml:"team"`
	Planned  bool   `toml:"planned"`
}

// LoadScenario reads a scenario file. See DecodeScenario for the format.
func LoadScenario(path string, cat *Catalog) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc, err := DecodeScenario(f, cat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// DecodeScenario parses a TOML scenario.
//
// The map is given as rows, top row first, so the document reads like the
// map: '.' is free, '#' is solid terrain and 'x' is free but masked.
// [[kind]] tables extend cat for this scenario only; [[structure]] tables
// place structures by kind name. A structure without a team belongs to the
// requesting team.
func DecodeScenario(r io.Reader, cat *Catalog) (*Scenario, error) {
	var doc scenarioDoc
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenario, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrScenario, keys)
	}
	if cat == nil {
		cat = DefaultCatalog()
	}
	local := NewCatalog()
	for name, k := range cat.kinds {
		local.kinds[name] = k
	}
	for _, kd := range doc.Kinds {
		traits, err := ParseTraits(kd.Traits)
		if err != nil {
			return nil, err
		}
		category, err := ParseCategory(kd.Category)
		if err != nil {
			return nil, err
		}
		if err := local.Register(Kind{Name: kd.Name, Size: kd.Size, Traits: traits, Category: category}); err != nil {
			return nil, err
		}
	}

	if len(doc.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrScenario)
	}
	g, err := grid.New(len(doc.Rows[0]), len(doc.Rows))
	if err != nil {
		return nil, err
	}
	occupied := make([]bool, g.Size())
	mask := make([]bool, g.Size())
	masked := false
	for row, line := range doc.Rows {
		if len(line) != g.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrScenario, row, len(line), g.Width)
		}
		y := g.Height - 1 - row
		for x, c := range line {
			i := g.Index(grid.Point{X: x, Y: y})
			switch c {
			case '.':
			case '#':
				occupied[i] = true
			case 'x':
				mask[i] = true
				masked = true
			default:
				return nil, fmt.Errorf("%w: unexpected %q at row %d", ErrScenario, c, row)
			}
		}
	}
	if !masked {
		mask = nil
	}

	structures := make([]Structure, 0, len(doc.Structures))
	for _, sd := range doc.Structures {
		k, ok := local.Lookup(sd.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, sd.Kind)
		}
		rot, err := grid.ParseDir(strings.ToLower(sd.Rotation))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScenario, err)
		}
		if rot == grid.NoDir {
			rot = grid.Right
		}
		team := sd.Team
		if team == 0 {
			team = doc.Team
		}
		structures = append(structures, Structure{
			Kind:     k,
			Center:   grid.Point{X: sd.At[0], Y: sd.At[1]},
			Rotation: rot,
			Team:     team,
			Planned:  sd.Planned,
		})
	}

	medium := Liquid
	if doc.Medium != "" {
		if medium, err = ParseMedium(doc.Medium); err != nil {
			return nil, err
		}
	}
	snap, err := NewSnapshot(g, doc.Team, occupied, structures, mask)
	if err != nil {
		return nil, err
	}
	var targets []grid.Point
	for _, t := range doc.Targets {
		targets = append(targets, grid.Point{X: t[0], Y: t[1]})
	}
	return &Scenario{
		Name:     doc.Name,
		Medium:   medium,
		From:     grid.Point{X: doc.From[0], Y: doc.From[1]},
		To:       grid.Point{X: doc.To[0], Y: doc.To[1]},
		Targets:  targets,
		Snapshot: snap,
	}, nil
}

package world

import "errors"

// Sentinel errors for snapshot construction and scenario loading. All of
// them describe an inconsistent world context, never an unreachable target.
var (
	// ErrNoTeam indicates a snapshot without a requesting team.
	ErrNoTeam = errors.New("world: snapshot has no team context")
	// ErrLayerSize indicates a per-cell layer whose length differs from the grid size.
	ErrLayerSize = errors.New("world: layer size does not match grid")
	// ErrFootprint indicates a structure footprint leaving the grid.
	ErrFootprint = errors.New("world: structure footprint outside grid")
	// ErrOverlap indicates two structures claiming the same cell.
	ErrOverlap = errors.New("world: structures overlap")
	// ErrInvalidKind indicates a malformed structure kind.
	ErrInvalidKind = errors.New("world: invalid structure kind")
	// ErrUnknownKind indicates a name missing from the catalog.
	ErrUnknownKind = errors.New("world: unknown structure kind")
	// ErrUnknownMedium indicates an unrecognised medium name.
	ErrUnknownMedium = errors.New("world: unknown medium")
	// ErrScenario indicates a malformed scenario document.
	ErrScenario = errors.New("world: malformed scenario")
)

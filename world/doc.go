// Package world holds the immutable world snapshot a route request runs
// against: the grid, occupancy, built and planned structures of every team,
// and an optional placement mask.
//
// What:
//
//   - Medium, Kind, Trait and Category describe what a structure is and how
//     it interacts with energy, liquid and item routing.
//   - Catalog names the built-in kinds; scenarios can extend it.
//   - NewSnapshot validates and deep-copies the caller's layers.
//   - MaskAround builds exclusion masks around own-team structures.
//   - DecodeScenario reads a TOML request used by the CLI, tests and server.
//
// Errors:
//
//   - ErrNoTeam, ErrLayerSize, ErrFootprint, ErrOverlap: inconsistent
//     world context. These are setup bugs and are never retried.
//   - ErrUnknownKind, ErrInvalidKind, ErrUnknownMedium, ErrScenario:
//     malformed input documents.
package world

// Package router answers one route request for one medium: it classifies
// the snapshot, walks the candidate anchor pairs under a total time budget,
// reduces the first route found and assembles its build plan.
//
// What:
//
//   - Energy requests search directly between the two powered structures.
//   - Liquid and item requests search from every free cell around the
//     source to every reachable border cell of the destination, paired
//     ranks first. A directional source piece (conduit, duct, bridge) is
//     only left through its front unless it is replaced by a splitter.
//   - When no route exists under the exclusion mask the request is retried
//     without it (MaskFallback).
//   - Chain links a group of powered structures: it starts at the closest
//     source/target pair and then always hops to the nearest target not
//     yet linked, each hop with its own mask fallback. The total budget is
//     scaled by the number of targets.
//
// Why:
//
//   - A Router owns its terrain map and search layers and reuses them, so
//     repeated requests on the same map allocate nothing per cell.
//
// Lifecycle:
//
//	New(medium, grid, cfg) ──► Route(ctx, req) | Chain(ctx, req) ... ──► (grid changes) New
//
// A Router is not safe for concurrent use; the worker package serialises
// requests onto one goroutine.
//
// Options:
//
//   - WithLogger(l):  structured logger; discards by default. At LevelTrace
//     every committed and abandoned search step is logged too.
//
// Errors:
//
//   - ErrNoSnapshot:       request without a snapshot.
//   - ErrGridMismatch:     snapshot taken on another grid.
//   - ErrNoSource:         source outside the grid, or nothing to chain from.
//   - ErrNoTarget:         target outside the grid, or a chain without targets.
//   - ErrChainMedium:      Chain on a liquid or item router.
//   - ErrConfig:           invalid Config.
//   - ErrOptionViolation:  invalid option value.
//
// A request without a route is not an error: Outcome.Status reports
// NoRoute or Expired.
package router

// Package anchor enumerates the candidate start and end cells a route
// between two structures may use.
//
// What:
//
//   - Generate lists the free cells around the source footprint (tagged with
//     the side they lie on) and the destination border cells that have a
//     free neighbour, each sorted so the most promising cells come first.
//   - Candidates.Pairs orders (source, target) combinations: the paired
//     ranks first (k-th with k-th, cycling the shorter list), then the rest
//     of the cross product, each pair exactly once.
//   - Candidates.Restrict keeps only the source cell a directional source
//     piece feeds.
//
// Why:
//
//   - The paired pass tries every anchor of the longer list once before the
//     quadratic fallback, so a reachable target is usually found within
//     max(len) attempts.
//
// Complexity:
//
//   - Generate: O(S log S), S = ring cells.
//   - Pairs:    O(|Sources|×|Targets|).
package anchor

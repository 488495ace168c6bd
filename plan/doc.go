// Package plan turns a found route into the ordered list of pieces a builder
// places: relays for energy, connectors, junctions, armored connectors and
// bridges for the flow media.
//
// What:
//
//   - Emit walks the route from the target back to the source and emits one
//     Instruction per node. The reverse order is the safe build order: a
//     piece is never placed before the piece it feeds.
//   - Merge folds connectors sandwiched between bridges that can reach each
//     other directly, the way a human builder chains bridges.
//   - Schedule reverses every run of consecutive bridges so each run is
//     built tip first.
//   - Assemble is Schedule(Merge(Emit(...))).
//
// Piece naming:
//
//	piece      energy      liquid            item
//	Relay      beam-node   -                 -
//	Connector  -           conduit           duct
//	Armored    -           -                 armored-duct
//	Junction   -           liquid-junction   -
//	Bridge     -           bridge-conduit    duct-bridge
//	Splitter   -           liquid-router     duct-router | overflow-duct | underflow-duct
//
// Complexity:
//
//   - Emit, Merge, Schedule: O(N), N = route nodes.
//
// Options:
//
//   - WithSplitter(pos, rot):  replace the source connector at pos with a
//     splitter (flow media only).
//   - WithSplitterKind(k):     item splitter flavour (router by default).
//
// Errors:
//
//   - ErrMediumMismatch:   nil medium, or route found with another medium.
//   - ErrOptionViolation:  invalid option value.
package plan

// Package route implements the backtracking, heuristic best-first grid walk
// that finds a buildable path of connector pieces between two cells, and the
// reducer that removes the detours the greedy walk leaves behind.
//
// What:
//
//   - Searcher runs one time-boxed search per call over a classified terrain
//     map. The walk keeps an explicit slice-backed stack of committed Nodes;
//     it never recurses.
//   - Medium parameterizes the shared skeleton. Energy hops 1..10 cells over
//     blocked terrain; Liquid and Item place single connectors and bridge
//     jumps of 2..4 cells.
//   - Reduce shortens a found Route by pointing each node at the latest later
//     node it can reach in one legal hop.
//
// Why:
//
//   - A depth-first walk with direction priorities finds a good route quickly
//     on large maps where a full shortest-path search would not fit the
//     per-request time budget.
//   - Per-direction dead-end memory (the attempted-direction mask survives
//     backtracking) guarantees termination.
//
// States:
//
//	Advancing ──commit──► Advancing ──adjacent & legal──► Succeeded
//	    │                     ▲
//	    └──no direction──► Backtracking ──stack empty──► Failed
//	any checkpoint or arrival past the deadline ───────► Expired
//
// Search returns only the terminal states; WithTrace observes the others.
//
// Complexity:
//
//   - Search: O(W×H×4×R) evaluations in the worst case (R = 10 for energy,
//     4 for flow media); memory O(W×H) reused across calls.
//   - Reduce: O(N×4×R) per pass, N = route nodes; passes repeat until the
//     route stops shrinking.
//
// Options:
//
//   - WithContext(ctx):     cancellation, checked at every checkpoint.
//   - WithFrequency(n):     evaluations between deadline checks (n > 0).
//   - WithBudget(d):        wall-clock budget; d < 0 disables the deadline.
//   - WithTargetMode(b):    target-direction (true) or continuation priority.
//   - WithStartDir(d):      facing of the source connector (flow media).
//   - WithOverride(p):      treat cell p as empty for this request.
//   - WithMask(mask):       cells that must not hold a piece.
//   - WithAbort(fn):        external cancellation hook (epoch check).
//   - WithTrace(fn):        observe every commit and every backtrack.
//
// Errors:
//
//   - ErrOutOfBounds:      from or to lies outside the grid.
//   - ErrOptionViolation:  invalid option value.
//   - ErrMediumNotReady:   nil medium or a map of the wrong medium.
//   - ErrMaskSize:         mask length differs from the grid size.
//   - ErrAborted:          recorded in Result.Err when a search stopped on
//     cancellation rather than on its deadline.
package route

// Package terrain classifies a world snapshot into the per-medium tile
// states the route search reads.
//
// What:
//
//   - EnergyMap: Conductive cells of own powered structures (with an owner
//     id per cell), Blocked cells, Empty cells. Own towers block relay
//     placement 2..13 cells away along both axes.
//   - FlowMap: liquid or item tile states. Own same-medium connectors become
//     Invisible (liquid conduits) or Protect (bridge bases); other solid
//     cells Block. Influence of own structures is layered on top: bridges
//     flag the cells they aim through as damaged, emitters flag their
//     perimeter as dangerous, directional pieces block the cell they feed.
//
// Why:
//
//   - The search evaluates millions of candidate cells; a byte per cell
//     read from a flat slice keeps every legality check O(1).
//
// Classification runs in two passes (base states, then influence) and all
// influence is derived from base states only, so the result does not depend
// on the order of structures in the snapshot. Damaged and dangerous flags
// are additive: a cell carrying both is Collide.
//
// Complexity: O(W×H + Σ structure rings), Memory: O(W×H), allocated once
// per map and reused across Classify calls.
//
// Errors:
//
//   - ErrGridMismatch: the snapshot grid differs from the map grid.
//   - ErrMedium: a FlowMap was requested for the energy medium.
package terrain

// Package gridroute plans build routes for energy beams, liquids and items
// across a tile grid: given a snapshot of the map and two structures, it
// returns the ordered list of pieces to place so the source feeds the
// destination.
//
// The router is heuristic. It walks the grid greedily toward the target,
// backtracks out of dead ends, jumps obstacles with bridges, and stops at a
// time budget; the route it returns is legal but not necessarily shortest.
//
// Packages, leaves first:
//
//	grid/     points, directions, row-major indexing, structure footprints
//	world/    structure kinds, the request snapshot, TOML scenarios
//	terrain/  per-medium tile classification with influence zones
//	anchor/   candidate entry and exit cells around two footprints
//	route/    the backtracking search and the route reducer
//	plan/     build instructions: emit, merge bridge runs, schedule
//	router/   one request end to end: anchors, budgets, mask fallback
//	worker/   single background goroutine, bounded queue, epochs
//	config/   TOML settings
//	render/   ASCII and tcell drawing of a plan
//	server/   HTTP and websocket API over a worker
//
// Quick example:
//
//	snap, _ := world.NewSnapshot(g, team, occupied, structures, nil)
//	r, _ := router.New(world.Liquid, g, router.DefaultConfig(world.Liquid))
//	out, _ := r.Route(ctx, router.Request{Snapshot: snap, From: pump, To: factory})
//	for _, in := range out.Plan {
//		fmt.Println(in) // conduit (4,0) right 1
//	}
//
// The gridroute command wraps all of this: route, batch, view and serve.
package gridroute

package route

// Reduce removes detours from r by pointing nodes at later nodes they can
// reach in one legal hop and dropping the nodes in between. Passes repeat
// until the route stops shrinking, so Reduce(m, Reduce(m, r)) equals
// Reduce(m, r). The result never has more nodes than r and r is left
// untouched.
//
// m must be the medium r was found with; a route of another medium or an
// empty route is returned unchanged.
// Complexity: O(P×N×4×R), P passes, N nodes, R the medium's reach.
func Reduce(m Medium, r Route) Route {
	if m == nil || !m.ready() || m.Kind() != r.Medium || len(r.Nodes) == 0 {
		return r
	}
	out := r
	out.Nodes = append([]Node(nil), r.Nodes...)
	for {
		next := m.shorten(out)
		if len(next) >= len(out.Nodes) {
			return out
		}
		out.Nodes = next
	}
}

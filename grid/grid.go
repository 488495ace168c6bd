package grid

// Grid is a fixed Width×Height raster. It is a value type and never changes
// after construction.
type Grid struct {
	Width, Height int
}

// New validates the dimensions and returns a Grid.
// Returns ErrEmptyGrid if either dimension is not positive.
func New(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, ErrEmptyGrid
	}
	return Grid{Width: width, Height: height}, nil
}

// Size returns the number of cells.
func (g Grid) Size() int {
	return g.Width * g.Height
}

// InBounds reports whether p lies within the grid boundaries.
// Complexity: O(1).
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Index maps p to its row-major index x + y*Width.
// Complexity: O(1).
func (g Grid) Index(p Point) int {
	return p.X + p.Y*g.Width
}

// Coordinate converts a row-major index back to a Point.
// Complexity: O(1).
func (g Grid) Coordinate(i int) Point {
	return Point{X: i % g.Width, Y: i / g.Width}
}

// Step returns the index k cells away from i along d, or -1 when that cell
// lies outside the grid.
// Complexity: O(1).
func (g Grid) Step(i int, d Dir, k int) int {
	p := g.Coordinate(i).Add(d, k)
	if !g.InBounds(p) {
		return -1
	}
	return g.Index(p)
}

// Neighbors returns the in-bound indices adjacent to i in rotation order.
func (g Grid) Neighbors(i int) []int {
	out := make([]int, 0, 4)
	for _, d := range Dirs {
		if j := g.Step(i, d, 1); j >= 0 {
			out = append(out, j)
		}
	}
	return out
}

package grid

// Footprint is the square area covered by a structure of Size×Size cells.
// The structure is addressed by its Center cell; the lower-left corner sits
// at Center + Offset() on both axes, so even sizes lean toward +x/+y.
type Footprint struct {
	Center Point
	Size   int
}

// NewFootprint returns a validated footprint.
// Returns ErrFootprintSize if size is not positive.
func NewFootprint(center Point, size int) (Footprint, error) {
	if size <= 0 {
		return Footprint{}, ErrFootprintSize
	}
	return Footprint{Center: center, Size: size}, nil
}

// Offset returns the distance from Center to the lower-left corner.
func (f Footprint) Offset() int {
	return -(f.Size - 1) / 2
}

// Min returns the lower-left cell.
func (f Footprint) Min() Point {
	o := f.Offset()
	return Point{X: f.Center.X + o, Y: f.Center.Y + o}
}

// Max returns the upper-right cell.
func (f Footprint) Max() Point {
	m := f.Min()
	return Point{X: m.X + f.Size - 1, Y: m.Y + f.Size - 1}
}

// Contains reports whether p is one of the footprint cells.
func (f Footprint) Contains(p Point) bool {
	lo, hi := f.Min(), f.Max()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// Within reports whether every footprint cell lies inside g.
func (f Footprint) Within(g Grid) bool {
	return g.InBounds(f.Min()) && g.InBounds(f.Max())
}

// Cells lists the footprint cells row by row from the lower-left corner.
// Complexity: O(Size²).
func (f Footprint) Cells() []Point {
	lo := f.Min()
	out := make([]Point, 0, f.Size*f.Size)
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			out = append(out, Point{X: lo.X + x, Y: lo.Y + y})
		}
	}
	return out
}

// OuterRing lists the cells touching the footprint edge from outside,
// corners excluded, in the order bottom row, top row, left column, right
// column. Cells outside g are skipped.
// Complexity: O(Size).
func (f Footprint) OuterRing(g Grid) []Point {
	lo, hi := f.Min(), f.Max()
	out := make([]Point, 0, 4*f.Size)
	push := func(p Point) {
		if g.InBounds(p) {
			out = append(out, p)
		}
	}
	for x := lo.X; x <= hi.X; x++ {
		push(Point{X: x, Y: lo.Y - 1})
	}
	for x := lo.X; x <= hi.X; x++ {
		push(Point{X: x, Y: hi.Y + 1})
	}
	for y := lo.Y; y <= hi.Y; y++ {
		push(Point{X: lo.X - 1, Y: y})
	}
	for y := lo.Y; y <= hi.Y; y++ {
		push(Point{X: hi.X + 1, Y: y})
	}
	return out
}

// InnerRing lists the border cells of the footprint itself, each exactly
// once: bottom row without its right end, top row without its left end,
// left column without its bottom end, right column without its top end.
// A 1×1 footprint yields its only cell.
// Complexity: O(Size).
func (f Footprint) InnerRing() []Point {
	if f.Size == 1 {
		return []Point{f.Center}
	}
	lo, hi := f.Min(), f.Max()
	out := make([]Point, 0, 4*(f.Size-1))
	for x := lo.X; x < hi.X; x++ {
		out = append(out, Point{X: x, Y: lo.Y})
	}
	for x := lo.X + 1; x <= hi.X; x++ {
		out = append(out, Point{X: x, Y: hi.Y})
	}
	for y := lo.Y + 1; y <= hi.Y; y++ {
		out = append(out, Point{X: lo.X, Y: y})
	}
	for y := lo.Y; y < hi.Y; y++ {
		out = append(out, Point{X: hi.X, Y: y})
	}
	return out
}

// Side returns the side of the footprint an outside point faces:
// Right when p is beyond the right edge, and so on. Points inside the
// footprint or diagonal to it yield NoDir.
func (f Footprint) Side(p Point) Dir {
	lo, hi := f.Min(), f.Max()
	inX := p.X >= lo.X && p.X <= hi.X
	inY := p.Y >= lo.Y && p.Y <= hi.Y
	switch {
	case inY && p.X > hi.X:
		return Right
	case inX && p.Y > hi.Y:
		return Up
	case inY && p.X < lo.X:
		return Left
	case inX && p.Y < lo.Y:
		return Down
	}
	return NoDir
}

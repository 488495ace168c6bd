package grid

import "fmt"

// Dir is a cardinal direction. Its numeric value doubles as the rotation of
// a placed piece.
type Dir int8

const (
	// NoDir marks the absence of a direction.
	NoDir Dir = -1
	// Right points toward x+1.
	Right Dir = 0
	// Up points toward y+1.
	Up Dir = 1
	// Left points toward x-1.
	Left Dir = 2
	// Down points toward y-1.
	Down Dir = 3
)

// Dirs lists the four directions in rotation order.
var Dirs = [4]Dir{Right, Up, Left, Down}

var dirNames = [4]string{"right", "up", "left", "down"}

// Valid reports whether d is one of the four cardinal directions.
func (d Dir) Valid() bool {
	return d >= Right && d <= Down
}

// Opposite returns the reverse direction. NoDir stays NoDir.
func (d Dir) Opposite() Dir {
	if !d.Valid() {
		return NoDir
	}
	return (d + 2) & 3
}

// Horizontal reports whether d runs along the x axis.
func (d Dir) Horizontal() bool {
	return d == Right || d == Left
}

// Turns returns the two perpendicular directions, counter-clockwise first.
func (d Dir) Turns() (Dir, Dir) {
	if !d.Valid() {
		return NoDir, NoDir
	}
	return (d + 1) & 3, (d + 3) & 3
}

// Delta returns the unit offset of d.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Up:
		return 0, 1
	case Left:
		return -1, 0
	case Down:
		return 0, -1
	}
	return 0, 0
}

// String implements fmt.Stringer.
func (d Dir) String() string {
	if !d.Valid() {
		return "none"
	}
	return dirNames[d]
}

// ParseDir converts a direction name produced by String back to a Dir.
func ParseDir(s string) (Dir, error) {
	for i, name := range dirNames {
		if name == s {
			return Dir(i), nil
		}
	}
	if s == "" || s == "none" {
		return NoDir, nil
	}
	return NoDir, fmt.Errorf("grid: unknown direction %q", s)
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Add returns p moved k cells along d.
func (p Point) Add(d Dir, k int) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx*k, Y: p.Y + dy*k}
}

// Manhattan returns |dx|+|dy| between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Dist2 returns the squared Euclidean distance between p and q.
func (p Point) Dist2(q Point) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// DirTo returns the direction from p to q when both lie on one axis,
// otherwise NoDir.
func (p Point) DirTo(q Point) Dir {
	switch {
	case p.Y == q.Y && q.X > p.X:
		return Right
	case p.Y == q.Y && q.X < p.X:
		return Left
	case p.X == q.X && q.Y > p.Y:
		return Up
	case p.X == q.X && q.Y < p.Y:
		return Down
	}
	return NoDir
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

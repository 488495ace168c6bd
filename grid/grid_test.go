package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridroute/grid"
)

//----------------------------------------------------------------------------//
// New, InBounds and index arithmetic
//----------------------------------------------------------------------------//

// TestNew_Errors verifies that New rejects empty dimensions.
func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"ZeroWidth", 0, 3},
		{"ZeroHeight", 3, 0},
		{"Negative", -1, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.New(tc.w, tc.h)
			require.ErrorIs(t, err, grid.ErrEmptyGrid)
		})
	}
}

// TestInBounds checks InBounds on a 3×2 grid.
func TestInBounds(t *testing.T) {
	g, err := grid.New(3, 2)
	require.NoError(t, err)

	for _, p := range []grid.Point{{0, 0}, {2, 1}, {1, 1}} {
		assert.True(t, g.InBounds(p), "InBounds(%v)", p)
	}
	for _, p := range []grid.Point{{-1, 0}, {3, 0}, {1, 2}, {2, -1}} {
		assert.False(t, g.InBounds(p), "InBounds(%v)", p)
	}
}

// TestIndexRoundTrip verifies Index and Coordinate are inverse.
func TestIndexRoundTrip(t *testing.T) {
	g, _ := grid.New(7, 5)
	for i := 0; i < g.Size(); i++ {
		p := g.Coordinate(i)
		require.Equal(t, i, g.Index(p))
	}
	assert.Equal(t, 3+2*7, g.Index(grid.Point{X: 3, Y: 2}))
}

// TestStep covers stepping inside and off the grid.
func TestStep(t *testing.T) {
	g, _ := grid.New(4, 4)
	i := g.Index(grid.Point{X: 1, Y: 1})

	assert.Equal(t, g.Index(grid.Point{X: 2, Y: 1}), g.Step(i, grid.Right, 1))
	assert.Equal(t, g.Index(grid.Point{X: 1, Y: 3}), g.Step(i, grid.Up, 2))
	assert.Equal(t, -1, g.Step(i, grid.Left, 2))
	assert.Equal(t, -1, g.Step(i, grid.Down, 2))
	assert.Len(t, g.Neighbors(0), 2)
	assert.Len(t, g.Neighbors(i), 4)
}

//----------------------------------------------------------------------------//
// Dir and Point
//----------------------------------------------------------------------------//

func TestDir(t *testing.T) {
	assert.Equal(t, grid.Left, grid.Right.Opposite())
	assert.Equal(t, grid.Down, grid.Up.Opposite())
	assert.Equal(t, grid.NoDir, grid.NoDir.Opposite())

	ccw, cw := grid.Right.Turns()
	assert.Equal(t, grid.Up, ccw)
	assert.Equal(t, grid.Down, cw)

	assert.True(t, grid.Left.Horizontal())
	assert.False(t, grid.Down.Horizontal())

	for _, d := range grid.Dirs {
		back, err := grid.ParseDir(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, back)
	}
	_, err := grid.ParseDir("north")
	assert.Error(t, err)
}

func TestPoint(t *testing.T) {
	p := grid.Point{X: 2, Y: 3}
	assert.Equal(t, grid.Point{X: 2, Y: 7}, p.Add(grid.Up, 4))
	assert.Equal(t, 5, p.Manhattan(grid.Point{X: 0, Y: 0}))
	assert.Equal(t, 13, p.Dist2(grid.Point{X: 0, Y: 0}))
	assert.Equal(t, grid.Left, p.DirTo(grid.Point{X: 0, Y: 3}))
	assert.Equal(t, grid.NoDir, p.DirTo(grid.Point{X: 0, Y: 0}))
	assert.Equal(t, "(2,3)", p.String())
}

package grid

import "errors"

var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("grid: width and height must be positive")
	// ErrFootprintSize indicates a footprint with a non-positive size.
	ErrFootprintSize = errors.New("grid: footprint size must be positive")
)

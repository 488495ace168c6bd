package terrain

import "errors"

var (
	// ErrGridMismatch indicates a snapshot whose grid differs from the map's.
	ErrGridMismatch = errors.New("terrain: snapshot grid does not match map grid")
	// ErrMedium indicates a flow map requested for a non-flow medium.
	ErrMedium = errors.New("terrain: flow map requires the liquid or item medium")
)

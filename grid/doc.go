// Package grid provides the raster primitives shared by every router:
// a fixed-size row-major grid, the four cardinal directions, points and
// square structure footprints.
//
// What:
//
//   - Grid maps (x,y) to a row-major index i = x + y*Width and back.
//   - Dir enumerates Right, Up (y+1), Left and Down with the rotation
//     encoding used by placement instructions (0..3).
//   - Footprint describes an N×N structure anchored at its center cell and
//     enumerates its outer and inner boundary rings.
//
// Why:
//
//   - Every search layer is a flat slice indexed by Grid.Index, so the
//     index arithmetic lives in one place.
//   - Anchor generation needs the exact ring orders of a footprint.
//
// Complexity:
//
//   - Index, Coordinate, InBounds, Step: O(1).
//   - Footprint.OuterRing, Footprint.InnerRing: O(Size).
//   - Footprint.Cells: O(Size²).
//
// Errors:
//
//   - ErrEmptyGrid: width or height is not positive.
//   - ErrFootprintSize: footprint size is not positive.
package grid

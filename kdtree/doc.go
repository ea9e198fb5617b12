// Package kdtree implements a static three-dimensional k-d tree over labeled
// points in color space. The tree is built once from a finite point set and
// is immutable afterwards; nearest-neighbour and radius queries use standard
// branch-and-bound pruning on the splitting axes. All query operations are
// pure reads and safe for concurrent use once Build has returned.
//
// Coordinates must be finite; NaN or infinite values are an unchecked
// precondition violation and leave query behaviour unspecified.
package kdtree

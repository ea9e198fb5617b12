package kdtree

import (
	"math"
	"sort"
)

// Point associates a 3D coordinate with an opaque payload. Coordinates are
// color channels in practice (0-255 per axis) but any finite values work.
type Point[T any] struct {
	Coord   [3]float64
	Payload T
}

// Result pairs a stored point with its true Euclidean distance from a query.
type Result[T any] struct {
	Point    Point[T]
	Distance float64
}

type node[T any] struct {
	point Point[T]
	axis  int
	left  *node[T]
	right *node[T]
}

// Tree is an immutable 3-dimensional k-d tree. The zero value is not usable;
// construct one with Build.
type Tree[T any] struct {
	root *node[T]
	size int
}

// Build constructs a tree from the given points. The input slice is not
// retained or modified. Duplicate coordinates are allowed; payload identity
// distinguishes points. An empty input yields an empty tree.
func Build[T any](points []Point[T]) *Tree[T] {
	pts := make([]Point[T], len(points))
	copy(pts, points)
	return &Tree[T]{
		root: buildNode(pts, 0),
		size: len(pts),
	}
}

func buildNode[T any](pts []Point[T], depth int) *node[T] {
	if len(pts) == 0 {
		return nil
	}
	axis := depth % 3
	if len(pts) == 1 {
		return &node[T]{point: pts[0], axis: axis}
	}

	// Median split: sorting per call is fine for the catalog sizes this
	// tree is built for (low hundreds of points).
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Coord[axis] < pts[j].Coord[axis]
	})
	mid := len(pts) / 2
	median := pts[mid]

	// Strictly-less points go left; everything else (minus the median
	// itself) goes right, so duplicates of the median land on the right.
	left := make([]Point[T], 0, mid)
	right := make([]Point[T], 0, len(pts)-mid-1)
	for i, p := range pts {
		if i == mid {
			continue
		}
		if p.Coord[axis] < median.Coord[axis] {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}

	return &node[T]{
		point: median,
		axis:  axis,
		left:  buildNode(left, depth+1),
		right: buildNode(right, depth+1),
	}
}

// Size returns the number of points in the tree.
func (t *Tree[T]) Size() int { return t.size }

// IsEmpty reports whether the tree holds no points.
func (t *Tree[T]) IsEmpty() bool { return t.size == 0 }

// Nearest returns the closest stored point to q. Points whose payload
// matches the exclude predicate are never returned, but still partition
// space for pruning purposes. A nil predicate excludes nothing. The second
// return value is false when the tree is empty or every point is excluded.
// Ties on distance resolve to the first point reached by the traversal.
func (t *Tree[T]) Nearest(q [3]float64, exclude func(T) bool) (Result[T], bool) {
	var best *node[T]
	bestSq := math.Inf(1)

	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n == nil {
			return
		}
		if exclude == nil || !exclude(n.point.Payload) {
			if d := sqDist(q, n.point.Coord); d < bestSq {
				best, bestSq = n, d
			}
		}

		diff := q[n.axis] - n.point.Coord[n.axis]
		near, far := n.left, n.right
		if diff >= 0 {
			near, far = n.right, n.left
		}
		walk(near)
		// The far subtree can only hold a closer point if the splitting
		// hyperplane is closer than the current best.
		if diff*diff < bestSq {
			walk(far)
		}
	}
	walk(t.root)

	if best == nil {
		return Result[T]{}, false
	}
	return Result[T]{Point: best.point, Distance: math.Sqrt(bestSq)}, true
}

// Within returns every stored point at Euclidean distance <= radius from q,
// ordered by ascending distance. Equal distances keep traversal order. The
// result is never nil; a negative radius or an empty tree yields an empty
// slice.
func (t *Tree[T]) Within(q [3]float64, radius float64) []Result[T] {
	results := make([]Result[T], 0)
	if radius < 0 {
		return results
	}
	radiusSq := radius * radius

	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n == nil {
			return
		}
		if d := sqDist(q, n.point.Coord); d <= radiusSq {
			results = append(results, Result[T]{Point: n.point, Distance: math.Sqrt(d)})
		}

		diff := q[n.axis] - n.point.Coord[n.axis]
		near, far := n.left, n.right
		if diff >= 0 {
			near, far = n.right, n.left
		}
		walk(near)
		if diff*diff <= radiusSq {
			walk(far)
		}
	}
	walk(t.root)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}

func sqDist(a, b [3]float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

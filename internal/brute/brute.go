// Package brute provides linear-scan reference implementations of the
// spatial queries. They exist to cross-check the k-d tree in tests and in
// the eval command, not for production use.
package brute

import (
	"math"
	"sort"

	"github.com/FlashGalatine/xivdyetools-core-sub002/kdtree"
)

// Nearest scans every point and returns the closest non-excluded one.
func Nearest[T any](points []kdtree.Point[T], q [3]float64, exclude func(T) bool) (kdtree.Result[T], bool) {
	var best kdtree.Point[T]
	bestSq := math.Inf(1)
	found := false
	for _, p := range points {
		if exclude != nil && exclude(p.Payload) {
			continue
		}
		if d := sqDist(q, p.Coord); d < bestSq {
			best, bestSq = p, d
			found = true
		}
	}
	if !found {
		return kdtree.Result[T]{}, false
	}
	return kdtree.Result[T]{Point: best, Distance: math.Sqrt(bestSq)}, true
}

// Within scans every point and returns those within radius, sorted by
// ascending distance.
func Within[T any](points []kdtree.Point[T], q [3]float64, radius float64) []kdtree.Result[T] {
	results := make([]kdtree.Result[T], 0)
	if radius < 0 {
		return results
	}
	radiusSq := radius * radius
	for _, p := range points {
		if d := sqDist(q, p.Coord); d <= radiusSq {
			results = append(results, kdtree.Result[T]{Point: p, Distance: math.Sqrt(d)})
		}
	}
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

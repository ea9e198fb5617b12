package kdtree

import (
	"math"
	"math/rand"
	"testing"
)

func rgb(r, g, b float64) [3]float64 { return [3]float64{r, g, b} }

func TestBuildSize(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 100} {
		pts := make([]Point[int], n)
		for i := range pts {
			pts[i] = Point[int]{Coord: rgb(float64(i%255), float64((i*7)%255), float64((i*13)%255)), Payload: i}
		}
		tree := Build(pts)
		if tree.Size() != n {
			t.Fatalf("Size() = %d, want %d", tree.Size(), n)
		}
		if tree.IsEmpty() != (n == 0) {
			t.Fatalf("IsEmpty() = %v for %d points", tree.IsEmpty(), n)
		}
	}
}

func TestNearestExactMatch(t *testing.T) {
	tree := Build([]Point[string]{
		{Coord: rgb(255, 0, 0), Payload: "red"},
		{Coord: rgb(0, 255, 0), Payload: "green"},
		{Coord: rgb(0, 0, 255), Payload: "blue"},
	})

	res, ok := tree.Nearest(rgb(255, 0, 0), nil)
	if !ok {
		t.Fatal("Nearest returned no result")
	}
	if res.Point.Payload != "red" {
		t.Fatalf("expected red, got %q", res.Point.Payload)
	}
	if res.Distance != 0 {
		t.Fatalf("expected distance 0, got %v", res.Distance)
	}
}

func TestNearestExclusion(t *testing.T) {
	tree := Build([]Point[string]{
		{Coord: rgb(255, 0, 0), Payload: "red"},
		{Coord: rgb(0, 255, 0), Payload: "green"},
		{Coord: rgb(0, 0, 255), Payload: "blue"},
	})

	res, ok := tree.Nearest(rgb(255, 0, 0), func(p string) bool { return p == "red" })
	if !ok {
		t.Fatal("Nearest returned no result")
	}
	if res.Point.Payload == "red" {
		t.Fatal("excluded payload was returned")
	}
	// Green and blue are equidistant from pure red.
	want := math.Sqrt(2 * 255 * 255)
	if math.Abs(res.Distance-want) > 1e-9 {
		t.Fatalf("expected distance %v, got %v", want, res.Distance)
	}
}

func TestNearestAllExcluded(t *testing.T) {
	tree := Build([]Point[string]{
		{Coord: rgb(1, 2, 3), Payload: "a"},
		{Coord: rgb(4, 5, 6), Payload: "b"},
	})
	if _, ok := tree.Nearest(rgb(0, 0, 0), func(string) bool { return true }); ok {
		t.Fatal("expected no result with all points excluded")
	}
}

func TestNearestNextClosestAfterExclusion(t *testing.T) {
	tree := Build([]Point[string]{
		{Coord: rgb(10, 10, 10), Payload: "closest"},
		{Coord: rgb(20, 20, 20), Payload: "second"},
		{Coord: rgb(200, 200, 200), Payload: "far"},
	})
	res, ok := tree.Nearest(rgb(9, 9, 9), func(p string) bool { return p == "closest" })
	if !ok {
		t.Fatal("Nearest returned no result")
	}
	if res.Point.Payload != "second" {
		t.Fatalf("expected second, got %q", res.Point.Payload)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := Build[string](nil)
	if !tree.IsEmpty() {
		t.Fatal("expected empty tree")
	}
	if _, ok := tree.Nearest(rgb(0, 0, 0), nil); ok {
		t.Fatal("Nearest on empty tree returned a result")
	}
	if got := tree.Within(rgb(0, 0, 0), 100); len(got) != 0 {
		t.Fatalf("Within on empty tree returned %d results", len(got))
	}
}

func TestWithinScenario(t *testing.T) {
	tree := Build([]Point[string]{
		{Coord: rgb(255, 0, 0), Payload: "red"},
		{Coord: rgb(250, 5, 5), Payload: "red2"},
		{Coord: rgb(0, 255, 0), Payload: "green"},
	})

	got := tree.Within(rgb(255, 0, 0), 20)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Point.Payload != "red" || got[0].Distance != 0 {
		t.Fatalf("first result = %q at %v, want red at 0", got[0].Point.Payload, got[0].Distance)
	}
	if got[1].Point.Payload != "red2" {
		t.Fatalf("second result = %q, want red2", got[1].Point.Payload)
	}
	want := math.Sqrt(75) // (5,5,5) offset
	if math.Abs(got[1].Distance-want) > 1e-9 {
		t.Fatalf("second distance = %v, want %v", got[1].Distance, want)
	}
}

func TestWithinZeroRadius(t *testing.T) {
	tree := Build([]Point[string]{
		{Coord: rgb(1, 2, 3), Payload: "exact"},
		{Coord: rgb(1, 2, 4), Payload: "near"},
	})
	got := tree.Within(rgb(1, 2, 3), 0)
	if len(got) != 1 || got[0].Point.Payload != "exact" {
		t.Fatalf("radius 0 returned %v", got)
	}
}

func TestWithinSortedAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := randomPoints(rng, 300)
	tree := Build(pts)
	query := rgb(rng.Float64()*255, rng.Float64()*255, rng.Float64()*255)

	const radius = 90.0
	got := tree.Within(query, radius)
	for i, r := range got {
		if r.Distance > radius {
			t.Fatalf("result %d distance %v exceeds radius", i, r.Distance)
		}
		if i > 0 && got[i-1].Distance > r.Distance {
			t.Fatalf("results not sorted at %d: %v > %v", i, got[i-1].Distance, r.Distance)
		}
	}

	// Smaller radius must yield a subset.
	inner := tree.Within(query, radius/2)
	if len(inner) > len(got) {
		t.Fatalf("smaller radius returned more results: %d > %d", len(inner), len(got))
	}
	seen := make(map[int]bool, len(got))
	for _, r := range got {
		seen[r.Point.Payload] = true
	}
	for _, r := range inner {
		if !seen[r.Point.Payload] {
			t.Fatalf("point %d in smaller radius but not larger", r.Point.Payload)
		}
	}

	// Cross-check the count against a linear scan.
	count := 0
	for _, p := range pts {
		if math.Sqrt(sqDist(query, p.Coord)) <= radius {
			count++
		}
	}
	if count != len(got) {
		t.Fatalf("Within found %d points, linear scan found %d", len(got), count)
	}
}

func TestNearestVsBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pts := randomPoints(rng, 400)
	tree := Build(pts)

	for trial := 0; trial < 200; trial++ {
		query := rgb(rng.Float64()*255, rng.Float64()*255, rng.Float64()*255)
		var exclude func(int) bool
		if trial%3 == 0 {
			banned := rng.Intn(len(pts))
			exclude = func(p int) bool { return p%2 == banned%2 }
		}

		res, ok := tree.Nearest(query, exclude)
		wantDist, found := bruteNearest(pts, query, exclude)
		if ok != found {
			t.Fatalf("trial %d: ok=%v but brute force found=%v", trial, ok, found)
		}
		if !ok {
			continue
		}
		if math.Abs(res.Distance-wantDist) > 1e-9 {
			t.Fatalf("trial %d: Nearest distance %v, brute force %v", trial, res.Distance, wantDist)
		}
	}
}

func TestDuplicateCoordinates(t *testing.T) {
	pts := []Point[int]{
		{Coord: rgb(50, 50, 50), Payload: 1},
		{Coord: rgb(50, 50, 50), Payload: 2},
		{Coord: rgb(50, 50, 50), Payload: 3},
	}
	tree := Build(pts)
	if tree.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", tree.Size())
	}
	got := tree.Within(rgb(50, 50, 50), 0)
	if len(got) != 3 {
		t.Fatalf("expected all 3 duplicates, got %d", len(got))
	}
	res, ok := tree.Nearest(rgb(50, 50, 50), func(p int) bool { return p != 2 })
	if !ok || res.Point.Payload != 2 {
		t.Fatalf("expected payload 2, got %v (ok=%v)", res.Point, ok)
	}
}

func randomPoints(rng *rand.Rand, n int) []Point[int] {
	pts := make([]Point[int], n)
	for i := range pts {
		pts[i] = Point[int]{
			Coord:   rgb(rng.Float64()*255, rng.Float64()*255, rng.Float64()*255),
			Payload: i,
		}
	}
	return pts
}

func bruteNearest(pts []Point[int], q [3]float64, exclude func(int) bool) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, p := range pts {
		if exclude != nil && exclude(p.Payload) {
			continue
		}
		if d := sqDist(q, p.Coord); d < best {
			best = d
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return math.Sqrt(best), true
}

func BenchmarkNearest(b *testing.B) {
	rng := rand.New(rand.NewSource(123))
	tree := Build(randomPoints(rng, 512))
	query := rgb(100, 150, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := tree.Nearest(query, nil); !ok {
			b.Fatal("no result")
		}
	}
}

func BenchmarkWithin(b *testing.B) {
	rng := rand.New(rand.NewSource(123))
	tree := Build(randomPoints(rng, 512))
	query := rgb(100, 150, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Within(query, 60)
	}
}

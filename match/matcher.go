// Package match finds catalog dyes close to an arbitrary color. It layers
// exclusion-aware nearest and radius queries from the spatial index with
// catalog-level filters (by item, by category).
package match

import (
	"github.com/FlashGalatine/xivdyetools-core-sub002/dye"
	"github.com/FlashGalatine/xivdyetools-core-sub002/kdtree"
)

// Match pairs a catalog dye with its RGB distance from the query color.
type Match struct {
	Dye      dye.Dye
	Distance float64
}

// Matcher answers color-proximity queries over a fixed catalog. It is
// immutable and safe for concurrent use.
type Matcher struct {
	catalog *dye.Catalog
	tree    *kdtree.Tree[dye.Dye]
}

// New indexes the given catalog.
func New(c *dye.Catalog) *Matcher {
	dyes := c.Dyes()
	points := make([]kdtree.Point[dye.Dye], len(dyes))
	for i, d := range dyes {
		points[i] = kdtree.Point[dye.Dye]{Coord: d.Color.Coord(), Payload: d}
	}
	return &Matcher{
		catalog: c,
		tree:    kdtree.Build(points),
	}
}

// Catalog returns the catalog this matcher was built from.
func (m *Matcher) Catalog() *dye.Catalog { return m.catalog }

// Nearest returns the closest non-excluded dye to c. The second return
// value is false when every dye is filtered out.
func (m *Matcher) Nearest(c dye.RGB, opts ...Option) (Match, bool) {
	cfg := applyOptions(opts...)
	res, ok := m.tree.Nearest(c.Coord(), cfg.exclude())
	if !ok {
		return Match{}, false
	}
	return Match{Dye: res.Point.Payload, Distance: res.Distance}, true
}

// Within returns every non-excluded dye at distance <= radius from c,
// ordered by ascending distance.
func (m *Matcher) Within(c dye.RGB, radius float64, opts ...Option) []Match {
	cfg := applyOptions(opts...)
	exclude := cfg.exclude()

	results := m.tree.Within(c.Coord(), radius)
	matches := make([]Match, 0, len(results))
	for _, r := range results {
		if exclude != nil && exclude(r.Point.Payload) {
			continue
		}
		matches = append(matches, Match{Dye: r.Point.Payload, Distance: r.Distance})
	}
	return matches
}

// Palette returns up to n distinct dyes closest to c, nearest first. It
// repeats the nearest query, excluding earlier picks each round.
func (m *Matcher) Palette(c dye.RGB, n int, opts ...Option) []Match {
	matches := make([]Match, 0, n)
	picked := make(map[int]struct{}, n)
	for len(matches) < n {
		round := append([]Option{withPicked(picked)}, opts...)
		match, ok := m.Nearest(c, round...)
		if !ok {
			break
		}
		picked[match.Dye.ItemID] = struct{}{}
		matches = append(matches, match)
	}
	return matches
}

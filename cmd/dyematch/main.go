// Command dyematch queries the dye catalog for colors close to a given hex
// value, and can evaluate the spatial index against a linear scan.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/FlashGalatine/xivdyetools-core-sub002/dye"
	"github.com/FlashGalatine/xivdyetools-core-sub002/internal/brute"
	"github.com/FlashGalatine/xivdyetools-core-sub002/kdtree"
	"github.com/FlashGalatine/xivdyetools-core-sub002/match"
)

func usage() {
	fmt.Fprintf(os.Stderr, `dyematch commands:

  nearest  Find the dyes closest to a color
  within   List all dyes within a distance of a color
  eval     Cross-check the k-d tree against a linear scan

Example:
  %[1]s nearest -color "#782A2F" -top 3 -locale ja
  %[1]s within  -color "#2B2B2B" -radius 60
  %[1]s eval    -samples 5000 -seed 42

`, filepath.Base(os.Args[0]))
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "nearest":
		runNearest(os.Args[2:])
	case "within":
		runWithin(os.Args[2:])
	case "eval":
		runEval(os.Args[2:])
	default:
		usage()
	}
}

func loadMatcher(catalogPath string) *match.Matcher {
	var (
		catalog *dye.Catalog
		err     error
	)
	if catalogPath != "" {
		catalog, err = dye.LoadFile(catalogPath)
	} else {
		catalog, err = dye.Load()
	}
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	return match.New(catalog)
}

func displayName(names *dye.Names, d dye.Dye, locale string) string {
	if names == nil {
		return d.Name
	}
	if name, ok := names.Lookup(d.ItemID, locale); ok {
		return name
	}
	return d.Name
}

func runNearest(args []string) {
	fs := flag.NewFlagSet("nearest", flag.ExitOnError)
	colorFlag := fs.String("color", "", "Query color as #RRGGBB")
	top := fs.Int("top", 1, "Number of dyes to return")
	locale := fs.String("locale", "en", "Display language (en, ja, de, fr)")
	category := fs.String("category", "", "Restrict results to one category")
	catalogPath := fs.String("catalog", "", "Optional colors_xiv.json path (default: embedded)")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}
	if *colorFlag == "" {
		log.Fatal("nearest: -color is required")
	}
	color, err := dye.ParseHex(*colorFlag)
	if err != nil {
		log.Fatal(err)
	}

	m := loadMatcher(*catalogPath)
	names, err := dye.LoadNames()
	if err != nil {
		log.Fatalf("load names: %v", err)
	}

	var opts []match.Option
	if *category != "" {
		opts = append(opts, match.WithCategory(*category))
	}

	matches := m.Palette(color, *top, opts...)
	if len(matches) == 0 {
		log.Fatal("no matching dyes")
	}
	for i, res := range matches {
		fmt.Printf("%2d. %-24s %s  distance %.2f\n",
			i+1, displayName(names, res.Dye, *locale), res.Dye.Color.Hex(), res.Distance)
	}
}

func runWithin(args []string) {
	fs := flag.NewFlagSet("within", flag.ExitOnError)
	colorFlag := fs.String("color", "", "Query color as #RRGGBB")
	radius := fs.Float64("radius", 50, "Maximum RGB distance")
	locale := fs.String("locale", "en", "Display language (en, ja, de, fr)")
	catalogPath := fs.String("catalog", "", "Optional colors_xiv.json path (default: embedded)")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}
	if *colorFlag == "" {
		log.Fatal("within: -color is required")
	}
	color, err := dye.ParseHex(*colorFlag)
	if err != nil {
		log.Fatal(err)
	}

	m := loadMatcher(*catalogPath)
	names, err := dye.LoadNames()
	if err != nil {
		log.Fatalf("load names: %v", err)
	}

	matches := m.Within(color, *radius)
	fmt.Printf("%d dyes within %.1f of %s\n", len(matches), *radius, color.Hex())
	for _, res := range matches {
		fmt.Printf("  %-24s %s  distance %.2f\n",
			displayName(names, res.Dye, *locale), res.Dye.Color.Hex(), res.Distance)
	}
}

func runEval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	samples := fs.Int("samples", 10000, "Number of random query colors")
	seed := fs.Int64("seed", 1, "Random seed")
	catalogPath := fs.String("catalog", "", "Optional colors_xiv.json path (default: embedded)")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}

	m := loadMatcher(*catalogPath)
	points := make([]kdtree.Point[dye.Dye], 0, m.Catalog().Len())
	for _, d := range m.Catalog().Dyes() {
		points = append(points, kdtree.Point[dye.Dye]{Coord: d.Color.Coord(), Payload: d})
	}
	tree := kdtree.Build(points)

	rng := rand.New(rand.NewSource(*seed))
	queries := make([][3]float64, *samples)
	for i := range queries {
		queries[i] = [3]float64{rng.Float64() * 255, rng.Float64() * 255, rng.Float64() * 255}
	}

	mismatches := 0
	treeTimes := make([]float64, 0, len(queries))
	scanTimes := make([]float64, 0, len(queries))
	for _, q := range queries {
		start := time.Now()
		treeRes, treeOK := tree.Nearest(q, nil)
		treeTimes = append(treeTimes, float64(time.Since(start).Nanoseconds()))

		start = time.Now()
		scanRes, scanOK := brute.Nearest(points, q, nil)
		scanTimes = append(scanTimes, float64(time.Since(start).Nanoseconds()))

		if treeOK != scanOK || math.Abs(treeRes.Distance-scanRes.Distance) > 1e-9 {
			mismatches++
		}
	}

	fmt.Printf("Evaluated %d queries over %d dyes\n", len(queries), tree.Size())
	fmt.Printf("  mismatches:  %d\n", mismatches)
	printLatency("k-d tree", treeTimes)
	printLatency("scan", scanTimes)
	if mismatches > 0 {
		os.Exit(1)
	}
}

func printLatency(label string, nanos []float64) {
	sort.Float64s(nanos)
	p50 := stat.Quantile(0.50, stat.Empirical, nanos, nil)
	p99 := stat.Quantile(0.99, stat.Empirical, nanos, nil)
	fmt.Printf("  %-10s mean %.0fns  p50 %.0fns  p99 %.0fns\n",
		label+":", stat.Mean(nanos, nil), p50, p99)
}

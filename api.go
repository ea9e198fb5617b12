// Package xivdyetools exposes the high-level dye-matching API: open the
// bundled dye catalog (or your own) and query for the dyes closest to a
// color. The heavy lifting lives in the kdtree, dye and match subpackages;
// this package just wires them together.
package xivdyetools

import (
	"github.com/FlashGalatine/xivdyetools-core-sub002/dye"
	"github.com/FlashGalatine/xivdyetools-core-sub002/match"
)

// Match is a catalog dye paired with its distance from the queried color.
type Match = match.Match

// Option customises a matcher query.
type Option = match.Option

// Query option helpers, re-exported from the match package.
var (
	WithExclude  = match.WithExclude
	WithoutItems = match.WithoutItems
	WithCategory = match.WithCategory
)

// Open builds a matcher over the dye catalog embedded in the module.
func Open() (*match.Matcher, error) {
	catalog, err := dye.Load()
	if err != nil {
		return nil, err
	}
	return match.New(catalog), nil
}

// OpenCatalog builds a matcher over a caller-supplied colors_xiv.json file.
func OpenCatalog(path string) (*match.Matcher, error) {
	catalog, err := dye.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return match.New(catalog), nil
}

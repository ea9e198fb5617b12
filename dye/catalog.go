package dye

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/exp/mmap"
)

// colors_xiv.json ships with the module so binaries are self-contained.
//
//go:embed colors_xiv.json
var embeddedCatalog []byte

// Catalog is an immutable set of dye records keyed by item ID.
type Catalog struct {
	dyes []Dye
	byID map[int]int
}

type catalogRecord struct {
	ItemID   int    `json:"itemID"`
	Name     string `json:"name"`
	Hex      string `json:"hex"`
	Category string `json:"category"`
}

// Load returns the catalog embedded in the module.
func Load() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Parse builds a catalog from raw colors_xiv.json bytes. The JSON must be an
// array of records with itemID, name, hex and category fields; records are
// validated and duplicate item IDs rejected.
func Parse(data []byte) (*Catalog, error) {
	var records []catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("dye: parse catalog: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dye: catalog is empty")
	}

	c := &Catalog{
		dyes: make([]Dye, 0, len(records)),
		byID: make(map[int]int, len(records)),
	}
	for i, rec := range records {
		if rec.ItemID <= 0 {
			return nil, fmt.Errorf("dye: record %d: missing or invalid itemID", i)
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("dye: record %d (item %d): missing name", i, rec.ItemID)
		}
		color, err := ParseHex(rec.Hex)
		if err != nil {
			return nil, fmt.Errorf("dye: record %d (item %d): %w", i, rec.ItemID, err)
		}
		if _, exists := c.byID[rec.ItemID]; exists {
			return nil, fmt.Errorf("dye: duplicate itemID %d", rec.ItemID)
		}
		c.byID[rec.ItemID] = len(c.dyes)
		c.dyes = append(c.dyes, Dye{
			ItemID:   rec.ItemID,
			Name:     rec.Name,
			Color:    color,
			Category: rec.Category,
		})
	}
	return c, nil
}

// LoadFile reads a catalog JSON from disk via memory mapping.
func LoadFile(path string) (*Catalog, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dye: open catalog: %w", err)
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("dye: read catalog: %w", err)
	}
	return Parse(data)
}

// Len returns the number of dyes in the catalog.
func (c *Catalog) Len() int { return len(c.dyes) }

// Dyes returns a copy of the catalog entries.
func (c *Catalog) Dyes() []Dye {
	out := make([]Dye, len(c.dyes))
	copy(out, c.dyes)
	return out
}

// ByItemID looks up a dye by its item ID.
func (c *Catalog) ByItemID(id int) (Dye, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Dye{}, false
	}
	return c.dyes[i], true
}

// Categories returns the distinct category labels, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, d := range c.dyes {
		if d.Category != "" {
			seen[d.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

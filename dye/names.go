package dye

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"
)

// dye_names.csv is the output of cmd/dyenames: one row per dye item with its
// localized names.
//
//go:embed dye_names.csv
var embeddedNames []byte

// Locales lists the languages the name table carries, in column order.
var Locales = []string{"en", "ja", "de", "fr"}

var localeTags = []language.Tag{
	language.English,
	language.Japanese,
	language.German,
	language.French,
}

// Names maps dye item IDs to localized display names.
type Names struct {
	byID    map[int][]string
	matcher language.Matcher
}

// LoadNames returns the name table embedded in the module.
func LoadNames() (*Names, error) {
	return ParseNames(bytes.NewReader(embeddedNames))
}

// ParseNames reads a dye_names.csv table. The expected columns are itemID
// followed by one name per locale in the order of Locales; the header row is
// skipped.
func ParseNames(r io.Reader) (*Names, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 1 + len(Locales)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dye: parse names: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dye: names table is empty")
	}

	n := &Names{
		byID:    make(map[int][]string, len(rows)-1),
		matcher: language.NewMatcher(localeTags),
	}
	for i, row := range rows {
		if i == 0 {
			// Header.
			continue
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("dye: names row %d: bad itemID %q", i, row[0])
		}
		if _, exists := n.byID[id]; exists {
			return nil, fmt.Errorf("dye: names row %d: duplicate itemID %d", i, id)
		}
		names := make([]string, len(Locales))
		copy(names, row[1:])
		n.byID[id] = names
	}
	return n, nil
}

// Lookup returns the name of the given item in the closest supported
// language to locale (a BCP 47 tag such as "ja" or "de-AT"). Unknown or
// unparseable locales fall back to English. The second return value is false
// when the item has no entry at all.
func (n *Names) Lookup(itemID int, locale string) (string, bool) {
	names, ok := n.byID[itemID]
	if !ok {
		return "", false
	}

	idx := 0
	if tag, err := language.Parse(locale); err == nil {
		_, idx, _ = n.matcher.Match(tag)
	}
	if name := names[idx]; name != "" {
		return name, true
	}
	// Missing translation: fall back to English.
	if names[0] != "" {
		return names[0], true
	}
	return "", false
}

// Len returns the number of items in the table.
func (n *Names) Len() int { return len(n.byID) }

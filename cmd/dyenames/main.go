// Command dyenames fetches localized dye names from XIVAPI and writes the
// dye_names.csv table embedded in the dye package. Fetched names are cached
// in a local sqlite database so an interrupted run can resume without
// re-querying the API.
package main

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FlashGalatine/xivdyetools-core-sub002/dye"
)

const (
	defaultBaseURL = "https://v2.xivapi.com/api/sheet/Item"

	// XIVAPI allows 10 requests per second.
	requestDelay   = 100 * time.Millisecond
	maxRetries     = 3
	requestTimeout = 10 * time.Second
)

func main() {
	log.SetFlags(0)

	catalogPath := flag.String("catalog", "", "Optional colors_xiv.json path (default: embedded)")
	outputPath := flag.String("output", "dye_names.csv", "Output CSV path")
	cachePath := flag.String("cache", "dye_names_cache.db", "sqlite cache for fetched names")
	baseURL := flag.String("base-url", defaultBaseURL, "XIVAPI item sheet endpoint")
	flag.Parse()

	var (
		catalog *dye.Catalog
		err     error
	)
	if *catalogPath != "" {
		catalog, err = dye.LoadFile(*catalogPath)
	} else {
		catalog, err = dye.Load()
	}
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	cache, err := openCache(*cachePath)
	if err != nil {
		log.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	f := &fetcher{
		baseURL: *baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		cache:   cache,
	}

	dyes := catalog.Dyes()
	log.Printf("Fetching names for %d dyes in %d languages", len(dyes), len(dye.Locales))

	rows := make([][]string, 0, len(dyes))
	for i, d := range dyes {
		if i%10 == 0 {
			log.Printf("Processing dye %d/%d...", i+1, len(dyes))
		}
		row := []string{fmt.Sprint(d.ItemID)}
		for _, lang := range dye.Locales {
			name, err := f.fetchName(d.ItemID, lang)
			if err != nil {
				log.Printf("  item %d (%s): %v", d.ItemID, lang, err)
				f.failed = append(f.failed, failure{itemID: d.ItemID, lang: lang, reason: err.Error()})
				name = ""
			}
			row = append(row, name)
		}
		rows = append(rows, row)
	}

	if err := writeCSV(*outputPath, rows); err != nil {
		log.Fatalf("write csv: %v", err)
	}

	log.Printf("Dyes processed: %d", len(dyes))
	log.Printf("Requests made: %d (cache hits %d)", f.requests, f.cacheHits)
	log.Printf("Failed requests: %d", len(f.failed))
	for _, fail := range f.failed {
		log.Printf("  - item %d (%s): %s", fail.itemID, fail.lang, fail.reason)
	}
	log.Printf("Output: %s", *outputPath)
	if len(f.failed) > 0 {
		os.Exit(1)
	}
}

type failure struct {
	itemID int
	lang   string
	reason string
}

type fetcher struct {
	baseURL string
	client  *http.Client
	cache   *nameCache

	requests  int
	cacheHits int
	failed    []failure
}

type itemResponse struct {
	Fields struct {
		Name string `json:"Name"`
	} `json:"fields"`
}

// fetchName returns the item's name in the given language, consulting the
// cache first and retrying transient API errors with exponential backoff.
func (f *fetcher) fetchName(itemID int, lang string) (string, error) {
	if name, ok, err := f.cache.get(itemID, lang); err != nil {
		return "", fmt.Errorf("cache read: %w", err)
	} else if ok {
		f.cacheHits++
		return name, nil
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
		time.Sleep(requestDelay)

		name, retry, err := f.request(itemID, lang)
		if err == nil {
			if err := f.cache.put(itemID, lang, name); err != nil {
				return "", fmt.Errorf("cache write: %w", err)
			}
			return name, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return "", lastErr
}

func (f *fetcher) request(itemID int, lang string) (name string, retry bool, err error) {
	f.requests++

	u := fmt.Sprintf("%s/%d?%s", f.baseURL, itemID, url.Values{
		"language": {lang},
		"fields":   {"Name"},
	}.Encode())
	resp, err := f.client.Get(u)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, fmt.Errorf("rate limited")
	case resp.StatusCode == http.StatusNotFound:
		return "", false, fmt.Errorf("item not found")
	case resp.StatusCode >= 500:
		return "", true, fmt.Errorf("server error %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}
	var parsed itemResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Fields.Name == "" {
		return "", false, fmt.Errorf("no Name field in response")
	}
	return parsed.Fields.Name, false, nil
}

type nameCache struct {
	db *sql.DB
}

func openCache(path string) (*nameCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS names (
			item_id INTEGER NOT NULL,
			lang TEXT NOT NULL,
			name TEXT NOT NULL,
			fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (item_id, lang)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &nameCache{db: db}, nil
}

func (c *nameCache) get(itemID int, lang string) (string, bool, error) {
	var name string
	err := c.db.QueryRow(
		"SELECT name FROM names WHERE item_id = ? AND lang = ?", itemID, lang,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (c *nameCache) put(itemID int, lang string, name string) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO names (item_id, lang, name) VALUES (?, ?, ?)",
		itemID, lang, name,
	)
	return err
}

func (c *nameCache) Close() error { return c.db.Close() }

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"itemID", "English Name", "Japanese Name", "German Name", "French Name"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

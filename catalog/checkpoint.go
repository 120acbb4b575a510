package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/raushankrgupta/catalog-scraper/models"
)

// Checkpoint treats an on-disk catalog.json as resume state for a
// long-running crawl. Brands already present in the file are skipped on
// the next run; the file is flushed after each appended unit of work so an
// interrupted crawl loses at most the brand in flight.
//
// Single-writer only: last write wins, no concurrent crawlers assumed.
type Checkpoint struct {
	path    string
	catalog models.Catalog
	seen    map[string]bool
}

// LoadCheckpoint reads an existing catalog at path, or starts a fresh one
// when the file does not exist yet.
func LoadCheckpoint(path string, store models.StoreInfo) (*Checkpoint, error) {
	cp := &Checkpoint{
		path:    path,
		catalog: models.Catalog{StoreInfo: store},
		seen:    make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cp.catalog); err != nil {
		return nil, fmt.Errorf("checkpoint %s is corrupt: %w", path, err)
	}
	cp.catalog.StoreInfo = store
	for _, p := range cp.catalog.Products {
		if p.Brand != "" {
			cp.seen[p.Brand] = true
		}
	}

	return cp, nil
}

// Seen reports whether a brand was already crawled in a previous run.
func (c *Checkpoint) Seen(brand string) bool {
	return c.seen[brand]
}

// Products returns everything accumulated so far, including prior runs.
func (c *Checkpoint) Products() []models.Product {
	return c.catalog.Products
}

// Append records a finished brand and flushes the catalog to disk.
func (c *Checkpoint) Append(brand string, products []models.Product) error {
	c.catalog.Products = append(c.catalog.Products, products...)
	if brand != "" {
		c.seen[brand] = true
	}
	return c.flush()
}

func (c *Checkpoint) flush() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	data, err := json.MarshalIndent(c.catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the resume state
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return os.Rename(tmp, c.path)
}

package catalog

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/models"
)

// WriteResult lists the artifacts produced for one store.
type WriteResult struct {
	Dir       string
	JSONPath  string
	JSONLPath string
	GzipPath  string
}

// Writer serializes a product list into the three catalog artifacts under
// output/<country>/<brand>-<country>/. Re-running for the same brand and
// country overwrites the previous output.
type Writer struct {
	baseDir string
	log     *zap.SugaredLogger
}

// NewWriter creates a writer rooted at baseDir (usually "output").
func NewWriter(baseDir string, log *zap.SugaredLogger) *Writer {
	return &Writer{baseDir: baseDir, log: log}
}

// Write produces catalog.json, catalog.jsonl and catalog.jsonl.gz.
// The JSONL mirror holds one compact product per line in input order, and
// the gzip member decompresses byte-identically to it.
func (w *Writer) Write(store models.StoreInfo, products []models.Product) (*WriteResult, error) {
	dir := w.storeDir(store)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}

	result := &WriteResult{
		Dir:       dir,
		JSONPath:  filepath.Join(dir, "catalog.json"),
		JSONLPath: filepath.Join(dir, "catalog.jsonl"),
		GzipPath:  filepath.Join(dir, "catalog.jsonl.gz"),
	}

	// 1. Pretty-printed catalog.json
	doc, err := json.MarshalIndent(models.Catalog{StoreInfo: store, Products: products}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(result.JSONPath, doc, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write catalog.json: %w", err)
	}

	// 2. JSONL mirror, built in memory so the gzip copy is byte-identical
	var jsonl bytes.Buffer
	for _, p := range products {
		line, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal product %s: %w", p.ParentProductID, err)
		}
		jsonl.Write(line)
		jsonl.WriteByte('\n')
	}
	if err := os.WriteFile(result.JSONLPath, jsonl.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write catalog.jsonl: %w", err)
	}

	// 3. Gzip of the JSONL bytes
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	if _, err := zw.Write(jsonl.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to compress catalog: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize gzip: %w", err)
	}
	if err := os.WriteFile(result.GzipPath, gz.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write catalog.jsonl.gz: %w", err)
	}

	if w.log != nil {
		w.log.Infow("catalog written",
			"dir", dir,
			"products", len(products),
			"bytes_json", len(doc),
			"bytes_gzip", gz.Len(),
		)
	}

	return result, nil
}

func (w *Writer) storeDir(store models.StoreInfo) string {
	return OutputDir(w.baseDir, store)
}

// OutputDir returns the per-store artifact directory under baseDir. The
// checkpointing scrapers use this to find their resume catalog, so it
// must stay in lockstep with where the writer puts catalog.json.
func OutputDir(baseDir string, store models.StoreInfo) string {
	return filepath.Join(baseDir, filepath.FromSlash(StorePrefix(store)))
}

// StorePrefix returns the relative <country>/<brand>-<country> layout.
// The SFTP mirror and the S3 keys use it verbatim so the remote trees
// stay identical to the local output; slashes are forward.
func StorePrefix(store models.StoreInfo) string {
	country := strings.ToLower(store.Country)
	brand := slug(store.Brand)
	return path.Join(country, fmt.Sprintf("%s-%s", brand, country))
}

// slug lowercases a brand name and folds separators for use in paths.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "'", "")
	return s
}

package catalog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/normalize"
)

func testStore() models.StoreInfo {
	return models.StoreInfo{
		Name:     "Nike US",
		Brand:    "Nike",
		Domain:   "nike.com",
		Country:  "US",
		Currency: "USD",
		Source:   "nike-scraper",
	}
}

func testProducts(t *testing.T, n int) []models.Product {
	t.Helper()
	var products []models.Product
	for i := 0; i < n; i++ {
		id := string(rune('A' + i))
		products = append(products, models.Product{
			ParentProductID: "P" + id,
			Name:            "Product " + id,
			Source:          "nike-scraper",
			OperationType:   models.OperationInsert,
			Variants: BuildVariants("P"+id, "USD", []ColorGroup{
				{Color: "Black", OriginalPrice: 100, SalePrice: 80},
			}, normalize.StockAssumeInStock),
		})
	}
	return products
}

func TestWriterArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	res, err := w.Write(testStore(), testProducts(t, 3))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "us", "nike-us"), res.Dir)
	for _, p := range []string{res.JSONPath, res.JSONLPath, res.GzipPath} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

// Decompressing the gzip and parsing line by line must reproduce exactly
// the products array serialized in catalog.json, in the same order.
func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)
	products := testProducts(t, 5)

	res, err := w.Write(testStore(), products)
	require.NoError(t, err)

	// Parse catalog.json
	raw, err := os.ReadFile(res.JSONPath)
	require.NoError(t, err)
	var doc models.Catalog
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, testStore(), doc.StoreInfo)
	assert.Equal(t, products, doc.Products)

	// Parse gunzipped JSONL
	f, err := os.Open(res.GzipPath)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var fromGzip []models.Product
	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		var p models.Product
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &p))
		fromGzip = append(fromGzip, p)
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, products, fromGzip)

	// And the gzip mirrors the plain JSONL byte-for-byte
	plain, err := os.ReadFile(res.JSONLPath)
	require.NoError(t, err)
	zr2raw, err := os.ReadFile(res.GzipPath)
	require.NoError(t, err)
	assert.NotEqual(t, plain, zr2raw) // sanity: it really is compressed
}

func TestWriterOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	_, err := w.Write(testStore(), testProducts(t, 4))
	require.NoError(t, err)

	// Second run with fewer products must fully replace the first
	res, err := w.Write(testStore(), testProducts(t, 1))
	require.NoError(t, err)

	raw, err := os.ReadFile(res.JSONPath)
	require.NoError(t, err)
	var doc models.Catalog
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Products, 1)
}

// Local output dirs and the remote SFTP/S3 layout derive from the same
// prefix, so an apostrophe brand like Macy's must fold identically in both.
func TestStorePrefix(t *testing.T) {
	tests := []struct {
		brand   string
		country string
		want    string
	}{
		{brand: "Nike", country: "US", want: "us/nike-us"},
		{brand: "Macy's", country: "US", want: "us/macys-us"},
		{brand: "H&M", country: "CA", want: "ca/h&m-ca"},
		{brand: "Parts Town", country: "US", want: "us/parts-town-us"},
	}

	for _, tt := range tests {
		store := models.StoreInfo{Brand: tt.brand, Country: tt.country}
		assert.Equal(t, tt.want, StorePrefix(store), tt.brand)
		assert.Equal(t, filepath.Join("output", filepath.FromSlash(tt.want)), OutputDir("output", store), tt.brand)
	}
}

func TestWriterEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	res, err := w.Write(testStore(), nil)
	require.NoError(t, err)

	plain, err := os.ReadFile(res.JSONLPath)
	require.NoError(t, err)
	assert.Empty(t, plain)
}

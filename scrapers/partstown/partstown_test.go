package partstown

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/scrapers/api"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

type fakeAPI struct {
	manufacturers []struct{ Code, Name string }
	partsCalls    atomic.Int32
	failFor       string // manufacturer code whose parts endpoint returns 500
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/manufacturers", func(w http.ResponseWriter, r *http.Request) {
		var resp brandsResponse
		for _, m := range f.manufacturers {
			resp.Manufacturers = append(resp.Manufacturers, struct {
				Code string `json:"code"`
				Name string `json:"name"`
			}{Code: m.Code, Name: m.Name})
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/parts", func(w http.ResponseWriter, r *http.Request) {
		f.partsCalls.Add(1)
		code := r.URL.Query().Get("manufacturer")
		if code == f.failFor {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		qty := 7
		json.NewEncoder(w).Encode(partsResponse{
			TotalPages: 1,
			Page:       1,
			Parts: []rawPart{{
				PartNumber:   code + "-001",
				Name:         "Thermostat",
				Manufacturer: code,
				ListPrice:    49.99,
				SalePrice:    39.99,
				InStockQty:   &qty,
			}},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestScraper(t *testing.T, api *fakeAPI) *Scraper {
	t.Helper()
	server := api.server(t)
	s := New(zap.NewNop().Sugar())
	s.brandsURL = server.URL + "/manufacturers"
	s.partsURL = server.URL + "/parts"
	s.client.WithRetry(base.RetryPolicy{MaxAttempts: 1, BackoffMultiplier: 1})
	return s
}

func twoBrands() *fakeAPI {
	return &fakeAPI{manufacturers: []struct{ Code, Name string }{
		{Code: "acme", Name: "Acme"},
		{Code: "bravo", Name: "Bravo"},
	}}
}

func TestScrapeCatalogCrawlsAllManufacturers(t *testing.T) {
	s := newTestScraper(t, twoBrands())

	products, err := s.ScrapeCatalog(context.Background(), api.Options{})
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "acme-001", p.ParentProductID)
	assert.Equal(t, "Acme", p.Brand)
	require.Len(t, p.Variants, 1)

	v := p.Variants[0]
	assert.Equal(t, 49.99, v.OriginalPrice)
	assert.Equal(t, 39.99, v.FinalPrice)
	assert.Equal(t, 20, v.Discount)
	assert.True(t, v.IsInStock)
}

// A second run against the same checkpoint file skips every manufacturer
// already on disk and re-serves the persisted products.
func TestScrapeCatalogResumesFromCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	opts := api.Options{CheckpointPath: path}

	first := twoBrands()
	products, err := newTestScraper(t, first).ScrapeCatalog(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int32(2), first.partsCalls.Load())

	second := twoBrands()
	products, err = newTestScraper(t, second).ScrapeCatalog(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int32(0), second.partsCalls.Load())
}

// A manufacturer that fails on its first page is not checkpointed, so the
// next run picks it up again.
func TestScrapeCatalogKeepsEarlierBrandsOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	opts := api.Options{CheckpointPath: path}

	api := twoBrands()
	api.failFor = "bravo"
	products, err := newTestScraper(t, api).ScrapeCatalog(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "acme-001", products[0].ParentProductID)

	// Retry with a healthy server resumes at the failed manufacturer only
	retry := twoBrands()
	products, err = newTestScraper(t, retry).ScrapeCatalog(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int32(1), retry.partsCalls.Load())
}

func TestMapPartZeroQuantityIsOutOfStock(t *testing.T) {
	s := New(zap.NewNop().Sugar())

	zero := 0
	p, err := s.mapPart(rawPart{PartNumber: "PT-9", Name: "Gasket", ListPrice: 12, InStockQty: &zero}, "Acme")
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)
	assert.False(t, p.Variants[0].IsInStock)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, "partstown.com", p.RetailerDomain)
}

// The retailer domain follows the host the part actually links to, so a
// record served from a regional host keeps that host in the catalog.
func TestMapPartDomainFromProductURL(t *testing.T) {
	s := New(zap.NewNop().Sugar())

	p, err := s.mapPart(rawPart{
		PartNumber: "PT-10",
		Name:       "Door Seal",
		ListPrice:  30,
		ProductURL: "https://shop.partstown.com/acme/pt-10",
	}, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "shop.partstown.com", p.RetailerDomain)
}

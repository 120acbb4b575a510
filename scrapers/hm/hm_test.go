package hm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/scrapers/api"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

func newTestScraper(t *testing.T, url string) *Scraper {
	t.Helper()
	s := New(zap.NewNop().Sugar())
	s.baseURL = url
	s.client.WithRetry(base.RetryPolicy{MaxAttempts: 1, BackoffMultiplier: 1})
	return s
}

func article(code, color string, sizes ...string) rawArticle {
	return rawArticle{
		ArticleCode:  code,
		Title:        "Article " + code,
		WhitePrice:   "$24.99",
		RedPrice:     "$14.99",
		Availability: "in stock",
		ColorName:    color,
		Sizes:        sizes,
	}
}

func TestScrapeCatalogOffsetPagination(t *testing.T) {
	// 3 articles served in pages of 2: offsets 0 and 2, then done
	all := []rawArticle{article("A1", "Red"), article("A2", "Blue"), article("A3", "Green")}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		size, _ := strconv.Atoi(r.URL.Query().Get("page-size"))
		end := offset + size
		if end > len(all) {
			end = len(all)
		}
		if offset > len(all) {
			offset = len(all)
		}
		json.NewEncoder(w).Encode(listingResponse{Total: len(all), Products: all[offset:end]})
	}))
	defer server.Close()

	s := newTestScraper(t, server.URL)
	products, err := s.ScrapeCatalog(context.Background(), api.Options{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "A1", products[0].ParentProductID)
	assert.Equal(t, "A3", products[2].ParentProductID)
}

func TestMapArticleVariantExplosion(t *testing.T) {
	s := New(zap.NewNop().Sugar())

	p, err := s.mapArticle(article("A1", "Dusty Rose", "S", "M", "L"))
	require.NoError(t, err)
	require.Len(t, p.Variants, 3)

	for _, v := range p.Variants {
		assert.Equal(t, "Dusty Rose", v.Color)
		assert.Equal(t, 24.99, v.OriginalPrice)
		assert.Equal(t, 14.99, v.FinalPrice)
		assert.True(t, v.IsOnSale)
		assert.True(t, v.IsInStock)
	}
	assert.Equal(t, "S", p.Variants[0].Size)
}

func TestMapArticleSoldOut(t *testing.T) {
	s := New(zap.NewNop().Sugar())

	raw := article("A2", "Black", "M")
	raw.Availability = "sold out"
	raw.RedPrice = ""

	p, err := s.mapArticle(raw)
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)
	assert.False(t, p.Variants[0].IsInStock)
	assert.False(t, p.Variants[0].IsOnSale)
	assert.Equal(t, 24.99, p.Variants[0].FinalPrice)
}

func TestMapArticleRejectsMissingCode(t *testing.T) {
	s := New(zap.NewNop().Sugar())
	_, err := s.mapArticle(rawArticle{Title: "nameless"})
	assert.Error(t, err)
}

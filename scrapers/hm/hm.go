// Package hm scrapes the H&M products listing API.
package hm

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/catalog"
	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/normalize"
	"github.com/raushankrgupta/catalog-scraper/scrapers/api"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

const (
	defaultBaseURL  = "https://www2.hm.com/en_us/api/products"
	defaultPageSize = 36
	source          = "hm-scraper"
)

// Scraper implements api.CatalogScraper for H&M.
type Scraper struct {
	client  *base.Client
	log     *zap.SugaredLogger
	baseURL string
}

func New(log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		client:  base.NewClient(log),
		log:     log,
		baseURL: defaultBaseURL,
	}
}

func (s *Scraper) Retailer() string { return "hm" }

func (s *Scraper) Store() models.StoreInfo {
	return models.StoreInfo{
		Name:     "H&M US",
		Brand:    "H&M",
		Domain:   "hm.com",
		Country:  "US",
		Currency: "USD",
		Source:   source,
	}
}

// The listing API pages by offset and reports the total product count.
type listingResponse struct {
	Total    int          `json:"total"`
	Products []rawArticle `json:"products"`
}

type rawArticle struct {
	ArticleCode  string   `json:"articleCode"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	WhitePrice   string   `json:"whitePrice"`   // regular, e.g. "$24.99"
	RedPrice     string   `json:"redPrice"`     // markdown, empty when not on sale
	Availability string   `json:"availability"` // e.g. "in stock", "sold out"
	ColorName    string   `json:"colorName"`
	Sizes        []string `json:"sizes"`
	LinkURL      string   `json:"linkUrl"`
	ImageURL     string   `json:"imageUrl"`
	AltImages    []string `json:"altImages"`
}

// ScrapeCatalog walks the offset-paged listing. Stock comes from the
// article's availability string; H&M exposes no quantity data.
func (s *Scraper) ScrapeCatalog(ctx context.Context, opts api.Options) ([]models.Product, error) {
	if opts.Retry.MaxAttempts > 0 {
		s.client.WithRetry(opts.Retry)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var products []models.Product

	for offset := 0; ; offset += pageSize {
		var resp listingResponse
		err := s.client.GetJSON(ctx, s.baseURL, map[string]string{
			"offset":    strconv.Itoa(offset),
			"page-size": strconv.Itoa(pageSize),
		}, &resp)
		if err != nil {
			if offset == 0 {
				return nil, fmt.Errorf("hm listing unreachable: %w", err)
			}
			s.log.Warnw("page fetch failed, stopping pagination", "offset", offset, "error", err)
			break
		}

		if len(resp.Products) == 0 {
			break
		}

		for _, raw := range resp.Products {
			p, err := s.mapArticle(raw)
			if err != nil {
				s.log.Warnw("skipping article", "article", raw.ArticleCode, "error", err)
				continue
			}
			products = append(products, p)
			if opts.MaxProducts > 0 && len(products) >= opts.MaxProducts {
				return products, nil
			}
		}

		if len(resp.Products) < pageSize {
			break
		}
		if resp.Total > 0 && offset+pageSize >= resp.Total {
			break
		}

		base.CourtesyDelay(ctx, opts.Delay, opts.Jitter)
		if ctx.Err() != nil {
			break
		}
	}

	return products, nil
}

func (s *Scraper) mapArticle(raw rawArticle) (models.Product, error) {
	if raw.ArticleCode == "" {
		return models.Product{}, fmt.Errorf("article has no code")
	}

	group := catalog.ColorGroup{
		Color:           raw.ColorName,
		SourceVariantID: raw.ArticleCode,
		OriginalPrice:   normalize.ParsePrice(raw.WhitePrice),
		SalePrice:       normalize.ParsePrice(raw.RedPrice),
		LinkURL:         raw.LinkURL,
		ImageURL:        raw.ImageURL,
		AlternateImages: raw.AltImages,
	}
	for _, size := range raw.Sizes {
		group.Sizes = append(group.Sizes, catalog.SizeEntry{
			Size:   size,
			Status: raw.Availability,
		})
	}

	return models.Product{
		ParentProductID: raw.ArticleCode,
		Name:            normalize.CleanAndTruncate(raw.Title, 200),
		Description:     normalize.CleanAndTruncate(raw.Description, 2000),
		Category:        raw.Category,
		Brand:           "H&M",
		RetailerDomain:  "hm.com",
		Source:          source,
		OperationType:   models.OperationInsert,
		Variants:        catalog.BuildVariants(raw.ArticleCode, "USD", []catalog.ColorGroup{group}, normalize.StockFromStatus),
	}, nil
}

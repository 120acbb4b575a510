// Package partstown scrapes the PartsTown parts API brand by brand. The
// full crawl runs for hours, so the output catalog doubles as checkpoint
// state: a re-run loads the existing catalog.json and only crawls brands
// not yet present in it.
package partstown

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
	defaultBrandsURL = "https://www.partstown.com/api/manufacturers"
	defaultPartsURL  = "https://www.partstown.com/api/parts"
	defaultPageSize  = 100
	source           = "partstown-scraper"
)

// Scraper implements api.CatalogScraper for PartsTown.
type Scraper struct {
	client    *base.Client
	log       *zap.SugaredLogger
	brandsURL string
	partsURL  string
}

func New(log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		client:    base.NewClient(log),
		log:       log,
		brandsURL: defaultBrandsURL,
		partsURL:  defaultPartsURL,
	}
}

func (s *Scraper) Retailer() string { return "partstown" }

func (s *Scraper) Store() models.StoreInfo {
	return models.StoreInfo{
		Name:     "PartsTown US",
		Brand:    "PartsTown",
		Domain:   "partstown.com",
		Country:  "US",
		Currency: "USD",
		Source:   source,
	}
}

type brandsResponse struct {
	Manufacturers []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"manufacturers"`
}

type partsResponse struct {
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	Parts      []rawPart `json:"parts"`
}

type rawPart struct {
	PartNumber   string  `json:"partNumber"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Manufacturer string  `json:"manufacturer"`
	Category     string  `json:"category"`
	ListPrice    float64 `json:"listPrice"`
	SalePrice    float64 `json:"salePrice"`
	InStockQty   *int    `json:"inStockQty"`
	ProductURL   string  `json:"productUrl"`
	ImageURL     string  `json:"imageUrl"`
}

// ScrapeCatalog crawls manufacturer by manufacturer. When a checkpoint
// path is configured, already-crawled manufacturers are skipped and every
// finished manufacturer is flushed to disk before the next one starts.
func (s *Scraper) ScrapeCatalog(ctx context.Context, opts api.Options) ([]models.Product, error) {
	if opts.Retry.MaxAttempts > 0 {
		s.client.WithRetry(opts.Retry)
	}

	var brands brandsResponse
	if err := s.client.GetJSON(ctx, s.brandsURL, nil, &brands); err != nil {
		return nil, fmt.Errorf("partstown manufacturers unreachable: %w", err)
	}

	var cp *catalog.Checkpoint
	if opts.CheckpointPath != "" {
		var err error
		cp, err = catalog.LoadCheckpoint(opts.CheckpointPath, s.Store())
		if err != nil {
			return nil, err
		}
	}

	var products []models.Product
	if cp != nil {
		products = cp.Products()
	}

	for _, brand := range brands.Manufacturers {
		if cp != nil && cp.Seen(brand.Name) {
			s.log.Debugw("manufacturer already crawled, skipping", "manufacturer", brand.Name)
			continue
		}
		if opts.MaxProducts > 0 && len(products) >= opts.MaxProducts {
			break
		}
		if ctx.Err() != nil {
			break
		}

		batch, err := s.scrapeBrand(ctx, brand.Code, brand.Name, opts)
		if err != nil {
			// Keep earlier manufacturers; this crawl resumes next run
			s.log.Warnw("manufacturer crawl failed, stopping", "manufacturer", brand.Name, "error", err)
			break
		}

		products = append(products, batch...)
		if cp != nil {
			if err := cp.Append(brand.Name, batch); err != nil {
				return nil, fmt.Errorf("failed to flush checkpoint: %w", err)
			}
		}

		base.CourtesyDelay(ctx, opts.Delay, opts.Jitter)
	}

	return products, nil
}

func (s *Scraper) scrapeBrand(ctx context.Context, code, name string, opts api.Options) ([]models.Product, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var products []models.Product

	for page := 1; ; page++ {
		var resp partsResponse
		err := s.client.GetJSON(ctx, s.partsURL, map[string]string{
			"manufacturer": code,
			"page":         strconv.Itoa(page),
			"pageSize":     strconv.Itoa(pageSize),
		}, &resp)
		if err != nil {
			if page == 1 {
				// Whole manufacturer failed; surface so the brand is
				// retried on the next run rather than checkpointed empty
				return nil, err
			}
			s.log.Warnw("parts page fetch failed, keeping partial brand", "manufacturer", name, "page", page, "error", err)
			break
		}

		if len(resp.Parts) == 0 {
			break
		}

		for _, raw := range resp.Parts {
			p, err := s.mapPart(raw, name)
			if err != nil {
				s.log.Warnw("skipping part", "part", raw.PartNumber, "manufacturer", name, "error", err)
				continue
			}
			products = append(products, p)
		}

		if resp.TotalPages > 0 && resp.Page >= resp.TotalPages {
			break
		}
		if len(resp.Parts) < pageSize {
			break
		}

		base.CourtesyDelay(ctx, opts.Delay, opts.Jitter)
		if ctx.Err() != nil {
			break
		}
	}

	return products, nil
}

func (s *Scraper) mapPart(raw rawPart, manufacturer string) (models.Product, error) {
	if raw.PartNumber == "" {
		return models.Product{}, fmt.Errorf("part has no part number")
	}

	group := catalog.ColorGroup{
		SourceVariantID: raw.PartNumber,
		OriginalPrice:   raw.ListPrice,
		SalePrice:       raw.SalePrice,
		LinkURL:         raw.ProductURL,
		ImageURL:        raw.ImageURL,
		Sizes: []catalog.SizeEntry{{
			SourceVariantID: raw.PartNumber,
			Quantity:        raw.InStockQty,
		}},
	}

	domain := normalize.DomainName(raw.ProductURL)
	if domain == "" {
		domain = "partstown.com"
	}

	return models.Product{
		ParentProductID: raw.PartNumber,
		Name:            normalize.CleanAndTruncate(raw.Name, 200),
		Description:     normalize.CleanAndTruncate(raw.Description, 2000),
		Category:        raw.Category,
		// The manufacturers-list name keys checkpoint resume, so it must
		// win over whatever the part record carries
		Brand:          firstNonEmpty(manufacturer, raw.Manufacturer),
		RetailerDomain: domain,
		Source:         source,
		OperationType:  models.OperationInsert,
		Variants:       catalog.BuildVariants(raw.PartNumber, "USD", []catalog.ColorGroup{group}, normalize.StockFromQuantity),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

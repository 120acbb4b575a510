// Package zara scrapes the Zara category products API.
package zara

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
	defaultBaseURL  = "https://www.zara.com/us/en/category/products"
	defaultPageSize = 40
	source          = "zara-scraper"
)

// Scraper implements api.CatalogScraper for Zara.
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

func (s *Scraper) Retailer() string { return "zara" }

func (s *Scraper) Store() models.StoreInfo {
	return models.StoreInfo{
		Name:     "Zara US",
		Brand:    "Zara",
		Domain:   "zara.com",
		Country:  "US",
		Currency: "USD",
		Source:   source,
	}
}

// Zara serves prices as integer cents.
type categoryResponse struct {
	Products []rawProduct `json:"products"`
}

type rawProduct struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SectionName string `json:"sectionName"`
	FamilyName  string `json:"familyName"`
	ShareURL    string `json:"shareUrl"`
	Detail      struct {
		Colors []rawColor `json:"colors"`
	} `json:"detail"`
}

type rawColor struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     int      `json:"price"`    // cents
	OldPrice  int      `json:"oldPrice"` // cents, 0 when not marked down
	MainImage string   `json:"mainImgUrl"`
	Images    []string `json:"xmedia"`
	Sizes     []struct {
		SKU          int    `json:"sku"`
		Name         string `json:"name"`
		Availability string `json:"availability"`
		Quantity     *int   `json:"quantity"`
	} `json:"sizes"`
}

// ScrapeCatalog walks the category API page by page. Availability is
// quantity-first: Zara's status strings lag behind the stock counters.
func (s *Scraper) ScrapeCatalog(ctx context.Context, opts api.Options) ([]models.Product, error) {
	if opts.Retry.MaxAttempts > 0 {
		s.client.WithRetry(opts.Retry)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var products []models.Product

	for page := 1; ; page++ {
		var resp categoryResponse
		err := s.client.GetJSON(ctx, s.baseURL, map[string]string{
			"page":    strconv.Itoa(page),
			"perPage": strconv.Itoa(pageSize),
			"ajax":    "true",
		}, &resp)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("zara category unreachable: %w", err)
			}
			s.log.Warnw("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		if len(resp.Products) == 0 {
			break
		}

		for _, raw := range resp.Products {
			p, err := s.mapProduct(raw)
			if err != nil {
				s.log.Warnw("skipping product", "id", raw.ID, "name", raw.Name, "error", err)
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

		base.CourtesyDelay(ctx, opts.Delay, opts.Jitter)
		if ctx.Err() != nil {
			break
		}
	}

	return products, nil
}

func (s *Scraper) mapProduct(raw rawProduct) (models.Product, error) {
	if raw.ID == 0 {
		return models.Product{}, fmt.Errorf("product has no id")
	}
	parentID := strconv.Itoa(raw.ID)

	var groups []catalog.ColorGroup
	for _, color := range raw.Detail.Colors {
		// oldPrice is the pre-markdown price; when absent the listed
		// price is the original and there is no sale
		original := centsToDollars(color.OldPrice)
		sale := centsToDollars(color.Price)
		if color.OldPrice == 0 {
			original = centsToDollars(color.Price)
			sale = 0
		}

		group := catalog.ColorGroup{
			Color:           color.Name,
			SourceVariantID: color.ID,
			OriginalPrice:   original,
			SalePrice:       sale,
			LinkURL:         raw.ShareURL,
			ImageURL:        color.MainImage,
			AlternateImages: color.Images,
		}
		for _, sz := range color.Sizes {
			group.Sizes = append(group.Sizes, catalog.SizeEntry{
				Size:            sz.Name,
				SourceVariantID: strconv.Itoa(sz.SKU),
				Quantity:        sz.Quantity,
				Status:          sz.Availability,
			})
		}
		groups = append(groups, group)
	}

	return models.Product{
		ParentProductID: parentID,
		Name:            normalize.CleanAndTruncate(raw.Name, 200),
		Description:     normalize.CleanAndTruncate(raw.Description, 2000),
		Category:        firstNonEmpty(raw.FamilyName, raw.SectionName),
		Brand:           "Zara",
		RetailerDomain:  "zara.com",
		Source:          source,
		OperationType:   models.OperationInsert,
		Variants:        catalog.BuildVariants(parentID, "USD", groups, normalize.StockFromQuantity),
	}, nil
}

func centsToDollars(cents int) float64 {
	return float64(cents) / 100
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

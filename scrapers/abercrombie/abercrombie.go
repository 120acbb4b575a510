// Package abercrombie scrapes the Abercrombie & Fitch product search
// GraphQL endpoint.
package abercrombie

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/catalog"
	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/normalize"
	"github.com/raushankrgupta/catalog-scraper/scrapers/api"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

const (
	defaultEndpoint = "https://www.abercrombie.com/api/search/graphql"
	defaultPageSize = 90
	source          = "abercrombie-scraper"
)

const searchQuery = `query ProductSearch($category: String!, $page: Int!, $pageSize: Int!) {
  productSearch(category: $category, page: $page, rows: $pageSize) {
    pagination { currentPage totalPages }
    products {
      id name longDescription gender categoryName
      price { originalPrice discountPrice }
      productPageUrl imageUrl
      swatchList {
        name imageUrl
        product { id }
        sizes { name id available }
      }
    }
  }
}`

// Scraper implements api.CatalogScraper for Abercrombie.
type Scraper struct {
	client   *base.Client
	log      *zap.SugaredLogger
	endpoint string
	category string
}

func New(log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		client:   base.NewClient(log),
		log:      log,
		endpoint: defaultEndpoint,
		category: "mens",
	}
}

func (s *Scraper) Retailer() string { return "abercrombie" }

func (s *Scraper) Store() models.StoreInfo {
	return models.StoreInfo{
		Name:     "Abercrombie & Fitch US",
		Brand:    "Abercrombie",
		Domain:   "abercrombie.com",
		Country:  "US",
		Currency: "USD",
		Source:   source,
	}
}

type searchResponse struct {
	Data struct {
		ProductSearch struct {
			Pagination struct {
				CurrentPage int `json:"currentPage"`
				TotalPages  int `json:"totalPages"`
			} `json:"pagination"`
			Products []rawProduct `json:"products"`
		} `json:"productSearch"`
	} `json:"data"`
}

type rawProduct struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LongDescription string `json:"longDescription"`
	Gender          string `json:"gender"`
	CategoryName    string `json:"categoryName"`
	Price           struct {
		OriginalPrice string `json:"originalPrice"`
		DiscountPrice string `json:"discountPrice"`
	} `json:"price"`
	ProductPageURL string      `json:"productPageUrl"`
	ImageURL       string      `json:"imageUrl"`
	SwatchList     []rawSwatch `json:"swatchList"`
}

type rawSwatch struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Product  struct {
		ID string `json:"id"`
	} `json:"product"`
	Sizes []struct {
		Name      string `json:"name"`
		ID        string `json:"id"`
		Available bool   `json:"available"`
	} `json:"sizes"`
}

// ScrapeCatalog paginates the GraphQL search until the server reports the
// last page, a short page comes back, or the product cap is reached.
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
		var resp searchResponse
		err := s.client.PostJSON(ctx, s.endpoint, map[string]interface{}{
			"query": searchQuery,
			"variables": map[string]interface{}{
				"category": s.category,
				"page":     page,
				"pageSize": pageSize,
			},
		}, &resp)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("abercrombie search unreachable: %w", err)
			}
			// Keep what we have; a mid-crawl failure is not fatal
			s.log.Warnw("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		batch := resp.Data.ProductSearch.Products
		if len(batch) == 0 {
			break
		}

		for _, raw := range batch {
			p, err := s.mapProduct(raw)
			if err != nil {
				s.log.Warnw("skipping product", "id", raw.ID, "name", raw.Name, "page", page, "error", err)
				continue
			}
			products = append(products, p)
			if opts.MaxProducts > 0 && len(products) >= opts.MaxProducts {
				return products, nil
			}
		}

		pg := resp.Data.ProductSearch.Pagination
		if pg.TotalPages > 0 && pg.CurrentPage >= pg.TotalPages {
			break
		}
		if len(batch) < pageSize {
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
	if raw.ID == "" {
		return models.Product{}, fmt.Errorf("product has no id")
	}

	original := normalize.ParsePrice(raw.Price.OriginalPrice)
	sale := normalize.ParsePrice(raw.Price.DiscountPrice)

	var groups []catalog.ColorGroup
	for _, sw := range raw.SwatchList {
		group := catalog.ColorGroup{
			Color:           sw.Name,
			SourceVariantID: sw.Product.ID,
			OriginalPrice:   original,
			SalePrice:       sale,
			LinkURL:         raw.ProductPageURL,
			ImageURL:        firstNonEmpty(sw.ImageURL, raw.ImageURL),
		}
		for _, sz := range sw.Sizes {
			status := "OUT_OF_STOCK"
			if sz.Available {
				status = "IN_STOCK"
			}
			group.Sizes = append(group.Sizes, catalog.SizeEntry{
				Size:            sz.Name,
				SourceVariantID: sz.ID,
				Status:          status,
			})
		}
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		// No swatch data; the record is still priceable as a default variant
		groups = []catalog.ColorGroup{{
			SourceVariantID: raw.ID,
			OriginalPrice:   original,
			SalePrice:       sale,
			LinkURL:         raw.ProductPageURL,
			ImageURL:        raw.ImageURL,
		}}
	}

	return models.Product{
		ParentProductID: raw.ID,
		Name:            normalize.CleanAndTruncate(raw.Name, 200),
		Description:     normalize.CleanAndTruncate(raw.LongDescription, 2000),
		Category:        raw.CategoryName,
		Brand:           "Abercrombie",
		Gender:          raw.Gender,
		RetailerDomain:  "abercrombie.com",
		Source:          source,
		OperationType:   models.OperationInsert,
		Variants:        catalog.BuildVariants(raw.ID, "USD", groups, normalize.StockFromStatus),
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

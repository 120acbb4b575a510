// Package nike scrapes the Nike product wall API plus per-product detail
// lookups.
package nike

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/catalog"
	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/normalize"
	"github.com/raushankrgupta/catalog-scraper/scrapers/api"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

const (
	defaultWallURL   = "https://api.nike.com/cic/browse/v2/wall"
	defaultDetailURL = "https://api.nike.com/cic/browse/v2/product"
	defaultPageSize  = 60
	source           = "nike-scraper"

	// Detail fetches for one wall page are issued together, bounded by a
	// small batch so the API isn't hammered.
	maxConcurrentDetails = 5
)

// Scraper implements api.CatalogScraper for Nike.
type Scraper struct {
	client    *base.Client
	log       *zap.SugaredLogger
	wallURL   string
	detailURL string
}

func New(log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		client:    base.NewClient(log),
		log:       log,
		wallURL:   defaultWallURL,
		detailURL: defaultDetailURL,
	}
}

func (s *Scraper) Retailer() string { return "nike" }

func (s *Scraper) Store() models.StoreInfo {
	return models.StoreInfo{
		Name:     "Nike US",
		Brand:    "Nike",
		Domain:   "nike.com",
		Country:  "US",
		Currency: "USD",
		Source:   source,
	}
}

type wallResponse struct {
	Pages struct {
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	} `json:"pages"`
	Objects []wallObject `json:"objects"`
}

type wallObject struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Category  string `json:"category"`
	Gender    string `json:"gender"`
	PDPUrl    string `json:"pdpUrl"`
	ImageURL  string `json:"imageUrl"`
	Price     struct {
		FullPrice    float64 `json:"fullPrice"`
		CurrentPrice float64 `json:"currentPrice"`
	} `json:"price"`
}

type detailResponse struct {
	ProductID        string   `json:"productId"`
	ColorDescription string   `json:"colorDescription"`
	StyleColor       string   `json:"styleColor"`
	Description      string   `json:"description"`
	AltImages        []string `json:"altImages"`
	Skus             []struct {
		ID       string `json:"id"`
		Size     string `json:"size"`
		Quantity int    `json:"quantity"`
	} `json:"skus"`
	RatingsCount  int     `json:"ratingsCount"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// ScrapeCatalog pages the product wall; for each wall page the per-product
// detail lookups go out together in a bounded batch. A product whose
// detail fetch fails is still emitted from its wall data alone.
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
		var wall wallResponse
		err := s.client.GetJSON(ctx, s.wallURL, map[string]string{
			"page":  strconv.Itoa(page),
			"count": strconv.Itoa(pageSize),
		}, &wall)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("nike wall unreachable: %w", err)
			}
			s.log.Warnw("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		if len(wall.Objects) == 0 {
			break
		}

		products = append(products, s.mapPage(ctx, wall.Objects)...)
		if opts.MaxProducts > 0 && len(products) >= opts.MaxProducts {
			return products[:opts.MaxProducts], nil
		}

		if wall.Pages.TotalPages > 0 && wall.Pages.CurrentPage >= wall.Pages.TotalPages {
			break
		}
		if len(wall.Objects) < pageSize {
			break
		}

		base.CourtesyDelay(ctx, opts.Delay, opts.Jitter)
		if ctx.Err() != nil {
			break
		}
	}

	return products, nil
}

func (s *Scraper) mapPage(ctx context.Context, objects []wallObject) []models.Product {
	details := make([]*detailResponse, len(objects))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentDetails)
	for i, obj := range objects {
		if obj.ProductID == "" {
			continue
		}
		wg.Add(1)
		go func(i int, productID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			var detail detailResponse
			err := s.client.GetJSON(ctx, s.detailURL, map[string]string{"productId": productID}, &detail)
			if err != nil {
				s.log.Warnw("detail fetch failed, using wall data only", "product", productID, "error", err)
				return
			}
			details[i] = &detail
		}(i, obj.ProductID)
	}
	wg.Wait()

	var products []models.Product
	for i, obj := range objects {
		if obj.ProductID == "" {
			s.log.Warnw("skipping wall object with no product id", "title", obj.Title)
			continue
		}
		products = append(products, s.mapProduct(obj, details[i]))
	}
	return products
}

func (s *Scraper) mapProduct(obj wallObject, detail *detailResponse) models.Product {
	group := catalog.ColorGroup{
		SourceVariantID: obj.ProductID,
		OriginalPrice:   obj.Price.FullPrice,
		SalePrice:       obj.Price.CurrentPrice,
		LinkURL:         obj.PDPUrl,
		ImageURL:        obj.ImageURL,
	}

	description := ""
	if detail != nil {
		group.Color = detail.ColorDescription
		group.SourceVariantID = firstNonEmpty(detail.StyleColor, obj.ProductID)
		group.AlternateImages = detail.AltImages
		group.RatingsCount = detail.RatingsCount
		group.AverageRatings = detail.AverageRating
		group.ReviewCount = detail.ReviewCount
		description = detail.Description
		for _, sku := range detail.Skus {
			qty := sku.Quantity
			group.Sizes = append(group.Sizes, catalog.SizeEntry{
				Size:            sku.Size,
				SourceVariantID: sku.ID,
				Quantity:        &qty,
			})
		}
	}

	return models.Product{
		ParentProductID: obj.ProductID,
		Name:            normalize.CleanAndTruncate(obj.Title, 200),
		Description:     normalize.CleanAndTruncate(description, 2000),
		Category:        firstNonEmpty(obj.Category, obj.Subtitle),
		Brand:           "Nike",
		Gender:          obj.Gender,
		RetailerDomain:  "nike.com",
		Source:          source,
		OperationType:   models.OperationInsert,
		Variants:        catalog.BuildVariants(obj.ProductID, "USD", []catalog.ColorGroup{group}, normalize.StockFromQuantity),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

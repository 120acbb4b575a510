// Package macys scrapes Macy's rendered category pages. Macy's has no
// stable public listing API, so products come out of the HTML grid via
// the shared fetch strategy chain.
package macys

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/catalog"
	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/normalize"
	"github.com/raushankrgupta/catalog-scraper/scrapers/api"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

const (
	defaultBaseURL = "https://www.macys.com/shop/all?Pageindex=%d"
	source         = "macys-scraper"
)

// Scraper implements api.CatalogScraper for Macy's.
type Scraper struct {
	fetcher *base.Fetcher
	log     *zap.SugaredLogger
	baseURL string
}

func New(log *zap.SugaredLogger, fetcher *base.Fetcher) *Scraper {
	if fetcher == nil {
		fetcher = base.NewFetcher(log)
	}
	return &Scraper{
		fetcher: fetcher,
		log:     log,
		baseURL: defaultBaseURL,
	}
}

func (s *Scraper) Retailer() string { return "macys" }

func (s *Scraper) Store() models.StoreInfo {
	return models.StoreInfo{
		Name:     "Macy's US",
		Brand:    "Macys",
		Domain:   "macys.com",
		Country:  "US",
		Currency: "USD",
		Source:   source,
	}
}

// ScrapeCatalog walks the numbered category pages until a page renders no
// product tiles or the cap is reached.
func (s *Scraper) ScrapeCatalog(ctx context.Context, opts api.Options) ([]models.Product, error) {
	var products []models.Product

	for page := 1; ; page++ {
		url := fmt.Sprintf(s.baseURL, page)
		doc, err := s.fetcher.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
			return base.IsValidDocument(doc) && doc.Find("li.productThumbnail").Length() > 0
		})
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("macys category unreachable: %w", err)
			}
			s.log.Warnw("page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}

		tiles := doc.Find("li.productThumbnail")
		if tiles.Length() == 0 {
			break
		}

		before := len(products)
		tiles.Each(func(i int, tile *goquery.Selection) {
			if opts.MaxProducts > 0 && len(products) >= opts.MaxProducts {
				return
			}
			p, err := s.mapTile(tile)
			if err != nil {
				s.log.Warnw("skipping tile", "page", page, "index", i, "error", err)
				return
			}
			products = append(products, p)
		})

		if opts.MaxProducts > 0 && len(products) >= opts.MaxProducts {
			return products, nil
		}
		// A page that yields nothing new means the grid ran out
		if len(products) == before {
			break
		}

		base.CourtesyDelay(ctx, opts.Delay, opts.Jitter)
		if ctx.Err() != nil {
			break
		}
	}

	return products, nil
}

func (s *Scraper) mapTile(tile *goquery.Selection) (models.Product, error) {
	parentID := tile.AttrOr("data-product-id", "")
	if parentID == "" {
		return models.Product{}, fmt.Errorf("tile has no product id")
	}

	name := strings.TrimSpace(tile.Find(".productDescription a").First().Text())
	brand := strings.TrimSpace(tile.Find(".productBrand").First().Text())
	link := tile.Find(".productDescription a").First().AttrOr("href", "")
	if link != "" && strings.HasPrefix(link, "/") {
		link = "https://www.macys.com" + link
	}
	image := tile.Find("img.thumbnailImage").First().AttrOr("src", "")

	// Regular price is struck through when a sale price is shown
	original := normalize.ParsePrice(tile.Find(".regular.originalOrRegularPriceOnSale").First().Text())
	sale := normalize.ParsePrice(tile.Find(".discount").First().Text())
	if original == 0 {
		original = normalize.ParsePrice(tile.Find(".regular").First().Text())
		sale = 0
	}

	var groups []catalog.ColorGroup
	tile.Find(".colorSwatches .swatchItem").Each(func(i int, sw *goquery.Selection) {
		groups = append(groups, catalog.ColorGroup{
			Color:           sw.AttrOr("aria-label", ""),
			SourceVariantID: sw.AttrOr("data-swatch-id", ""),
			OriginalPrice:   original,
			SalePrice:       sale,
			LinkURL:         link,
			ImageURL:        firstNonEmpty(sw.AttrOr("data-image", ""), image),
		})
	})
	if len(groups) == 0 {
		groups = []catalog.ColorGroup{{
			SourceVariantID: parentID,
			OriginalPrice:   original,
			SalePrice:       sale,
			LinkURL:         link,
			ImageURL:        image,
		}}
	}

	// Grid links occasionally point at a regional host; record the one
	// the product actually came from
	domain := normalize.DomainName(link)
	if domain == "" {
		domain = "macys.com"
	}

	return models.Product{
		ParentProductID: parentID,
		Name:            normalize.CleanAndTruncate(name, 200),
		Brand:           firstNonEmpty(brand, "Macys"),
		RetailerDomain:  domain,
		Source:          source,
		OperationType:   models.OperationInsert,
		// The grid only renders purchasable items
		Variants: catalog.BuildVariants(parentID, "USD", groups, normalize.StockAssumeInStock),
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

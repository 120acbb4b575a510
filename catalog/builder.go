package catalog

import (
	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/normalize"
)

// DefaultColor is substituted when a source has no color dimension, so a
// priceable record always yields at least one variant.
const DefaultColor = "Default"

// SizeEntry is one size option within a color group.
type SizeEntry struct {
	Size            string
	SourceVariantID string
	Quantity        *int
	Status          string
}

// ColorGroup is one color option of a raw retailer record, with its sizes,
// pricing and imagery. Retailer mappers fill these from their own response
// shapes; BuildVariants handles the cross-product and the invariants.
type ColorGroup struct {
	Color           string
	SourceVariantID string
	OriginalPrice   float64
	SalePrice       float64
	LinkURL         string
	DeeplinkURL     string
	ImageURL        string
	AlternateImages []string
	RatingsCount    int
	AverageRatings  float64
	ReviewCount     int
	Sizes           []SizeEntry
}

// BuildVariants explodes color groups into canonical variants: one variant
// per color×size, or one per color when the source has no size dimension.
// Price, discount, stock and identity invariants are applied here so every
// retailer mapper produces the same canonical shape.
func BuildVariants(parentID, currency string, groups []ColorGroup, policy normalize.StockPolicy) []models.Variant {
	var variants []models.Variant

	for _, g := range groups {
		color := g.Color
		if color == "" {
			color = DefaultColor
		}

		sizes := g.Sizes
		if len(sizes) == 0 {
			sizes = []SizeEntry{{}}
		}

		final, onSale := normalize.ResolvePrices(g.OriginalPrice, g.SalePrice)
		discount := normalize.CalculateDiscount(g.OriginalPrice, final)

		for _, sz := range sizes {
			sourceID := sz.SourceVariantID
			if sourceID == "" {
				sourceID = g.SourceVariantID
			}

			variants = append(variants, models.Variant{
				PriceCurrency: currency,
				OriginalPrice: g.OriginalPrice,
				SellingPrice:  final,
				SalePrice:     g.SalePrice,
				FinalPrice:    final,
				Discount:      discount,
				IsOnSale:      onSale,
				IsInStock: normalize.ResolveStock(policy, normalize.StockSignals{
					Quantity: sz.Quantity,
					Status:   sz.Status,
				}),
				Size:               sz.Size,
				Color:              color,
				MPN:                normalize.MPN(parentID, color),
				VariantID:          normalize.VariantID(parentID, sourceID, sz.Size, color),
				LinkURL:            g.LinkURL,
				DeeplinkURL:        g.DeeplinkURL,
				ImageURL:           g.ImageURL,
				AlternateImageURLs: normalize.DedupeImages(g.ImageURL, g.AlternateImages),
				RatingsCount:       g.RatingsCount,
				AverageRatings:     g.AverageRatings,
				ReviewCount:        g.ReviewCount,
			})
		}
	}

	return variants
}

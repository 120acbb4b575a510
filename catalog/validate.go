package catalog

import (
	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/normalize"
)

// ValidationResult summarizes a validation pass over a formatted catalog.
type ValidationResult struct {
	ValidProducts         []models.Product
	TotalCount            int
	ValidCount            int
	InvalidCount          int
	TotalVariantsFiltered int
}

// FilterValidProducts drops variants whose MPN does not match the
// deterministic-hash rule for their declared parent/color identity, then
// drops products left with no variants. Corrupted or hand-edited records
// are filtered silently and counted, never surfaced as errors.
//
// The pass is idempotent: its output passes unchanged through a second run.
func FilterValidProducts(products []models.Product) ValidationResult {
	result := ValidationResult{TotalCount: len(products)}

	for _, p := range products {
		if p.ParentProductID == "" {
			result.InvalidCount++
			result.TotalVariantsFiltered += len(p.Variants)
			continue
		}

		var kept []models.Variant
		for _, v := range p.Variants {
			if variantMPNValid(p.ParentProductID, v) {
				kept = append(kept, v)
			} else {
				result.TotalVariantsFiltered++
			}
		}

		if len(kept) == 0 {
			result.InvalidCount++
			continue
		}

		p.Variants = kept
		result.ValidProducts = append(result.ValidProducts, p)
		result.ValidCount++
	}

	return result
}

// variantMPNValid recomputes the content-addressed MPN and compares.
// Both the color-level and the size-qualified seeding are accepted, since
// some retailers carry the size dimension in the part number.
func variantMPNValid(parentID string, v models.Variant) bool {
	if v.MPN == normalize.MPN(parentID, v.Color) {
		return true
	}
	return v.Size != "" && v.MPN == normalize.MPN(parentID, v.Color, v.Size)
}

package normalize

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice converts a raw retailer price string into a float.
// Handles currency symbols, thousands separators and surrounding text.
// A malformed value parses to 0, it never fails.
func ParsePrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// Keep digits, dot and minus; drop symbols ($, ₹, €, £), commas and labels
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// CalculateDiscount returns the rounded percentage discount between the
// original and final price. Returns 0 for missing/zero prices or when the
// final price is not lower than the original, so the result is always in [0,100].
func CalculateDiscount(original, final float64) int {
	if original <= 0 || final <= 0 {
		return 0
	}
	if math.IsNaN(original) || math.IsNaN(final) {
		return 0
	}
	if original <= final {
		return 0
	}

	pct := (original - final) / original * 100
	return int(math.Round(pct))
}

// ResolvePrices applies the sale-price rule: the final price is the sale
// price only when it is a real markdown (positive and strictly below the
// original price), otherwise the original price stands.
func ResolvePrices(original, sale float64) (final float64, onSale bool) {
	if sale > 0 && sale < original {
		return sale, true
	}
	return original, false
}

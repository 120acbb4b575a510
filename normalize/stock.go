package normalize

import "strings"

// StockPolicy names the per-retailer rule for deriving availability.
// Retailer data quality varies, so the divergence is deliberate; each
// scraper declares which policy its source supports.
type StockPolicy string

const (
	// StockAssumeInStock treats every listed product as available.
	// Used by sources that only list purchasable items.
	StockAssumeInStock StockPolicy = "assume_in_stock"
	// StockFromQuantity derives availability from an explicit quantity field.
	StockFromQuantity StockPolicy = "from_quantity"
	// StockFromStatus derives availability from a status/availability string.
	StockFromStatus StockPolicy = "from_status"
)

// StockSignals carries whatever availability data a source exposed.
// Quantity is a pointer so "absent" and "zero" stay distinguishable.
type StockSignals struct {
	Quantity *int
	Status   string
}

// ResolveStock applies a policy to the signals a retailer exposed.
// When both a quantity and a status are present, quantity wins: status
// text ("IN_STOCK" on a sold-out item) is the less reliable of the two.
func ResolveStock(policy StockPolicy, sig StockSignals) bool {
	switch policy {
	case StockFromQuantity:
		if sig.Quantity != nil {
			return *sig.Quantity > 0
		}
		return statusInStock(sig.Status)
	case StockFromStatus:
		if sig.Quantity != nil {
			return *sig.Quantity > 0
		}
		return statusInStock(sig.Status)
	default:
		return true
	}
}

func statusInStock(status string) bool {
	s := strings.ToUpper(strings.TrimSpace(status))
	s = strings.ReplaceAll(s, " ", "_")
	switch s {
	case "OUT_OF_STOCK", "OUTOFSTOCK", "SOLD_OUT", "SOLDOUT", "UNAVAILABLE", "COMING_SOON":
		return false
	default:
		// Unknown or missing status text, lean available rather than dropping the variant
		return true
	}
}

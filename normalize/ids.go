package normalize

import (
	"strings"

	"github.com/google/uuid"
)

// Namespace for all deterministic catalog identifiers. Changing this value
// changes every MPN/variant_id in every catalog, so it is frozen.
var catalogNamespace = uuid.MustParse("91461c99-f89d-49d2-af96-d8e2e14e9b58")

// DeterministicID produces a stable UUIDv5 from the namespace and a
// composite key. Identical inputs always produce identical output.
func DeterministicID(parts ...string) string {
	key := strings.Join(parts, "|")
	return uuid.NewSHA1(catalogNamespace, []byte(key)).String()
}

// MPN derives the color-level identity of a variant. Some retailers carry a
// size dimension in the part number as well; pass it as the optional arg.
func MPN(parentProductID, color string, size ...string) string {
	parts := []string{parentProductID, color}
	parts = append(parts, size...)
	return DeterministicID(parts...)
}

// VariantID derives the fully-qualified variant identity.
func VariantID(parentProductID, sourceVariantID, size, color string) string {
	return DeterministicID(parentProductID, sourceVariantID, size, color)
}

package normalize

import "testing"

func TestMPNDeterminism(t *testing.T) {
	a := MPN("P1", "Red")
	b := MPN("P1", "Red")
	if a != b {
		t.Fatalf("MPN not deterministic: %s != %s", a, b)
	}
	if a == "" {
		t.Fatal("MPN returned empty string")
	}
}

func TestMPNDistinctInputs(t *testing.T) {
	base := MPN("P1", "Red")

	if MPN("P1", "Blue") == base {
		t.Error("different colors produced the same MPN")
	}
	if MPN("P2", "Red") == base {
		t.Error("different parent IDs produced the same MPN")
	}
	if MPN("P1", "Red", "M") == base {
		t.Error("size-qualified MPN collided with color-only MPN")
	}
}

func TestVariantIDDeterminism(t *testing.T) {
	a := VariantID("P1", "SKU-9", "M", "Red")
	b := VariantID("P1", "SKU-9", "M", "Red")
	if a != b {
		t.Fatalf("VariantID not deterministic: %s != %s", a, b)
	}
	if VariantID("P1", "SKU-9", "L", "Red") == a {
		t.Error("different sizes produced the same variant_id")
	}
}

func TestDeterministicIDSeparator(t *testing.T) {
	// The composite key is delimited, so field contents must not bleed
	// into each other: ("ab","c") and ("a","bc") are different keys.
	if DeterministicID("ab", "c") == DeterministicID("a", "bc") {
		t.Error("composite key fields are not delimited")
	}
}

package admin

import "testing"

func TestParsePeriodPrices(t *testing.T) {
	prices, err := parsePeriodPrices("30:9900,90:26900")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prices["30"] != 9900 || prices["90"] != 26900 {
		t.Errorf("unexpected prices: %v", prices)
	}

	bad := []string{"", "30", "30:abc", "abc:100", "0:100", "30:-5"}
	for _, s := range bad {
		if _, err := parsePeriodPrices(s); err == nil {
			t.Errorf("parsePeriodPrices(%q) must fail", s)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	SetAdmin(42)
	if !IsAdmin(42) {
		t.Error("admin must be recognized")
	}
	if IsAdmin(43) {
		t.Error("non-admin must be rejected")
	}
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestDiscountPercentScenario(t *testing.T) {
	price := decimal.NewFromInt(899)
	original := decPtr("1299")
	if !IsOnSale(price, original) {
		t.Fatalf("expected on sale")
	}
	if got := DiscountPercent(price, original); got != 31 {
		t.Fatalf("expected 31, got %d", got)
	}
}

func TestDiscountPercentNotOnSale(t *testing.T) {
	price := decimal.NewFromInt(100)
	if IsOnSale(price, nil) {
		t.Fatalf("nil original price should not be on sale")
	}
	if IsOnSale(price, decPtr("100")) {
		t.Fatalf("equal original price should not be on sale")
	}
	if got := DiscountPercent(price, decPtr("80")); got != 0 {
		t.Fatalf("original below price should give 0, got %d", got)
	}
}

func TestDiscountPercentRoundsHalfUp(t *testing.T) {
	// 1 - 87.5/100 = 12.5% -> 13
	if got := DiscountPercent(decimal.RequireFromString("87.5"), decPtr("100")); got != 13 {
		t.Fatalf("expected 13, got %d", got)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1299", "HKD", "HK$1,299"},
		{"1299.5", "hkd", "HK$1,300"},
		{"899.49", "HKD", "HK$899"},
		{"0", "HKD", "HK$0"},
		{"12.5", "USD", "US$12.50"},
		{"1234.567", "USD", "US$1,234.57"},
		{"10", "CHF", "CHF 10.00"},
		{"10", "", "10.00"},
		{"-50", "HKD", "-HK$50"},
	}
	for _, tc := range cases {
		got := FormatPrice(decimal.RequireFromString(tc.amount), tc.currency)
		if got != tc.want {
			t.Fatalf("format %s %s: want %q got %q", tc.amount, tc.currency, tc.want, got)
		}
	}
}

func TestRoundForDisplayMatchesFormat(t *testing.T) {
	amount := decimal.RequireFromString("1499.5")
	rounded := RoundForDisplay(amount, "HKD")
	if !rounded.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected 1500, got %s", rounded.String())
	}
	if FormatPrice(amount, "HKD") != FormatPrice(rounded, "HKD") {
		t.Fatalf("formatted amount and rounded amount must render identically")
	}
}

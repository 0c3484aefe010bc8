package availability

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/variant"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int {
	return &v
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func mustView(t *testing.T, sizes string) *variant.View {
	t.Helper()
	view := variant.Normalize(variant.Source{Sizes: json.RawMessage(sizes)})
	if view == nil {
		t.Fatalf("expected view for sizes %s", sizes)
	}
	return view
}

func hiddenVariantView(t *testing.T) *variant.View {
	t.Helper()
	opts, err := variant.ParseOptions([]byte(`{"顏色":"黑色","尺碼":"M"}`))
	if err != nil {
		t.Fatalf("parse options failed: %v", err)
	}
	return variant.Normalize(variant.Source{Variants: []variant.Record{
		{ID: 1, Options: opts, Stock: 10, Active: false},
	}})
}

func TestIsSoldOutUsesViewOverStock(t *testing.T) {
	view := mustView(t, `{"S":0,"M":0}`)
	if !IsSoldOut(Subject{View: view, Stock: intPtr(50)}) {
		t.Fatalf("view with zero quantities must be sold out regardless of flat stock")
	}
	view = mustView(t, `{"S":0,"M":1}`)
	if IsSoldOut(Subject{View: view, Stock: intPtr(0)}) {
		t.Fatalf("view with qty 1 must not be sold out")
	}
}

func TestIsSoldOutFlatStock(t *testing.T) {
	if !IsSoldOut(Subject{}) {
		t.Fatalf("missing stock should be sold out")
	}
	if !IsSoldOut(Subject{Stock: intPtr(0)}) {
		t.Fatalf("zero stock should be sold out")
	}
	if IsSoldOut(Subject{Stock: intPtr(1)}) {
		t.Fatalf("stock 1 should not be sold out")
	}
	empty := variant.Normalize(variant.Source{Sizes: json.RawMessage(`"garbage"`)})
	if IsSoldOut(Subject{View: empty, Stock: intPtr(2)}) {
		t.Fatalf("empty view should fall back to flat stock")
	}
}

func TestHiddenCombinationExcluded(t *testing.T) {
	view := hiddenVariantView(t)
	if !IsSoldOut(Subject{View: view}) {
		t.Fatalf("hidden qty 10 must not count as available")
	}
	if got := LowStockCount(view, 3); got != nil {
		t.Fatalf("hidden combination must not produce low stock, got %d", *got)
	}
	if got := StepperMax(view, "黑色|M", nil); got != 0 {
		t.Fatalf("hidden combination stepper max should be 0, got %d", got)
	}
}

func TestLowStockCount(t *testing.T) {
	view := mustView(t, `{"S":5,"M":2,"L":0}`)
	got := LowStockCount(view, 3)
	if got == nil || *got != 2 {
		t.Fatalf("expected low stock 2, got %v", got)
	}
	view = mustView(t, `{"S":5,"M":4}`)
	if got := LowStockCount(view, 3); got != nil {
		t.Fatalf("expected nil low stock, got %d", *got)
	}
}

func TestStepperMaxUsesSelectedCombination(t *testing.T) {
	view := mustView(t, `{"S":5,"M":2}`)
	if got := StepperMax(view, "S", nil); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := StepperMax(view, "XXL", nil); got != 0 {
		t.Fatalf("unknown key should be 0, got %d", got)
	}
	if got := StepperMax(nil, "", intPtr(7)); got != 7 {
		t.Fatalf("variant-less stepper should use stock, got %d", got)
	}
}

func TestIsNew(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	window := 14 * 24 * time.Hour
	if !IsNew(now.Add(-13*24*time.Hour), now, window) {
		t.Fatalf("13 days old should be new")
	}
	if IsNew(now.Add(-15*24*time.Hour), now, window) {
		t.Fatalf("15 days old should not be new")
	}
	if IsNew(time.Time{}, now, window) {
		t.Fatalf("zero created at should not be new")
	}
}

func TestDeriveSuppressesNewWhenOnSaleAndLowStock(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	state := Derive(Subject{
		Price:         decimal.NewFromInt(899),
		OriginalPrice: decPtr(1299),
		CreatedAt:     now.Add(-time.Hour),
		View:          mustView(t, `{"S":2,"M":8}`),
	}, now, DefaultPolicy())

	if len(state.Badges) != 2 {
		t.Fatalf("expected 2 badges, got %+v", state.Badges)
	}
	if state.Badges[0].Type != constants.BadgeTypeDiscount || state.Badges[0].Percent != 31 {
		t.Fatalf("unexpected first badge: %+v", state.Badges[0])
	}
	if state.Badges[1].Type != constants.BadgeTypeLowStock || state.Badges[1].Count != 2 {
		t.Fatalf("unexpected second badge: %+v", state.Badges[1])
	}
	if !state.IsNew {
		t.Fatalf("is_new flag itself should stay true")
	}
}

func TestDeriveBadgeOrder(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	state := Derive(Subject{
		Price:     decimal.NewFromInt(100),
		Stock:     intPtr(1),
		CreatedAt: now.Add(-24 * time.Hour),
	}, now, Policy{})
	if len(state.Badges) != 2 || state.Badges[0].Type != constants.BadgeTypeLowStock || state.Badges[1].Type != constants.BadgeTypeNew {
		t.Fatalf("unexpected badges: %+v", state.Badges)
	}

	state = Derive(Subject{
		Price:         decimal.NewFromInt(80),
		OriginalPrice: decPtr(100),
		Stock:         intPtr(0),
		CreatedAt:     now,
	}, now, Policy{})
	if !state.SoldOut {
		t.Fatalf("expected sold out")
	}
	if len(state.Badges) != 2 || state.Badges[0].Type != constants.BadgeTypeDiscount || state.Badges[1].Type != constants.BadgeTypeSoldOut {
		t.Fatalf("unexpected sold out badges: %+v", state.Badges)
	}
}

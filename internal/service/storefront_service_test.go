package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/models"
)

func TestGetProductVariantPayload(t *testing.T) {
	env := setupServiceTest(t)
	detail, err := env.storefronts.GetProduct(context.Background(), "shop-a", "runner")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if detail.Variants == nil {
		t.Fatalf("expected variant payload")
	}
	if got := detail.Variants.Dimensions; len(got) != 2 || got[0] != "顏色" || got[1] != "尺碼" {
		t.Fatalf("unexpected dimensions: %v", got)
	}
	red9, ok := detail.Variants.Combinations["紅色|US 9"]
	if !ok || !red9.Available || red9.Qty != 3 || red9.VariantID == 0 {
		t.Fatalf("unexpected red US 9 combination: %+v", red9)
	}
	if red9.PriceText != "HK$500" {
		t.Fatalf("expected inherited price text HK$500, got %q", red9.PriceText)
	}
	black9 := detail.Variants.Combinations["黑色|US 9"]
	if black9.Status != constants.CombinationStatusHidden || black9.Available {
		t.Fatalf("inactive variant must be hidden: %+v", black9)
	}
	black10, ok := detail.Variants.Combinations["黑色|US 10"]
	if !ok || black10.Available || black10.Qty != 0 {
		t.Fatalf("missing cross product combination should be unavailable: %+v", black10)
	}
	if detail.Availability.SoldOut || detail.Availability.AvailableStock != 4 {
		t.Fatalf("unexpected availability: %+v", detail.Availability)
	}
}

func TestGetProductErrors(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	if _, err := env.storefronts.GetProduct(ctx, "shop-a", "draft"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product should be not found, got %v", err)
	}
	if _, err := env.storefronts.GetProduct(ctx, "shop-z", "runner"); !errors.Is(err, ErrStorefrontNotFound) {
		t.Fatalf("unknown storefront should fail, got %v", err)
	}
}

func TestListProductsBadges(t *testing.T) {
	env := setupServiceTest(t)
	cards, total, err := env.storefronts.ListProducts(context.Background(), "shop-a", 1, 20, "")
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 4 || len(cards) != 4 {
		t.Fatalf("expected 4 active products, got total=%d len=%d", total, len(cards))
	}
	bySlug := make(map[string]ProductCard)
	for _, card := range cards {
		bySlug[card.Slug] = card
	}

	runner := bySlug["runner"]
	if runner.Availability.LowStockCount == nil || *runner.Availability.LowStockCount != 1 {
		t.Fatalf("runner low stock should come from the smallest visible combination: %+v", runner.Availability)
	}
	tee := bySlug["tee"]
	if !tee.HasVariants || tee.Availability.LowStockCount == nil || *tee.Availability.LowStockCount != 2 {
		t.Fatalf("unexpected tee availability: %+v", tee.Availability)
	}
	capCard := bySlug["cap"]
	if capCard.HasVariants || !capCard.Availability.OnSale || capCard.Availability.DiscountPercent != 20 {
		t.Fatalf("unexpected cap availability: %+v", capCard.Availability)
	}
	if capCard.OriginalPriceText != "HK$100" || capCard.PriceText != "HK$80" {
		t.Fatalf("unexpected cap price texts: %q %q", capCard.PriceText, capCard.OriginalPriceText)
	}
	if len(capCard.Availability.Badges) != 2 || capCard.Availability.Badges[0].Type != constants.BadgeTypeDiscount || capCard.Availability.Badges[1].Type != constants.BadgeTypeNew {
		t.Fatalf("unexpected cap badges: %+v", capCard.Availability.Badges)
	}
}

func TestSettingsFallbackToDefaults(t *testing.T) {
	env := setupServiceTest(t)
	settings, err := env.storefronts.Settings(context.Background(), "shop-a")
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if settings.Currency != "HKD" || settings.FreeShippingThreshold == nil || settings.FreeShippingThreshold.String() != "300" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	if settings.Policy.LowStockThreshold != constants.DefaultLowStockThreshold {
		t.Fatalf("storefront without threshold should use default, got %d", settings.Policy.LowStockThreshold)
	}
}

func TestVariantRowChangesReachViewAndCart(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	runner := env.products["runner"]
	if _, err := env.storefronts.GetProduct(ctx, "shop-a", "runner"); err != nil {
		t.Fatalf("get product failed: %v", err)
	}

	if err := env.db.Exec("UPDATE product_variants SET is_active = ? WHERE product_id = ? AND name = ?", false, runner.ID, "紅 US 9").Error; err != nil {
		t.Fatalf("deactivate variant failed: %v", err)
	}
	if err := env.db.Model(&models.ProductVariant{}).
		Where("product_id = ? AND name = ?", runner.ID, "紅 US 10").
		UpdateColumn("stock", 0).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}

	detail, err := env.storefronts.GetProduct(ctx, "shop-a", "runner")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	red9 := detail.Variants.Combinations["紅色|US 9"]
	if red9.Available || red9.Status != constants.CombinationStatusHidden {
		t.Fatalf("deactivated variant should be hidden, got %+v", red9)
	}
	if red10 := detail.Variants.Combinations["紅色|US 10"]; red10.Available || red10.Qty != 0 {
		t.Fatalf("emptied variant should be unavailable, got %+v", red10)
	}
	if !detail.Availability.SoldOut {
		t.Fatalf("product should be sold out once no visible stock is left: %+v", detail.Availability)
	}

	for _, key := range []string{"紅色|US 9", "紅色|US 10"} {
		if _, err := env.carts.AddItem(ctx, AddCartItemInput{TenantID: "shop-a", CartID: "cart-1", ProductID: runner.ID, Variant: key, Qty: 1}); !errors.Is(err, ErrVariantUnavailable) {
			t.Fatalf("%s should no longer be addable, got %v", key, err)
		}
	}
}

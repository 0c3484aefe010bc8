package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bioshop-next/internal/cart"

	"github.com/shopspring/decimal"
)

func sampleCart(t *testing.T, tenantID string) cart.Cart {
	t.Helper()
	c, err := cart.Add(cart.New(tenantID), cart.Item{ProductID: 5, Variant: "紅色|US 9", Name: "跑鞋", Price: decimal.NewFromInt(500), Qty: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	return c
}

func TestCartSnapshotRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCartSnapshotRepository(openTestDB(t), time.Hour)

	empty, err := repo.Load(ctx, "shop-a", "cart-1")
	if err != nil || !empty.IsEmpty() {
		t.Fatalf("missing cart should load empty: %+v err=%v", empty, err)
	}

	if err := repo.Save(ctx, "shop-a", "cart-1", sampleCart(t, "shop-a")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := repo.Load(ctx, "shop-a", "cart-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cart.Count(loaded) != 2 || !cart.Total(loaded).Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected cart after load: %+v", loaded)
	}

	updated := cart.UpdateQty(loaded, 5, "紅色|US 9", 1)
	if err := repo.Save(ctx, "shop-a", "cart-1", updated); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	loaded, _ = repo.Load(ctx, "shop-a", "cart-1")
	if cart.Count(loaded) != 3 {
		t.Fatalf("upsert should overwrite payload, got count %d", cart.Count(loaded))
	}

	other, err := repo.Load(ctx, "shop-b", "cart-1")
	if err != nil || !other.IsEmpty() {
		t.Fatalf("other tenant must not see cart: %+v err=%v", other, err)
	}

	if err := repo.Delete(ctx, "shop-a", "cart-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	loaded, _ = repo.Load(ctx, "shop-a", "cart-1")
	if !loaded.IsEmpty() {
		t.Fatalf("expected empty cart after delete")
	}
}

func TestCartSnapshotRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewCartSnapshotRepository(openTestDB(t), time.Hour)
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	if err := repo.Save(ctx, "shop-a", "cart-1", sampleCart(t, "shop-a")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	repo.now = func() time.Time { return base.Add(2 * time.Hour) }

	loaded, err := repo.Load(ctx, "shop-a", "cart-1")
	if err != nil || !loaded.IsEmpty() {
		t.Fatalf("expired cart should load empty: %+v err=%v", loaded, err)
	}
	purged, err := repo.PurgeExpired(ctx)
	if err != nil || purged != 1 {
		t.Fatalf("expected 1 purged snapshot, got %d err=%v", purged, err)
	}
}

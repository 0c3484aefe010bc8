//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.ProductVariant{},
		&models.Product{},
		&models.DeliveryOption{},
		&models.Storefront{},
		&models.CartSnapshot{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresProductSearchAndVariants(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	createVariantProduct(t, repo, "shop-pg", "runner", true)

	tee := &models.Product{
		TenantID:    "shop-pg",
		Slug:        "tee",
		Name:        "Logo Tee",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(180)),
		SizesJSON:   models.RawJSON(`{"S":3,"XL":1}`),
		IsActive:    true,
	}
	if err := repo.Create(tee); err != nil {
		t.Fatalf("create tee failed: %v", err)
	}

	rows, total, err := repo.List(ProductListFilter{TenantID: "shop-pg", Page: 1, PageSize: 20, Search: "logo", OnlyActive: true})
	if err != nil {
		t.Fatalf("search by name failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Slug != "tee" {
		t.Fatalf("case-insensitive name search want tee, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = repo.List(ProductListFilter{TenantID: "shop-pg", Page: 1, PageSize: 20, Search: "XL", OnlyActive: true})
	if err != nil {
		t.Fatalf("search by size failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("size search want 1 got total=%d", total)
	}

	runner, err := repo.GetBySlug("shop-pg", "runner", true)
	if err != nil || runner == nil {
		t.Fatalf("get runner failed: %v", err)
	}
	if len(runner.Variants) != 3 || runner.Variants[0].Name != "紅 9" {
		t.Fatalf("unexpected variants from postgres: %+v", runner.Variants)
	}
}

func TestPostgresCartSnapshotRoundTrip(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCartSnapshotRepository(db, time.Hour)
	ctx := context.Background()

	c, err := cart.Add(cart.New("shop-pg"), cart.Item{ProductID: 7, Variant: "紅色|US 9", Name: "跑鞋", Price: decimal.NewFromInt(500), Qty: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := repo.Save(ctx, "shop-pg", "cart-1", c); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.Save(ctx, "shop-pg", "cart-1", c); err != nil {
		t.Fatalf("second save should upsert: %v", err)
	}
	loaded, err := repo.Load(ctx, "shop-pg", "cart-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cart.Count(loaded) != 2 || !cart.Total(loaded).Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected loaded cart: %+v", loaded)
	}
}

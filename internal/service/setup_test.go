package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bioshop-next/internal/cache"
	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/checkout"
	"github.com/bioshop-next/internal/config"
	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/models"
	"github.com/bioshop-next/internal/queue"
	"github.com/bioshop-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var serviceDBSeq atomic.Int64

type testEnv struct {
	db          *gorm.DB
	storefronts *StorefrontService
	carts       *CartService
	checkout    *CheckoutService
	sink        *recordingSink
	products    map[string]*models.Product
}

type recordingSink struct {
	mu     sync.Mutex
	orders []checkout.OrderPayload
	err    error
}

func (s *recordingSink) Submit(_ context.Context, order checkout.OrderPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, order)
	return nil
}

func intPtr(v int) *int {
	return &v
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	_ = cache.Close()

	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", serviceDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	storefrontRepo := repository.NewStorefrontRepository(db)
	productRepo := repository.NewProductRepository(db)
	seedStorefront(t, storefrontRepo)
	products := seedProducts(t, productRepo)

	storefronts := NewStorefrontService(storefrontRepo, productRepo, config.StorefrontConfig{
		Currency:          constants.DefaultCurrency,
		LowStockThreshold: constants.DefaultLowStockThreshold,
		NewProductDays:    constants.DefaultNewProductDays,
	})
	carts := NewCartService(cart.NewMemoryStore(), productRepo, storefronts, constants.DefaultMaxLineQuantity)
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	sink := &recordingSink{}
	checkoutService := NewCheckoutService(carts, storefrontRepo, queueClient, sink)
	checkoutService.newReference = func() string { return "ref-test" }

	return &testEnv{
		db:          db,
		storefronts: storefronts,
		carts:       carts,
		checkout:    checkoutService,
		sink:        sink,
		products:    products,
	}
}

func seedStorefront(t *testing.T, repo *repository.GormStorefrontRepository) {
	t.Helper()
	if err := repo.Create(&models.Storefront{
		Slug:                        "shop-a",
		Name:                        "Shop A",
		Currency:                    "HKD",
		FreeShippingThresholdAmount: models.MoneyPtr(decimal.NewFromInt(300)),
		IsActive:                    true,
	}); err != nil {
		t.Fatalf("create storefront failed: %v", err)
	}
	options := []models.DeliveryOption{
		{TenantID: "shop-a", Code: "pickup", Name: "門市自取", FeeAmount: models.NewMoney(0), IsEnabled: true, SortOrder: 1},
		{TenantID: "shop-a", Code: "express", Name: "順豐速運", FeeAmount: models.NewMoney(50), IsEnabled: true, SortOrder: 2},
		{TenantID: "shop-a", Code: "locker", Name: "智能櫃", FeeAmount: models.NewMoney(30), IsEnabled: false, SortOrder: 3},
	}
	for i := range options {
		if err := repo.CreateDeliveryOption(&options[i]); err != nil {
			t.Fatalf("create delivery option failed: %v", err)
		}
	}
}

func seedProducts(t *testing.T, repo *repository.GormProductRepository) map[string]*models.Product {
	t.Helper()
	products := []*models.Product{
		{
			TenantID:          "shop-a",
			Slug:              "runner",
			Name:              "跑鞋",
			PriceAmount:       models.NewMoney(500),
			VariantDimensions: models.StringArray{"顏色", "尺碼"},
			IsActive:          true,
			Variants: []models.ProductVariant{
				{Name: "紅 US 9", OptionsJSON: models.RawJSON(`{"顏色":"紅色","尺碼":"US 9"}`), Stock: 3, IsActive: true, SortOrder: 1},
				{Name: "紅 US 10", OptionsJSON: models.RawJSON(`{"顏色":"紅色","尺碼":"US 10"}`), Stock: 1, IsActive: true, SortOrder: 2},
				{Name: "黑 US 9", OptionsJSON: models.RawJSON(`{"顏色":"黑色","尺碼":"US 9"}`), Stock: 10, IsActive: false, SortOrder: 3},
			},
		},
		{
			TenantID:    "shop-a",
			Slug:        "tee",
			Name:        "T 恤",
			PriceAmount: models.NewMoney(120),
			SizesJSON:   models.RawJSON(`{"S":2,"M":0}`),
			IsActive:    true,
		},
		{
			TenantID:            "shop-a",
			Slug:                "cap",
			Name:                "棒球帽",
			PriceAmount:         models.NewMoney(80),
			OriginalPriceAmount: models.MoneyPtr(decimal.NewFromInt(100)),
			Stock:               intPtr(5),
			IsActive:            true,
		},
		{
			TenantID:    "shop-a",
			Slug:        "socks",
			Name:        "襪",
			PriceAmount: models.NewMoney(10),
			Stock:       intPtr(500),
			IsActive:    true,
		},
		{
			TenantID:    "shop-a",
			Slug:        "draft",
			Name:        "未上架",
			PriceAmount: models.NewMoney(10),
			Stock:       intPtr(5),
			IsActive:    false,
		},
	}
	result := make(map[string]*models.Product, len(products))
	for _, p := range products {
		if err := repo.Create(p); err != nil {
			t.Fatalf("create product %s failed: %v", p.Slug, err)
		}
		result[p.Slug] = p
	}
	return result
}

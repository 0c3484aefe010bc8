package main

import (
	"context"
	"errors"

	"github.com/bioshop-next/internal/cache"
	"github.com/bioshop-next/internal/config"
	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const demoTenant = "demo"

func intPtr(v int) *int {
	return &v
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	log := logger.S()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
	}); err != nil {
		log.Fatalw("seed_db_connect_failed", "error", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		log.Fatalw("seed_db_migrate_failed", "error", err)
	}

	storefront := models.Storefront{
		Slug:                        demoTenant,
		Name:                        "Demo Bio Shop",
		Currency:                    "HKD",
		FreeShippingThresholdAmount: models.MoneyPtr(decimal.NewFromInt(400)),
		IsActive:                    true,
	}
	if err := firstOrCreate(&models.Storefront{}, &storefront, "slug = ?", storefront.Slug); err != nil {
		log.Fatalw("seed_storefront_failed", "error", err)
	}

	options := []models.DeliveryOption{
		{TenantID: demoTenant, Code: "pickup", Name: "門市自取", FeeAmount: models.NewMoney(0), IsEnabled: true, SortOrder: 1},
		{TenantID: demoTenant, Code: "sf_express", Name: "順豐到付", FeeAmount: models.NewMoney(0), IsEnabled: true, SortOrder: 2},
		{TenantID: demoTenant, Code: "courier", Name: "速遞上門", FeeAmount: models.NewMoney(40), IsEnabled: true, SortOrder: 3},
	}
	for i := range options {
		option := &options[i]
		if err := firstOrCreate(&models.DeliveryOption{}, option, "tenant_id = ? AND code = ?", demoTenant, option.Code); err != nil {
			log.Warnw("seed_delivery_option_failed", "code", option.Code, "error", err)
		}
	}

	products := []models.Product{
		{
			TenantID:          demoTenant,
			Slug:              "canvas-sneaker",
			Name:              "帆布鞋",
			PriceAmount:       models.NewMoney(480),
			VariantDimensions: models.StringArray{"顏色", "尺碼"},
			OptionImagesJSON:  models.RawJSON(`{"白色":0,"黑色":1}`),
			Images:            models.StringArray{"/images/sneaker-white.jpg", "/images/sneaker-black.jpg"},
			IsActive:          true,
			SortOrder:         1,
			Variants: []models.ProductVariant{
				{Name: "白 US 8", OptionsJSON: models.RawJSON(`{"顏色":"白色","尺碼":"US 8"}`), Stock: 4, IsActive: true, SortOrder: 1},
				{Name: "白 US 9", OptionsJSON: models.RawJSON(`{"顏色":"白色","尺碼":"US 9"}`), Stock: 2, IsActive: true, SortOrder: 2},
				{Name: "黑 US 8", OptionsJSON: models.RawJSON(`{"顏色":"黑色","尺碼":"US 8"}`), Stock: 0, IsActive: true, SortOrder: 3},
				{Name: "黑 US 9", OptionsJSON: models.RawJSON(`{"顏色":"黑色","尺碼":"US 9"}`), Stock: 6, IsActive: true, SortOrder: 4, PriceAmount: models.MoneyPtr(decimal.NewFromInt(520))},
			},
		},
		{
			TenantID:    demoTenant,
			Slug:        "logo-tee",
			Name:        "Logo T 恤",
			PriceAmount: models.NewMoney(180),
			SizesJSON:   models.RawJSON(`{"S":3,"M":8,"L":0}`),
			Images:      models.StringArray{"/images/tee.jpg"},
			IsActive:    true,
			SortOrder:   2,
		},
		{
			TenantID:            demoTenant,
			Slug:                "tote-bag",
			Name:                "帆布袋",
			PriceAmount:         models.NewMoney(120),
			OriginalPriceAmount: models.MoneyPtr(decimal.NewFromInt(150)),
			Stock:               intPtr(12),
			Images:              models.StringArray{"/images/tote.jpg"},
			IsActive:            true,
			SortOrder:           3,
		},
	}
	for i := range products {
		product := &products[i]
		if err := firstOrCreate(&models.Product{}, product, "tenant_id = ? AND slug = ?", demoTenant, product.Slug); err != nil {
			log.Warnw("seed_product_failed", "slug", product.Slug, "error", err)
			continue
		}
		log.Infow("seed_product_ready", "slug", product.Slug, "id", product.ID)
	}
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		log.Warnw("seed_redis_init_failed", "error", err)
	} else if err := cache.DelStorefront(context.Background(), demoTenant); err != nil {
		log.Warnw("seed_storefront_cache_invalidate_failed", "error", err)
	}
	log.Infow("seed_done", "tenant_id", demoTenant)
}

// firstOrCreate 已存在则跳过，保证重复执行不会插入重复数据
func firstOrCreate(probe interface{}, record interface{}, query string, args ...interface{}) error {
	err := models.DB.Where(query, args...).First(probe).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return models.DB.Create(record).Error
}

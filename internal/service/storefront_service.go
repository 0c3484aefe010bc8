package service

import (
	"context"
	"strings"
	"time"

	"github.com/bioshop-next/internal/availability"
	"github.com/bioshop-next/internal/cache"
	"github.com/bioshop-next/internal/config"
	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/models"
	"github.com/bioshop-next/internal/repository"
	"github.com/bioshop-next/internal/variant"

	"github.com/shopspring/decimal"
)

// StorefrontSettings 店铺生效设置（店铺自身设置覆盖全局配置）
type StorefrontSettings struct {
	Slug                  string
	Name                  string
	Currency              string
	FreeShippingThreshold *decimal.Decimal
	Policy                availability.Policy
}

// StorefrontService 店铺与商品展示服务
type StorefrontService struct {
	storefrontRepo repository.StorefrontRepository
	productRepo    repository.ProductRepository
	views          *variant.Cache
	defaults       config.StorefrontConfig
	now            func() time.Time
}

// NewStorefrontService 创建店铺服务
func NewStorefrontService(storefrontRepo repository.StorefrontRepository, productRepo repository.ProductRepository, defaults config.StorefrontConfig) *StorefrontService {
	return &StorefrontService{
		storefrontRepo: storefrontRepo,
		productRepo:    productRepo,
		views:          variant.NewCache(),
		defaults:       defaults,
		now:            time.Now,
	}
}

// Settings 获取店铺设置，优先读取 Redis 快照
func (s *StorefrontService) Settings(ctx context.Context, tenantID string) (*StorefrontSettings, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrStorefrontNotFound
	}
	snapshot, hit, err := cache.GetStorefront(ctx, tenantID)
	if err != nil {
		logger.Warnw("storefront_cache_get_failed", "tenant_id", tenantID, "error", err)
	}
	if !hit {
		storefront, err := s.storefrontRepo.GetBySlug(tenantID)
		if err != nil {
			return nil, err
		}
		if storefront == nil {
			return nil, ErrStorefrontNotFound
		}
		snapshot = snapshotFromModel(storefront)
		if err := cache.SetStorefront(ctx, *snapshot); err != nil {
			logger.Warnw("storefront_cache_set_failed", "tenant_id", tenantID, "error", err)
		}
	}
	return s.settingsFromSnapshot(snapshot), nil
}

func snapshotFromModel(storefront *models.Storefront) *cache.StorefrontSnapshot {
	snapshot := &cache.StorefrontSnapshot{
		Slug:              storefront.Slug,
		Name:              storefront.Name,
		Currency:          storefront.Currency,
		LowStockThreshold: storefront.LowStockThreshold,
	}
	if storefront.FreeShippingThresholdAmount != nil {
		snapshot.FreeShippingThreshold = storefront.FreeShippingThresholdAmount.String()
	}
	return snapshot
}

func (s *StorefrontService) settingsFromSnapshot(snapshot *cache.StorefrontSnapshot) *StorefrontSettings {
	settings := &StorefrontSettings{
		Slug:     snapshot.Slug,
		Name:     snapshot.Name,
		Currency: strings.ToUpper(strings.TrimSpace(snapshot.Currency)),
		Policy: availability.Policy{
			LowStockThreshold: s.defaults.LowStockThreshold,
			NewWindow:         s.defaults.NewProductWindow(),
		},
	}
	if settings.Currency == "" {
		settings.Currency = s.defaults.Currency
	}
	if snapshot.LowStockThreshold > 0 {
		settings.Policy.LowStockThreshold = snapshot.LowStockThreshold
	}
	if snapshot.FreeShippingThreshold != "" {
		if threshold, err := decimal.NewFromString(snapshot.FreeShippingThreshold); err == nil {
			settings.FreeShippingThreshold = &threshold
		} else {
			logger.Warnw("storefront_free_shipping_threshold_invalid", "tenant_id", snapshot.Slug, "value", snapshot.FreeShippingThreshold)
		}
	}
	return settings
}

// ListProducts 店铺商品卡片列表
func (s *StorefrontService) ListProducts(ctx context.Context, tenantID string, page, pageSize int, search string) ([]ProductCard, int64, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}
	products, total, err := s.productRepo.List(repository.ProductListFilter{
		TenantID:   settings.Slug,
		Page:       page,
		PageSize:   pageSize,
		Search:     search,
		OnlyActive: true,
	})
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	cards := make([]ProductCard, 0, len(products))
	for i := range products {
		cards = append(cards, s.buildCard(&products[i], settings, now))
	}
	return cards, total, nil
}

// GetProduct 商品详情（含规格视图）
func (s *StorefrontService) GetProduct(ctx context.Context, tenantID, slug string) (*ProductDetail, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetBySlug(settings.Slug, strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	view := s.ProductView(product)
	detail := &ProductDetail{
		ProductCard: s.buildCard(product, settings, s.now()),
		Images:      []string(product.Images),
	}
	if !view.IsEmpty() {
		detail.Variants = buildVariantPayload(view, product, settings.Currency)
	}
	return detail, nil
}

// ProductView 商品规格视图（按 ID + 商品与规格行的版本缓存）
func (s *StorefrontService) ProductView(product *models.Product) *variant.View {
	if product == nil {
		return nil
	}
	src := variantSource(product)
	return s.views.Get(product.ID, variant.StampOf(latestUpdatedAt(product), src), func() *variant.View {
		view := variant.Normalize(src)
		if view != nil && view.IsEmpty() {
			logger.Warnw("product_variant_data_malformed", "tenant_id", product.TenantID, "product_id", product.ID)
		} else if view != nil && view.Skipped > 0 {
			logger.Warnw("product_variant_records_skipped", "tenant_id", product.TenantID, "product_id", product.ID, "skipped", view.Skipped)
		}
		return view
	})
}

// latestUpdatedAt 商品行与规格行中最近的更新时间
func latestUpdatedAt(product *models.Product) time.Time {
	latest := product.UpdatedAt
	for _, v := range product.Variants {
		if v.UpdatedAt.After(latest) {
			latest = v.UpdatedAt
		}
	}
	return latest
}

func (s *StorefrontService) buildCard(product *models.Product, settings *StorefrontSettings, now time.Time) ProductCard {
	view := s.ProductView(product)
	price := product.PriceAmount.Decimal
	original := product.OriginalPriceAmount.DecimalPtr()
	state := availability.Derive(availability.Subject{
		Price:         price,
		OriginalPrice: original,
		Stock:         product.Stock,
		CreatedAt:     product.CreatedAt,
		View:          view,
	}, now, settings.Policy)

	card := ProductCard{
		ID:           product.ID,
		Slug:         product.Slug,
		Name:         product.Name,
		Image:        product.CoverImage(),
		Currency:     settings.Currency,
		Price:        product.PriceAmount,
		PriceText:    formatMoney(price, settings.Currency),
		HasVariants:  !view.IsEmpty(),
		Availability: state,
	}
	if state.OnSale {
		card.OriginalPrice = product.OriginalPriceAmount
		card.OriginalPriceText = formatMoney(*original, settings.Currency)
	}
	return card
}

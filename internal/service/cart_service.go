package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/checkout"
	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/models"
	"github.com/bioshop-next/internal/pricing"
	"github.com/bioshop-next/internal/repository"
	"github.com/bioshop-next/internal/variant"
)

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	TenantID  string
	CartID    string
	ProductID uint
	// Variant 组合键，与 Selection 二选一
	Variant   string
	Selection variant.Selection
	Qty       int
}

// CartLineDetail 购物车行详情（用于响应）
type CartLineDetail struct {
	cart.Item
	Subtotal     models.Money `json:"subtotal"`
	PriceText    string       `json:"priceText"`
	Available    bool         `json:"available"`
	AvailableQty int          `json:"availableQty"`
}

// CartDetail 购物车详情（用于响应）
type CartDetail struct {
	CartID    string           `json:"cartId"`
	TenantID  string           `json:"tenantId"`
	Currency  string           `json:"currency"`
	Items     []CartLineDetail `json:"items"`
	Count     int              `json:"count"`
	Total     models.Money     `json:"total"`
	TotalText string           `json:"totalText"`
}

// CartService 购物车服务
type CartService struct {
	store       cart.Store
	productRepo repository.ProductRepository
	storefronts *StorefrontService
	maxLineQty  int
	locks       *keyedMutex
}

// NewCartService 创建购物车服务
func NewCartService(store cart.Store, productRepo repository.ProductRepository, storefronts *StorefrontService, maxLineQty int) *CartService {
	if maxLineQty <= 0 {
		maxLineQty = constants.DefaultMaxLineQuantity
	}
	return &CartService{
		store:       store,
		productRepo: productRepo,
		storefronts: storefronts,
		maxLineQty:  maxLineQty,
		locks:       newKeyedMutex(),
	}
}

// resolvedLine 校验通过的加购目标
type resolvedLine struct {
	item  cart.Item
	limit int
}

// lockCart 锁定单个购物车，返回解锁函数
func (s *CartService) lockCart(tenantID, cartID string) func() {
	return s.locks.Lock(tenantID + "\x00" + cartID)
}

// withCart 串行执行同一购物车的读改写
func (s *CartService) withCart(ctx context.Context, tenantID, cartID string, fn func(c cart.Cart) (cart.Cart, bool, error)) (cart.Cart, error) {
	unlock := s.lockCart(tenantID, cartID)
	defer unlock()

	current, err := s.load(ctx, tenantID, cartID)
	if err != nil {
		return cart.Cart{}, err
	}
	next, changed, err := fn(current)
	if err != nil {
		return current, err
	}
	if !changed {
		return current, nil
	}
	if err := s.store.Save(ctx, tenantID, cartID, next); err != nil {
		return current, err
	}
	return next, nil
}

func (s *CartService) load(ctx context.Context, tenantID, cartID string) (cart.Cart, error) {
	c, err := s.store.Load(ctx, tenantID, cartID)
	if err != nil {
		if !errors.Is(err, cart.ErrMalformedCart) && !errors.Is(err, cart.ErrUnsupportedSchema) {
			return cart.Cart{}, err
		}
		logger.Warnw("cart_payload_discarded", "tenant_id", tenantID, "cart_id", cartID, "error", err)
		return cart.New(tenantID), nil
	}
	return c, nil
}

func normalizeCartRef(tenantID, cartID string) (string, string, error) {
	tenantID = strings.TrimSpace(tenantID)
	cartID = strings.TrimSpace(cartID)
	if cartID == "" || len(cartID) > 64 {
		return tenantID, cartID, ErrInvalidCartID
	}
	return tenantID, cartID, nil
}

// GetCart 获取购物车详情（附带每行当前可用性，不修改购物车）
func (s *CartService) GetCart(ctx context.Context, tenantID, cartID string) (*CartDetail, error) {
	tenantID, cartID, err := normalizeCartRef(tenantID, cartID)
	if err != nil {
		return nil, err
	}
	settings, err := s.storefronts.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, tenantID, cartID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(c, cartID, settings), nil
}

// AddItem 加购：按当前规格视图校验后合并到购物车
func (s *CartService) AddItem(ctx context.Context, input AddCartItemInput) (*CartDetail, error) {
	tenantID, cartID, err := normalizeCartRef(input.TenantID, input.CartID)
	if err != nil {
		return nil, err
	}
	if input.ProductID == 0 {
		return nil, ErrProductNotFound
	}
	if input.Qty < 1 {
		return nil, cart.ErrInvalidQuantity
	}
	settings, err := s.storefronts.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(tenantID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}
	line, err := s.resolveLine(product, input.Variant, input.Selection, settings.Currency)
	if err != nil {
		return nil, err
	}
	line.item.Qty = input.Qty

	updated, err := s.withCart(ctx, tenantID, cartID, func(c cart.Cart) (cart.Cart, bool, error) {
		inCart := 0
		if existing, ok := cart.Find(c, line.item.ProductID, line.item.Variant); ok {
			inCart = existing.Qty
		}
		if err := s.checkQuantity(inCart+input.Qty, line.limit); err != nil {
			return c, false, err
		}
		next, err := cart.Add(c, line.item)
		return next, err == nil, err
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("cart_item_added",
		"tenant_id", tenantID,
		"cart_id", cartID,
		"product_id", line.item.ProductID,
		"variant", line.item.Variant,
		"qty", input.Qty,
	)
	return s.buildDetail(updated, cartID, settings), nil
}

// UpdateItemQty 调整行数量，减到 0 时删除；行不存在时不做任何修改
func (s *CartService) UpdateItemQty(ctx context.Context, tenantID, cartID string, productID uint, variantKey string, delta int) (*CartDetail, error) {
	tenantID, cartID, err := normalizeCartRef(tenantID, cartID)
	if err != nil {
		return nil, err
	}
	settings, err := s.storefronts.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	updated, err := s.withCart(ctx, tenantID, cartID, func(c cart.Cart) (cart.Cart, bool, error) {
		existing, ok := cart.Find(c, productID, variantKey)
		if !ok || delta == 0 {
			return c, false, nil
		}
		if delta > 0 {
			limit, err := s.currentLimit(tenantID, productID, variantKey)
			if err != nil {
				return c, false, err
			}
			if err := s.checkQuantity(existing.Qty+delta, limit); err != nil {
				return c, false, err
			}
		}
		return cart.UpdateQty(c, productID, variantKey, delta), true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildDetail(updated, cartID, settings), nil
}

// RemoveItem 删除行
func (s *CartService) RemoveItem(ctx context.Context, tenantID, cartID string, productID uint, variantKey string) (*CartDetail, error) {
	tenantID, cartID, err := normalizeCartRef(tenantID, cartID)
	if err != nil {
		return nil, err
	}
	settings, err := s.storefronts.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	updated, err := s.withCart(ctx, tenantID, cartID, func(c cart.Cart) (cart.Cart, bool, error) {
		if _, ok := cart.Find(c, productID, variantKey); !ok {
			return c, false, nil
		}
		return cart.Remove(c, productID, variantKey), true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildDetail(updated, cartID, settings), nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, tenantID, cartID string) error {
	tenantID, cartID, err := normalizeCartRef(tenantID, cartID)
	if err != nil {
		return err
	}
	unlock := s.lockCart(tenantID, cartID)
	defer unlock()
	return s.store.Delete(ctx, tenantID, cartID)
}

func (s *CartService) checkQuantity(total, limit int) error {
	if total > limit {
		return ErrStockExceeded
	}
	if total > s.maxLineQty {
		return ErrLineQuantityExceeded
	}
	return nil
}

// resolveLine 解析加购目标：规格商品必须选中可见且有库存的组合
func (s *CartService) resolveLine(product *models.Product, variantKey string, selection variant.Selection, currency string) (resolvedLine, error) {
	item := cart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     pricing.RoundForDisplay(product.PriceAmount.Decimal, currency),
		Image:     product.CoverImage(),
	}
	view := s.storefronts.ProductView(product)
	if view.IsEmpty() {
		if strings.TrimSpace(variantKey) != "" || len(selection) > 0 {
			return resolvedLine{}, ErrVariantUnavailable
		}
		limit := 0
		if product.Stock != nil {
			limit = *product.Stock
		}
		if limit <= 0 {
			return resolvedLine{}, ErrProductNotAvailable
		}
		return resolvedLine{item: item, limit: limit}, nil
	}

	key := strings.TrimSpace(variantKey)
	if key == "" {
		resolved, err := view.KeyFor(selection)
		if err != nil {
			return resolvedLine{}, err
		}
		key = resolved
	}
	combo, ok := view.Lookup(key)
	if !ok || !combo.Available() {
		return resolvedLine{}, ErrVariantUnavailable
	}
	item.Variant = key
	item.VariantLabel = key
	if meta, ok := view.Meta(key); ok {
		item.VariantID = meta.VariantID
		if meta.Label != "" {
			item.VariantLabel = meta.Label
		}
		item.Price = pricing.RoundForDisplay(unitPrice(product, meta), currency)
	}
	return resolvedLine{item: item, limit: combo.Qty}, nil
}

// currentLimit 当前可加购上限，商品或组合不可用时返回错误
func (s *CartService) currentLimit(tenantID string, productID uint, variantKey string) (int, error) {
	product, err := s.productRepo.GetByID(tenantID, productID)
	if err != nil {
		return 0, err
	}
	if product == nil || !product.IsActive {
		return 0, ErrProductNotAvailable
	}
	available, qty := s.lineAvailability(product, variantKey)
	if !available {
		return 0, ErrVariantUnavailable
	}
	return qty, nil
}

// lineAvailability 行对应的组合（或商品）当前是否可售及库存
func (s *CartService) lineAvailability(product *models.Product, variantKey string) (bool, int) {
	view := s.storefronts.ProductView(product)
	if view.IsEmpty() {
		if variantKey != "" || product.Stock == nil || *product.Stock <= 0 {
			return false, 0
		}
		return true, *product.Stock
	}
	combo, _ := view.Lookup(variantKey)
	if !combo.Available() {
		return false, 0
	}
	return true, combo.Qty
}

func (s *CartService) buildDetail(c cart.Cart, cartID string, settings *StorefrontSettings) *CartDetail {
	total := checkout.Subtotal(c.Items, settings.Currency)
	detail := &CartDetail{
		CartID:    cartID,
		TenantID:  settings.Slug,
		Currency:  settings.Currency,
		Items:     make([]CartLineDetail, 0, len(c.Items)),
		Count:     cart.Count(c),
		Total:     models.NewMoneyFromDecimal(total),
		TotalText: formatMoney(total, settings.Currency),
	}
	products := make(map[uint]*models.Product)
	for _, item := range checkout.RoundItems(c.Items, settings.Currency) {
		line := CartLineDetail{
			Item:      item,
			Subtotal:  models.NewMoneyFromDecimal(item.Subtotal()),
			PriceText: formatMoney(item.Price, settings.Currency),
		}
		product, seen := products[item.ProductID]
		if !seen {
			loaded, err := s.productRepo.GetByID(settings.Slug, item.ProductID)
			if err != nil {
				logger.Warnw("cart_line_product_load_failed", "tenant_id", settings.Slug, "product_id", item.ProductID, "error", err)
			}
			product = loaded
			products[item.ProductID] = product
		}
		if product != nil && product.IsActive {
			available, qty := s.lineAvailability(product, item.Variant)
			line.Available = available && item.Qty <= qty
			line.AvailableQty = qty
		}
		detail.Items = append(detail.Items, line)
	}
	return detail
}

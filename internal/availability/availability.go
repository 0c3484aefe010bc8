package availability

import (
	"time"

	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/pricing"
	"github.com/bioshop-next/internal/variant"

	"github.com/shopspring/decimal"
)

// Policy 展示策略阈值
type Policy struct {
	LowStockThreshold int
	NewWindow         time.Duration
}

// DefaultPolicy 默认策略：库存 ≤ 3 为紧张，14 天内为新品
func DefaultPolicy() Policy {
	return Policy{
		LowStockThreshold: constants.DefaultLowStockThreshold,
		NewWindow:         time.Duration(constants.DefaultNewProductDays) * 24 * time.Hour,
	}
}

func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.LowStockThreshold <= 0 {
		p.LowStockThreshold = def.LowStockThreshold
	}
	if p.NewWindow <= 0 {
		p.NewWindow = def.NewWindow
	}
	return p
}

// Subject 可用性推导所需的商品字段
type Subject struct {
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	// Stock 无规格商品的库存，nil 视为 0
	Stock     *int
	CreatedAt time.Time
	View      *variant.View
}

// usesView 规格视图非空时以视图为准，否则只看商品库存
func (s Subject) usesView() bool {
	return !s.View.IsEmpty()
}

// IsSoldOut 可见组合库存合计为 0（或无规格商品库存 ≤ 0）
func IsSoldOut(s Subject) bool {
	if s.usesView() {
		return s.View.TotalAvailable() == 0
	}
	return s.Stock == nil || *s.Stock <= 0
}

// AvailableStock 商品可售总量
func AvailableStock(s Subject) int {
	if s.usesView() {
		return s.View.TotalAvailable()
	}
	if s.Stock == nil || *s.Stock < 0 {
		return 0
	}
	return *s.Stock
}

// LowStockCount 可见组合中最小正库存不超过阈值时返回该值，否则 nil
//
// 仅用于商品卡片徽章，不参与加购校验。
func LowStockCount(view *variant.View, threshold int) *int {
	if threshold <= 0 {
		threshold = constants.DefaultLowStockThreshold
	}
	min, ok := view.MinAvailable()
	if !ok || min > threshold {
		return nil
	}
	return &min
}

// lowStockForSubject 无规格商品按商品库存判断
func lowStockForSubject(s Subject, threshold int) *int {
	if s.usesView() {
		return LowStockCount(s.View, threshold)
	}
	if s.Stock == nil || *s.Stock <= 0 || *s.Stock > threshold {
		return nil
	}
	count := *s.Stock
	return &count
}

// StepperMax 规格弹层中数量步进器的上限：仅看当前选中的组合
func StepperMax(view *variant.View, key string, stock *int) int {
	if view.IsEmpty() {
		if stock == nil || *stock < 0 {
			return 0
		}
		return *stock
	}
	combo, _ := view.Lookup(key)
	if !combo.Available() {
		return 0
	}
	return combo.Qty
}

// IsNew 创建时间在新品窗口内
func IsNew(createdAt, now time.Time, window time.Duration) bool {
	if createdAt.IsZero() {
		return false
	}
	if window <= 0 {
		window = DefaultPolicy().NewWindow
	}
	age := now.Sub(createdAt)
	return age >= 0 && age <= window
}

// Badge 商品徽章
type Badge struct {
	Type    string `json:"type"`
	Percent int    `json:"percent,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// State 商品展示状态
type State struct {
	SoldOut         bool    `json:"sold_out"`
	AvailableStock  int     `json:"available_stock"`
	LowStockCount   *int    `json:"low_stock_count"`
	IsNew           bool    `json:"is_new"`
	OnSale          bool    `json:"on_sale"`
	DiscountPercent int     `json:"discount_percent"`
	Badges          []Badge `json:"badges"`
}

// Derive 计算商品展示状态与徽章
//
// 徽章优先级：折扣 > 库存紧张 > 新品；同时促销且库存紧张时不显示新品，最多两个徽章。
// 售罄时以售罄徽章替代库存与新品徽章。
func Derive(s Subject, now time.Time, policy Policy) State {
	policy = policy.normalized()
	state := State{
		SoldOut:         IsSoldOut(s),
		AvailableStock:  AvailableStock(s),
		IsNew:           IsNew(s.CreatedAt, now, policy.NewWindow),
		OnSale:          pricing.IsOnSale(s.Price, s.OriginalPrice),
		DiscountPercent: pricing.DiscountPercent(s.Price, s.OriginalPrice),
	}
	if !state.SoldOut {
		state.LowStockCount = lowStockForSubject(s, policy.LowStockThreshold)
	}

	badges := make([]Badge, 0, 2)
	if state.OnSale && state.DiscountPercent > 0 {
		badges = append(badges, Badge{Type: constants.BadgeTypeDiscount, Percent: state.DiscountPercent})
	}
	if state.SoldOut {
		badges = append(badges, Badge{Type: constants.BadgeTypeSoldOut})
		state.Badges = badges
		return state
	}
	if state.LowStockCount != nil {
		badges = append(badges, Badge{Type: constants.BadgeTypeLowStock, Count: *state.LowStockCount})
	}
	suppressNew := state.OnSale && state.LowStockCount != nil
	if state.IsNew && !suppressNew {
		badges = append(badges, Badge{Type: constants.BadgeTypeNew})
	}
	state.Badges = badges
	return state
}

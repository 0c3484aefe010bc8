package cart

import (
	"errors"
	"strings"

	"github.com/bioshop-next/internal/constants"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity 加购数量必须 ≥ 1
	ErrInvalidQuantity = errors.New("cart item quantity must be at least 1")
	// ErrInvalidItem 购物车项缺少商品
	ErrInvalidItem = errors.New("cart item invalid")
)

// Item 购物车行
//
// 行身份为 (ProductID, Variant)；Variant 为空表示无规格商品，与任何非空规格键都不同。
type Item struct {
	ProductID    uint            `json:"productId"`
	Variant      string          `json:"variant,omitempty"`
	VariantLabel string          `json:"variantLabel,omitempty"`
	VariantID    uint            `json:"variantId,omitempty"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image,omitempty"`
	Qty          int             `json:"qty"`
}

// LineKey 购物车行身份
type LineKey struct {
	ProductID uint
	Variant   string
}

// Key 返回行身份
func (i Item) Key() LineKey {
	return LineKey{ProductID: i.ProductID, Variant: i.Variant}
}

// Subtotal 行小计（快照单价 × 数量）
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Cart 租户购物车（值类型，所有操作返回新值）
type Cart struct {
	SchemaVersion int    `json:"schemaVersion"`
	TenantID      string `json:"tenantId"`
	Items         []Item `json:"items"`
}

// New 创建空购物车
func New(tenantID string) Cart {
	return Cart{
		SchemaVersion: constants.CartSchemaVersion,
		TenantID:      strings.TrimSpace(tenantID),
		Items:         []Item{},
	}
}

// Clear 返回租户的空购物车
func Clear(tenantID string) Cart {
	return New(tenantID)
}

// Add 加购：同一行累加数量并保留原快照，否则追加到末尾
func Add(c Cart, item Item) (Cart, error) {
	if item.ProductID == 0 {
		return c, ErrInvalidItem
	}
	if item.Qty < 1 {
		return c, ErrInvalidQuantity
	}
	next := c.clone()
	if idx := next.indexOf(item.Key()); idx >= 0 {
		next.Items[idx].Qty += item.Qty
		return next, nil
	}
	next.Items = append(next.Items, item)
	return next, nil
}

// UpdateQty 调整数量，结果 ≤ 0 时删除该行；行不存在时原样返回
func UpdateQty(c Cart, productID uint, variant string, delta int) Cart {
	idx := c.indexOf(LineKey{ProductID: productID, Variant: variant})
	if idx < 0 {
		return c
	}
	next := c.clone()
	qty := next.Items[idx].Qty + delta
	if qty <= 0 {
		next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
		return next
	}
	next.Items[idx].Qty = qty
	return next
}

// Remove 删除行
func Remove(c Cart, productID uint, variant string) Cart {
	idx := c.indexOf(LineKey{ProductID: productID, Variant: variant})
	if idx < 0 {
		return c
	}
	next := c.clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	return next
}

// Find 查找行
func Find(c Cart, productID uint, variant string) (Item, bool) {
	idx := c.indexOf(LineKey{ProductID: productID, Variant: variant})
	if idx < 0 {
		return Item{}, false
	}
	return c.Items[idx], true
}

// Count 商品件数合计
func Count(c Cart) int {
	count := 0
	for _, item := range c.Items {
		count += item.Qty
	}
	return count
}

// Total 按快照单价计算的合计
func Total(c Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsEmpty 购物车是否为空
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) indexOf(key LineKey) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	items := make([]Item, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	c.Items = items
	if c.SchemaVersion == 0 {
		c.SchemaVersion = constants.CartSchemaVersion
	}
	return c
}

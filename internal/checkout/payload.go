package checkout

import (
	"errors"
	"strings"
	"time"

	"github.com/bioshop-next/internal/cart"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart 空购物车不可提交
	ErrEmptyCart = errors.New("cart is empty")
	// ErrQuoteNotReady 报价存在未解决的配送问题
	ErrQuoteNotReady = errors.New("checkout quote not ready")
)

// Customer 下单联系人（仅透传）
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Note    string `json:"note,omitempty"`
}

// OrderLine 提交订单行
type OrderLine struct {
	ProductID    uint            `json:"product_id"`
	VariantID    uint            `json:"variant_id,omitempty"`
	Variant      string          `json:"variant,omitempty"`
	VariantLabel string          `json:"variant_label,omitempty"`
	Name         string          `json:"name"`
	Qty          int             `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// OrderPayload 交给外部下单服务的载荷
type OrderPayload struct {
	Reference           string          `json:"reference"`
	TenantID            string          `json:"tenant_id"`
	CartID              string          `json:"cart_id"`
	Currency            string          `json:"currency"`
	Customer            Customer        `json:"customer"`
	Lines               []OrderLine     `json:"lines"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryOptionID    string          `json:"delivery_option_id"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	FreeShippingApplied bool            `json:"free_shipping_applied"`
	Total               decimal.Decimal `json:"total"`
	SubmittedAt         time.Time       `json:"submitted_at"`
}

// OrderMeta 载荷附加信息
type OrderMeta struct {
	Reference   string
	CartID      string
	Currency    string
	Customer    Customer
	SubmittedAt time.Time
}

// BuildOrderPayload 由购物车与报价生成提交载荷
func BuildOrderPayload(c cart.Cart, quote Quote, meta OrderMeta) (OrderPayload, error) {
	if c.IsEmpty() {
		return OrderPayload{}, ErrEmptyCart
	}
	if !quote.Ready() {
		return OrderPayload{}, ErrQuoteNotReady
	}
	lines := make([]OrderLine, 0, len(c.Items))
	for _, item := range RoundItems(c.Items, meta.Currency) {
		lines = append(lines, OrderLine{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			Variant:      item.Variant,
			VariantLabel: item.VariantLabel,
			Name:         item.Name,
			Qty:          item.Qty,
			UnitPrice:    item.Price,
			LineTotal:    item.Subtotal(),
		})
	}
	return OrderPayload{
		Reference:           meta.Reference,
		TenantID:            c.TenantID,
		CartID:              meta.CartID,
		Currency:            strings.ToUpper(strings.TrimSpace(meta.Currency)),
		Customer:            meta.Customer,
		Lines:               lines,
		Subtotal:            quote.Subtotal,
		DeliveryOptionID:    quote.DeliveryOptionID,
		DeliveryFee:         quote.DeliveryFee,
		FreeShippingApplied: quote.FreeShippingApplied,
		Total:               quote.Total,
		SubmittedAt:         meta.SubmittedAt,
	}, nil
}

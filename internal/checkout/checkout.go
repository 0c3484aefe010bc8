package checkout

import (
	"strings"

	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/pricing"

	"github.com/shopspring/decimal"
)

// DeliveryOption 配送方式
type DeliveryOption struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Fee     decimal.Decimal `json:"fee"`
	Enabled bool            `json:"enabled"`
}

// Input 结算输入
type Input struct {
	Items      []cart.Item
	Options    []DeliveryOption
	SelectedID string
	// FreeShippingThreshold 为 nil 时不免运费
	FreeShippingThreshold *decimal.Decimal
	// Currency 决定单价与运费的取整精度
	Currency string
}

// Quote 结算报价
type Quote struct {
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryOptionID    string          `json:"delivery_option_id,omitempty"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	NominalDeliveryFee  decimal.Decimal `json:"nominal_delivery_fee"`
	Total               decimal.Decimal `json:"total"`
	FreeShippingApplied bool            `json:"free_shipping_applied"`
	Condition           string          `json:"condition,omitempty"`
}

// Ready 报价可提交
func (q Quote) Ready() bool {
	return q.Condition == constants.CheckoutConditionNone
}

// Calculate 计算小计、运费与合计
//
// 未选择或选择了不存在/停用的配送方式时运费记 0 并返回对应状态，不会自动改选其他方式。
func Calculate(in Input) Quote {
	subtotal := Subtotal(in.Items, in.Currency)
	quote := Quote{
		Subtotal:           subtotal,
		DeliveryFee:        decimal.Zero,
		NominalDeliveryFee: decimal.Zero,
		Total:              subtotal,
	}

	selected := strings.TrimSpace(in.SelectedID)
	if selected == "" {
		quote.Condition = constants.CheckoutConditionDeliveryNotSelected
		return quote
	}
	option, ok := findEnabled(in.Options, selected)
	if !ok {
		quote.Condition = constants.CheckoutConditionDeliveryUnavailable
		return quote
	}

	quote.DeliveryOptionID = option.ID
	fee := pricing.RoundForDisplay(option.Fee, in.Currency)
	quote.NominalDeliveryFee = fee
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	if in.FreeShippingThreshold != nil && fee.IsPositive() && subtotal.GreaterThanOrEqual(*in.FreeShippingThreshold) {
		fee = decimal.Zero
		quote.FreeShippingApplied = true
	}
	quote.DeliveryFee = fee
	quote.Total = subtotal.Add(fee)
	return quote
}

// RoundItems 按币种展示精度取整单价，返回副本
func RoundItems(items []cart.Item, currency string) []cart.Item {
	rounded := make([]cart.Item, len(items))
	for i, item := range items {
		item.Price = pricing.RoundForDisplay(item.Price, currency)
		rounded[i] = item
	}
	return rounded
}

// Subtotal 以取整后的单价计算小计，与逐行展示的金额一致
func Subtotal(items []cart.Item, currency string) decimal.Decimal {
	return cart.Total(cart.Cart{Items: RoundItems(items, currency)})
}

// EnabledOptions 过滤出可选配送方式
func EnabledOptions(options []DeliveryOption) []DeliveryOption {
	result := make([]DeliveryOption, 0, len(options))
	for _, opt := range options {
		if opt.Enabled {
			result = append(result, opt)
		}
	}
	return result
}

func findEnabled(options []DeliveryOption, id string) (DeliveryOption, bool) {
	for _, opt := range options {
		if opt.ID == id && opt.Enabled {
			return opt, true
		}
	}
	return DeliveryOption{}, false
}

package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

// wholeNumberCurrencies 以整数展示的币种（金额本身即展示单位）
var wholeNumberCurrencies = map[string]bool{
	"HKD": true,
	"TWD": true,
	"JPY": true,
	"KRW": true,
}

var currencySymbols = map[string]string{
	"HKD": "HK$",
	"TWD": "NT$",
	"USD": "US$",
	"CNY": "¥",
	"JPY": "¥",
	"KRW": "₩",
	"EUR": "€",
	"GBP": "£",
	"SGD": "S$",
	"MOP": "MOP$",
}

var numberPrinter = message.NewPrinter(language.English)

// IsOnSale 原价存在且严格高于现价
func IsOnSale(price decimal.Decimal, originalPrice *decimal.Decimal) bool {
	if originalPrice == nil {
		return false
	}
	return originalPrice.GreaterThan(price)
}

// DiscountPercent 折扣百分比，四舍五入到整数；非促销返回 0
func DiscountPercent(price decimal.Decimal, originalPrice *decimal.Decimal) int {
	if !IsOnSale(price, originalPrice) || !originalPrice.IsPositive() {
		return 0
	}
	ratio := price.Div(*originalPrice)
	percent := decimal.NewFromInt(1).Sub(ratio).Mul(hundred).Round(0)
	return int(percent.IntPart())
}

// DisplayScale 币种展示的小数位数
func DisplayScale(currencyCode string) int32 {
	if wholeNumberCurrencies[normalizeCode(currencyCode)] {
		return 0
	}
	return 2
}

// RoundForDisplay 按币种展示精度四舍五入，合计与展示共用同一规则
func RoundForDisplay(amount decimal.Decimal, currencyCode string) decimal.Decimal {
	return amount.Round(DisplayScale(currencyCode))
}

// FormatPrice 格式化金额，例如 HK$1,299
func FormatPrice(amount decimal.Decimal, currencyCode string) string {
	code := normalizeCode(currencyCode)
	scale := DisplayScale(code)
	rounded := amount.Round(scale)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	var body string
	if scale == 0 {
		body = numberPrinter.Sprintf("%d", rounded.IntPart())
	} else {
		fixed := rounded.StringFixed(scale)
		intPart, fracPart, _ := strings.Cut(fixed, ".")
		whole := decimal.RequireFromString(intPart).IntPart()
		body = numberPrinter.Sprintf("%d", whole) + "." + fracPart
	}
	return sign + symbolFor(code) + body
}

func symbolFor(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	if _, err := currency.ParseISO(code); err != nil || code == "" {
		return ""
	}
	return code + " "
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

package shared

// messages 错误键对应的提示文案
var messages = map[string]string{
	"error.bad_request":                  "invalid request",
	"error.rate_limited":                 "too many requests, please retry later",
	"error.internal":                     "internal server error",
	"error.storefront_not_found":         "storefront not found",
	"error.product_not_found":            "product not found",
	"error.product_not_available":        "product is not available",
	"error.variant_selection_incomplete": "please choose every option",
	"error.variant_option_unknown":       "selected option does not exist",
	"error.variant_unavailable":          "selected option is unavailable",
	"error.stock_exceeded":               "requested quantity exceeds stock",
	"error.line_quantity_exceeded":       "requested quantity exceeds the per-item limit",
	"error.quantity_invalid":             "quantity must be at least 1",
	"error.cart_id_invalid":              "cart id is invalid",
	"error.cart_empty":                   "cart is empty",
	"error.cart_line_unavailable":        "some items are no longer available",
	"error.delivery_option_unavailable":  "delivery option is unavailable",
	"error.order_submit_failed":          "order could not be submitted",
	"error.cart_fetch_failed":            "failed to load cart",
	"error.cart_update_failed":           "failed to update cart",
	"error.product_fetch_failed":         "failed to load products",
	"error.checkout_failed":              "checkout failed",
}

// Message 返回错误键对应的文案，未知键原样返回
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}

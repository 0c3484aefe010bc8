package service

import "errors"

var (
	ErrStorefrontNotFound        = errors.New("storefront not found")
	ErrProductNotFound           = errors.New("product not found")
	ErrProductNotAvailable       = errors.New("product not available")
	ErrVariantUnavailable        = errors.New("variant unavailable")
	ErrStockExceeded             = errors.New("requested quantity exceeds stock")
	ErrLineQuantityExceeded      = errors.New("requested quantity exceeds line limit")
	ErrInvalidCartID             = errors.New("cart id invalid")
	ErrCartEmpty                 = errors.New("cart is empty")
	ErrCartLineUnavailable       = errors.New("cart contains unavailable items")
	ErrDeliveryOptionUnavailable = errors.New("delivery option unavailable")
	ErrOrderSubmitFailed         = errors.New("order submit failed")
)

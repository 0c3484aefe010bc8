package public

import (
	"errors"

	"github.com/bioshop-next/internal/cart"
	handlershared "github.com/bioshop-next/internal/http/handlers/shared"
	"github.com/bioshop-next/internal/http/response"
	"github.com/bioshop-next/internal/service"
	"github.com/bioshop-next/internal/variant"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var storefrontErrorRules = []mappedHandlerError{
	{target: service.ErrStorefrontNotFound, code: response.CodeNotFound, key: "error.storefront_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCartID, code: response.CodeBadRequest, key: "error.cart_id_invalid"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrVariantUnavailable, code: response.CodeBadRequest, key: "error.variant_unavailable"},
	{target: variant.ErrIncompleteSelection, code: response.CodeBadRequest, key: "error.variant_selection_incomplete"},
	{target: variant.ErrUnknownOption, code: response.CodeBadRequest, key: "error.variant_option_unknown"},
	{target: variant.ErrNoVariants, code: response.CodeBadRequest, key: "error.variant_unavailable"},
	{target: service.ErrStockExceeded, code: response.CodeConflict, key: "error.stock_exceeded"},
	{target: service.ErrLineQuantityExceeded, code: response.CodeBadRequest, key: "error.line_quantity_exceeded"},
	{target: cart.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: cart.ErrInvalidItem, code: response.CodeBadRequest, key: "error.bad_request"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCartLineUnavailable, code: response.CodeConflict, key: "error.cart_line_unavailable"},
	{target: service.ErrDeliveryOptionUnavailable, code: response.CodeBadRequest, key: "error.delivery_option_unavailable"},
	{target: service.ErrOrderSubmitFailed, code: response.CodeServiceUnavailable, key: "error.order_submit_failed"},
}

func respondStorefrontError(c *gin.Context, err error) {
	respondWithMappedError(c, err, storefrontErrorRules, response.CodeInternal, "error.product_fetch_failed")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(storefrontErrorRules, cartErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(storefrontErrorRules, cartErrorRules, checkoutErrorRules), response.CodeInternal, "error.checkout_failed")
}

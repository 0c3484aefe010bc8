package public

import (
	"strings"

	"github.com/bioshop-next/internal/checkout"
	handlershared "github.com/bioshop-next/internal/http/handlers/shared"
	"github.com/bioshop-next/internal/http/response"
	"github.com/bioshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// QuoteRequest 结算报价请求
type QuoteRequest struct {
	DeliveryOptionID string `json:"delivery_option_id"`
}

// CustomerRequest 收货信息
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
	Note    string `json:"note"`
}

// SubmitOrderRequest 提交订单请求
type SubmitOrderRequest struct {
	DeliveryOptionID string          `json:"delivery_option_id" binding:"required"`
	Customer         CustomerRequest `json:"customer" binding:"required"`
}

// QuoteCheckout 计算结算报价
func (h *Handler) QuoteCheckout(c *gin.Context) {
	var req QuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}
	cartID := handlershared.ResolveCartID(c)
	quote, err := h.CheckoutService.Quote(c.Request.Context(), handlershared.TenantID(c), cartID, req.DeliveryOptionID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, quote)
}

// SubmitCheckout 提交订单
func (h *Handler) SubmitCheckout(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cartID := handlershared.ResolveCartID(c)
	result, err := h.CheckoutService.Submit(c.Request.Context(), service.SubmitOrderInput{
		TenantID:         handlershared.TenantID(c),
		CartID:           cartID,
		DeliveryOptionID: req.DeliveryOptionID,
		Customer: checkout.Customer{
			Name:    strings.TrimSpace(req.Customer.Name),
			Phone:   strings.TrimSpace(req.Customer.Phone),
			Address: strings.TrimSpace(req.Customer.Address),
			Note:    strings.TrimSpace(req.Customer.Note),
		},
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("checkout_submit_accepted", "reference", result.Reference, "queued", result.Queued)
	response.Success(c, result)
}

package public

import (
	handlershared "github.com/bioshop-next/internal/http/handlers/shared"
	"github.com/bioshop-next/internal/http/response"
	"github.com/bioshop-next/internal/service"
	"github.com/bioshop-next/internal/variant"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// AddCartItemRequest 加购请求，variant 与 selection 二选一
type AddCartItemRequest struct {
	ProductID uint              `json:"product_id" binding:"required"`
	Variant   string            `json:"variant"`
	Selection map[string]string `json:"selection"`
	Qty       int               `json:"qty" binding:"required"`
}

// UpdateCartItemRequest 调整数量请求
type UpdateCartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Variant   string `json:"variant"`
	Delta     int    `json:"delta" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	cartID := handlershared.ResolveCartID(c)
	detail, err := h.CartService.GetCart(c.Request.Context(), handlershared.TenantID(c), cartID)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(storefrontErrorRules, cartErrorRules), response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, detail)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cartID := handlershared.ResolveCartID(c)
	detail, err := h.CartService.AddItem(c.Request.Context(), service.AddCartItemInput{
		TenantID:  handlershared.TenantID(c),
		CartID:    cartID,
		ProductID: req.ProductID,
		Variant:   req.Variant,
		Selection: variant.Selection(req.Selection),
		Qty:       req.Qty,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, detail)
}

// UpdateCartItem 按增量调整行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cartID := handlershared.ResolveCartID(c)
	detail, err := h.CartService.UpdateItemQty(c.Request.Context(), handlershared.TenantID(c), cartID, req.ProductID, req.Variant, req.Delta)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, detail)
}

// RemoveCartItem 删除行，参数走查询串：product_id、variant
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID := cast.ToUint(c.Query("product_id"))
	if productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cartID := handlershared.ResolveCartID(c)
	detail, err := h.CartService.RemoveItem(c.Request.Context(), handlershared.TenantID(c), cartID, productID, c.Query("variant"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, detail)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	cartID := handlershared.ResolveCartID(c)
	if err := h.CartService.Clear(c.Request.Context(), handlershared.TenantID(c), cartID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"cart_id": cartID})
}

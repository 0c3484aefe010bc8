package public

import (
	handlershared "github.com/bioshop-next/internal/http/handlers/shared"
	"github.com/bioshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 店铺商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	cards, total, err := h.StorefrontService.ListProducts(c.Request.Context(), handlershared.TenantID(c), page, pageSize, c.Query("search"))
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	response.SuccessWithPage(c, cards, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情（含规格选择器数据）
func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.StorefrontService.GetProduct(c.Request.Context(), handlershared.TenantID(c), c.Param("slug"))
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	response.Success(c, detail)
}

package shared

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartIDHeader 购物车 ID 请求/响应头
const CartIDHeader = "X-Cart-ID"

// ResolveCartID 读取请求中的购物车 ID，缺失时生成新 ID；响应头回写最终使用的 ID
func ResolveCartID(c *gin.Context) string {
	cartID := strings.TrimSpace(c.GetHeader(CartIDHeader))
	if cartID == "" {
		cartID = uuid.NewString()
	}
	c.Header(CartIDHeader, cartID)
	return cartID
}

// TenantID 路由中的店铺标识
func TenantID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("tenant"))
}

package router

import (
	"fmt"
	"strings"

	"github.com/bioshop-next/internal/cache"
	"github.com/bioshop-next/internal/config"
	publichandlers "github.com/bioshop-next/internal/http/handlers/public"
	"github.com/bioshop-next/internal/http/response"
	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bs"
	}
	cartRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart", redisPrefix),
		WindowSeconds: cfg.Security.CartRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CartRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.CartRateLimit.BlockSeconds,
	}
	cartLimiter := RateLimitMiddleware(cache.Client(), cartRule, KeyByTenantAndCart)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	shop := apiV1.Group("/shops/:tenant")
	{
		shop.GET("/products", publicHandler.ListProducts)
		shop.GET("/products/:slug", publicHandler.GetProduct)

		cart := shop.Group("/cart")
		cart.Use(cartLimiter)
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PATCH("/items", publicHandler.UpdateCartItem)
			cart.DELETE("/items", publicHandler.RemoveCartItem)
		}

		checkout := shop.Group("/checkout")
		checkout.Use(cartLimiter)
		{
			checkout.POST("/quote", publicHandler.QuoteCheckout)
			checkout.POST("/submit", publicHandler.SubmitCheckout)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, response.CodeNotFound, "route not found")
	})
	return r
}

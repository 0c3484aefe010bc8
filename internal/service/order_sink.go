package service

import (
	"context"

	"github.com/bioshop-next/internal/checkout"
	"github.com/bioshop-next/internal/logger"
)

// OrderSink 外部下单服务
type OrderSink interface {
	Submit(ctx context.Context, order checkout.OrderPayload) error
}

// LogOrderSink 仅记录日志的下单实现（未接入下单服务时使用）
type LogOrderSink struct{}

// Submit 记录订单载荷
func (LogOrderSink) Submit(ctx context.Context, order checkout.OrderPayload) error {
	logger.FromContext(ctx).Infow("order_submitted",
		"reference", order.Reference,
		"tenant_id", order.TenantID,
		"cart_id", order.CartID,
		"lines", len(order.Lines),
		"delivery_option_id", order.DeliveryOptionID,
		"total", order.Total.StringFixed(2),
		"currency", order.Currency,
	)
	return nil
}

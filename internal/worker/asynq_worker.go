package worker

import (
	"context"
	"fmt"

	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/provider"
	"github.com/bioshop-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderSubmit, c.handleOrderSubmit)
}

// handleOrderSubmit 把排队的订单交给下单服务；载荷损坏时不再重试
func (c *Consumer) handleOrderSubmit(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_submit_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderSubmitPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_order_submit_payload_invalid", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if c.OrderSink == nil {
		logger.Warnw("worker_order_submit_skip_sink_nil", "reference", payload.Order.Reference)
		return nil
	}
	log := logger.SW("reference", payload.Order.Reference, "tenant_id", payload.Order.TenantID)
	if err := c.OrderSink.Submit(logger.WithContext(ctx, log), payload.Order); err != nil {
		log.Warnw("worker_order_submit_failed", "error", err)
		return err
	}
	return nil
}

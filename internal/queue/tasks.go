package queue

import (
	"encoding/json"
	"errors"

	"github.com/bioshop-next/internal/checkout"
	"github.com/bioshop-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderSubmit 订单提交任务
	TaskOrderSubmit = constants.TaskOrderSubmit
)

// ErrInvalidPayload 任务载荷缺少关键字段
var ErrInvalidPayload = errors.New("queue payload invalid")

// OrderSubmitPayload 订单提交任务载荷
type OrderSubmitPayload struct {
	Order checkout.OrderPayload `json:"order"`
}

// NewOrderSubmitTask 创建订单提交任务
func NewOrderSubmitTask(payload OrderSubmitPayload) (*asynq.Task, error) {
	if payload.Order.Reference == "" || payload.Order.TenantID == "" {
		return nil, ErrInvalidPayload
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSubmit, body), nil
}

// ParseOrderSubmitPayload 解析订单提交任务载荷
func ParseOrderSubmitPayload(body []byte) (OrderSubmitPayload, error) {
	var payload OrderSubmitPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	if payload.Order.Reference == "" || payload.Order.TenantID == "" {
		return payload, ErrInvalidPayload
	}
	return payload, nil
}

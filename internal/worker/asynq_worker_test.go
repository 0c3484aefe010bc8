package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bioshop-next/internal/checkout"
	"github.com/bioshop-next/internal/provider"
	"github.com/bioshop-next/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

type recordingSink struct {
	orders []checkout.OrderPayload
	err    error
}

func (s *recordingSink) Submit(_ context.Context, order checkout.OrderPayload) error {
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, order)
	return nil
}

func newOrderTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderSubmitTask(queue.OrderSubmitPayload{Order: checkout.OrderPayload{
		Reference: "ref-1",
		TenantID:  "shop-a",
		CartID:    "cart-1",
		Currency:  "HKD",
		Total:     decimal.NewFromInt(160),
	}})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	return task
}

func TestHandleOrderSubmitDeliversToSink(t *testing.T) {
	sink := &recordingSink{}
	consumer := NewConsumer(&provider.Container{OrderSink: sink})
	if err := consumer.handleOrderSubmit(context.Background(), newOrderTask(t)); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(sink.orders) != 1 || sink.orders[0].Reference != "ref-1" || !sink.orders[0].Total.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("unexpected orders: %+v", sink.orders)
	}
}

func TestHandleOrderSubmitSkipsRetryOnBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{OrderSink: &recordingSink{}})
	body, _ := json.Marshal(map[string]interface{}{"order": map[string]string{"tenant_id": "shop-a"}})
	err := consumer.handleOrderSubmit(context.Background(), asynq.NewTask(queue.TaskOrderSubmit, body))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("missing reference should skip retry, got %v", err)
	}
	err = consumer.handleOrderSubmit(context.Background(), asynq.NewTask(queue.TaskOrderSubmit, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed json should skip retry, got %v", err)
	}
}

func TestHandleOrderSubmitRetriesSinkFailure(t *testing.T) {
	sinkErr := errors.New("downstream unavailable")
	consumer := NewConsumer(&provider.Container{OrderSink: &recordingSink{err: sinkErr}})
	err := consumer.handleOrderSubmit(context.Background(), newOrderTask(t))
	if !errors.Is(err, sinkErr) || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("sink failure should be retried, got %v", err)
	}
}

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, nil
}

func TestPurgeServiceRunsUntilCancelled(t *testing.T) {
	purger := &countingPurger{}
	svc := NewPurgeService(purger, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for purger.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	if purger.calls.Load() < 2 {
		t.Fatalf("expected repeated purges, got %d", purger.calls.Load())
	}
	if svc.Name() != "cart_purge" {
		t.Fatalf("unexpected name: %s", svc.Name())
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/checkout"
	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/models"
	"github.com/bioshop-next/internal/queue"
	"github.com/bioshop-next/internal/repository"

	"github.com/google/uuid"
)

// QuoteDetail 结算报价详情（用于响应）
type QuoteDetail struct {
	checkout.Quote
	Currency        string                    `json:"currency"`
	Count           int                       `json:"count"`
	SubtotalText    string                    `json:"subtotal_text"`
	DeliveryFeeText string                    `json:"delivery_fee_text"`
	TotalText       string                    `json:"total_text"`
	DeliveryOptions []checkout.DeliveryOption `json:"delivery_options"`
}

// SubmitOrderInput 提交订单输入
type SubmitOrderInput struct {
	TenantID         string
	CartID           string
	DeliveryOptionID string
	Customer         checkout.Customer
}

// SubmitOrderResult 提交结果
type SubmitOrderResult struct {
	Reference string                `json:"reference"`
	Queued    bool                  `json:"queued"`
	Order     checkout.OrderPayload `json:"order"`
}

// CheckoutService 结算服务
type CheckoutService struct {
	carts          *CartService
	storefrontRepo repository.StorefrontRepository
	queueClient    *queue.Client
	sink           OrderSink
	now            func() time.Time
	newReference   func() string
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(carts *CartService, storefrontRepo repository.StorefrontRepository, queueClient *queue.Client, sink OrderSink) *CheckoutService {
	if sink == nil {
		sink = LogOrderSink{}
	}
	return &CheckoutService{
		carts:          carts,
		storefrontRepo: storefrontRepo,
		queueClient:    queueClient,
		sink:           sink,
		now:            time.Now,
		newReference:   uuid.NewString,
	}
}

// deliveryOptions 店铺全部配送方式（含停用，停用项由结算计算标记）
func (s *CheckoutService) deliveryOptions(tenantID string) ([]checkout.DeliveryOption, error) {
	rows, err := s.storefrontRepo.ListDeliveryOptions(tenantID, false)
	if err != nil {
		return nil, err
	}
	return toDeliveryOptions(rows), nil
}

func toDeliveryOptions(rows []models.DeliveryOption) []checkout.DeliveryOption {
	options := make([]checkout.DeliveryOption, 0, len(rows))
	for _, row := range rows {
		options = append(options, checkout.DeliveryOption{
			ID:      row.Code,
			Name:    row.Name,
			Fee:     row.FeeAmount.Decimal,
			Enabled: row.IsEnabled,
		})
	}
	return options
}

// Quote 计算结算报价
func (s *CheckoutService) Quote(ctx context.Context, tenantID, cartID, deliveryOptionID string) (*QuoteDetail, error) {
	tenantID, cartID, err := normalizeCartRef(tenantID, cartID)
	if err != nil {
		return nil, err
	}
	settings, err := s.carts.storefronts.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	options, err := s.deliveryOptions(settings.Slug)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.load(ctx, settings.Slug, cartID)
	if err != nil {
		return nil, err
	}
	return s.buildQuote(c, options, deliveryOptionID, settings), nil
}

func (s *CheckoutService) buildQuote(c cart.Cart, options []checkout.DeliveryOption, selectedID string, settings *StorefrontSettings) *QuoteDetail {
	quote := checkout.Calculate(checkout.Input{
		Items:                 c.Items,
		Options:               options,
		SelectedID:            selectedID,
		FreeShippingThreshold: settings.FreeShippingThreshold,
		Currency:              settings.Currency,
	})
	return &QuoteDetail{
		Quote:           quote,
		Currency:        settings.Currency,
		Count:           cart.Count(c),
		SubtotalText:    formatMoney(quote.Subtotal, settings.Currency),
		DeliveryFeeText: formatMoney(quote.DeliveryFee, settings.Currency),
		TotalText:       formatMoney(quote.Total, settings.Currency),
		DeliveryOptions: checkout.EnabledOptions(options),
	}
}

// Submit 提交订单：重新校验购物车与配送方式，交给队列或下单服务后清空购物车
func (s *CheckoutService) Submit(ctx context.Context, input SubmitOrderInput) (*SubmitOrderResult, error) {
	tenantID, cartID, err := normalizeCartRef(input.TenantID, input.CartID)
	if err != nil {
		return nil, err
	}
	settings, err := s.carts.storefronts.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	options, err := s.deliveryOptions(settings.Slug)
	if err != nil {
		return nil, err
	}

	unlock := s.carts.lockCart(settings.Slug, cartID)
	defer unlock()

	c, err := s.carts.load(ctx, settings.Slug, cartID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}
	if err := s.validateLines(settings.Slug, c); err != nil {
		return nil, err
	}
	quote := s.buildQuote(c, options, input.DeliveryOptionID, settings).Quote
	if !quote.Ready() {
		return nil, ErrDeliveryOptionUnavailable
	}
	order, err := checkout.BuildOrderPayload(c, quote, checkout.OrderMeta{
		Reference:   s.newReference(),
		CartID:      cartID,
		Currency:    settings.Currency,
		Customer:    input.Customer,
		SubmittedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	// 购物车清空成功后才投递，投递失败时恢复购物车
	if err := s.carts.store.Delete(ctx, settings.Slug, cartID); err != nil {
		return nil, err
	}
	queued, err := s.dispatch(ctx, order)
	if err != nil {
		if restoreErr := s.carts.store.Save(ctx, settings.Slug, cartID, c); restoreErr != nil {
			logger.Errorw("checkout_cart_restore_failed", "tenant_id", settings.Slug, "cart_id", cartID, "reference", order.Reference, "error", restoreErr)
		}
		return nil, err
	}
	result := &SubmitOrderResult{Reference: order.Reference, Queued: queued, Order: order}
	logger.Infow("checkout_submitted",
		"tenant_id", settings.Slug,
		"cart_id", cartID,
		"reference", result.Reference,
		"queued", result.Queued,
	)
	return result, nil
}

// dispatch 队列启用时异步投递，否则直接交给下单服务
func (s *CheckoutService) dispatch(ctx context.Context, order checkout.OrderPayload) (bool, error) {
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderSubmit(queue.OrderSubmitPayload{Order: order}); err != nil {
			logger.Errorw("checkout_enqueue_failed", "tenant_id", order.TenantID, "reference", order.Reference, "error", err)
			return false, fmt.Errorf("%w: %v", ErrOrderSubmitFailed, err)
		}
		return true, nil
	}
	if err := s.sink.Submit(ctx, order); err != nil {
		logger.Errorw("checkout_sink_submit_failed", "tenant_id", order.TenantID, "reference", order.Reference, "error", err)
		return false, fmt.Errorf("%w: %v", ErrOrderSubmitFailed, err)
	}
	return false, nil
}

// validateLines 提交前确认每一行仍可售且库存足够
func (s *CheckoutService) validateLines(tenantID string, c cart.Cart) error {
	for _, item := range c.Items {
		limit, err := s.carts.currentLimit(tenantID, item.ProductID, item.Variant)
		if err != nil {
			if errors.Is(err, ErrProductNotAvailable) || errors.Is(err, ErrVariantUnavailable) {
				return ErrCartLineUnavailable
			}
			return err
		}
		if item.Qty > limit {
			return ErrCartLineUnavailable
		}
	}
	return nil
}

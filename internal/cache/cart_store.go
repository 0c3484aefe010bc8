package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled Redis 未启用
var ErrRedisDisabled = errors.New("redis disabled")

// CartStore Redis 购物车存储，实现 cart.Store
//
// 每次写入都会刷新过期时间。
type CartStore struct {
	ttl time.Duration
}

// NewCartStore 创建 Redis 购物车存储
func NewCartStore(ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = time.Duration(constants.DefaultCartTTLHours) * time.Hour
	}
	return &CartStore{ttl: ttl}
}

func cartKey(tenantID, cartID string) string {
	return fmt.Sprintf("cart:%s:%s", tenantID, cartID)
}

// Load 读取购物车，不存在时返回空购物车
func (s *CartStore) Load(ctx context.Context, tenantID, cartID string) (cart.Cart, error) {
	client := Client()
	if client == nil {
		return cart.Cart{}, ErrRedisDisabled
	}
	raw, err := client.Get(ctx, buildKey(cartKey(tenantID, cartID))).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(tenantID), nil
	}
	if err != nil {
		return cart.Cart{}, err
	}
	return cart.Decode(raw, tenantID)
}

// Save 写入购物车
func (s *CartStore) Save(ctx context.Context, tenantID, cartID string, c cart.Cart) error {
	client := Client()
	if client == nil {
		return ErrRedisDisabled
	}
	c.TenantID = tenantID
	payload, err := cart.Marshal(c)
	if err != nil {
		return err
	}
	return client.Set(ctx, buildKey(cartKey(tenantID, cartID)), payload, s.ttl).Err()
}

// Delete 删除购物车
func (s *CartStore) Delete(ctx context.Context, tenantID, cartID string) error {
	return Del(ctx, cartKey(tenantID, cartID))
}

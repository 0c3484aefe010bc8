package cache

import (
	"context"
	"fmt"
	"time"
)

const storefrontCacheTTL = 5 * time.Minute

// StorefrontSnapshot 店铺设置快照，避免每次加购都查询数据库
type StorefrontSnapshot struct {
	Slug                  string `json:"slug"`
	Name                  string `json:"name"`
	Currency              string `json:"currency"`
	FreeShippingThreshold string `json:"free_shipping_threshold,omitempty"`
	LowStockThreshold     int    `json:"low_stock_threshold"`
}

func storefrontKey(slug string) string {
	return fmt.Sprintf("storefront:%s", slug)
}

// GetStorefront 读取店铺快照
func GetStorefront(ctx context.Context, slug string) (*StorefrontSnapshot, bool, error) {
	var snapshot StorefrontSnapshot
	hit, err := GetJSON(ctx, storefrontKey(slug), &snapshot)
	if err != nil || !hit {
		return nil, false, err
	}
	return &snapshot, true, nil
}

// SetStorefront 写入店铺快照
func SetStorefront(ctx context.Context, snapshot StorefrontSnapshot) error {
	return SetJSON(ctx, storefrontKey(snapshot.Slug), snapshot, storefrontCacheTTL)
}

// DelStorefront 删除店铺快照
func DelStorefront(ctx context.Context, slug string) error {
	return Del(ctx, storefrontKey(slug))
}

package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bioshop-next/internal/constants"
)

var (
	// ErrUnsupportedSchema 存储中的购物车版本高于当前程序
	ErrUnsupportedSchema = errors.New("cart schema version unsupported")
	// ErrMalformedCart 存储中的购物车无法解析
	ErrMalformedCart = errors.New("cart payload malformed")
)

type storedCart struct {
	SchemaVersion *int   `json:"schemaVersion"`
	TenantID      string `json:"tenantId"`
	Items         []Item `json:"items"`
}

// Marshal 序列化购物车，始终写入当前版本号
func Marshal(c Cart) ([]byte, error) {
	c.SchemaVersion = constants.CartSchemaVersion
	if c.Items == nil {
		c.Items = []Item{}
	}
	return json.Marshal(c)
}

// Unmarshal 反序列化购物车
//
// 无版本号的历史数据按版本 0 迁移；无效行被丢弃，重复行合并，不会因为脏数据丢掉整个购物车。
func Unmarshal(raw []byte) (Cart, error) {
	var stored storedCart
	if err := json.Unmarshal(raw, &stored); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	version := 0
	if stored.SchemaVersion != nil {
		version = *stored.SchemaVersion
	}
	if version > constants.CartSchemaVersion {
		return Cart{}, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
	}

	result := New(stored.TenantID)
	for _, item := range migrateItems(version, stored.Items) {
		next, err := Add(result, item)
		if err != nil {
			continue
		}
		result = next
	}
	return result, nil
}

// migrateItems 逐版本迁移行数据
func migrateItems(version int, items []Item) []Item {
	if version == 0 {
		// 版本 0 的数量可能为 0（旧前端先写入再改数量），统一视为 1 件
		migrated := make([]Item, 0, len(items))
		for _, item := range items {
			if item.Qty == 0 {
				item.Qty = 1
			}
			migrated = append(migrated, item)
		}
		return migrated
	}
	return items
}

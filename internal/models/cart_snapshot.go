package models

import "time"

// CartSnapshot 购物车快照表（数据库存储模式）
type CartSnapshot struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                        // 主键
	TenantID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_snapshot_key" json:"tenant_id"` // 店铺标识
	CartID      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_snapshot_key" json:"cart_id"`  // 购物车ID
	PayloadJSON RawJSON   `gorm:"type:json" json:"payload"`                                                    // 序列化购物车
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`                                                     // 过期时间
	CreatedAt   time.Time `json:"created_at"`                                                                  // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                                  // 更新时间
}

// TableName 指定表名
func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Storefront 店铺设置表
type Storefront struct {
	ID                          uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Slug                        string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"`       // 店铺标识（租户）
	Name                        string         `gorm:"type:varchar(255);not null" json:"name"`                  // 店铺名称
	Currency                    string         `gorm:"type:varchar(8)" json:"currency"`                         // 币种，为空时使用全局配置
	FreeShippingThresholdAmount *Money         `gorm:"type:decimal(20,2)" json:"free_shipping_threshold,omitempty"` // 免运费门槛
	LowStockThreshold           int            `gorm:"default:0" json:"low_stock_threshold"`                    // 库存紧张阈值，0 使用全局配置
	IsActive                    bool           `gorm:"not null;index" json:"is_active"`                         // 是否营业
	CreatedAt                   time.Time      `json:"created_at"`                                              // 创建时间
	UpdatedAt                   time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt                   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Storefront) TableName() string {
	return "storefronts"
}

// DeliveryOption 配送方式表
type DeliveryOption struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                     // 主键
	TenantID  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_delivery_tenant_code" json:"tenant_id"` // 店铺标识
	Code      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_delivery_tenant_code" json:"code"`      // 配送方式编码
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`                                   // 名称
	FeeAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"fee_amount"`                  // 运费
	IsEnabled bool      `gorm:"not null;index" json:"is_enabled"`                                         // 是否启用
	SortOrder int       `gorm:"default:0" json:"sort_order"`                                              // 排序权重
	CreatedAt time.Time `json:"created_at"`                                                               // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                               // 更新时间
}

// TableName 指定表名
func (DeliveryOption) TableName() string {
	return "delivery_options"
}

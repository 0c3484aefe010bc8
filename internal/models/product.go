package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                                   // 主键
	TenantID            string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_product_tenant_slug" json:"tenant_id"` // 店铺标识
	Slug                string         `gorm:"type:varchar(128);not null;uniqueIndex:idx_product_tenant_slug" json:"slug"`     // 店铺内唯一标识
	Name                string         `gorm:"type:varchar(255);not null" json:"name"`                                 // 商品名称
	PriceAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`              // 售价
	OriginalPriceAmount *Money         `gorm:"type:decimal(20,2)" json:"original_price_amount,omitempty"`              // 原价（促销时存在）
	Stock               *int           `json:"stock,omitempty"`                                                        // 无规格商品库存
	SizesJSON           RawJSON        `gorm:"type:json" json:"sizes,omitempty"`                                       // 旧版尺码库存表
	VariantDimensions   StringArray    `gorm:"type:json" json:"variant_dimensions,omitempty"`                          // 声明的规格维度顺序
	OptionImagesJSON    RawJSON        `gorm:"type:json" json:"option_images,omitempty"`                               // 规格值对应图片下标
	Images              StringArray    `gorm:"type:json" json:"images"`                                                // 图片数组
	IsActive            bool           `gorm:"not null;index" json:"is_active"`                                        // 是否上架
	SortOrder           int            `gorm:"default:0;index" json:"sort_order"`                                      // 排序权重
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                                // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                                             // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                         // 软删除时间

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// CoverImage 首图
func (p Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductVariant 商品规格表
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	ProductID   uint           `gorm:"not null;index" json:"product_id"`                   // 商品ID
	Name        string         `gorm:"type:varchar(255)" json:"name"`                      // 规格名称
	OptionsJSON RawJSON        `gorm:"type:json" json:"options"`                           // 维度 -> 取值（有序对象）
	PriceAmount *Money         `gorm:"type:decimal(20,2)" json:"price_amount,omitempty"`   // 规格价（为空时使用商品价）
	Stock       int            `gorm:"not null;default:0" json:"stock"`                    // 库存
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                    // 是否启用
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt   time.Time      `json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

package repository

import (
	"errors"

	"github.com/bioshop-next/internal/models"

	"gorm.io/gorm"
)

// StorefrontRepository 店铺设置数据访问接口
type StorefrontRepository interface {
	GetBySlug(slug string) (*models.Storefront, error)
	Create(storefront *models.Storefront) error
	ListDeliveryOptions(tenantID string, onlyEnabled bool) ([]models.DeliveryOption, error)
	CreateDeliveryOption(option *models.DeliveryOption) error
}

// GormStorefrontRepository GORM 实现
type GormStorefrontRepository struct {
	db *gorm.DB
}

// NewStorefrontRepository 创建店铺仓库
func NewStorefrontRepository(db *gorm.DB) *GormStorefrontRepository {
	return &GormStorefrontRepository{db: db}
}

// GetBySlug 获取营业中的店铺
func (r *GormStorefrontRepository) GetBySlug(slug string) (*models.Storefront, error) {
	var storefront models.Storefront
	if err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&storefront).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &storefront, nil
}

// Create 创建店铺
func (r *GormStorefrontRepository) Create(storefront *models.Storefront) error {
	return r.db.Create(storefront).Error
}

// ListDeliveryOptions 店铺配送方式
func (r *GormStorefrontRepository) ListDeliveryOptions(tenantID string, onlyEnabled bool) ([]models.DeliveryOption, error) {
	var options []models.DeliveryOption
	query := r.db.Where("tenant_id = ?", tenantID)
	if onlyEnabled {
		query = query.Where("is_enabled = ?", true)
	}
	if err := query.Order("sort_order ASC, id ASC").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// CreateDeliveryOption 创建配送方式
func (r *GormStorefrontRepository) CreateDeliveryOption(option *models.DeliveryOption) error {
	return r.db.Create(option).Error
}

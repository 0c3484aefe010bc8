package repository

import (
	"errors"
	"strings"

	"github.com/bioshop-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(tenantID, slug string, onlyActive bool) (*models.Product, error)
	GetByID(tenantID string, id uint) (*models.Product, error)
	Create(product *models.Product) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// preloadVariants 停用的规格也要加载，用于生成隐藏组合
func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

// List 店铺商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{}).Where("tenant_id = ?", filter.TenantID)
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"name", "slug"}, []string{"sizes_json"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).
		Preload("Variants", preloadVariants).
		Order("sort_order DESC, created_at DESC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(tenantID, slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Preload("Variants", preloadVariants).
		Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByID 根据 ID 获取商品，限定店铺
func (r *GormProductRepository) GetByID(tenantID string, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants", preloadVariants).
		Where("tenant_id = ?", tenantID).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品（含规格）
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

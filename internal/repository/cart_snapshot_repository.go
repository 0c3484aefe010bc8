package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshotRepository 数据库购物车存储，实现 cart.Store
type CartSnapshotRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewCartSnapshotRepository 创建购物车快照仓库
func NewCartSnapshotRepository(db *gorm.DB, ttl time.Duration) *CartSnapshotRepository {
	if ttl <= 0 {
		ttl = time.Duration(constants.DefaultCartTTLHours) * time.Hour
	}
	return &CartSnapshotRepository{db: db, ttl: ttl, now: time.Now}
}

// Load 读取购物车，不存在或已过期时返回空购物车
func (r *CartSnapshotRepository) Load(ctx context.Context, tenantID, cartID string) (cart.Cart, error) {
	var snapshot models.CartSnapshot
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND cart_id = ?", tenantID, cartID).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cart.New(tenantID), nil
	}
	if err != nil {
		return cart.Cart{}, err
	}
	if snapshot.ExpiresAt.Before(r.now()) {
		return cart.New(tenantID), nil
	}
	return cart.Decode(snapshot.PayloadJSON, tenantID)
}

// Save 写入购物车（按租户 + 购物车 ID upsert）
func (r *CartSnapshotRepository) Save(ctx context.Context, tenantID, cartID string, c cart.Cart) error {
	c.TenantID = tenantID
	payload, err := cart.Marshal(c)
	if err != nil {
		return err
	}
	now := r.now()
	snapshot := models.CartSnapshot{
		TenantID:    tenantID,
		CartID:      cartID,
		PayloadJSON: models.RawJSON(payload),
		ExpiresAt:   now.Add(r.ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "cart_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload_json", "expires_at", "updated_at"}),
	}).Create(&snapshot).Error
}

// Delete 删除购物车
func (r *CartSnapshotRepository) Delete(ctx context.Context, tenantID, cartID string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND cart_id = ?", tenantID, cartID).
		Delete(&models.CartSnapshot{}).Error
}

// PurgeExpired 清理过期快照
func (r *CartSnapshotRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", r.now()).
		Delete(&models.CartSnapshot{})
	return result.RowsAffected, result.Error
}

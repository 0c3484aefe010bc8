package worker

import (
	"context"
	"errors"
	"time"

	"github.com/bioshop-next/internal/logger"
)

const defaultPurgeInterval = time.Hour

// ExpiredCartPurger 可清理过期购物车快照的存储
type ExpiredCartPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeService 定期清理数据库中过期的购物车快照
type PurgeService struct {
	purger   ExpiredCartPurger
	interval time.Duration
}

// NewPurgeService 创建清理服务
func NewPurgeService(purger ExpiredCartPurger, interval time.Duration) *PurgeService {
	if interval <= 0 {
		interval = defaultPurgeInterval
	}
	return &PurgeService{purger: purger, interval: interval}
}

// Name 服务名称
func (s *PurgeService) Name() string {
	return "cart_purge"
}

// Start 启动清理循环，直到 ctx 结束
func (s *PurgeService) Start(ctx context.Context) error {
	if s == nil || s.purger == nil {
		return errors.New("cart purger not initialized")
	}
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop 停止服务（循环随 ctx 退出）
func (s *PurgeService) Stop(context.Context) error {
	return nil
}

func (s *PurgeService) runOnce(ctx context.Context) {
	removed, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		logger.Warnw("worker_cart_purge_failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Infow("worker_cart_purged", "removed", removed)
	}
}

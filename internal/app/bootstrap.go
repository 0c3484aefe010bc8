package app

import (
	"errors"

	"github.com/bioshop-next/internal/config"
	"github.com/bioshop-next/internal/provider"
	"github.com/bioshop-next/internal/repository"
	"github.com/bioshop-next/internal/router"
	"github.com/bioshop-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	container := provider.NewContainer(cfg)
	return buildServices(container, mode)
}

func buildServices(container *provider.Container, mode string) (*Runner, error) {
	cfg := container.Config
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		// all 模式下队列未启用时订单直接同步提交，不需要 worker
		if cfg.Queue.Enabled || mode == ModeWorker {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
		if usesDatabaseCartStore(container) {
			services = append(services, worker.NewPurgeService(container.CartSnapshotRepo, 0))
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

// usesDatabaseCartStore 购物车落在数据库时需要定期清理过期快照
func usesDatabaseCartStore(container *provider.Container) bool {
	_, ok := container.CartStore.(*repository.CartSnapshotRepository)
	return ok
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return err
	}
	opts.Mode = mode

	runner, err := BuildRunner(opts.Config, mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "cart_store", opts.Config.Cart.Store)
	return RunWithOptions(runner, opts)
}

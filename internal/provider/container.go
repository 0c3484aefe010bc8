package provider

import (
	"github.com/bioshop-next/internal/cache"
	"github.com/bioshop-next/internal/cart"
	"github.com/bioshop-next/internal/config"
	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/models"
	"github.com/bioshop-next/internal/queue"
	"github.com/bioshop-next/internal/repository"
	"github.com/bioshop-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	StorefrontRepo   repository.StorefrontRepository
	ProductRepo      repository.ProductRepository
	CartSnapshotRepo *repository.CartSnapshotRepository

	// CartStore 购物车持久化（Redis 或数据库）
	CartStore cart.Store
	OrderSink service.OrderSink

	// Services
	StorefrontService *service.StorefrontService
	CartService       *service.CartService
	CheckoutService   *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	return NewContainerWith(cfg, models.DB, queueClient)
}

// NewContainerWith 使用指定的数据库与队列客户端初始化（测试或工具命令使用）
func NewContainerWith(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		OrderSink:   service.LogOrderSink{},
	}
	c.initRepositories(db)
	c.initCartStore()
	c.initServices()
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.StorefrontRepo = repository.NewStorefrontRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartSnapshotRepo = repository.NewCartSnapshotRepository(db, c.Config.Cart.TTL())
}

// initCartStore 按配置选择购物车存储，Redis 不可用时回退到数据库
func (c *Container) initCartStore() {
	if c.Config.Cart.Store == constants.CartStoreRedis {
		if cache.Enabled() {
			c.CartStore = cache.NewCartStore(c.Config.Cart.TTL())
			return
		}
		logger.Warnw("provider_cart_store_fallback", "configured", constants.CartStoreRedis, "using", constants.CartStoreDatabase)
	}
	c.CartStore = c.CartSnapshotRepo
}

func (c *Container) initServices() {
	c.StorefrontService = service.NewStorefrontService(c.StorefrontRepo, c.ProductRepo, c.Config.Storefront)
	c.CartService = service.NewCartService(c.CartStore, c.ProductRepo, c.StorefrontService, c.Config.Cart.MaxLineQuantity)
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.StorefrontRepo, c.QueueClient, c.OrderSink)
}

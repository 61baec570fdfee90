package provider

import (
	"github.com/webmastershop/internal/cache"
	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/logger"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/queue"
	"github.com/webmastershop/internal/repository"
	"github.com/webmastershop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo        repository.UserRepository
	OtpRepo         repository.OtpRepository
	CategoryRepo    repository.CategoryRepository
	SubCategoryRepo repository.SubCategoryRepository
	BrandRepo       repository.BrandRepository
	ProductRepo     repository.ProductRepository
	CartRepo        repository.CartRepository
	CouponRepo      repository.CouponRepository
	WishlistRepo    repository.WishlistRepository
	AuditLogRepo    repository.AuditLogRepository
	PushSubRepo     repository.PushSubscriptionRepository

	// Services
	AuthService        *service.AuthService
	UserService        *service.UserService
	EmailService       *service.EmailService
	AuditService       *service.AuditService
	PushService        *service.PushService
	UploadService      *service.UploadService
	CategoryService    *service.CategoryService
	SubCategoryService *service.SubCategoryService
	BrandService       *service.BrandService
	ProductService     *service.ProductService
	CartService        *service.CartService
	CouponAdminService *service.CouponAdminService
	WishlistService    *service.WishlistService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OtpRepo = repository.NewOtpRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.SubCategoryRepo = repository.NewSubCategoryRepository(db)
	c.BrandRepo = repository.NewBrandRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
	c.PushSubRepo = repository.NewPushSubscriptionRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.PushService = service.NewPushService(&c.Config.Push, c.PushSubRepo, c.QueueClient)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.OtpRepo, c.EmailService)
	c.UserService = service.NewUserService(c.Config, c.UserRepo, c.AuditService)
	c.UploadService = service.NewUploadService(c.Config)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.AuditService)
	c.SubCategoryService = service.NewSubCategoryService(c.SubCategoryRepo, c.CategoryRepo, c.AuditService)
	c.BrandService = service.NewBrandService(c.BrandRepo, c.AuditService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.SubCategoryRepo, c.BrandRepo, c.AuditService, c.PushService)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.CouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.UserRepo, c.AuditService, c.PushService)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
}

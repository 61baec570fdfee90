package router

import (
	"fmt"
	"strings"

	"github.com/webmastershop/internal/cache"
	"github.com/webmastershop/internal/config"
	adminhandlers "github.com/webmastershop/internal/http/handlers/admin"
	publichandlers "github.com/webmastershop/internal/http/handlers/public"
	"github.com/webmastershop/internal/logger"
	"github.com/webmastershop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ws"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many sign-in attempts",
	}
	otpRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:otp", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many password reset requests",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）- 必须放在最前面
	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开目录接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/categories/:slug", publicHandler.GetCategory)
			public.GET("/sub-categories", publicHandler.ListSubCategories)
			public.GET("/brands", publicHandler.ListBrands)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/push/public-key", publicHandler.GetPushPublicKey)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", publicHandler.Signup)
			auth.GET("/verify-email/:token", publicHandler.VerifyEmail)
			auth.POST("/signin", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.SignIn)
			auth.POST("/oauth/signin", publicHandler.OAuthSignIn)
			auth.POST("/refresh", publicHandler.RefreshTokens)
			auth.POST("/forgot-password", RateLimitMiddleware(redisClient, otpRule, KeyByIPAndJSONField("email")), publicHandler.ForgotPassword)
			auth.POST("/verify-otp", publicHandler.VerifyOtp)
			auth.POST("/reset-password", publicHandler.ResetPassword)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetMe)
			user.PUT("/me/profile", publicHandler.UpdateMe)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.POST("/me/deactivate", publicHandler.DeactivateMe)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartLine)
			user.PUT("/cart/items", publicHandler.UpdateCartLine)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartLine)
			user.POST("/cart/apply-coupon", publicHandler.ApplyCoupon)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.GET("/wishlist", publicHandler.ListWishlist)
			user.POST("/wishlist", publicHandler.AddWishlistItem)
			user.DELETE("/wishlist/:product_id", publicHandler.RemoveWishlistItem)

			user.POST("/push/subscribe", publicHandler.SubscribePush)
			user.POST("/push/unsubscribe", publicHandler.UnsubscribePush)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), AdminRoleMiddleware())
			{
				// 用户管理
				authorized.GET("/users", adminHandler.GetUsers)
				authorized.PUT("/users/batch-status", adminHandler.BatchUpdateUserStatus)
				authorized.GET("/users/:id", adminHandler.GetUser)
				authorized.POST("/users", adminHandler.CreateUser)
				authorized.PUT("/users/:id", adminHandler.UpdateUser)
				authorized.DELETE("/users/:id", adminHandler.DeleteUser)

				// 分类管理
				authorized.GET("/categories", adminHandler.GetCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 子分类管理
				authorized.GET("/sub-categories", adminHandler.GetSubCategories)
				authorized.POST("/sub-categories", adminHandler.CreateSubCategory)
				authorized.PUT("/sub-categories/:id", adminHandler.UpdateSubCategory)
				authorized.DELETE("/sub-categories/:id", adminHandler.DeleteSubCategory)

				// 品牌管理
				authorized.GET("/brands", adminHandler.GetBrands)
				authorized.POST("/brands", adminHandler.CreateBrand)
				authorized.PUT("/brands/:id", adminHandler.UpdateBrand)
				authorized.DELETE("/brands/:id", adminHandler.DeleteBrand)

				// 商品管理
				authorized.GET("/products", adminHandler.GetProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				// 优惠券管理
				authorized.GET("/coupons", adminHandler.GetCoupons)
				authorized.GET("/coupons/:id", adminHandler.GetCoupon)
				authorized.POST("/coupons", adminHandler.CreateCoupon)
				authorized.PUT("/coupons/:id", adminHandler.UpdateCoupon)
				authorized.POST("/coupons/:id/disable", adminHandler.DisableCoupon)
				authorized.DELETE("/coupons/:id", adminHandler.DeleteCoupon)
				authorized.POST("/coupons/:id/users", adminHandler.AddCouponUser)
				authorized.PUT("/coupons/:id/users/:user_id/disable", adminHandler.DisableCouponUser)
				authorized.DELETE("/coupons/:id/users/:user_id", adminHandler.RemoveCouponUser)

				// 购物车查看
				authorized.GET("/carts", adminHandler.GetCarts)
				authorized.GET("/carts/:user_id", adminHandler.GetCartByUser)

				// 审计日志
				authorized.GET("/audit-logs", adminHandler.GetAuditLogs)

				// 文件上传
				authorized.POST("/upload", adminHandler.UploadFile)

				// 推送
				authorized.POST("/push/send", adminHandler.SendPush)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

package main

import (
	"time"

	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/logger"
	"github.com/webmastershop/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Electronics", Slug: "electronics", SortOrder: 1},
		{Name: "Fashion", Slug: "fashion", SortOrder: 2},
		{Name: "Home And Garden", Slug: "home-and-garden", SortOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	var electronics models.Category
	if err := models.DB.Where("slug = ?", "electronics").First(&electronics).Error; err != nil {
		stdLog.Fatalf("Failed to load electronics category: %v", err)
	}
	var fashion models.Category
	if err := models.DB.Where("slug = ?", "fashion").First(&fashion).Error; err != nil {
		stdLog.Fatalf("Failed to load fashion category: %v", err)
	}

	// 添加子分类
	subCategories := []models.SubCategory{
		{CategoryID: electronics.ID, Name: "Laptops", Slug: "laptops", SortOrder: 1},
		{CategoryID: electronics.ID, Name: "Smartphones", Slug: "smartphones", SortOrder: 2},
		{CategoryID: fashion.ID, Name: "Sneakers", Slug: "sneakers", SortOrder: 1},
	}
	for _, sub := range subCategories {
		var existing models.SubCategory
		if err := models.DB.Where("slug = ?", sub.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&sub).Error; err != nil {
				stdLog.Printf("Failed to create sub-category %s: %v", sub.Slug, err)
			} else {
				stdLog.Printf("Created sub-category: %s", sub.Slug)
			}
		} else {
			stdLog.Printf("Sub-category already exists: %s", sub.Slug)
		}
	}

	// 添加品牌
	brands := []models.Brand{
		{Name: "Acme", Slug: "acme", SortOrder: 1},
		{Name: "Northwind", Slug: "northwind", SortOrder: 2},
	}
	for _, brand := range brands {
		var existing models.Brand
		if err := models.DB.Where("slug = ?", brand.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&brand).Error; err != nil {
				stdLog.Printf("Failed to create brand %s: %v", brand.Slug, err)
			} else {
				stdLog.Printf("Created brand: %s", brand.Slug)
			}
		} else {
			stdLog.Printf("Brand already exists: %s", brand.Slug)
		}
	}

	var laptops models.SubCategory
	if err := models.DB.Where("slug = ?", "laptops").First(&laptops).Error; err != nil {
		stdLog.Fatalf("Failed to load laptops sub-category: %v", err)
	}
	var acme models.Brand
	if err := models.DB.Where("slug = ?", "acme").First(&acme).Error; err != nil {
		stdLog.Fatalf("Failed to load acme brand: %v", err)
	}

	// 添加商品
	products := []models.Product{
		{
			Title:              "Acme Ultrabook 14",
			Slug:               "acme-ultrabook-14",
			Description:        "Lightweight 14-inch laptop with all-day battery.",
			Price:              models.NewMoneyFromDecimal(decimal.NewFromInt(1299)),
			PriceAfterDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(1099)),
			Quantity:           25,
			CategoryID:         electronics.ID,
			SubCategoryID:      &laptops.ID,
			BrandID:            &acme.ID,
			Colors:             models.StringArray{"silver", "space-gray"},
		},
		{
			Title:              "Northwind Canvas Sneaker",
			Slug:               "northwind-canvas-sneaker",
			Description:        "Classic low-top canvas sneaker.",
			Price:              models.NewMoneyFromDecimal(decimal.NewFromInt(79)),
			PriceAfterDiscount: models.NewMoneyFromDecimal(decimal.Zero),
			Quantity:           120,
			CategoryID:         fashion.ID,
			Colors:             models.StringArray{"white", "black", "red"},
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 添加示例优惠券
	now := time.Now()
	coupon := models.Coupon{
		Code:     "736251",
		Type:     "fixed",
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		StartsAt: now,
		EndsAt:   now.AddDate(0, 1, 0),
		IsEnable: true,
	}
	var existingCoupon models.Coupon
	if err := models.DB.Where("code = ?", coupon.Code).First(&existingCoupon).Error; err != nil {
		if err := models.DB.Create(&coupon).Error; err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
		} else {
			stdLog.Printf("Created coupon: %s", coupon.Code)
		}
	} else {
		stdLog.Printf("Coupon already exists: %s", coupon.Code)
	}

	stdLog.Printf("Seed data initialized")
}

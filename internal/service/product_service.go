package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/webmastershop/internal/cache"
	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/shopspring/decimal"
)

const productCacheTTL = 5 * time.Minute

func productSlugCacheKey(slugValue string) string {
	return "product:slug:" + slugValue
}

// ProductService 商品业务服务
type ProductService struct {
	repo            repository.ProductRepository
	categoryRepo    repository.CategoryRepository
	subCategoryRepo repository.SubCategoryRepository
	brandRepo       repository.BrandRepository
	audit           *AuditService
	push            *PushService
}

// NewProductService 创建商品服务
func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	subCategoryRepo repository.SubCategoryRepository,
	brandRepo repository.BrandRepository,
	audit *AuditService,
	push *PushService,
) *ProductService {
	return &ProductService{
		repo:            repo,
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
		brandRepo:       brandRepo,
		audit:           audit,
		push:            push,
	}
}

// ProductInput 创建商品输入
type ProductInput struct {
	Title              string
	Description        string
	Price              decimal.Decimal
	PriceAfterDiscount decimal.Decimal
	Quantity           int
	ImageCover         string
	Images             []string
	Colors             []string
	CategoryID         uint
	SubCategoryID      *uint
	BrandID            *uint
	SortOrder          int
}

// ProductUpdateInput 更新商品输入，nil 字段表示不修改
type ProductUpdateInput struct {
	Title              *string
	Description        *string
	Price              *decimal.Decimal
	PriceAfterDiscount *decimal.Decimal
	Quantity           *int
	ImageCover         *string
	Images             []string
	Colors             []string
	CategoryID         *uint
	SubCategoryID      *uint
	BrandID            *uint
	SortOrder          *int
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// Get 获取商品详情
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetBySlug 按 slug 获取商品详情，详情页走 Redis 读穿缓存。
func (s *ProductService) GetBySlug(slugValue string) (*models.Product, error) {
	slugValue = strings.TrimSpace(slugValue)

	var cached models.Product
	if hit, err := cache.GetJSON(context.Background(), productSlugCacheKey(slugValue), &cached); err == nil && hit {
		return &cached, nil
	}

	product, err := s.repo.GetBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	_ = cache.SetJSON(context.Background(), productSlugCacheKey(product.Slug), product, productCacheTTL)
	return product, nil
}

// Create 创建商品。
// 标题规范化后唯一，价格必须落在允许区间内，折后价不得高于原价。
func (s *ProductService) Create(input ProductInput, operatorID uint) (*models.Product, error) {
	if err := s.validatePrices(input.Price, input.PriceAfterDiscount); err != nil {
		return nil, err
	}
	if err := s.validateRefs(input.CategoryID, input.SubCategoryID, input.BrandID); err != nil {
		return nil, err
	}

	normalized, slugValue, err := s.prepareTitle(input.Title, 0)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		Title:              normalized,
		Slug:               slugValue,
		Description:        strings.TrimSpace(input.Description),
		Price:              models.NewMoneyFromDecimal(input.Price),
		PriceAfterDiscount: models.NewMoneyFromDecimal(input.PriceAfterDiscount),
		Quantity:           input.Quantity,
		ImageCover:         strings.TrimSpace(input.ImageCover),
		Images:             models.StringArray(input.Images),
		Colors:             models.StringArray(input.Colors),
		CategoryID:         input.CategoryID,
		SubCategoryID:      input.SubCategoryID,
		BrandID:            input.BrandID,
		SortOrder:          input.SortOrder,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityProduct, product.ID, constants.AuditActionCreate, operatorID,
		"product created", map[string]interface{}{"title": product.Title, "price": product.Price.String()})
	s.push.Notify("New product", fmt.Sprintf("%s is now available", product.Title), "/products/"+product.Slug, constants.PushRoleUser)
	return &product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductUpdateInput, operatorID uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	previousSlug := product.Slug

	if input.Title != nil && normalizeName(*input.Title) != product.Title {
		normalized, slugValue, err := s.prepareTitle(*input.Title, id)
		if err != nil {
			return nil, err
		}
		product.Title = normalized
		product.Slug = slugValue
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}

	price := product.Price.Decimal
	discount := product.PriceAfterDiscount.Decimal
	if input.Price != nil {
		price = *input.Price
	}
	if input.PriceAfterDiscount != nil {
		discount = *input.PriceAfterDiscount
	}
	if input.Price != nil || input.PriceAfterDiscount != nil {
		if err := s.validatePrices(price, discount); err != nil {
			return nil, err
		}
		product.Price = models.NewMoneyFromDecimal(price)
		product.PriceAfterDiscount = models.NewMoneyFromDecimal(discount)
	}

	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.ImageCover != nil {
		product.ImageCover = strings.TrimSpace(*input.ImageCover)
	}
	if input.Images != nil {
		product.Images = models.StringArray(input.Images)
	}
	if input.Colors != nil {
		product.Colors = models.StringArray(input.Colors)
	}
	if input.SortOrder != nil {
		product.SortOrder = *input.SortOrder
	}

	categoryID := product.CategoryID
	if input.CategoryID != nil {
		categoryID = *input.CategoryID
	}
	subCategoryID := product.SubCategoryID
	if input.SubCategoryID != nil {
		subCategoryID = input.SubCategoryID
	}
	brandID := product.BrandID
	if input.BrandID != nil {
		brandID = input.BrandID
	}
	if input.CategoryID != nil || input.SubCategoryID != nil || input.BrandID != nil {
		if err := s.validateRefs(categoryID, subCategoryID, brandID); err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
		product.SubCategoryID = subCategoryID
		product.BrandID = brandID
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	_ = cache.Del(context.Background(), productSlugCacheKey(previousSlug))
	if product.Slug != previousSlug {
		_ = cache.Del(context.Background(), productSlugCacheKey(product.Slug))
	}

	s.audit.Record(constants.AuditEntityProduct, product.ID, constants.AuditActionUpdate, operatorID,
		"product updated", map[string]interface{}{"title": product.Title})
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint, operatorID uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	_ = cache.Del(context.Background(), productSlugCacheKey(product.Slug))

	s.audit.Record(constants.AuditEntityProduct, id, constants.AuditActionDelete, operatorID,
		"product deleted", map[string]interface{}{"title": product.Title})
	return nil
}

func (s *ProductService) validatePrices(price, discount decimal.Decimal) error {
	min := decimal.NewFromInt(constants.ProductPriceMin)
	max := decimal.NewFromInt(constants.ProductPriceMax)
	if price.LessThan(min) || price.GreaterThan(max) {
		return ErrPriceOutOfRange
	}
	if discount.IsNegative() {
		return ErrPriceOutOfRange
	}
	if discount.IsPositive() && discount.GreaterThanOrEqual(price) {
		return ErrPriceOutOfRange
	}
	return nil
}

func (s *ProductService) validateRefs(categoryID uint, subCategoryID, brandID *uint) error {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	if subCategoryID != nil && *subCategoryID > 0 {
		subCategory, err := s.subCategoryRepo.GetByID(*subCategoryID)
		if err != nil {
			return err
		}
		if subCategory == nil {
			return ErrSubCategoryNotFound
		}
		// 子分类必须归属所选分类
		if subCategory.CategoryID != categoryID {
			return ErrSubCategoryNotFound
		}
	}

	if brandID != nil && *brandID > 0 {
		brand, err := s.brandRepo.GetByID(*brandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return ErrBrandNotFound
		}
	}
	return nil
}

func (s *ProductService) prepareTitle(title string, excludeID uint) (string, string, error) {
	normalized := normalizeName(title)
	if normalized == "" {
		return "", "", ErrInvalidInput
	}

	count, err := s.repo.CountByTitle(normalized, excludeID)
	if err != nil {
		return "", "", err
	}
	if count > 0 {
		return "", "", ErrProductExists
	}

	return normalizeAndSlugify(title, func(candidate string) (bool, error) {
		taken, err := s.repo.CountBySlug(candidate)
		if err != nil {
			return false, err
		}
		return taken > 0, nil
	})
}

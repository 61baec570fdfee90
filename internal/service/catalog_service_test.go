package service

import (
	"errors"
	"testing"

	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type catalogTestEnv struct {
	db          *gorm.DB
	category    *CategoryService
	subCategory *SubCategoryService
	brand       *BrandService
	product     *ProductService
}

func newCatalogTestEnv(t *testing.T) *catalogTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.SubCategory{},
		&models.Brand{},
		&models.Product{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	audit := NewAuditService(repository.NewAuditLogRepository(db))
	push := NewPushService(&config.PushConfig{}, nil, nil)
	categoryRepo := repository.NewCategoryRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	productRepo := repository.NewProductRepository(db)

	return &catalogTestEnv{
		db:          db,
		category:    NewCategoryService(categoryRepo, audit),
		subCategory: NewSubCategoryService(subCategoryRepo, categoryRepo, audit),
		brand:       NewBrandService(brandRepo, audit),
		product:     NewProductService(productRepo, categoryRepo, subCategoryRepo, brandRepo, audit, push),
	}
}

func TestCategoryCreateNormalizesAndSlugs(t *testing.T) {
	env := newCatalogTestEnv(t)

	category, err := env.category.Create(CategoryInput{Name: "  gaming   laptops "}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if category.Name != "Gaming Laptops" {
		t.Fatalf("name want Gaming Laptops got %s", category.Name)
	}
	if category.Slug != "gaming-laptops" {
		t.Fatalf("slug want gaming-laptops got %s", category.Slug)
	}

	// 规范化后同名视为冲突
	if _, err := env.category.Create(CategoryInput{Name: "GAMING laptops"}, 1); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("duplicate name want ErrCategoryExists got %v", err)
	}

	found, err := env.category.GetBySlug("gaming-laptops")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if found.ID != category.ID {
		t.Fatalf("slug lookup returned wrong row")
	}
}

func TestCategoryUpdateKeepsSlugForSameName(t *testing.T) {
	env := newCatalogTestEnv(t)

	category, err := env.category.Create(CategoryInput{Name: "Audio"}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 名称未变，仅更新图片，slug 保持不变
	updated, err := env.category.Update(category.ID, CategoryInput{Name: "audio", Image: "/uploads/a.webp"}, 1)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != category.Slug {
		t.Fatalf("slug should be stable, want %s got %s", category.Slug, updated.Slug)
	}
	if updated.Image != "/uploads/a.webp" {
		t.Fatalf("image not updated: %s", updated.Image)
	}

	renamed, err := env.category.Update(category.ID, CategoryInput{Name: "Audio Gear"}, 1)
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Slug != "audio-gear" {
		t.Fatalf("renamed slug want audio-gear got %s", renamed.Slug)
	}
}

func TestSubCategoryRequiresParentCategory(t *testing.T) {
	env := newCatalogTestEnv(t)

	if _, err := env.subCategory.Create(SubCategoryInput{Name: "Headphones", CategoryID: 42}, 1); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("missing parent want ErrCategoryNotFound got %v", err)
	}

	category, err := env.category.Create(CategoryInput{Name: "Audio"}, 1)
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	sub, err := env.subCategory.Create(SubCategoryInput{Name: "Headphones", CategoryID: category.ID}, 1)
	if err != nil {
		t.Fatalf("create sub-category failed: %v", err)
	}
	if sub.CategoryID != category.ID {
		t.Fatalf("sub-category parent want %d got %d", category.ID, sub.CategoryID)
	}
}

func TestBrandDuplicateName(t *testing.T) {
	env := newCatalogTestEnv(t)

	if _, err := env.brand.Create(BrandInput{Name: "Acme"}, 1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := env.brand.Create(BrandInput{Name: "acme"}, 1); !errors.Is(err, ErrBrandExists) {
		t.Fatalf("duplicate brand want ErrBrandExists got %v", err)
	}
}

func TestProductCreateValidations(t *testing.T) {
	env := newCatalogTestEnv(t)

	category, err := env.category.Create(CategoryInput{Name: "Audio"}, 1)
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	other, err := env.category.Create(CategoryInput{Name: "Video"}, 1)
	if err != nil {
		t.Fatalf("create other category failed: %v", err)
	}
	sub, err := env.subCategory.Create(SubCategoryInput{Name: "Headphones", CategoryID: category.ID}, 1)
	if err != nil {
		t.Fatalf("create sub-category failed: %v", err)
	}

	base := ProductInput{
		Title:      "Studio Headphones",
		Price:      decimal.NewFromInt(120),
		Quantity:   10,
		CategoryID: category.ID,
	}

	tooCheap := base
	tooCheap.Price = decimal.Zero
	if _, err := env.product.Create(tooCheap, 1); !errors.Is(err, ErrPriceOutOfRange) {
		t.Fatalf("zero price want ErrPriceOutOfRange got %v", err)
	}

	discountTooHigh := base
	discountTooHigh.PriceAfterDiscount = decimal.NewFromInt(150)
	if _, err := env.product.Create(discountTooHigh, 1); !errors.Is(err, ErrPriceOutOfRange) {
		t.Fatalf("discount above price want ErrPriceOutOfRange got %v", err)
	}

	wrongParent := base
	wrongParent.CategoryID = other.ID
	wrongParent.SubCategoryID = &sub.ID
	if _, err := env.product.Create(wrongParent, 1); !errors.Is(err, ErrSubCategoryNotFound) {
		t.Fatalf("sub-category under other category want ErrSubCategoryNotFound got %v", err)
	}

	missingBrand := base
	brandID := uint(77)
	missingBrand.BrandID = &brandID
	if _, err := env.product.Create(missingBrand, 1); !errors.Is(err, ErrBrandNotFound) {
		t.Fatalf("unknown brand want ErrBrandNotFound got %v", err)
	}

	valid := base
	valid.SubCategoryID = &sub.ID
	valid.PriceAfterDiscount = decimal.NewFromInt(99)
	product, err := env.product.Create(valid, 1)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.Slug != "studio-headphones" {
		t.Fatalf("slug want studio-headphones got %s", product.Slug)
	}

	if _, err := env.product.Create(valid, 1); !errors.Is(err, ErrProductExists) {
		t.Fatalf("duplicate title want ErrProductExists got %v", err)
	}
}

func TestProductUpdateMergesFields(t *testing.T) {
	env := newCatalogTestEnv(t)

	category, err := env.category.Create(CategoryInput{Name: "Audio"}, 1)
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product, err := env.product.Create(ProductInput{
		Title:      "Desk Speaker",
		Price:      decimal.NewFromInt(60),
		Quantity:   5,
		CategoryID: category.ID,
	}, 1)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	quantity := 8
	price := decimal.NewFromInt(75)
	updated, err := env.product.Update(product.ID, ProductUpdateInput{
		Quantity: &quantity,
		Price:    &price,
	}, 1)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Quantity != 8 {
		t.Fatalf("quantity want 8 got %d", updated.Quantity)
	}
	if !updated.Price.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("price want 75.00 got %s", updated.Price.String())
	}
	if updated.Title != "Desk Speaker" {
		t.Fatalf("title should be unchanged, got %s", updated.Title)
	}

	if _, err := env.product.Update(9999, ProductUpdateInput{Quantity: &quantity}, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product want ErrProductNotFound got %v", err)
	}
}

func TestCategoryDelete(t *testing.T) {
	env := newCatalogTestEnv(t)

	category, err := env.category.Create(CategoryInput{Name: "Temp"}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := env.category.Delete(category.ID, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.category.Get(category.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("deleted category want ErrCategoryNotFound got %v", err)
	}
}

package repository

import (
	"errors"
	"strings"

	"github.com/webmastershop/internal/models"

	"gorm.io/gorm"
)

// SubCategoryRepository 子分类数据访问接口
type SubCategoryRepository interface {
	List(filter CatalogListFilter) ([]models.SubCategory, int64, error)
	GetByID(id uint) (*models.SubCategory, error)
	Create(subCategory *models.SubCategory) error
	Update(subCategory *models.SubCategory) error
	Delete(id uint) error
	CountByName(name string, excludeID uint) (int64, error)
	CountBySlug(slug string) (int64, error)
}

// GormSubCategoryRepository GORM 实现
type GormSubCategoryRepository struct {
	db *gorm.DB
}

// NewSubCategoryRepository 创建子分类仓库
func NewSubCategoryRepository(db *gorm.DB) *GormSubCategoryRepository {
	return &GormSubCategoryRepository{db: db}
}

// List 子分类列表
func (r *GormSubCategoryRepository) List(filter CatalogListFilter) ([]models.SubCategory, int64, error) {
	var subCategories []models.SubCategory
	query := r.db.Model(&models.SubCategory{})

	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Category").Order("sort_order DESC, id ASC").Find(&subCategories).Error; err != nil {
		return nil, 0, err
	}
	return subCategories, total, nil
}

// GetByID 根据 ID 获取子分类
func (r *GormSubCategoryRepository) GetByID(id uint) (*models.SubCategory, error) {
	var subCategory models.SubCategory
	if err := r.db.Preload("Category").First(&subCategory, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subCategory, nil
}

// Create 创建子分类
func (r *GormSubCategoryRepository) Create(subCategory *models.SubCategory) error {
	return r.db.Create(subCategory).Error
}

// Update 更新子分类
func (r *GormSubCategoryRepository) Update(subCategory *models.SubCategory) error {
	return r.db.Save(subCategory).Error
}

// Delete 删除子分类
func (r *GormSubCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.SubCategory{}, id).Error
}

// CountByName 统计同名子分类数量（排除指定 ID）
func (r *GormSubCategoryRepository) CountByName(name string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.SubCategory{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountBySlug 统计 slug 占用数量
func (r *GormSubCategoryRepository) CountBySlug(slug string) (int64, error) {
	var count int64
	err := r.db.Model(&models.SubCategory{}).Where("slug = ?", slug).Count(&count).Error
	return count, err
}

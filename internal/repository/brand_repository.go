package repository

import (
	"errors"
	"strings"

	"github.com/webmastershop/internal/models"

	"gorm.io/gorm"
)

// BrandRepository 品牌数据访问接口
type BrandRepository interface {
	List(filter CatalogListFilter) ([]models.Brand, int64, error)
	GetByID(id uint) (*models.Brand, error)
	Create(brand *models.Brand) error
	Update(brand *models.Brand) error
	Delete(id uint) error
	CountByName(name string, excludeID uint) (int64, error)
	CountBySlug(slug string) (int64, error)
}

// GormBrandRepository GORM 实现
type GormBrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓库
func NewBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// List 品牌列表
func (r *GormBrandRepository) List(filter CatalogListFilter) ([]models.Brand, int64, error) {
	var brands []models.Brand
	query := r.db.Model(&models.Brand{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, id ASC").Find(&brands).Error; err != nil {
		return nil, 0, err
	}
	return brands, total, nil
}

// GetByID 根据 ID 获取品牌
func (r *GormBrandRepository) GetByID(id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

// Create 创建品牌
func (r *GormBrandRepository) Create(brand *models.Brand) error {
	return r.db.Create(brand).Error
}

// Update 更新品牌
func (r *GormBrandRepository) Update(brand *models.Brand) error {
	return r.db.Save(brand).Error
}

// Delete 删除品牌
func (r *GormBrandRepository) Delete(id uint) error {
	return r.db.Delete(&models.Brand{}, id).Error
}

// CountByName 统计同名品牌数量（排除指定 ID）
func (r *GormBrandRepository) CountByName(name string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Brand{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountBySlug 统计 slug 占用数量
func (r *GormBrandRepository) CountBySlug(slug string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Brand{}).Where("slug = ?", slug).Count(&count).Error
	return count, err
}

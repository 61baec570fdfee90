package service

import (
	"strings"

	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo  repository.CategoryRepository
	audit *AuditService
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, audit *AuditService) *CategoryService {
	return &CategoryService{repo: repo, audit: audit}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name      string
	Image     string
	SortOrder int
}

// List 分类列表
func (s *CategoryService) List(filter repository.CatalogListFilter) ([]models.Category, int64, error) {
	return s.repo.List(filter)
}

// Get 获取分类详情
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// GetBySlug 按 slug 获取分类
func (s *CategoryService) GetBySlug(slugValue string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(strings.TrimSpace(slugValue))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput, operatorID uint) (*models.Category, error) {
	normalized, slugValue, err := s.prepareName(input.Name, 0)
	if err != nil {
		return nil, err
	}

	category := models.Category{
		Name:      normalized,
		Slug:      slugValue,
		Image:     strings.TrimSpace(input.Image),
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityCategory, category.ID, constants.AuditActionCreate, operatorID,
		"category created", map[string]interface{}{"name": category.Name, "slug": category.Slug})
	return &category, nil
}

// Update 更新分类。
// 名称变化时重新生成 slug。
func (s *CategoryService) Update(id uint, input CategoryInput, operatorID uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" && normalizeName(name) != category.Name {
		normalized, slugValue, err := s.prepareName(name, id)
		if err != nil {
			return nil, err
		}
		category.Name = normalized
		category.Slug = slugValue
	}
	if image := strings.TrimSpace(input.Image); image != "" {
		category.Image = image
	}
	category.SortOrder = input.SortOrder

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityCategory, category.ID, constants.AuditActionUpdate, operatorID,
		"category updated", map[string]interface{}{"name": category.Name, "slug": category.Slug})
	return category, nil
}

// Delete 删除分类
func (s *CategoryService) Delete(id uint, operatorID uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.audit.Record(constants.AuditEntityCategory, id, constants.AuditActionDelete, operatorID,
		"category deleted", map[string]interface{}{"name": category.Name})
	return nil
}

func (s *CategoryService) prepareName(name string, excludeID uint) (string, string, error) {
	normalized := normalizeName(name)
	if normalized == "" {
		return "", "", ErrInvalidInput
	}

	count, err := s.repo.CountByName(normalized, excludeID)
	if err != nil {
		return "", "", err
	}
	if count > 0 {
		return "", "", ErrCategoryExists
	}

	return normalizeAndSlugify(name, func(candidate string) (bool, error) {
		taken, err := s.repo.CountBySlug(candidate)
		if err != nil {
			return false, err
		}
		return taken > 0, nil
	})
}

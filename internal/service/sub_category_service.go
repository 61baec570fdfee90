package service

import (
	"strings"

	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"
)

// SubCategoryService 子分类业务服务
type SubCategoryService struct {
	repo         repository.SubCategoryRepository
	categoryRepo repository.CategoryRepository
	audit        *AuditService
}

// NewSubCategoryService 创建子分类服务
func NewSubCategoryService(repo repository.SubCategoryRepository, categoryRepo repository.CategoryRepository, audit *AuditService) *SubCategoryService {
	return &SubCategoryService{repo: repo, categoryRepo: categoryRepo, audit: audit}
}

// SubCategoryInput 创建/更新子分类输入
type SubCategoryInput struct {
	Name       string
	CategoryID uint
	Image      string
	SortOrder  int
}

// List 子分类列表，支持按所属分类过滤
func (s *SubCategoryService) List(filter repository.CatalogListFilter) ([]models.SubCategory, int64, error) {
	return s.repo.List(filter)
}

// Get 获取子分类详情
func (s *SubCategoryService) Get(id uint) (*models.SubCategory, error) {
	subCategory, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if subCategory == nil {
		return nil, ErrSubCategoryNotFound
	}
	return subCategory, nil
}

// Create 创建子分类（所属分类必须存在）
func (s *SubCategoryService) Create(input SubCategoryInput, operatorID uint) (*models.SubCategory, error) {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	normalized, slugValue, err := s.prepareName(input.Name, 0)
	if err != nil {
		return nil, err
	}

	subCategory := models.SubCategory{
		CategoryID: category.ID,
		Name:       normalized,
		Slug:       slugValue,
		Image:      strings.TrimSpace(input.Image),
		SortOrder:  input.SortOrder,
	}
	if err := s.repo.Create(&subCategory); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntitySubCategory, subCategory.ID, constants.AuditActionCreate, operatorID,
		"sub category created", map[string]interface{}{"name": subCategory.Name, "category_id": subCategory.CategoryID})
	return &subCategory, nil
}

// Update 更新子分类
func (s *SubCategoryService) Update(id uint, input SubCategoryInput, operatorID uint) (*models.SubCategory, error) {
	subCategory, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if subCategory == nil {
		return nil, ErrSubCategoryNotFound
	}

	if input.CategoryID > 0 && input.CategoryID != subCategory.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		subCategory.CategoryID = category.ID
	}

	if name := strings.TrimSpace(input.Name); name != "" && normalizeName(name) != subCategory.Name {
		normalized, slugValue, err := s.prepareName(name, id)
		if err != nil {
			return nil, err
		}
		subCategory.Name = normalized
		subCategory.Slug = slugValue
	}
	if image := strings.TrimSpace(input.Image); image != "" {
		subCategory.Image = image
	}
	subCategory.SortOrder = input.SortOrder

	if err := s.repo.Update(subCategory); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntitySubCategory, subCategory.ID, constants.AuditActionUpdate, operatorID,
		"sub category updated", map[string]interface{}{"name": subCategory.Name, "category_id": subCategory.CategoryID})
	return subCategory, nil
}

// Delete 删除子分类
func (s *SubCategoryService) Delete(id uint, operatorID uint) error {
	subCategory, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if subCategory == nil {
		return ErrSubCategoryNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.audit.Record(constants.AuditEntitySubCategory, id, constants.AuditActionDelete, operatorID,
		"sub category deleted", map[string]interface{}{"name": subCategory.Name})
	return nil
}

func (s *SubCategoryService) prepareName(name string, excludeID uint) (string, string, error) {
	normalized := normalizeName(name)
	if normalized == "" {
		return "", "", ErrInvalidInput
	}

	count, err := s.repo.CountByName(normalized, excludeID)
	if err != nil {
		return "", "", err
	}
	if count > 0 {
		return "", "", ErrSubCategoryExists
	}

	return normalizeAndSlugify(name, func(candidate string) (bool, error) {
		taken, err := s.repo.CountBySlug(candidate)
		if err != nil {
			return false, err
		}
		return taken > 0, nil
	})
}

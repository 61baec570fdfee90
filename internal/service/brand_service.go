package service

import (
	"strings"

	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"
)

// BrandService 品牌业务服务
type BrandService struct {
	repo  repository.BrandRepository
	audit *AuditService
}

// NewBrandService 创建品牌服务
func NewBrandService(repo repository.BrandRepository, audit *AuditService) *BrandService {
	return &BrandService{repo: repo, audit: audit}
}

// BrandInput 创建/更新品牌输入
type BrandInput struct {
	Name      string
	Image     string
	SortOrder int
}

// List 品牌列表
func (s *BrandService) List(filter repository.CatalogListFilter) ([]models.Brand, int64, error) {
	return s.repo.List(filter)
}

// Get 获取品牌详情
func (s *BrandService) Get(id uint) (*models.Brand, error) {
	brand, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

// Create 创建品牌
func (s *BrandService) Create(input BrandInput, operatorID uint) (*models.Brand, error) {
	normalized, slugValue, err := s.prepareName(input.Name, 0)
	if err != nil {
		return nil, err
	}

	brand := models.Brand{
		Name:      normalized,
		Slug:      slugValue,
		Image:     strings.TrimSpace(input.Image),
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(&brand); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityBrand, brand.ID, constants.AuditActionCreate, operatorID,
		"brand created", map[string]interface{}{"name": brand.Name, "slug": brand.Slug})
	return &brand, nil
}

// Update 更新品牌
func (s *BrandService) Update(id uint, input BrandInput, operatorID uint) (*models.Brand, error) {
	brand, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" && normalizeName(name) != brand.Name {
		normalized, slugValue, err := s.prepareName(name, id)
		if err != nil {
			return nil, err
		}
		brand.Name = normalized
		brand.Slug = slugValue
	}
	if image := strings.TrimSpace(input.Image); image != "" {
		brand.Image = image
	}
	brand.SortOrder = input.SortOrder

	if err := s.repo.Update(brand); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityBrand, brand.ID, constants.AuditActionUpdate, operatorID,
		"brand updated", map[string]interface{}{"name": brand.Name, "slug": brand.Slug})
	return brand, nil
}

// Delete 删除品牌
func (s *BrandService) Delete(id uint, operatorID uint) error {
	brand, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.audit.Record(constants.AuditEntityBrand, id, constants.AuditActionDelete, operatorID,
		"brand deleted", map[string]interface{}{"name": brand.Name})
	return nil
}

func (s *BrandService) prepareName(name string, excludeID uint) (string, string, error) {
	normalized := normalizeName(name)
	if normalized == "" {
		return "", "", ErrInvalidInput
	}

	count, err := s.repo.CountByName(normalized, excludeID)
	if err != nil {
		return "", "", err
	}
	if count > 0 {
		return "", "", ErrBrandExists
	}

	return normalizeAndSlugify(name, func(candidate string) (bool, error) {
		taken, err := s.repo.CountBySlug(candidate)
		if err != nil {
			return false, err
		}
		return taken > 0, nil
	})
}

package admin

import (
	"strconv"
	"strings"

	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/repository"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Image     string `json:"image"`
	SortOrder int    `json:"sort_order"`
}

// SubCategoryRequest 子分类创建/更新请求
type SubCategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID uint   `json:"category_id"`
	Image      string `json:"image"`
	SortOrder  int    `json:"sort_order"`
}

// BrandRequest 品牌创建/更新请求
type BrandRequest struct {
	Name      string `json:"name" binding:"required"`
	Image     string `json:"image"`
	SortOrder int    `json:"sort_order"`
}

func catalogListFilter(c *gin.Context) (repository.CatalogListFilter, int, int) {
	page, pageSize := parsePageQuery(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	return repository.CatalogListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		CategoryID: uint(categoryID),
	}, page, pageSize
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	filter, page, pageSize := catalogListFilter(c)
	categories, total, err := h.CategoryService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"categories": categories}, buildPagination(page, pageSize, total))
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	category, err := h.CategoryService.Create(service.CategoryInput{
		Name:      req.Name,
		Image:     req.Image,
		SortOrder: req.SortOrder,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to create category")
		return
	}
	response.Success(c, gin.H{"category": category})
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	category, err := h.CategoryService.Update(id, service.CategoryInput{
		Name:      req.Name,
		Image:     req.Image,
		SortOrder: req.SortOrder,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to update category")
		return
	}
	response.Success(c, gin.H{"category": category})
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id, operatorID); err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to delete category")
		return
	}
	response.SuccessWithMsg(c, "category deleted", nil)
}

// GetSubCategories 子分类列表
func (h *Handler) GetSubCategories(c *gin.Context) {
	filter, page, pageSize := catalogListFilter(c)
	subCategories, total, err := h.SubCategoryService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load sub categories", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"sub_categories": subCategories}, buildPagination(page, pageSize, total))
}

// CreateSubCategory 创建子分类
func (h *Handler) CreateSubCategory(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if req.CategoryID == 0 {
		respondError(c, response.CodeBadRequest, "category_id required", nil)
		return
	}

	subCategory, err := h.SubCategoryService.Create(service.SubCategoryInput{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Image:      req.Image,
		SortOrder:  req.SortOrder,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to create sub category")
		return
	}
	response.Success(c, gin.H{"sub_category": subCategory})
}

// UpdateSubCategory 更新子分类
func (h *Handler) UpdateSubCategory(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	subCategory, err := h.SubCategoryService.Update(id, service.SubCategoryInput{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Image:      req.Image,
		SortOrder:  req.SortOrder,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to update sub category")
		return
	}
	response.Success(c, gin.H{"sub_category": subCategory})
}

// DeleteSubCategory 删除子分类
func (h *Handler) DeleteSubCategory(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.SubCategoryService.Delete(id, operatorID); err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to delete sub category")
		return
	}
	response.SuccessWithMsg(c, "sub category deleted", nil)
}

// GetBrands 品牌列表
func (h *Handler) GetBrands(c *gin.Context) {
	filter, page, pageSize := catalogListFilter(c)
	brands, total, err := h.BrandService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load brands", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"brands": brands}, buildPagination(page, pageSize, total))
}

// CreateBrand 创建品牌
func (h *Handler) CreateBrand(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	brand, err := h.BrandService.Create(service.BrandInput{
		Name:      req.Name,
		Image:     req.Image,
		SortOrder: req.SortOrder,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to create brand")
		return
	}
	response.Success(c, gin.H{"brand": brand})
}

// UpdateBrand 更新品牌
func (h *Handler) UpdateBrand(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	brand, err := h.BrandService.Update(id, service.BrandInput{
		Name:      req.Name,
		Image:     req.Image,
		SortOrder: req.SortOrder,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to update brand")
		return
	}
	response.Success(c, gin.H{"brand": brand})
}

// DeleteBrand 删除品牌
func (h *Handler) DeleteBrand(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.BrandService.Delete(id, operatorID); err != nil {
		respondWithMappedError(c, err, adminCatalogErrorRules, response.CodeInternal, "failed to delete brand")
		return
	}
	response.SuccessWithMsg(c, "brand deleted", nil)
}

package public

import (
	"strconv"

	"github.com/webmastershop/internal/http/response"
	handlershared "github.com/webmastershop/internal/http/handlers/shared"
	"github.com/webmastershop/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.CatalogListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	categories, total, err := h.CategoryService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"categories": categories}, buildPagination(page, pageSize, total))
}

// GetCategory 分类详情（slug）
func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.CategoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "failed to load category")
		return
	}
	response.Success(c, gin.H{"category": category})
}

// ListSubCategories 子分类列表
func (h *Handler) ListSubCategories(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.CatalogListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		CategoryID: parseUintQuery(c, "category_id"),
	}
	subCategories, total, err := h.SubCategoryService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load sub categories", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"sub_categories": subCategories}, buildPagination(page, pageSize, total))
}

// ListBrands 品牌列表
func (h *Handler) ListBrands(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.CatalogListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	brands, total, err := h.BrandService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load brands", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"brands": brands}, buildPagination(page, pageSize, total))
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		CategoryID:    parseUintQuery(c, "category_id"),
		SubCategoryID: parseUintQuery(c, "sub_category_id"),
		BrandID:       parseUintQuery(c, "brand_id"),
		Search:        c.Query("search"),
		WithRelations: true,
	}
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, buildPagination(page, pageSize, total))
}

// GetProduct 商品详情（slug）
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "failed to load product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

func parsePageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}

func parseUintQuery(c *gin.Context, key string) uint {
	value, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.NewPagination(page, pageSize, total)
}

package admin

import (
	"strconv"
	"strings"

	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/repository"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description"`
	Price              string   `json:"price" binding:"required"`
	PriceAfterDiscount string   `json:"price_after_discount"`
	Quantity           int      `json:"quantity"`
	ImageCover         string   `json:"image_cover"`
	Images             []string `json:"images"`
	Colors             []string `json:"colors"`
	CategoryID         uint     `json:"category_id" binding:"required"`
	SubCategoryID      *uint    `json:"sub_category_id"`
	BrandID            *uint    `json:"brand_id"`
	SortOrder          int      `json:"sort_order"`
}

// UpdateProductRequest 更新商品请求
type UpdateProductRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Price              *string  `json:"price"`
	PriceAfterDiscount *string  `json:"price_after_discount"`
	Quantity           *int     `json:"quantity"`
	ImageCover         *string  `json:"image_cover"`
	Images             []string `json:"images"`
	Colors             []string `json:"colors"`
	CategoryID         *uint    `json:"category_id"`
	SubCategoryID      *uint    `json:"sub_category_id"`
	BrandID            *uint    `json:"brand_id"`
	SortOrder          *int     `json:"sort_order"`
}

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	subCategoryID, _ := strconv.ParseUint(c.Query("sub_category_id"), 10, 64)
	brandID, _ := strconv.ParseUint(c.Query("brand_id"), 10, 64)

	filter := repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		CategoryID:    uint(categoryID),
		SubCategoryID: uint(subCategoryID),
		BrandID:       uint(brandID),
		Search:        strings.TrimSpace(c.Query("search")),
		WithRelations: true,
	}
	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, buildPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "failed to load product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid price", nil)
		return
	}
	discount := decimal.Zero
	if strings.TrimSpace(req.PriceAfterDiscount) != "" {
		discount, err = decimal.NewFromString(strings.TrimSpace(req.PriceAfterDiscount))
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid discounted price", nil)
			return
		}
	}

	product, err := h.ProductService.Create(service.ProductInput{
		Title:              req.Title,
		Description:        req.Description,
		Price:              price,
		PriceAfterDiscount: discount,
		Quantity:           req.Quantity,
		ImageCover:         req.ImageCover,
		Images:             req.Images,
		Colors:             req.Colors,
		CategoryID:         req.CategoryID,
		SubCategoryID:      req.SubCategoryID,
		BrandID:            req.BrandID,
		SortOrder:          req.SortOrder,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "failed to create product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	input := service.ProductUpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Quantity:      req.Quantity,
		ImageCover:    req.ImageCover,
		Images:        req.Images,
		Colors:        req.Colors,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		BrandID:       req.BrandID,
		SortOrder:     req.SortOrder,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*req.Price))
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid price", nil)
			return
		}
		input.Price = &price
	}
	if req.PriceAfterDiscount != nil {
		discount, err := decimal.NewFromString(strings.TrimSpace(*req.PriceAfterDiscount))
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid discounted price", nil)
			return
		}
		input.PriceAfterDiscount = &discount
	}

	product, err := h.ProductService.Update(id, input, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "failed to update product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id, operatorID); err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "failed to delete product")
		return
	}
	response.SuccessWithMsg(c, "product deleted", nil)
}

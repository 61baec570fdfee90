package public

import (
	"strconv"

	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartLineRequest 加入购物车请求
type AddCartLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// UpdateCartLineRequest 更新购物车项请求
type UpdateCartLineRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  *int    `json:"quantity"`
	Color     *string `json:"color"`
}

// ApplyCouponRequest 应用优惠券请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetCart 获取当前用户购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to load cart")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// AddCartLine 加入购物车
func (h *Handler) AddCartLine(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	cart, err := h.CartService.AddLine(uid, req.ProductID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to add to cart")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// UpdateCartLine 更新购物车项数量或颜色
func (h *Handler) UpdateCartLine(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		respondError(c, response.CodeBadRequest, "quantity must be positive", nil)
		return
	}

	cart, err := h.CartService.UpdateLine(service.UpdateCartLineInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Color:     req.Color,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// ApplyCoupon 在购物车上应用优惠券
func (h *Handler) ApplyCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	cart, err := h.CartService.ApplyCoupon(uid, req.Code)
	if err != nil {
		rules := concatMappedHandlerErrors(cartErrorRules, couponApplyErrorRules)
		respondWithMappedError(c, err, rules, response.CodeInternal, "failed to apply coupon")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// RemoveCartLine 从购物车移除商品
func (h *Handler) RemoveCartLine(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("product_id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	cart, err := h.CartService.RemoveLine(uid, uint(productID))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to remove from cart")
		return
	}
	// 移除最后一件商品时购物车整体删除
	if cart == nil {
		response.SuccessWithMsg(c, "cart deleted", nil)
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.ClearCart(uid); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to clear cart")
		return
	}
	response.SuccessWithMsg(c, "cart cleared", nil)
}

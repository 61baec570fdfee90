package public

import (
	"strconv"

	"github.com/webmastershop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddWishlistRequest 加入心愿单请求
type AddWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// ListWishlist 当前用户心愿单
func (h *Handler) ListWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.WishlistService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load wishlist", err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// AddWishlistItem 加入心愿单
func (h *Handler) AddWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	item, err := h.WishlistService.Add(uid, req.ProductID)
	if err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "failed to add to wishlist")
		return
	}
	response.Success(c, gin.H{"item": item})
}

// RemoveWishlistItem 从心愿单移除
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
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

	if err := h.WishlistService.Remove(uid, uint(productID)); err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "failed to remove from wishlist")
		return
	}
	response.SuccessWithMsg(c, "removed from wishlist", nil)
}

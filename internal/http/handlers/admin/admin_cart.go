package admin

import (
	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetCarts 全部购物车列表
func (h *Handler) GetCarts(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	carts, total, err := h.CartService.ListAllCarts(repository.CartListFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load carts", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"carts": carts}, buildPagination(page, pageSize, total))
}

// GetCartByUser 查看指定用户购物车
func (h *Handler) GetCartByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	cart, err := h.CartService.GetCartByUser(userID)
	if err != nil {
		respondWithMappedError(c, err, adminCartErrorRules, response.CodeInternal, "failed to load cart")
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

package admin

import (
	"strings"
	"time"

	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/repository"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CouponUserRequest 授权用户请求
type CouponUserRequest struct {
	UserID   uint `json:"user_id" binding:"required"`
	MaxCount int  `json:"max_count"`
}

// CreateCouponRequest 创建优惠券请求
type CreateCouponRequest struct {
	Code     string              `json:"code"`
	Type     string              `json:"type" binding:"required"`
	Amount   string              `json:"amount" binding:"required"`
	StartsAt time.Time           `json:"starts_at" binding:"required"`
	EndsAt   time.Time           `json:"ends_at" binding:"required"`
	IsEnable *bool               `json:"is_enable"`
	Users    []CouponUserRequest `json:"users"`
}

// UpdateCouponRequest 更新优惠券请求
type UpdateCouponRequest struct {
	Type     *string    `json:"type"`
	Amount   *string    `json:"amount"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	IsEnable *bool      `json:"is_enable"`
}

// GetCoupons 优惠券列表
func (h *Handler) GetCoupons(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.CouponListFilter{
		Page:      page,
		PageSize:  pageSize,
		Code:      strings.TrimSpace(c.Query("code")),
		WithUsers: c.Query("with_users") == "true",
	}
	if raw := c.Query("is_enable"); raw != "" {
		enabled := raw == "true"
		filter.IsEnable = &enabled
	}

	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load coupons", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"coupons": coupons}, buildPagination(page, pageSize, total))
}

// GetCoupon 优惠券详情
func (h *Handler) GetCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to load coupon")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid amount", nil)
		return
	}

	users := make([]service.CouponUserInput, 0, len(req.Users))
	for _, u := range req.Users {
		users = append(users, service.CouponUserInput{UserID: u.UserID, MaxCount: u.MaxCount})
	}

	coupon, err := h.CouponAdminService.Create(service.CreateCouponInput{
		Code:     req.Code,
		Type:     req.Type,
		Amount:   amount,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		IsEnable: req.IsEnable,
		Users:    users,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to create coupon")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	input := service.UpdateCouponInput{
		Type:     req.Type,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		IsEnable: req.IsEnable,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(strings.TrimSpace(*req.Amount))
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid amount", nil)
			return
		}
		input.Amount = &amount
	}

	coupon, err := h.CouponAdminService.Update(id, input, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to update coupon")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// DisableCoupon 停用优惠券
func (h *Handler) DisableCoupon(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.Disable(id, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to disable coupon")
		return
	}
	response.Success(c, gin.H{"coupon": coupon})
}

// DeleteCoupon 删除优惠券（需先停用）
func (h *Handler) DeleteCoupon(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CouponAdminService.Delete(id, operatorID); err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to delete coupon")
		return
	}
	response.SuccessWithMsg(c, "coupon deleted", nil)
}

// AddCouponUser 向授权名单添加用户
func (h *Handler) AddCouponUser(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CouponUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	entry, err := h.CouponAdminService.AddUser(id, service.CouponUserInput{UserID: req.UserID, MaxCount: req.MaxCount}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to add coupon user")
		return
	}
	response.Success(c, gin.H{"coupon_user": entry})
}

// DisableCouponUser 对单个用户禁用优惠券
func (h *Handler) DisableCouponUser(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.CouponAdminService.DisableUser(id, userID, operatorID); err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to disable coupon user")
		return
	}
	response.SuccessWithMsg(c, "coupon user disabled", nil)
}

// RemoveCouponUser 从授权名单移除用户
func (h *Handler) RemoveCouponUser(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.CouponAdminService.RemoveUser(id, userID, operatorID); err != nil {
		respondWithMappedError(c, err, adminCouponErrorRules, response.CodeInternal, "failed to remove coupon user")
		return
	}
	response.SuccessWithMsg(c, "coupon user removed", nil)
}

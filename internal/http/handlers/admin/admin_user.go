package admin

import (
	"strconv"
	"strings"

	"github.com/webmastershop/internal/constants"
	handlershared "github.com/webmastershop/internal/http/handlers/shared"
	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/repository"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// UpdateUserRequest 管理员更新用户请求
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DisplayName *string `json:"display_name"`
	Avatar      *string `json:"avatar"`
	Age         *int    `json:"age"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	Gender      *string `json:"gender"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
}

// BatchUpdateUserStatusRequest 批量更新用户状态请求
type BatchUpdateUserStatusRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// GetUsers 用户列表
func (h *Handler) GetUsers(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
	}
	users, total, err := h.UserService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load users", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"users": users}, buildPagination(page, pageSize, total))
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "failed to load user")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// CreateUser 管理员创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserService.Create(service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "failed to create user")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// UpdateUser 管理员更新用户
func (h *Handler) UpdateUser(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserService.AdminUpdate(id, service.AdminUpdateUserInput{
		UpdateProfileInput: service.UpdateProfileInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DisplayName: req.DisplayName,
			Avatar:      req.Avatar,
			Age:         req.Age,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
			Gender:      req.Gender,
		},
		Role:   req.Role,
		Status: req.Status,
	}, operatorID)
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "failed to update user")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// DeleteUser 管理员删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if id == operatorID {
		respondError(c, response.CodeBadRequest, "cannot delete your own account", nil)
		return
	}
	if err := h.UserService.Delete(id, operatorID); err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "failed to delete user")
		return
	}
	response.SuccessWithMsg(c, "user deleted", nil)
}

// BatchUpdateUserStatus 批量启用/停用用户
func (h *Handler) BatchUpdateUserStatus(c *gin.Context) {
	var req BatchUpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != constants.UserStatusActive && status != constants.UserStatusInactive {
		respondError(c, response.CodeBadRequest, "invalid status", nil)
		return
	}
	if len(req.UserIDs) == 0 {
		respondError(c, response.CodeBadRequest, "user_ids required", nil)
		return
	}

	if err := h.UserRepo.BatchUpdateStatus(req.UserIDs, status); err != nil {
		respondError(c, response.CodeInternal, "failed to update users", err)
		return
	}
	response.SuccessWithMsg(c, "users updated", gin.H{"count": len(req.UserIDs)})
}

func parsePageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}

func parseIDParam(c *gin.Context, key string) (uint, bool) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.NewPagination(page, pageSize, total)
}

package public

import (
	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest 忘记密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// VerifyOtpRequest 验证码校验请求
type VerifyOtpRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DisplayName *string `json:"display_name"`
	Avatar      *string `json:"avatar"`
	Age         *int    `json:"age"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	Gender      *string `json:"gender"`
}

// Signup 用户注册
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AuthService.Signup(service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "signup failed")
		return
	}
	response.SuccessWithMsg(c, "verification email sent", gin.H{"user": user})
}

// VerifyEmail 邮箱验证回调
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, response.CodeBadRequest, "token required", nil)
		return
	}

	user, err := h.AuthService.VerifyEmail(token)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "email verification failed")
		return
	}
	response.SuccessWithMsg(c, "email verified", gin.H{"user": user})
}

// SignIn 用户登录
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, tokens, err := h.AuthService.SignIn(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "sign in failed")
		return
	}
	response.Success(c, gin.H{"user": user, "tokens": tokens})
}

// OAuthSignInRequest 第三方登录回调请求
type OAuthSignInRequest struct {
	Email  string `json:"email" binding:"required"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// OAuthSignIn 第三方登录回调，资料由前端在提供方校验后带回
func (h *Handler) OAuthSignIn(c *gin.Context) {
	var req OAuthSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, tokens, err := h.AuthService.OAuthSignIn(service.OAuthSignInInput{
		Email:  req.Email,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "sign in failed")
		return
	}
	response.Success(c, gin.H{"user": user, "tokens": tokens})
}

// RefreshTokens 刷新令牌
func (h *Handler) RefreshTokens(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	tokens, err := h.AuthService.RefreshTokens(req.RefreshToken)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeUnauthorized, "refresh failed")
		return
	}
	response.Success(c, gin.H{"tokens": tokens})
}

// ForgotPassword 发送密码重置验证码
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthService.ForgotPassword(req.Email); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "failed to send reset code")
		return
	}
	response.SuccessWithMsg(c, "reset code sent", nil)
}

// VerifyOtp 校验密码重置验证码
func (h *Handler) VerifyOtp(c *gin.Context) {
	var req VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthService.VerifyOtp(req.Email, req.Code); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeBadRequest, "code verification failed")
		return
	}
	response.SuccessWithMsg(c, "code verified", nil)
}

// ResetPassword 重置密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthService.ResetPassword(req.Email, req.NewPassword); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "password reset failed")
		return
	}
	response.SuccessWithMsg(c, "password reset", nil)
}

// ChangePassword 登录态修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "password change failed")
		return
	}
	response.SuccessWithMsg(c, "password changed", nil)
}

// GetMe 当前用户信息
func (h *Handler) GetMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUserByID(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "failed to load profile")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// UpdateMe 更新当前用户资料
func (h *Handler) UpdateMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserService.UpdateProfile(uid, service.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Gender:      req.Gender,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "profile update failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// DeactivateMe 注销当前账号
func (h *Handler) DeactivateMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserService.Deactivate(uid); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "deactivation failed")
		return
	}
	response.SuccessWithMsg(c, "account deactivated", nil)
}

package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/webmastershop/internal/cache"
	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/logger"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 用户认证服务
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	otpRepo      repository.OtpRepository
	emailService *EmailService
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, otpRepo repository.OtpRepository, emailService *EmailService) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		otpRepo:      otpRepo,
		emailService: emailService,
	}
}

// AuthClaims JWT 声明
type AuthClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	Purpose      string `json:"purpose"`
	CountEX      int    `json:"count_ex,omitempty"` // 刷新令牌剩余使用次数
	jwt.RegisteredClaims
}

// SignupInput 注册输入
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// GenerateAccessToken 生成访问令牌
func (s *AuthService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 2
	}
	return s.signToken(user, constants.TokenPurposeAccess, time.Duration(hours)*time.Hour, 0, s.cfg.JWT.SecretKey)
}

// GenerateRefreshToken 生成刷新令牌（携带剩余使用次数）
func (s *AuthService) GenerateRefreshToken(user *models.User, countEX int) (string, time.Time, error) {
	hours := s.cfg.JWT.RefreshExpireHours
	if hours <= 0 {
		hours = 168
	}
	return s.signToken(user, constants.TokenPurposeRefresh, time.Duration(hours)*time.Hour, countEX, s.cfg.JWT.SecretKey)
}

// GenerateVerifyToken 生成邮箱验证令牌
func (s *AuthService) GenerateVerifyToken(user *models.User) (string, time.Time, error) {
	hours := s.cfg.JWT.VerifyExpireHours
	if hours <= 0 {
		hours = 1
	}
	return s.signToken(user, constants.TokenPurposeVerifyEmail, time.Duration(hours)*time.Hour, 0, s.cfg.JWT.VerifySecretKey)
}

func (s *AuthService) signToken(user *models.User, purpose string, ttl time.Duration, countEX int, secret string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := AuthClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Purpose:      purpose,
		CountEX:      countEX,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseAccessToken 解析访问令牌
func (s *AuthService) ParseAccessToken(tokenString string) (*AuthClaims, error) {
	claims, err := s.parseToken(tokenString, s.cfg.JWT.SecretKey)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != constants.TokenPurposeAccess {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefreshToken 解析刷新令牌
func (s *AuthService) ParseRefreshToken(tokenString string) (*AuthClaims, error) {
	claims, err := s.parseToken(tokenString, s.cfg.JWT.SecretKey)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != constants.TokenPurposeRefresh {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseVerifyToken 解析邮箱验证令牌
func (s *AuthService) ParseVerifyToken(tokenString string) (*AuthClaims, error) {
	claims, err := s.parseToken(tokenString, s.cfg.JWT.VerifySecretKey)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != constants.TokenPurposeVerifyEmail {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *AuthService) parseToken(tokenString, secret string) (*AuthClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &AuthClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if parsed, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, ErrTokenInvalid
}

// Signup 用户注册。
// 创建账号后立刻发送邮箱验证链接，发信失败时注册整体失败。
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		DisplayName:  resolveDisplayNameFromEmail(normalized),
		Role:         constants.UserRoleUser,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.sendVerifyLink(user); err != nil {
		// 发信失败则撤销本次注册，用户可重试
		if delErr := s.userRepo.Delete(user.ID); delErr != nil {
			logger.Errorw("signup_rollback_failed", "user_id", user.ID, "error", delErr)
		}
		return nil, ErrEmailSendFailed
	}

	return user, nil
}

// VerifyEmail 通过令牌完成邮箱验证
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	claims, err := s.ParseVerifyToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.EmailVerifiedAt != nil {
		return user, nil
	}

	now := time.Now()
	user.EmailVerifiedAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn 用户登录。
// 未验证邮箱的用户补发验证链接并拒绝登录；停用账号在登录时恢复。
func (s *AuthService) SignIn(email, password string) (*models.User, *TokenPair, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.EmailVerifiedAt == nil {
		if err := s.sendVerifyLink(user); err != nil {
			logger.Warnw("verify_link_resend_failed", "user_id", user.ID, "error", err)
		}
		return nil, nil, ErrEmailNotVerified
	}

	now := time.Now()
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		user.Status = constants.UserStatusActive
	}
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	pair, err := s.issueTokenPair(user, constants.RefreshTokenMaxUse)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// OAuthSignInInput 第三方登录回调带回的用户资料
type OAuthSignInInput struct {
	Email  string
	Name   string
	Avatar string
}

// OAuthSignIn 第三方（Google）登录。
// 资料来自已通过提供方校验的回调：账号不存在时用随机密码创建并直接视为
// 已验证邮箱；已存在账号补齐验证状态并签发令牌，停用账号在登录时恢复。
func (s *AuthService) OAuthSignIn(input OAuthSignInInput) (*models.User, *TokenPair, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		password, err := randomOAuthPassword()
		if err != nil {
			return nil, nil, err
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, err
		}

		displayName := strings.TrimSpace(input.Name)
		if displayName == "" {
			displayName = resolveDisplayNameFromEmail(normalized)
		}
		user = &models.User{
			Email:           normalized,
			PasswordHash:    string(hashedPassword),
			DisplayName:     displayName,
			Avatar:          strings.TrimSpace(input.Avatar),
			Role:            constants.UserRoleUser,
			Status:          constants.UserStatusActive,
			EmailVerifiedAt: &now,
			CreatedAt:       now,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, nil, err
		}
	}

	if user.EmailVerifiedAt == nil {
		user.EmailVerifiedAt = &now
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		user.Status = constants.UserStatusActive
	}
	if user.Avatar == "" && strings.TrimSpace(input.Avatar) != "" {
		user.Avatar = strings.TrimSpace(input.Avatar)
	}
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	pair, err := s.issueTokenPair(user, constants.RefreshTokenMaxUse)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func randomOAuthPassword() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RefreshTokens 用刷新令牌换新令牌对，剩余使用次数递减。
func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := s.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.CountEX <= 0 {
		return nil, ErrRefreshExhausted
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	if user.TokenInvalidBefore != nil && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(*user.TokenInvalidBefore) {
		return nil, ErrTokenInvalid
	}

	return s.issueTokenPair(user, claims.CountEX-1)
}

func (s *AuthService) issueTokenPair(user *models.User, countEX int) (*TokenPair, error) {
	access, expiresAt, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.GenerateRefreshToken(user, countEX)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// ForgotPassword 发送密码重置验证码（覆盖历史验证码）
func (s *AuthService) ForgotPassword(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.otpRepo.DeleteByUser(user.ID); err != nil {
		return err
	}

	code, err := randomNumericCode(constants.OtpLength)
	if err != nil {
		return err
	}

	now := time.Now()
	otp := &models.Otp{
		UserID:    user.ID,
		CodeHash:  s.hashOtp(code),
		ExpiresAt: now.Add(constants.OtpExpireMinutes * time.Minute),
		CreatedAt: now,
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return err
	}

	if err := s.emailService.SendOtp(user.Email, code, constants.OtpExpireMinutes); err != nil {
		return ErrEmailSendFailed
	}
	return nil
}

// VerifyOtp 校验密码重置验证码并标记可用于重置
func (s *AuthService) VerifyOtp(email, code string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	otp, err := s.otpRepo.GetActiveByUser(user.ID, time.Now())
	if err != nil {
		return err
	}
	if otp == nil {
		return ErrOtpInvalid
	}
	if !hmac.Equal([]byte(otp.CodeHash), []byte(s.hashOtp(strings.TrimSpace(code)))) {
		return ErrOtpInvalid
	}
	return s.otpRepo.MarkUsed(otp.ID)
}

// ResetPassword 重置密码（要求先通过验证码校验）
func (s *AuthService) ResetPassword(email, newPassword string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	otp, err := s.otpRepo.GetUsedByUser(user.ID)
	if err != nil {
		return err
	}
	if otp == nil {
		return ErrOtpNotVerified
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return s.otpRepo.DeleteByUser(user.ID)
}

// ChangePassword 登录态修改密码
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if userID == 0 {
		return ErrUserNotFound
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// GetUserByID 获取用户信息
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) sendVerifyLink(user *models.User) error {
	token, _, err := s.GenerateVerifyToken(user)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/api/v1/auth/verify-email/%s", strings.TrimRight(s.cfg.Server.BaseURL, "/"), token)
	return s.emailService.SendVerifyLink(user.Email, link)
}

func (s *AuthService) hashOtp(code string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.JWT.OtpSecret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidInput
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidInput
	}
	return normalized, nil
}

func resolveDisplayNameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}

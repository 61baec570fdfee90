package service

import (
	"context"
	"strings"
	"time"

	"github.com/webmastershop/internal/cache"
	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService 用户管理服务
type UserService struct {
	cfg   *config.Config
	repo  repository.UserRepository
	audit *AuditService
}

// NewUserService 创建用户管理服务
func NewUserService(cfg *config.Config, repo repository.UserRepository, audit *AuditService) *UserService {
	return &UserService{cfg: cfg, repo: repo, audit: audit}
}

// CreateUserInput 管理员创建用户输入
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// UpdateProfileInput 资料更新输入，nil 字段表示不修改
type UpdateProfileInput struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	Avatar      *string
	Age         *int
	PhoneNumber *string
	Address     *string
	Gender      *string
}

// AdminUpdateUserInput 管理员更新用户输入
type AdminUpdateUserInput struct {
	UpdateProfileInput
	Role   *string
	Status *string
}

// List 用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.repo.List(filter)
}

// Get 获取用户详情
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Create 管理员创建用户（跳过邮箱验证流程）
func (s *UserService) Create(input CreateUserInput, operatorID uint) (*models.User, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.repo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUserExists
	}

	role := strings.TrimSpace(input.Role)
	if role != constants.UserRoleAdmin {
		role = constants.UserRoleUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Email:           normalized,
		PasswordHash:    string(hashedPassword),
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		DisplayName:     resolveDisplayNameFromEmail(normalized),
		Role:            role,
		Status:          constants.UserStatusActive,
		EmailVerifiedAt: &now,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityUser, user.ID, constants.AuditActionCreate, operatorID,
		"user created by admin", map[string]interface{}{"email": user.Email, "role": user.Role})
	return user, nil
}

// UpdateProfile 用户更新自己的资料
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	applyProfileInput(user, input)
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// AdminUpdate 管理员更新用户。
// 角色或状态变化时递增 Token 版本，使已签发令牌失效。
func (s *UserService) AdminUpdate(id uint, input AdminUpdateUserInput, operatorID uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	applyProfileInput(user, input.UpdateProfileInput)

	invalidate := false
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if role != constants.UserRoleAdmin && role != constants.UserRoleUser {
			return nil, ErrInvalidInput
		}
		if role != user.Role {
			user.Role = role
			invalidate = true
		}
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if status != constants.UserStatusActive && status != constants.UserStatusInactive {
			return nil, ErrInvalidInput
		}
		if status != user.Status {
			user.Status = status
			invalidate = true
		}
	}

	now := time.Now()
	if invalidate {
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	user.UpdatedAt = now
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	if invalidate {
		_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	}

	s.audit.Record(constants.AuditEntityUser, user.ID, constants.AuditActionUpdate, operatorID,
		"user updated by admin", map[string]interface{}{"email": user.Email, "role": user.Role, "status": user.Status})
	return user, nil
}

// Deactivate 用户注销自己的账号（软停用，登录即恢复）
func (s *UserService) Deactivate(userID uint) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := time.Now()
	user.Status = constants.UserStatusInactive
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	user.UpdatedAt = now
	if err := s.repo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// Delete 管理员删除用户
func (s *UserService) Delete(id uint, operatorID uint) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), id)

	s.audit.Record(constants.AuditEntityUser, id, constants.AuditActionDelete, operatorID,
		"user deleted by admin", map[string]interface{}{"email": user.Email})
	return nil
}

func applyProfileInput(user *models.User, input UpdateProfileInput) {
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if input.Age != nil && *input.Age >= 0 {
		user.Age = *input.Age
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.Gender != nil {
		gender := strings.ToLower(strings.TrimSpace(*input.Gender))
		if gender == constants.UserGenderMale || gender == constants.UserGenderFemale || gender == "" {
			user.Gender = gender
		}
	}
}

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo     repository.CouponRepository
	userRepo repository.UserRepository
	audit    *AuditService
	push     *PushService
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository, userRepo repository.UserRepository, audit *AuditService, push *PushService) *CouponAdminService {
	return &CouponAdminService{repo: repo, userRepo: userRepo, audit: audit, push: push}
}

// CouponUserInput 授权用户输入
type CouponUserInput struct {
	UserID   uint
	MaxCount int
}

// CreateCouponInput 创建优惠券输入
type CreateCouponInput struct {
	Code     string // 为空时自动生成
	Type     string
	Amount   decimal.Decimal
	StartsAt time.Time
	EndsAt   time.Time
	IsEnable *bool
	Users    []CouponUserInput
}

// UpdateCouponInput 更新优惠券输入，nil 字段表示不修改
type UpdateCouponInput struct {
	Type     *string
	Amount   *decimal.Decimal
	StartsAt *time.Time
	EndsAt   *time.Time
	IsEnable *bool
}

const maxCouponCodeAttempts = 20

// List 优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

// Get 获取优惠券详情
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Create 创建优惠券。
// 未指定优惠码时生成随机 6 位数字码；指定授权名单时校验每个用户存在。
func (s *CouponAdminService) Create(input CreateCouponInput, operatorID uint) (*models.Coupon, error) {
	couponType, err := validateCouponValue(input.Type, input.Amount)
	if err != nil {
		return nil, err
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() || !input.EndsAt.After(input.StartsAt) {
		return nil, ErrCouponInvalid
	}

	code := strings.TrimSpace(input.Code)
	if code != "" {
		exist, err := s.repo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if exist != nil {
			return nil, ErrCouponExists
		}
	} else {
		code, err = s.generateUniqueCode()
		if err != nil {
			return nil, err
		}
	}

	users, err := s.buildUserEntries(input.Users)
	if err != nil {
		return nil, err
	}

	isEnable := true
	if input.IsEnable != nil {
		isEnable = *input.IsEnable
	}

	coupon := &models.Coupon{
		Code:     code,
		Type:     couponType,
		Amount:   models.NewMoneyFromDecimal(input.Amount),
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
		IsEnable: isEnable,
		Users:    users,
	}
	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityCoupon, coupon.ID, constants.AuditActionCreate, operatorID,
		"coupon created", map[string]interface{}{"code": coupon.Code, "type": coupon.Type, "amount": coupon.Amount.String()})
	s.push.Notify("New coupon", fmt.Sprintf("Coupon %s is now available", coupon.Code), "", constants.PushRoleUser)
	return coupon, nil
}

// Update 更新优惠券
func (s *CouponAdminService) Update(id uint, input UpdateCouponInput, operatorID uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	couponType := coupon.Type
	amount := coupon.Amount.Decimal
	if input.Type != nil {
		couponType = *input.Type
	}
	if input.Amount != nil {
		amount = *input.Amount
	}
	couponType, err = validateCouponValue(couponType, amount)
	if err != nil {
		return nil, err
	}

	startsAt := coupon.StartsAt
	endsAt := coupon.EndsAt
	if input.StartsAt != nil {
		startsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		endsAt = *input.EndsAt
	}
	if !endsAt.After(startsAt) {
		return nil, ErrCouponInvalid
	}

	coupon.Type = couponType
	coupon.Amount = models.NewMoneyFromDecimal(amount)
	coupon.StartsAt = startsAt
	coupon.EndsAt = endsAt
	if input.IsEnable != nil {
		coupon.IsEnable = *input.IsEnable
	}

	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityCoupon, coupon.ID, constants.AuditActionUpdate, operatorID,
		"coupon updated", map[string]interface{}{"code": coupon.Code})
	return coupon, nil
}

// Disable 停用优惠券
func (s *CouponAdminService) Disable(id uint, operatorID uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if coupon.IsEnable {
		coupon.IsEnable = false
		if err := s.repo.Update(coupon); err != nil {
			return nil, err
		}
	}

	s.audit.Record(constants.AuditEntityCoupon, coupon.ID, constants.AuditActionUpdate, operatorID,
		"coupon disabled", map[string]interface{}{"code": coupon.Code})
	return coupon, nil
}

// Delete 删除优惠券。
// 仅允许删除已停用的优惠券。
func (s *CouponAdminService) Delete(id uint, operatorID uint) error {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	if coupon.IsEnable {
		return ErrCouponStillEnabled
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.audit.Record(constants.AuditEntityCoupon, id, constants.AuditActionDelete, operatorID,
		"coupon deleted", map[string]interface{}{"code": coupon.Code})
	return nil
}

// AddUser 向授权名单追加或更新用户
func (s *CouponAdminService) AddUser(couponID uint, input CouponUserInput, operatorID uint) (*models.CouponUser, error) {
	coupon, err := s.repo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	maxCount := input.MaxCount
	if maxCount <= 0 {
		maxCount = 1
	}

	entry, err := s.repo.GetUser(couponID, input.UserID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = &models.CouponUser{CouponID: couponID, UserID: input.UserID, MaxCount: maxCount}
	} else {
		entry.MaxCount = maxCount
		entry.Disabled = false
	}
	if err := s.repo.SaveUser(entry); err != nil {
		return nil, err
	}

	s.audit.Record(constants.AuditEntityCoupon, couponID, constants.AuditActionUpdate, operatorID,
		"coupon user granted", map[string]interface{}{"user_id": input.UserID, "max_count": maxCount})
	return entry, nil
}

// DisableUser 对单个用户禁用优惠券
func (s *CouponAdminService) DisableUser(couponID, userID uint, operatorID uint) error {
	entry, err := s.repo.GetUser(couponID, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrCouponUserNotFound
	}
	if !entry.Disabled {
		entry.Disabled = true
		if err := s.repo.SaveUser(entry); err != nil {
			return err
		}
	}

	s.audit.Record(constants.AuditEntityCoupon, couponID, constants.AuditActionUpdate, operatorID,
		"coupon user disabled", map[string]interface{}{"user_id": userID})
	return nil
}

// RemoveUser 从授权名单移除用户
func (s *CouponAdminService) RemoveUser(couponID, userID uint, operatorID uint) error {
	entry, err := s.repo.GetUser(couponID, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrCouponUserNotFound
	}
	if err := s.repo.RemoveUser(couponID, userID); err != nil {
		return err
	}

	s.audit.Record(constants.AuditEntityCoupon, couponID, constants.AuditActionUpdate, operatorID,
		"coupon user removed", map[string]interface{}{"user_id": userID})
	return nil
}

func (s *CouponAdminService) buildUserEntries(inputs []CouponUserInput) ([]models.CouponUser, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	entries := make([]models.CouponUser, 0, len(inputs))
	seen := make(map[uint]struct{}, len(inputs))
	for _, input := range inputs {
		if input.UserID == 0 {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[input.UserID]; ok {
			continue
		}
		seen[input.UserID] = struct{}{}

		user, err := s.userRepo.GetByID(input.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		maxCount := input.MaxCount
		if maxCount <= 0 {
			maxCount = 1
		}
		entries = append(entries, models.CouponUser{UserID: input.UserID, MaxCount: maxCount})
	}
	return entries, nil
}

func (s *CouponAdminService) generateUniqueCode() (string, error) {
	for attempt := 0; attempt < maxCouponCodeAttempts; attempt++ {
		code, err := randomNumericCode(constants.CouponCodeLength)
		if err != nil {
			return "", err
		}
		exist, err := s.repo.GetByCode(code)
		if err != nil {
			return "", err
		}
		if exist == nil {
			return code, nil
		}
	}
	return "", ErrCouponInvalid
}

func validateCouponValue(couponType string, amount decimal.Decimal) (string, error) {
	couponType = strings.ToLower(strings.TrimSpace(couponType))
	if couponType != constants.CouponTypeFixed && couponType != constants.CouponTypePercent {
		return "", ErrCouponInvalid
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", ErrCouponInvalid
	}
	if couponType == constants.CouponTypePercent && amount.GreaterThan(decimal.NewFromInt(100)) {
		return "", ErrCouponInvalid
	}
	return couponType, nil
}

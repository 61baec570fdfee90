package repository

import (
	"errors"
	"time"

	"github.com/webmastershop/internal/models"

	"gorm.io/gorm"
)

// OtpRepository 密码重置验证码数据访问接口
type OtpRepository interface {
	Create(otp *models.Otp) error
	DeleteByUser(userID uint) error
	GetActiveByUser(userID uint, now time.Time) (*models.Otp, error)
	GetUsedByUser(userID uint) (*models.Otp, error)
	MarkUsed(id uint) error
}

// GormOtpRepository GORM 实现
type GormOtpRepository struct {
	db *gorm.DB
}

// NewOtpRepository 创建验证码仓库
func NewOtpRepository(db *gorm.DB) *GormOtpRepository {
	return &GormOtpRepository{db: db}
}

// Create 写入验证码记录
func (r *GormOtpRepository) Create(otp *models.Otp) error {
	return r.db.Create(otp).Error
}

// DeleteByUser 删除用户历史验证码
func (r *GormOtpRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Otp{}).Error
}

// GetActiveByUser 获取用户未过期未使用的验证码
func (r *GormOtpRepository) GetActiveByUser(userID uint, now time.Time) (*models.Otp, error) {
	var otp models.Otp
	err := r.db.Where("user_id = ? AND used = ? AND expires_at > ?", userID, false, now).
		Order("id desc").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// GetUsedByUser 获取用户已校验通过的验证码
func (r *GormOtpRepository) GetUsedByUser(userID uint) (*models.Otp, error) {
	var otp models.Otp
	err := r.db.Where("user_id = ? AND used = ?", userID, true).
		Order("id desc").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// MarkUsed 标记验证码已校验通过
func (r *GormOtpRepository) MarkUsed(id uint) error {
	return r.db.Model(&models.Otp{}).Where("id = ?", id).Update("used", true).Error
}

package repository

import (
	"errors"
	"time"

	"github.com/webmastershop/internal/models"

	"gorm.io/gorm"
)

// CouponRepository 优惠券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	FindApplicable(code string, now time.Time) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	DisableExpired(now time.Time) (int64, error)
	GetUser(couponID, userID uint) (*models.CouponUser, error)
	SaveUser(entry *models.CouponUser) error
	RemoveUser(couponID, userID uint) error
	WithTx(tx *gorm.DB) *GormCouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByID 根据ID获取优惠券（含授权名单）
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Preload("Users").First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode 根据优惠码获取优惠券
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Preload("Users").Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// FindApplicable 查找启用且在有效期内的优惠券
func (r *GormCouponRepository) FindApplicable(code string, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.Preload("Users").
		Where("code = ?", code).
		Where("is_enable = ?", true).
		Where("starts_at <= ?", now).
		Where("ends_at >= ?", now).
		First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Create 创建优惠券（连同授权名单）
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update 更新优惠券
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete 删除优惠券及授权名单
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("coupon_id = ?", id).Delete(&models.CouponUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Coupon{}, id).Error
	})
}

// List 获取优惠券列表
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{})

	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.IsEnable != nil {
		query = query.Where("is_enable = ?", *filter.IsEnable)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if filter.WithUsers {
		query = query.Preload("Users")
	}

	if err := query.Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// DisableExpired 批量禁用已过期的优惠券，返回受影响行数
func (r *GormCouponRepository) DisableExpired(now time.Time) (int64, error) {
	result := r.db.Model(&models.Coupon{}).
		Where("is_enable = ?", true).
		Where("ends_at < ?", now).
		Update("is_enable", false)
	return result.RowsAffected, result.Error
}

// GetUser 获取用户授权记录
func (r *GormCouponRepository) GetUser(couponID, userID uint) (*models.CouponUser, error) {
	var entry models.CouponUser
	err := r.db.Where("coupon_id = ? AND user_id = ?", couponID, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveUser 保存用户授权记录
func (r *GormCouponRepository) SaveUser(entry *models.CouponUser) error {
	return r.db.Save(entry).Error
}

// RemoveUser 将用户移出授权名单
func (r *GormCouponRepository) RemoveUser(couponID, userID uint) error {
	return r.db.Where("coupon_id = ? AND user_id = ?", couponID, userID).Delete(&models.CouponUser{}).Error
}

package repository

import (
	"errors"

	"github.com/webmastershop/internal/models"

	"gorm.io/gorm"
)

// PushSubscriptionRepository 推送订阅数据访问接口
type PushSubscriptionRepository interface {
	GetByEndpoint(endpoint string) (*models.PushSubscription, error)
	Upsert(sub *models.PushSubscription) error
	ListAll() ([]models.PushSubscription, error)
	ListByRole(role string) ([]models.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// GormPushSubscriptionRepository GORM 实现
type GormPushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPushSubscriptionRepository 创建推送订阅仓库
func NewPushSubscriptionRepository(db *gorm.DB) *GormPushSubscriptionRepository {
	return &GormPushSubscriptionRepository{db: db}
}

// GetByEndpoint 按端点获取订阅
func (r *GormPushSubscriptionRepository) GetByEndpoint(endpoint string) (*models.PushSubscription, error) {
	var sub models.PushSubscription
	err := r.db.Where("endpoint = ?", endpoint).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert 新增或更新订阅（端点唯一）
func (r *GormPushSubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	existing, err := r.GetByEndpoint(sub.Endpoint)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(sub).Error
	}
	updates := map[string]interface{}{
		"p256dh": sub.P256dh,
		"auth":   sub.Auth,
		"role":   sub.Role,
	}
	return r.db.Model(existing).Updates(updates).Error
}

// ListAll 获取全部订阅
func (r *GormPushSubscriptionRepository) ListAll() ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	if err := r.db.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListByRole 按角色获取订阅
func (r *GormPushSubscriptionRepository) ListByRole(role string) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	if err := r.db.Where("role = ?", role).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteByEndpoint 删除失效订阅
func (r *GormPushSubscriptionRepository) DeleteByEndpoint(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).Delete(&models.PushSubscription{}).Error
}

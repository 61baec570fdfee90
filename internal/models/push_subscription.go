package models

import (
	"time"

	"gorm.io/gorm"
)

// PushSubscription Web Push 订阅
type PushSubscription struct {
	ID        uint           `gorm:"primarykey" json:"id"`                    // 主键
	Endpoint  string         `gorm:"uniqueIndex;not null" json:"endpoint"`    // 推送端点
	P256dh    string         `gorm:"not null" json:"p256dh"`                  // 客户端公钥
	Auth      string         `gorm:"not null" json:"auth"`                    // 鉴权密钥
	Role      string         `gorm:"default:'user';index" json:"role"`        // 订阅者角色（user/admin）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (PushSubscription) TableName() string {
	return "push_subscriptions"
}

package models

import (
	"time"
)

// Otp 密码重置验证码（哈希存储）
type Otp struct {
	ID        uint      `gorm:"primarykey" json:"id"`           // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"`  // 用户ID
	CodeHash  string    `gorm:"not null" json:"-"`              // 验证码 HMAC 哈希
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"` // 过期时间
	Used      bool      `gorm:"not null;default:false" json:"used"` // 是否已校验通过
	CreatedAt time.Time `gorm:"index" json:"created_at"`        // 创建时间
}

// TableName 指定表名
func (Otp) TableName() string {
	return "otps"
}

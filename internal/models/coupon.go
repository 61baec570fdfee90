package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID        uint           `gorm:"primarykey" json:"id"`                     // 主键
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`         // 优惠码（6位数字）
	Type      string         `gorm:"not null" json:"type"`                     // 类型（fixed/percent）
	Amount    Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 数值（固定金额或百分比）
	StartsAt  time.Time      `gorm:"index;not null" json:"starts_at"`          // 生效时间
	EndsAt    time.Time      `gorm:"index;not null" json:"ends_at"`            // 失效时间
	IsEnable  bool           `gorm:"not null;default:true" json:"is_enable"`   // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                  // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间

	Users []CouponUser `gorm:"foreignKey:CouponID;constraint:OnDelete:CASCADE" json:"users"` // 授权用户名单
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// CouponUser 优惠券授权记录（按用户限次）
type CouponUser struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                     // 主键
	CouponID   uint           `gorm:"not null;uniqueIndex:idx_coupon_user" json:"coupon_id"`    // 优惠券ID
	UserID     uint           `gorm:"not null;uniqueIndex:idx_coupon_user" json:"user_id"`      // 用户ID
	MaxCount   int            `gorm:"not null;default:1" json:"max_count"`                      // 可使用次数上限
	UsageCount int            `gorm:"not null;default:0" json:"usage_count"`                    // 已使用次数
	Disabled   bool           `gorm:"not null;default:false" json:"disabled"`                   // 是否对该用户禁用
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 关联用户
}

// TableName 指定表名
func (CouponUser) TableName() string {
	return "coupon_users"
}

package models

import "time"

// Cart 购物车（每个用户一个）。
// 购物车是临时聚合，删除即物理删除，避免唯一索引被历史行占用。
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键
	UserID     uint      `gorm:"not null;uniqueIndex" json:"user_id"`                      // 用户ID
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 当前总价（含已用优惠）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                  // 更新时间

	User    *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`                         // 所属用户
	Lines   []CartLine   `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cart_items"` // 购物车行
	Coupons []CartCoupon `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"coupons"`    // 已应用优惠券
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartLine 购物车行（同一购物车内一个商品一行）
type CartLine struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`    // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"` // 商品ID
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`                      // 数量
	Color     string    `gorm:"default:''" json:"color"`                                 // 颜色
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                 // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}

// CartCoupon 购物车已应用的优惠券（按应用顺序）
type CartCoupon struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	CartID    uint      `gorm:"not null;index" json:"cart_id"`   // 购物车ID
	CouponID  uint      `gorm:"not null;index" json:"coupon_id"` // 优惠券ID
	Code      string    `gorm:"not null" json:"coupon_code"`     // 优惠码快照
	CreatedAt time.Time `gorm:"index" json:"created_at"`         // 应用时间
}

// TableName 指定表名
func (CartCoupon) TableName() string {
	return "cart_coupons"
}

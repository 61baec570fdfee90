package repository

import (
	"errors"

	"github.com/webmastershop/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	UpdateTotal(cartID uint, total models.Money) error
	Delete(cartID uint) error
	List(filter CartListFilter) ([]models.Cart, int64, error)
	AddLine(line *models.CartLine) error
	UpdateLine(line *models.CartLine) error
	DeleteLine(lineID uint) error
	AddCoupon(coupon *models.CartCoupon) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser 获取用户购物车（含商品与已应用优惠券）
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.id asc")
		}).
		Preload("Lines.Product").
		Preload("Coupons", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_coupons.id asc")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车（可携带初始行）
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// UpdateTotal 更新购物车总价
func (r *GormCartRepository) UpdateTotal(cartID uint, total models.Money) error {
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("total_price", total).Error
}

// Delete 删除购物车及其关联行
func (r *GormCartRepository) Delete(cartID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartCoupon{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, cartID).Error
	})
}

// List 获取所有购物车（管理端）
func (r *GormCartRepository) List(filter CartListFilter) ([]models.Cart, int64, error) {
	var carts []models.Cart
	query := r.db.Model(&models.Cart{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	err := query.
		Preload("User").
		Preload("Lines.Product").
		Preload("Coupons").
		Order("id desc").
		Find(&carts).Error
	if err != nil {
		return nil, 0, err
	}
	return carts, total, nil
}

// AddLine 新增购物车行
func (r *GormCartRepository) AddLine(line *models.CartLine) error {
	return r.db.Create(line).Error
}

// UpdateLine 更新购物车行
func (r *GormCartRepository) UpdateLine(line *models.CartLine) error {
	updates := map[string]interface{}{
		"quantity": line.Quantity,
		"color":    line.Color,
	}
	return r.db.Model(&models.CartLine{}).Where("id = ?", line.ID).Updates(updates).Error
}

// DeleteLine 删除购物车行
func (r *GormCartRepository) DeleteLine(lineID uint) error {
	return r.db.Delete(&models.CartLine{}, lineID).Error
}

// AddCoupon 记录购物车应用的优惠券
func (r *GormCartRepository) AddCoupon(coupon *models.CartCoupon) error {
	return r.db.Create(coupon).Error
}

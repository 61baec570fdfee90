package service

import (
	"strings"
	"sync"
	"time"

	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"
)

// UpdateCartLineInput 购物车行更新输入（quantity/color 均可选）
type UpdateCartLineInput struct {
	UserID    uint
	ProductID uint
	Quantity  *int
	Color     *string
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository

	// 同一用户的读改写串行化，避免并发请求覆盖总价
	locks sync.Map // map[uint]*sync.Mutex
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, couponRepo repository.CouponRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
	}
}

func (s *CartService) lockUser(userID uint) func() {
	actual, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := actual.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// AddLine 把商品加入购物车（无购物车则创建，数量固定为 1）
func (s *CartService) AddLine(userID, productID uint) (*models.Cart, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	unlock := s.lockUser(userID)
	defer unlock()

	return s.addLineLocked(userID, productID)
}

func (s *CartService) addLineLocked(userID, productID uint) (*models.Cart, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Quantity <= 0 {
		return nil, ErrProductOutOfStock
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		newCart := &models.Cart{
			UserID:     userID,
			TotalPrice: product.EffectivePrice(),
			Lines: []models.CartLine{
				{ProductID: productID, Quantity: 1, Color: ""},
			},
		}
		if err := s.cartRepo.Create(newCart); err != nil {
			return nil, err
		}
		return s.cartRepo.GetByUser(userID)
	}

	for _, line := range cart.Lines {
		if line.ProductID == productID {
			return nil, ErrCartLineExists
		}
	}

	line := &models.CartLine{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  1,
		Color:     "",
	}
	if err := s.cartRepo.AddLine(line); err != nil {
		return nil, err
	}

	return s.recomputeAndReload(cart.ID, userID)
}

// UpdateLine 更新购物车行的数量或颜色。
// 用户没有购物车时退化为 AddLine；只有提交了数量才重算总价。
func (s *CartService) UpdateLine(input UpdateCartLineInput) (*models.Cart, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, ErrInvalidInput
	}

	unlock := s.lockUser(input.UserID)
	defer unlock()

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Quantity <= 0 {
		return nil, ErrProductOutOfStock
	}

	cart, err := s.cartRepo.GetByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.addLineLocked(input.UserID, input.ProductID)
	}

	var target *models.CartLine
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == input.ProductID {
			target = &cart.Lines[i]
			break
		}
	}
	if target == nil {
		return nil, ErrCartLineNotFound
	}

	if input.Color != nil && strings.TrimSpace(*input.Color) != "" {
		target.Color = strings.TrimSpace(*input.Color)
	}

	quantityChanged := false
	if input.Quantity != nil {
		target.Quantity = *input.Quantity
		quantityChanged = true
	}

	if err := s.cartRepo.UpdateLine(target); err != nil {
		return nil, err
	}

	if quantityChanged {
		return s.recomputeAndReload(cart.ID, input.UserID)
	}
	return s.cartRepo.GetByUser(input.UserID)
}

// ApplyCoupon 在购物车上应用优惠码。
// 授权名单内的用户按剩余次数扣减；名单外的用户仅以购物车内重复码去重。
func (s *CartService) ApplyCoupon(userID uint, code string) (*models.Cart, error) {
	trimmed := strings.TrimSpace(code)
	if userID == 0 || trimmed == "" {
		return nil, ErrInvalidInput
	}
	unlock := s.lockUser(userID)
	defer unlock()

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	coupon, err := s.couponRepo.FindApplicable(trimmed, time.Now())
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	var entitlement *models.CouponUser
	for i := range coupon.Users {
		if coupon.Users[i].UserID == userID {
			entitlement = &coupon.Users[i]
			break
		}
	}

	if entitlement != nil {
		if entitlement.Disabled {
			return nil, ErrCouponDisabledForUser
		}
		if entitlement.UsageCount >= entitlement.MaxCount {
			return nil, ErrCouponLimitExceeded
		}
		entitlement.UsageCount++
		if err := s.couponRepo.SaveUser(entitlement); err != nil {
			return nil, err
		}
	} else {
		for _, applied := range cart.Coupons {
			if applied.Code == trimmed {
				return nil, ErrCouponAlreadyApplied
			}
		}
	}

	discounted := applyCouponDiscount(cart.TotalPrice, coupon)

	if err := s.cartRepo.AddCoupon(&models.CartCoupon{
		CartID:   cart.ID,
		CouponID: coupon.ID,
		Code:     coupon.Code,
	}); err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateTotal(cart.ID, discounted); err != nil {
		return nil, err
	}

	return s.cartRepo.GetByUser(userID)
}

// RemoveLine 从购物车移除商品行。
// 剩余行重算小计（已用优惠不重放）；移除最后一行时整车删除并返回 nil。
func (s *CartService) RemoveLine(userID, productID uint) (*models.Cart, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	unlock := s.lockUser(userID)
	defer unlock()

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	var target *models.CartLine
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			target = &cart.Lines[i]
			break
		}
	}
	if target == nil {
		return nil, ErrCartLineNotFound
	}

	if err := s.cartRepo.DeleteLine(target.ID); err != nil {
		return nil, err
	}

	if len(cart.Lines) <= 1 {
		if err := s.cartRepo.Delete(cart.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return s.recomputeAndReload(cart.ID, userID)
}

// ClearCart 清空并删除用户购物车
func (s *CartService) ClearCart(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	unlock := s.lockUser(userID)
	defer unlock()

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}
	return s.cartRepo.Delete(cart.ID)
}

// GetCart 获取用户购物车
func (s *CartService) GetCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// ListAllCarts 管理端分页获取所有购物车
func (s *CartService) ListAllCarts(filter repository.CartListFilter) ([]models.Cart, int64, error) {
	return s.cartRepo.List(filter)
}

// GetCartByUser 管理端按用户获取购物车
func (s *CartService) GetCartByUser(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// recomputeAndReload 按当前行重算小计并回读购物车
func (s *CartService) recomputeAndReload(cartID, userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	subtotal := computeSubtotal(cart.Lines, nil)
	if err := s.cartRepo.UpdateTotal(cartID, subtotal); err != nil {
		return nil, err
	}
	cart.TotalPrice = subtotal
	return cart, nil
}

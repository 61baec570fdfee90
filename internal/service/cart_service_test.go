package service

import (
	"errors"
	"testing"
	"time"

	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartLine{},
		&models.CartCoupon{},
		&models.Coupon{},
		&models.CouponUser{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newCartTestService(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db := newCartTestDB(t)
	svc := NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewCouponRepository(db),
	)
	return svc, db
}

func mustCreateCartProduct(t *testing.T, db *gorm.DB, title, slug string, price, discounted int64, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:              title,
		Slug:               slug,
		Price:              models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		PriceAfterDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(discounted)),
		Quantity:           quantity,
		CategoryID:         1,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func mustCreateCoupon(t *testing.T, db *gorm.DB, code, couponType string, amount int64, users ...models.CouponUser) *models.Coupon {
	t.Helper()
	now := time.Now()
	coupon := &models.Coupon{
		Code:     code,
		Type:     couponType,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(amount)),
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		IsEnable: true,
		Users:    users,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestAddLineCreatesCartWithEffectivePrice(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Gaming Mouse", "gaming-mouse", 100, 80, 5)

	cart, err := svc.AddLine(7, product.ID)
	if err != nil {
		t.Fatalf("add line failed: %v", err)
	}
	if cart == nil || len(cart.Lines) != 1 {
		t.Fatalf("expected cart with one line, got %+v", cart)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("total want 80.00 got %s", cart.TotalPrice.String())
	}

	if _, err := svc.AddLine(7, product.ID); !errors.Is(err, ErrCartLineExists) {
		t.Fatalf("duplicate add want ErrCartLineExists got %v", err)
	}
}

func TestAddLineOutOfStockLeavesNoCart(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Sold Out Lamp", "sold-out-lamp", 50, 0, 0)

	if _, err := svc.AddLine(3, product.ID); !errors.Is(err, ErrProductOutOfStock) {
		t.Fatalf("want ErrProductOutOfStock got %v", err)
	}
	if _, err := svc.GetCart(3); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("no cart should exist, got %v", err)
	}
}

func TestUpdateLineQuantityRecomputesSubtotal(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Desk Mat", "desk-mat", 100, 80, 10)

	if _, err := svc.AddLine(5, product.ID); err != nil {
		t.Fatalf("add line failed: %v", err)
	}

	quantity := 2
	cart, err := svc.UpdateLine(UpdateCartLineInput{UserID: 5, ProductID: product.ID, Quantity: &quantity})
	if err != nil {
		t.Fatalf("update line failed: %v", err)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("subtotal want 160.00 got %s", cart.TotalPrice.String())
	}

	color := "black"
	cart, err = svc.UpdateLine(UpdateCartLineInput{UserID: 5, ProductID: product.ID, Color: &color})
	if err != nil {
		t.Fatalf("update color failed: %v", err)
	}
	if cart.Lines[0].Color != "black" {
		t.Fatalf("color want black got %s", cart.Lines[0].Color)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("color-only update should keep total, got %s", cart.TotalPrice.String())
	}
}

func TestApplyCouponUnknownCodeLeavesCartUnchanged(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Water Bottle", "water-bottle", 30, 0, 9)

	if _, err := svc.AddLine(11, product.ID); err != nil {
		t.Fatalf("add line failed: %v", err)
	}

	if _, err := svc.ApplyCoupon(11, "000000"); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("want ErrCouponNotFound got %v", err)
	}
	cart, err := svc.GetCart(11)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("total should stay 30.00, got %s", cart.TotalPrice.String())
	}
	if len(cart.Coupons) != 0 {
		t.Fatalf("no coupon should be recorded, got %d", len(cart.Coupons))
	}
}

func TestApplyCouponStacksFixedThenPercent(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Mechanical Keyboard", "mechanical-keyboard", 100, 0, 4)
	mustCreateCoupon(t, db, "111111", "fixed", 30)
	mustCreateCoupon(t, db, "222222", "percent", 10)

	if _, err := svc.AddLine(21, product.ID); err != nil {
		t.Fatalf("add line failed: %v", err)
	}

	cart, err := svc.ApplyCoupon(21, "111111")
	if err != nil {
		t.Fatalf("apply fixed coupon failed: %v", err)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("after fixed coupon want 70.00 got %s", cart.TotalPrice.String())
	}

	cart, err = svc.ApplyCoupon(21, "222222")
	if err != nil {
		t.Fatalf("apply percent coupon failed: %v", err)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(63)) {
		t.Fatalf("after percent coupon want 63.00 got %s", cart.TotalPrice.String())
	}
	if len(cart.Coupons) != 2 {
		t.Fatalf("expected two applied coupons, got %d", len(cart.Coupons))
	}
}

func TestApplyCouponDuplicateForAnonymousUser(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Phone Stand", "phone-stand", 40, 0, 6)
	mustCreateCoupon(t, db, "333333", "fixed", 5)

	if _, err := svc.AddLine(31, product.ID); err != nil {
		t.Fatalf("add line failed: %v", err)
	}
	if _, err := svc.ApplyCoupon(31, "333333"); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if _, err := svc.ApplyCoupon(31, "333333"); !errors.Is(err, ErrCouponAlreadyApplied) {
		t.Fatalf("want ErrCouponAlreadyApplied got %v", err)
	}
}

func TestApplyCouponEntitlementChecks(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "USB Hub", "usb-hub", 60, 0, 8)
	mustCreateCoupon(t, db, "444444", "fixed", 10,
		models.CouponUser{UserID: 41, MaxCount: 2, UsageCount: 0, Disabled: true},
		models.CouponUser{UserID: 42, MaxCount: 1, UsageCount: 1},
		models.CouponUser{UserID: 43, MaxCount: 2, UsageCount: 0},
	)

	for _, userID := range []uint{41, 42, 43} {
		if _, err := svc.AddLine(userID, product.ID); err != nil {
			t.Fatalf("add line for user %d failed: %v", userID, err)
		}
	}

	if _, err := svc.ApplyCoupon(41, "444444"); !errors.Is(err, ErrCouponDisabledForUser) {
		t.Fatalf("disabled entry want ErrCouponDisabledForUser got %v", err)
	}

	if _, err := svc.ApplyCoupon(42, "444444"); !errors.Is(err, ErrCouponLimitExceeded) {
		t.Fatalf("exhausted entry want ErrCouponLimitExceeded got %v", err)
	}
	var exhausted models.CouponUser
	if err := db.Where("user_id = ?", 42).First(&exhausted).Error; err != nil {
		t.Fatalf("load entry failed: %v", err)
	}
	if exhausted.UsageCount != 1 {
		t.Fatalf("usage count should stay 1, got %d", exhausted.UsageCount)
	}

	cart, err := svc.ApplyCoupon(43, "444444")
	if err != nil {
		t.Fatalf("entitled apply failed: %v", err)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("total want 50.00 got %s", cart.TotalPrice.String())
	}
	var used models.CouponUser
	if err := db.Where("user_id = ?", 43).First(&used).Error; err != nil {
		t.Fatalf("load entry failed: %v", err)
	}
	if used.UsageCount != 1 {
		t.Fatalf("usage count want 1 got %d", used.UsageCount)
	}
}

func TestRemoveLastLineDeletesCart(t *testing.T) {
	svc, db := newCartTestService(t)
	first := mustCreateCartProduct(t, db, "Notebook", "notebook", 10, 0, 5)
	second := mustCreateCartProduct(t, db, "Pen Set", "pen-set", 15, 0, 5)

	if _, err := svc.AddLine(51, first.ID); err != nil {
		t.Fatalf("add first line failed: %v", err)
	}
	if _, err := svc.AddLine(51, second.ID); err != nil {
		t.Fatalf("add second line failed: %v", err)
	}

	cart, err := svc.RemoveLine(51, first.ID)
	if err != nil {
		t.Fatalf("remove line failed: %v", err)
	}
	if cart == nil || len(cart.Lines) != 1 {
		t.Fatalf("expected one remaining line, got %+v", cart)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("remaining subtotal want 15.00 got %s", cart.TotalPrice.String())
	}

	cart, err = svc.RemoveLine(51, second.ID)
	if err != nil {
		t.Fatalf("remove last line failed: %v", err)
	}
	if cart != nil {
		t.Fatalf("cart should be deleted with last line, got %+v", cart)
	}
	if _, err := svc.GetCart(51); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("cart should be gone, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Poster", "poster", 12, 0, 3)

	if _, err := svc.AddLine(61, product.ID); err != nil {
		t.Fatalf("add line failed: %v", err)
	}
	if err := svc.ClearCart(61); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	if err := svc.ClearCart(61); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("second clear want ErrCartNotFound got %v", err)
	}
}

func TestAddLineAfterCartDeleted(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Travel Mug", "travel-mug", 18, 0, 5)

	if _, err := svc.AddLine(61, product.ID); err != nil {
		t.Fatalf("add line failed: %v", err)
	}
	if cart, err := svc.RemoveLine(61, product.ID); err != nil || cart != nil {
		t.Fatalf("remove last line should delete cart, got cart=%+v err=%v", cart, err)
	}

	// 购物车删除后再次加购必须能重新惰性创建
	cart, err := svc.AddLine(61, product.ID)
	if err != nil {
		t.Fatalf("re-add after cart deletion failed: %v", err)
	}
	if cart == nil || len(cart.Lines) != 1 {
		t.Fatalf("expected recreated cart with one line, got %+v", cart)
	}

	var cartRows int64
	if err := db.Model(&models.Cart{}).Where("user_id = ?", 61).Count(&cartRows).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if cartRows != 1 {
		t.Fatalf("cart rows want 1 got %d", cartRows)
	}
}

func TestReAddLineAfterRemoval(t *testing.T) {
	svc, db := newCartTestService(t)
	first := mustCreateCartProduct(t, db, "Wall Clock", "wall-clock", 25, 0, 5)
	second := mustCreateCartProduct(t, db, "Photo Frame", "photo-frame", 12, 0, 5)

	if _, err := svc.AddLine(62, first.ID); err != nil {
		t.Fatalf("add first line failed: %v", err)
	}
	if _, err := svc.AddLine(62, second.ID); err != nil {
		t.Fatalf("add second line failed: %v", err)
	}
	if _, err := svc.RemoveLine(62, first.ID); err != nil {
		t.Fatalf("remove first line failed: %v", err)
	}

	// 移除过的商品必须可以重新加入同一购物车
	cart, err := svc.AddLine(62, first.ID)
	if err != nil {
		t.Fatalf("re-add removed product failed: %v", err)
	}
	if cart == nil || len(cart.Lines) != 2 {
		t.Fatalf("expected two lines after re-add, got %+v", cart)
	}
	if !cart.TotalPrice.Equal(decimal.NewFromInt(37)) {
		t.Fatalf("total want 37.00 got %s", cart.TotalPrice.String())
	}
}

func TestUpdateLineRequiresSellableProduct(t *testing.T) {
	svc, db := newCartTestService(t)
	product := mustCreateCartProduct(t, db, "Bookshelf", "bookshelf", 90, 0, 5)

	if _, err := svc.AddLine(63, product.ID); err != nil {
		t.Fatalf("add line failed: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("quantity", 0).Error; err != nil {
		t.Fatalf("zero stock failed: %v", err)
	}
	quantity := 3
	if _, err := svc.UpdateLine(UpdateCartLineInput{UserID: 63, ProductID: product.ID, Quantity: &quantity}); !errors.Is(err, ErrProductOutOfStock) {
		t.Fatalf("zero stock update want ErrProductOutOfStock got %v", err)
	}

	if err := db.Delete(&models.Product{}, product.ID).Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if _, err := svc.UpdateLine(UpdateCartLineInput{UserID: 63, ProductID: product.ID, Quantity: &quantity}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product update want ErrProductNotFound got %v", err)
	}
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponAdminTestService(t *testing.T) (*CouponAdminService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Coupon{},
		&models.CouponUser{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	svc := NewCouponAdminService(
		repository.NewCouponRepository(db),
		repository.NewUserRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db)),
		NewPushService(&config.PushConfig{}, nil, nil),
	)
	return svc, db
}

func mustCreatePlainUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         constants.UserRoleUser,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func validCouponInput(code string) CreateCouponInput {
	now := time.Now()
	return CreateCouponInput{
		Code:     code,
		Type:     "fixed",
		Amount:   decimal.NewFromInt(10),
		StartsAt: now,
		EndsAt:   now.Add(24 * time.Hour),
	}
}

func TestCreateCouponValidation(t *testing.T) {
	svc, _ := newCouponAdminTestService(t)

	input := validCouponInput("123456")
	input.Type = "buy-one-get-one"
	if _, err := svc.Create(input, 1); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("unknown type want ErrCouponInvalid got %v", err)
	}

	input = validCouponInput("123456")
	input.Type = "percent"
	input.Amount = decimal.NewFromInt(150)
	if _, err := svc.Create(input, 1); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("percent over 100 want ErrCouponInvalid got %v", err)
	}

	input = validCouponInput("123456")
	input.Amount = decimal.Zero
	if _, err := svc.Create(input, 1); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("zero amount want ErrCouponInvalid got %v", err)
	}

	input = validCouponInput("123456")
	input.EndsAt = input.StartsAt.Add(-time.Hour)
	if _, err := svc.Create(input, 1); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("ends before starts want ErrCouponInvalid got %v", err)
	}
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	svc, _ := newCouponAdminTestService(t)

	if _, err := svc.Create(validCouponInput("888888"), 1); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(validCouponInput("888888"), 1); !errors.Is(err, ErrCouponExists) {
		t.Fatalf("duplicate code want ErrCouponExists got %v", err)
	}
}

func TestCreateCouponGeneratesCodeAndWritesAudit(t *testing.T) {
	svc, db := newCouponAdminTestService(t)

	coupon, err := svc.Create(validCouponInput(""), 9)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(coupon.Code) != constants.CouponCodeLength {
		t.Fatalf("generated code length want %d got %q", constants.CouponCodeLength, coupon.Code)
	}
	for _, r := range coupon.Code {
		if r < '0' || r > '9' {
			t.Fatalf("generated code should be numeric, got %q", coupon.Code)
		}
	}

	var auditCount int64
	if err := db.Model(&models.AuditLog{}).
		Where("entity_type = ? AND entity_id = ?", constants.AuditEntityCoupon, coupon.ID).
		Count(&auditCount).Error; err != nil {
		t.Fatalf("count audit logs failed: %v", err)
	}
	if auditCount != 1 {
		t.Fatalf("audit log rows want 1 got %d", auditCount)
	}
}

func TestCreateCouponWithUserList(t *testing.T) {
	svc, db := newCouponAdminTestService(t)
	user := mustCreatePlainUser(t, db, "vip@example.com")

	input := validCouponInput("555555")
	input.Users = []CouponUserInput{
		{UserID: user.ID, MaxCount: 3},
		{UserID: user.ID, MaxCount: 7}, // 重复条目仅取第一次
	}
	coupon, err := svc.Create(input, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(coupon.Users) != 1 {
		t.Fatalf("user entries want 1 got %d", len(coupon.Users))
	}
	if coupon.Users[0].MaxCount != 3 {
		t.Fatalf("max count want 3 got %d", coupon.Users[0].MaxCount)
	}

	input = validCouponInput("666666")
	input.Users = []CouponUserInput{{UserID: 9999}}
	if _, err := svc.Create(input, 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user want ErrUserNotFound got %v", err)
	}
}

func TestDeleteCouponRequiresDisable(t *testing.T) {
	svc, _ := newCouponAdminTestService(t)

	coupon, err := svc.Create(validCouponInput("777777"), 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(coupon.ID, 1); !errors.Is(err, ErrCouponStillEnabled) {
		t.Fatalf("enabled delete want ErrCouponStillEnabled got %v", err)
	}

	if _, err := svc.Disable(coupon.ID, 1); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if err := svc.Delete(coupon.ID, 1); err != nil {
		t.Fatalf("delete after disable failed: %v", err)
	}
	if _, err := svc.Get(coupon.ID); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("deleted coupon want ErrCouponNotFound got %v", err)
	}
}

func TestCouponUserLifecycle(t *testing.T) {
	svc, db := newCouponAdminTestService(t)
	user := mustCreatePlainUser(t, db, "member@example.com")

	coupon, err := svc.Create(validCouponInput("999999"), 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	entry, err := svc.AddUser(coupon.ID, CouponUserInput{UserID: user.ID}, 1)
	if err != nil {
		t.Fatalf("add user failed: %v", err)
	}
	if entry.MaxCount != 1 {
		t.Fatalf("default max count want 1 got %d", entry.MaxCount)
	}

	if err := svc.DisableUser(coupon.ID, user.ID, 1); err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	// 重新授权会解除禁用并更新次数
	entry, err = svc.AddUser(coupon.ID, CouponUserInput{UserID: user.ID, MaxCount: 5}, 1)
	if err != nil {
		t.Fatalf("re-add user failed: %v", err)
	}
	if entry.Disabled || entry.MaxCount != 5 {
		t.Fatalf("re-granted entry want enabled max 5, got %+v", entry)
	}

	if err := svc.RemoveUser(coupon.ID, user.ID, 1); err != nil {
		t.Fatalf("remove user failed: %v", err)
	}
	if err := svc.RemoveUser(coupon.ID, user.ID, 1); !errors.Is(err, ErrCouponUserNotFound) {
		t.Fatalf("second remove want ErrCouponUserNotFound got %v", err)
	}
}

func TestDisableExpiredCoupons(t *testing.T) {
	_, db := newCouponAdminTestService(t)

	now := time.Now()
	expired := &models.Coupon{
		Code: "101010", Type: "fixed",
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		StartsAt: now.Add(-48 * time.Hour), EndsAt: now.Add(-24 * time.Hour),
		IsEnable: true,
	}
	active := &models.Coupon{
		Code: "202020", Type: "fixed",
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour),
		IsEnable: true,
	}
	if err := db.Create(expired).Error; err != nil {
		t.Fatalf("create expired coupon failed: %v", err)
	}
	if err := db.Create(active).Error; err != nil {
		t.Fatalf("create active coupon failed: %v", err)
	}

	repo := repository.NewCouponRepository(db)
	affected, err := repo.DisableExpired(now)
	if err != nil {
		t.Fatalf("disable expired failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected rows want 1 got %d", affected)
	}

	var reloadedExpired models.Coupon
	if err := db.First(&reloadedExpired, expired.ID).Error; err != nil {
		t.Fatalf("reload expired coupon failed: %v", err)
	}
	if reloadedExpired.IsEnable {
		t.Fatalf("expired coupon should be disabled")
	}

	var reloadedActive models.Coupon
	if err := db.First(&reloadedActive, active.ID).Error; err != nil {
		t.Fatalf("reload active coupon failed: %v", err)
	}
	if !reloadedActive.IsEnable {
		t.Fatalf("active coupon should stay enabled")
	}
}

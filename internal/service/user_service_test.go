package service

import (
	"errors"
	"testing"

	"github.com/webmastershop/internal/config"
	"github.com/webmastershop/internal/constants"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newUserTestService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.AuditLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
		},
	}
	svc := NewUserService(cfg, repository.NewUserRepository(db), NewAuditService(repository.NewAuditLogRepository(db)))
	return svc, db
}

func TestAdminCreateUser(t *testing.T) {
	svc, db := newUserTestService(t)

	user, err := svc.Create(CreateUserInput{
		Email:    "  Staff@Example.COM ",
		Password: "secret123",
		Role:     "superuser",
	}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Email != "staff@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	// 非法角色回退为普通用户
	if user.Role != constants.UserRoleUser {
		t.Fatalf("role want %s got %s", constants.UserRoleUser, user.Role)
	}
	if user.EmailVerifiedAt == nil {
		t.Fatalf("admin-created user should be verified")
	}

	if _, err := svc.Create(CreateUserInput{Email: "staff@example.com", Password: "secret123"}, 1); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate email want ErrUserExists got %v", err)
	}
	if _, err := svc.Create(CreateUserInput{Email: "weak@example.com", Password: "abc"}, 1); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("short password want ErrPasswordTooWeak got %v", err)
	}

	var auditCount int64
	if err := db.Model(&models.AuditLog{}).Count(&auditCount).Error; err != nil {
		t.Fatalf("count audit logs failed: %v", err)
	}
	if auditCount != 1 {
		t.Fatalf("audit rows want 1 got %d", auditCount)
	}
}

func TestAdminUpdateInvalidatesTokensOnRoleChange(t *testing.T) {
	svc, _ := newUserTestService(t)

	user, err := svc.Create(CreateUserInput{Email: "member@example.com", Password: "secret123"}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	baseVersion := user.TokenVersion

	name := "Updated"
	updated, err := svc.AdminUpdate(user.ID, AdminUpdateUserInput{
		UpdateProfileInput: UpdateProfileInput{FirstName: &name},
	}, 1)
	if err != nil {
		t.Fatalf("profile-only update failed: %v", err)
	}
	if updated.TokenVersion != baseVersion {
		t.Fatalf("profile-only update should not bump token version")
	}

	adminRole := constants.UserRoleAdmin
	updated, err = svc.AdminUpdate(user.ID, AdminUpdateUserInput{Role: &adminRole}, 1)
	if err != nil {
		t.Fatalf("role update failed: %v", err)
	}
	if updated.Role != constants.UserRoleAdmin {
		t.Fatalf("role want admin got %s", updated.Role)
	}
	if updated.TokenVersion != baseVersion+1 {
		t.Fatalf("role change should bump token version, want %d got %d", baseVersion+1, updated.TokenVersion)
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("role change should set token invalid-before")
	}

	badRole := "root"
	if _, err := svc.AdminUpdate(user.ID, AdminUpdateUserInput{Role: &badRole}, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid role want ErrInvalidInput got %v", err)
	}
	badStatus := "banned"
	if _, err := svc.AdminUpdate(user.ID, AdminUpdateUserInput{Status: &badStatus}, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid status want ErrInvalidInput got %v", err)
	}
}

func TestUpdateProfileFiltersGender(t *testing.T) {
	svc, _ := newUserTestService(t)

	user, err := svc.Create(CreateUserInput{Email: "member@example.com", Password: "secret123"}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	gender := "Male"
	phone := " 555-0101 "
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Gender: &gender, PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Gender != constants.UserGenderMale {
		t.Fatalf("gender want %s got %s", constants.UserGenderMale, updated.Gender)
	}
	if updated.PhoneNumber != "555-0101" {
		t.Fatalf("phone not trimmed: %q", updated.PhoneNumber)
	}

	// 非法取值直接忽略，保留原值
	odd := "unknown"
	updated, err = svc.UpdateProfile(user.ID, UpdateProfileInput{Gender: &odd})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Gender != constants.UserGenderMale {
		t.Fatalf("invalid gender should be ignored, got %s", updated.Gender)
	}
}

func TestDeactivateAndDelete(t *testing.T) {
	svc, db := newUserTestService(t)

	user, err := svc.Create(CreateUserInput{Email: "member@example.com", Password: "secret123"}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	baseVersion := user.TokenVersion

	if err := svc.Deactivate(user.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	stored, err := svc.Get(user.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != constants.UserStatusInactive {
		t.Fatalf("status want inactive got %s", stored.Status)
	}
	if stored.TokenVersion != baseVersion+1 {
		t.Fatalf("deactivate should bump token version")
	}

	if err := svc.Delete(user.ID, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("deleted user want ErrUserNotFound got %v", err)
	}
	if err := svc.Delete(user.ID, 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("double delete want ErrUserNotFound got %v", err)
	}

	var rows int64
	if err := db.Model(&models.User{}).Count(&rows).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("user rows want 0 got %d", rows)
	}
}

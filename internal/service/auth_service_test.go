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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthTestService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Otp{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:          "test-access-secret-0123456789abcdef",
			ExpireHours:        1,
			RefreshExpireHours: 24,
			VerifySecretKey:    "test-verify-secret-0123456789abcdef",
			VerifyExpireHours:  24,
			OtpSecret:          "test-otp-secret",
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
		},
	}

	svc := NewAuthService(cfg,
		repository.NewUserRepository(db),
		repository.NewOtpRepository(db),
		NewEmailService(&config.EmailConfig{}),
	)
	return svc, db
}

func mustCreateAuthUser(t *testing.T, db *gorm.DB, email, password string, verified bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "tester",
		Role:         constants.UserRoleUser,
		Status:       constants.UserStatusActive,
	}
	if verified {
		now := time.Now()
		user.EmailVerifiedAt = &now
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestTokenPurposeSeparation(t *testing.T) {
	svc, db := newAuthTestService(t)
	user := mustCreateAuthUser(t, db, "claims@example.com", "secret1", true)

	access, _, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("generate access token failed: %v", err)
	}

	claims, err := svc.ParseAccessToken(access)
	if err != nil {
		t.Fatalf("parse access token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Purpose != constants.TokenPurposeAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.ParseRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token as refresh want ErrTokenInvalid got %v", err)
	}

	verify, _, err := svc.GenerateVerifyToken(user)
	if err != nil {
		t.Fatalf("generate verify token failed: %v", err)
	}
	if _, err := svc.ParseAccessToken(verify); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("verify token as access want ErrTokenInvalid got %v", err)
	}
	if _, err := svc.ParseVerifyToken(verify); err != nil {
		t.Fatalf("parse verify token failed: %v", err)
	}
}

func TestRefreshTokensCountdown(t *testing.T) {
	svc, db := newAuthTestService(t)
	user := mustCreateAuthUser(t, db, "refresh@example.com", "secret1", true)

	refresh, _, err := svc.GenerateRefreshToken(user, 1)
	if err != nil {
		t.Fatalf("generate refresh token failed: %v", err)
	}

	pair, err := svc.RefreshTokens(refresh)
	if err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	claims, err := svc.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse rotated refresh token failed: %v", err)
	}
	if claims.CountEX != 0 {
		t.Fatalf("remaining use count want 0 got %d", claims.CountEX)
	}

	if _, err := svc.RefreshTokens(pair.RefreshToken); !errors.Is(err, ErrRefreshExhausted) {
		t.Fatalf("exhausted refresh want ErrRefreshExhausted got %v", err)
	}
}

func TestRefreshTokensVersionRevocation(t *testing.T) {
	svc, db := newAuthTestService(t)
	user := mustCreateAuthUser(t, db, "revoke@example.com", "secret1", true)

	refresh, _, err := svc.GenerateRefreshToken(user, constants.RefreshTokenMaxUse)
	if err != nil {
		t.Fatalf("generate refresh token failed: %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}

	if _, err := svc.RefreshTokens(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("stale version refresh want ErrTokenInvalid got %v", err)
	}
}

func TestSignupRollsBackWhenEmailFails(t *testing.T) {
	svc, db := newAuthTestService(t)

	_, err := svc.Signup(SignupInput{
		Email:     "newbie@example.com",
		Password:  "longenough",
		FirstName: "New",
		LastName:  "Bie",
	})
	if !errors.Is(err, ErrEmailSendFailed) {
		t.Fatalf("want ErrEmailSendFailed got %v", err)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", "newbie@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("user row should be rolled back, found %d", count)
	}
}

func TestSignIn(t *testing.T) {
	svc, db := newAuthTestService(t)
	mustCreateAuthUser(t, db, "login@example.com", "secret1", true)

	if _, _, err := svc.SignIn("login@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, err := svc.SignIn("ghost@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}

	user, pair, err := svc.SignIn("Login@Example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if pair == nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", pair)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login should be recorded")
	}

	claims, err := svc.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh token failed: %v", err)
	}
	if claims.CountEX != constants.RefreshTokenMaxUse {
		t.Fatalf("fresh refresh count want %d got %d", constants.RefreshTokenMaxUse, claims.CountEX)
	}
}

func TestSignInUnverifiedEmail(t *testing.T) {
	svc, db := newAuthTestService(t)
	mustCreateAuthUser(t, db, "pending@example.com", "secret1", false)

	if _, _, err := svc.SignIn("pending@example.com", "secret1"); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("want ErrEmailNotVerified got %v", err)
	}
}

func TestSignInReactivatesDeactivatedUser(t *testing.T) {
	svc, db := newAuthTestService(t)
	user := mustCreateAuthUser(t, db, "sleeper@example.com", "secret1", true)
	if err := db.Model(user).Update("status", constants.UserStatusInactive).Error; err != nil {
		t.Fatalf("deactivate user failed: %v", err)
	}

	signedIn, _, err := svc.SignIn("sleeper@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if signedIn.Status != constants.UserStatusActive {
		t.Fatalf("status want active got %s", signedIn.Status)
	}
}

func TestVerifyEmailIsIdempotent(t *testing.T) {
	svc, db := newAuthTestService(t)
	user := mustCreateAuthUser(t, db, "verify@example.com", "secret1", false)

	token, _, err := svc.GenerateVerifyToken(user)
	if err != nil {
		t.Fatalf("generate verify token failed: %v", err)
	}

	verified, err := svc.VerifyEmail(token)
	if err != nil {
		t.Fatalf("verify email failed: %v", err)
	}
	if verified.EmailVerifiedAt == nil {
		t.Fatalf("email should be marked verified")
	}
	first := *verified.EmailVerifiedAt

	again, err := svc.VerifyEmail(token)
	if err != nil {
		t.Fatalf("second verify failed: %v", err)
	}
	if again.EmailVerifiedAt == nil || again.EmailVerifiedAt.Unix() != first.Unix() {
		t.Fatalf("second verify should keep original timestamp")
	}
}

func TestOtpResetPasswordFlow(t *testing.T) {
	svc, db := newAuthTestService(t)
	user := mustCreateAuthUser(t, db, "reset@example.com", "oldpassword", true)

	if err := svc.ResetPassword("reset@example.com", "brandnewpass"); !errors.Is(err, ErrOtpNotVerified) {
		t.Fatalf("reset before otp want ErrOtpNotVerified got %v", err)
	}

	otp := &models.Otp{
		UserID:    user.ID,
		CodeHash:  svc.hashOtp("123456"),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := db.Create(otp).Error; err != nil {
		t.Fatalf("create otp failed: %v", err)
	}

	if err := svc.VerifyOtp("reset@example.com", "654321"); !errors.Is(err, ErrOtpInvalid) {
		t.Fatalf("wrong code want ErrOtpInvalid got %v", err)
	}
	if err := svc.VerifyOtp("reset@example.com", "123456"); err != nil {
		t.Fatalf("verify otp failed: %v", err)
	}

	oldVersion := user.TokenVersion
	if err := svc.ResetPassword("reset@example.com", "brandnewpass"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}

	var updated models.User
	if err := db.First(&updated, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("brandnewpass")); err != nil {
		t.Fatalf("new password should match: %v", err)
	}
	if updated.TokenVersion != oldVersion+1 {
		t.Fatalf("token version want %d got %d", oldVersion+1, updated.TokenVersion)
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("token invalid before should be set")
	}

	var otpCount int64
	if err := db.Model(&models.Otp{}).Where("user_id = ?", user.ID).Count(&otpCount).Error; err != nil {
		t.Fatalf("count otps failed: %v", err)
	}
	if otpCount != 0 {
		t.Fatalf("otps should be purged after reset, found %d", otpCount)
	}
}

func TestChangePassword(t *testing.T) {
	svc, db := newAuthTestService(t)
	user := mustCreateAuthUser(t, db, "change@example.com", "oldpassword", true)

	if err := svc.ChangePassword(user.ID, "badold", "newpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "oldpassword", "tiny"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("short password want ErrPasswordTooWeak got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "oldpassword", "newpassword"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, _, err := svc.SignIn("change@example.com", "newpassword"); err != nil {
		t.Fatalf("sign in with new password failed: %v", err)
	}
}

func TestOAuthSignInCreatesVerifiedUser(t *testing.T) {
	svc, db := newAuthTestService(t)

	user, tokens, err := svc.OAuthSignIn(OAuthSignInInput{
		Email:  " New.Buyer@Example.COM ",
		Name:   "New Buyer",
		Avatar: "https://cdn.example.com/a.png",
	})
	if err != nil {
		t.Fatalf("oauth sign in failed: %v", err)
	}
	if user.Email != "new.buyer@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.EmailVerifiedAt == nil {
		t.Fatalf("provider-backed account should be verified")
	}
	if user.Role != constants.UserRoleUser {
		t.Fatalf("role want user got %s", user.Role)
	}
	if user.DisplayName != "New Buyer" {
		t.Fatalf("display name want New Buyer got %s", user.DisplayName)
	}
	if user.PasswordHash == "" {
		t.Fatalf("created account should carry a password hash")
	}
	if tokens == nil || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected full token pair, got %+v", tokens)
	}

	claims, err := svc.ParseAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse issued access token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token subject want %d got %d", user.ID, claims.UserID)
	}

	var rows int64
	if err := db.Model(&models.User{}).Count(&rows).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("user rows want 1 got %d", rows)
	}
}

func TestOAuthSignInUpsertsExistingUser(t *testing.T) {
	svc, db := newAuthTestService(t)
	existing := mustCreateAuthUser(t, db, "member@example.com", "secret1", false)
	existing.Status = constants.UserStatusInactive
	if err := db.Save(existing).Error; err != nil {
		t.Fatalf("deactivate user failed: %v", err)
	}

	user, tokens, err := svc.OAuthSignIn(OAuthSignInInput{Email: "member@example.com", Avatar: "https://cdn.example.com/b.png"})
	if err != nil {
		t.Fatalf("oauth sign in failed: %v", err)
	}
	if user.ID != existing.ID {
		t.Fatalf("should reuse existing account, want id %d got %d", existing.ID, user.ID)
	}
	// 提供方已校验邮箱，未验证的老账号补齐验证状态并恢复可用
	if user.EmailVerifiedAt == nil {
		t.Fatalf("existing account should be marked verified")
	}
	if user.Status != constants.UserStatusActive {
		t.Fatalf("status want active got %s", user.Status)
	}
	if user.Avatar != "https://cdn.example.com/b.png" {
		t.Fatalf("empty avatar should be backfilled, got %s", user.Avatar)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login should be recorded")
	}
	if tokens == nil || tokens.AccessToken == "" {
		t.Fatalf("expected token pair, got %+v", tokens)
	}

	var rows int64
	if err := db.Model(&models.User{}).Count(&rows).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("user rows want 1 got %d", rows)
	}
}

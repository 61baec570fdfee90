package service

import "errors"

// 业务语义错误，由 handler 层统一映射为响应码
var (
	ErrInvalidInput = errors.New("invalid input")

	// 用户与认证
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrTokenInvalid       = errors.New("token invalid or expired")
	ErrRefreshExhausted   = errors.New("refresh token exhausted")
	ErrOtpInvalid         = errors.New("otp invalid or expired")
	ErrOtpNotVerified     = errors.New("otp not verified")
	ErrEmailSendFailed    = errors.New("email send failed")
	ErrPasswordTooWeak    = errors.New("password too weak")

	// 目录
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrSubCategoryNotFound = errors.New("sub category not found")
	ErrSubCategoryExists   = errors.New("sub category already exists")
	ErrBrandNotFound       = errors.New("brand not found")
	ErrBrandExists         = errors.New("brand already exists")
	ErrSlugExhausted       = errors.New("slug candidates exhausted")

	// 商品
	ErrProductNotFound   = errors.New("product not found")
	ErrProductExists     = errors.New("product already exists")
	ErrProductOutOfStock = errors.New("product out of stock")
	ErrPriceOutOfRange   = errors.New("price out of range")

	// 购物车
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartLineExists   = errors.New("product already in cart")
	ErrCartLineNotFound = errors.New("product not found in cart")

	// 优惠券
	ErrCouponNotFound        = errors.New("coupon not found or not valid")
	ErrCouponExists          = errors.New("coupon already exists")
	ErrCouponAlreadyApplied  = errors.New("coupon already applied")
	ErrCouponDisabledForUser = errors.New("coupon disabled for user")
	ErrCouponLimitExceeded   = errors.New("coupon usage limit exceeded")
	ErrCouponInvalid         = errors.New("coupon invalid")
	ErrCouponStillEnabled    = errors.New("coupon still enabled")
	ErrCouponUserNotFound    = errors.New("user not in coupon list")

	// 心愿单
	ErrWishlistExists   = errors.New("product already in wishlist")
	ErrWishlistNotFound = errors.New("product not in wishlist")

	// 上传
	ErrUploadTooLarge    = errors.New("upload too large")
	ErrUploadInvalidType = errors.New("upload type not allowed")
)

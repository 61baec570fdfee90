package public

import (
	"errors"

	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid input"},
	{target: service.ErrUserExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "incorrect email or password"},
	{target: service.ErrEmailNotVerified, code: response.CodeForbidden, msg: "email not verified, a new verification link has been sent"},
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized, msg: "invalid or expired token"},
	{target: service.ErrRefreshExhausted, code: response.CodeUnauthorized, msg: "refresh token exhausted, please sign in again"},
	{target: service.ErrOtpInvalid, code: response.CodeBadRequest, msg: "invalid or expired code"},
	{target: service.ErrOtpNotVerified, code: response.CodeBadRequest, msg: "code not verified"},
	{target: service.ErrEmailSendFailed, code: response.CodeInternal, msg: "failed to send email"},
	{target: service.ErrPasswordTooWeak, code: response.CodeBadRequest, msg: "password too weak"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductOutOfStock, code: response.CodeBadRequest, msg: "product out of stock"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartLineExists, code: response.CodeConflict, msg: "product already in cart"},
	{target: service.ErrCartLineNotFound, code: response.CodeNotFound, msg: "product not in cart"},
}

var couponApplyErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, msg: "coupon not found or not valid"},
	{target: service.ErrCouponAlreadyApplied, code: response.CodeConflict, msg: "coupon already applied"},
	{target: service.ErrCouponDisabledForUser, code: response.CodeForbidden, msg: "coupon disabled for this account"},
	{target: service.ErrCouponLimitExceeded, code: response.CodeForbidden, msg: "coupon usage limit reached"},
}

var wishlistErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrWishlistExists, code: response.CodeConflict, msg: "product already in wishlist"},
	{target: service.ErrWishlistNotFound, code: response.CodeNotFound, msg: "product not in wishlist"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
	{target: service.ErrSubCategoryNotFound, code: response.CodeNotFound, msg: "sub category not found"},
	{target: service.ErrBrandNotFound, code: response.CodeNotFound, msg: "brand not found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
}

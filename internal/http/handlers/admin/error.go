package admin

import (
	"errors"

	handlershared "github.com/webmastershop/internal/http/handlers/shared"
	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

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

var adminUserErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid input"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrUserExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrPasswordTooWeak, code: response.CodeBadRequest, msg: "password too weak"},
}

var adminCatalogErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid input"},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
	{target: service.ErrCategoryExists, code: response.CodeConflict, msg: "category name already exists"},
	{target: service.ErrSubCategoryNotFound, code: response.CodeNotFound, msg: "sub category not found"},
	{target: service.ErrSubCategoryExists, code: response.CodeConflict, msg: "sub category name already exists"},
	{target: service.ErrBrandNotFound, code: response.CodeNotFound, msg: "brand not found"},
	{target: service.ErrBrandExists, code: response.CodeConflict, msg: "brand name already exists"},
	{target: service.ErrSlugExhausted, code: response.CodeConflict, msg: "too many similar names, pick a different one"},
}

var adminProductErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid input"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductExists, code: response.CodeConflict, msg: "product title already exists"},
	{target: service.ErrPriceOutOfRange, code: response.CodeBadRequest, msg: "price out of allowed range"},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "category not found"},
	{target: service.ErrSubCategoryNotFound, code: response.CodeNotFound, msg: "sub category not found"},
	{target: service.ErrBrandNotFound, code: response.CodeNotFound, msg: "brand not found"},
	{target: service.ErrSlugExhausted, code: response.CodeConflict, msg: "too many similar titles, pick a different one"},
}

var adminCouponErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid input"},
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, msg: "coupon not found"},
	{target: service.ErrCouponExists, code: response.CodeConflict, msg: "coupon code already exists"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "invalid coupon definition"},
	{target: service.ErrCouponStillEnabled, code: response.CodeBadRequest, msg: "disable the coupon before deleting it"},
	{target: service.ErrCouponUserNotFound, code: response.CodeNotFound, msg: "user not in coupon list"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
}

var adminCartErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
}

var adminUploadErrorRules = []mappedHandlerError{
	{target: service.ErrUploadTooLarge, code: response.CodeBadRequest, msg: "file too large"},
	{target: service.ErrUploadInvalidType, code: response.CodeBadRequest, msg: "file type not allowed"},
}

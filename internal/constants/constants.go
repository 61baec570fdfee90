package constants

// 用户角色常量
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// 用户性别常量
const (
	UserGenderMale   = "male"
	UserGenderFemale = "female"
)

// 优惠券类型常量
const (
	CouponTypeFixed   = "fixed"
	CouponTypePercent = "percent"
)

// 优惠券码长度常量
const (
	CouponCodeLength = 6
)

// 审计动作常量
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// 审计实体类型常量
const (
	AuditEntityCategory    = "category"
	AuditEntitySubCategory = "sub_category"
	AuditEntityBrand       = "brand"
	AuditEntityProduct     = "product"
	AuditEntityCoupon      = "coupon"
	AuditEntityUser        = "user"
)

// 令牌用途常量
const (
	TokenPurposeAccess      = "access"
	TokenPurposeRefresh     = "refresh"
	TokenPurposeVerifyEmail = "verify_email"
)

// 刷新令牌剩余使用次数常量
const (
	RefreshTokenMaxUse = 5
)

// 密码重置验证码常量
const (
	OtpLength        = 6
	OtpExpireMinutes = 10
)

// 商品价格边界常量
const (
	ProductPriceMin = 1
	ProductPriceMax = 20000
)

// 推送订阅角色常量
const (
	PushRoleAll   = "all"
	PushRoleUser  = "user"
	PushRoleAdmin = "admin"
)

// 队列常量
const (
	QueueDefault     = "default"
	TaskPushDispatch = "push:dispatch"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "shop"
)

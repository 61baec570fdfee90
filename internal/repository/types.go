package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page          int
	PageSize      int
	CategoryID    uint
	SubCategoryID uint
	BrandID       uint
	Search        string
	WithRelations bool
}

// CatalogListFilter 查询分类/子分类/品牌列表的过滤条件
type CatalogListFilter struct {
	Page       int
	PageSize   int
	Search     string
	CategoryID uint
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page      int
	PageSize  int
	Code      string
	IsEnable  *bool
	WithUsers bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuditLogListFilter 查询审计日志列表的过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	EntityType  string
	EntityID    uint
	Action      string
	PerformedBy uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CartListFilter 查询购物车列表的过滤条件
type CartListFilter struct {
	Page     int
	PageSize int
}

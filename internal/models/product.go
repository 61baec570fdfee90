package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                              // 主键
	Title              string         `gorm:"uniqueIndex;not null" json:"title"`                                 // 标题（规范化后唯一）
	Slug               string         `gorm:"uniqueIndex;not null" json:"slug"`                                  // 唯一标识
	Description        string         `gorm:"type:text" json:"description"`                                      // 描述
	Price              Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                // 价格
	PriceAfterDiscount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_after_discount"` // 折后价（0 表示无折扣）
	Quantity           int            `gorm:"not null;default:0" json:"quantity"`                                // 库存
	Sold               int            `gorm:"not null;default:0" json:"sold"`                                    // 已售量
	ImageCover         string         `gorm:"type:varchar(500)" json:"image_cover"`                              // 封面图
	Images             StringArray    `gorm:"type:json" json:"images"`                                           // 图片数组
	Colors             StringArray    `gorm:"type:json" json:"colors"`                                           // 可选颜色
	CategoryID         uint           `gorm:"not null;index" json:"category_id"`                                 // 分类ID
	SubCategoryID      *uint          `gorm:"index" json:"sub_category_id"`                                      // 子分类ID
	BrandID            *uint          `gorm:"index" json:"brand_id"`                                             // 品牌ID
	RatingsAverage     float64        `gorm:"not null;default:0" json:"ratings_average"`                         // 平均评分
	RatingsQuantity    int            `gorm:"not null;default:0" json:"ratings_quantity"`                        // 评分数量
	SortOrder          int            `gorm:"default:0;index" json:"sort_order"`                                 // 排序权重
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                                        // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间

	// 关联
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`        // 分类信息
	SubCategory *SubCategory `gorm:"foreignKey:SubCategoryID" json:"sub_category,omitempty"` // 子分类信息
	Brand       *Brand       `gorm:"foreignKey:BrandID" json:"brand,omitempty"`              // 品牌信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 返回单件生效价格（有折后价用折后价）
func (p *Product) EffectivePrice() Money {
	if p.PriceAfterDiscount.IsPositive() {
		return p.PriceAfterDiscount
	}
	return p.Price
}

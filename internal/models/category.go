package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// JSON 类型定义，用于存储结构化附加数据
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringArray 字符串数组类型，用于存储 images、colors 等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Category 分类表
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`  // 名称（规范化后唯一）
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	Image     string         `gorm:"type:varchar(500)" json:"image"`    // 分类图片
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// SubCategory 子分类表
type SubCategory struct {
	ID         uint           `gorm:"primarykey" json:"id"`              // 主键
	CategoryID uint           `gorm:"not null;index" json:"category_id"` // 所属分类ID
	Name       string         `gorm:"uniqueIndex;not null" json:"name"`  // 名称（规范化后唯一）
	Slug       string         `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	Image      string         `gorm:"type:varchar(500)" json:"image"`    // 图片
	SortOrder  int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                        // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 所属分类
}

// TableName 指定表名
func (SubCategory) TableName() string {
	return "sub_categories"
}

// Brand 品牌表
type Brand struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`  // 名称（规范化后唯一）
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	Image     string         `gorm:"type:varchar(500)" json:"image"`    // 品牌图片
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}

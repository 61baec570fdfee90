package models

import (
	"time"
)

// AuditLog 审计日志
type AuditLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`                   // 主键
	EntityType  string    `gorm:"index;not null" json:"entity_type"`      // 实体类型
	EntityID    uint      `gorm:"index;not null" json:"entity_id"`        // 实体ID
	Action      string    `gorm:"index;not null" json:"action"`           // 动作（create/update/delete）
	PerformedBy uint      `gorm:"index;not null" json:"performed_by"`     // 操作人用户ID
	Description string    `gorm:"type:text" json:"description"`           // 描述
	Data        JSON      `gorm:"type:json" json:"data"`                  // 变更快照
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                // 创建时间
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}

package service

import (
	"github.com/webmastershop/internal/logger"
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"
)

// AuditService 审计日志服务。
// 写入失败只记日志，不影响业务操作本身。
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 记录一条审计日志
func (s *AuditService) Record(entityType string, entityID uint, action string, performedBy uint, description string, data map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	log := &models.AuditLog{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		PerformedBy: performedBy,
		Description: description,
	}
	if len(data) > 0 {
		log.Data = models.JSON(data)
	}
	if err := s.repo.Create(log); err != nil {
		logger.Errorw("audit_log_write_failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err)
	}
}

// List 审计日志列表
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	return s.repo.List(filter)
}

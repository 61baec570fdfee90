package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/webmastershop/internal/http/response"
	"github.com/webmastershop/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAuditLogs 审计日志列表
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	entityID, _ := strconv.ParseUint(c.Query("entity_id"), 10, 64)
	performedBy, _ := strconv.ParseUint(c.Query("performed_by"), 10, 64)

	filter := repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		EntityType:  strings.TrimSpace(c.Query("entity_type")),
		EntityID:    uint(entityID),
		Action:      strings.TrimSpace(c.Query("action")),
		PerformedBy: uint(performedBy),
	}
	if raw := c.Query("created_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedTo = &t
		}
	}

	logs, total, err := h.AuditService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load audit logs", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"logs": logs}, buildPagination(page, pageSize, total))
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/httpresp"
	"github.com/slotline/slotline-api/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// GET /api/me/audit-logs
func (h *AuditLogsHandler) List(c *gin.Context) {
	tenantID, ok := tenantFromToken(c)
	if !ok {
		return
	}

	var logs []models.AuditLog
	if err := h.db.
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(200).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "failed_to_list_audit_logs", "could not list audit logs")
		return
	}

	httpresp.List(c, logs)
}

package handler

import (
	"studio8/internal/middleware"
	"studio8/internal/models"
	"studio8/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// auditor writes the activity trail. Failures are logged and never fail the request.
type auditor struct {
	repo *repository.AuditLogRepository
	log  *logrus.Entry
}

func (a auditor) record(c *gin.Context, action, resource, resourceID string, metadata map[string]interface{}) {
	if a.repo == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	if uid := middleware.GetUserID(c); uid != 0 {
		entry.StaffUserID = &uid
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}
	if err := a.repo.Create(c.Request.Context(), entry); err != nil {
		a.log.WithError(err).WithField("action", action).Warn("audit log write failed")
	}
}

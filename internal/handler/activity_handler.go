package handler

import (
	"net/http"
	"strconv"

	"studio8/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ActivityHandler struct {
	repo *repository.AuditLogRepository
	log  *logrus.Entry
}

func NewActivityHandler(repo *repository.AuditLogRepository, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{repo: repo, log: logger.WithField("component", "activity")}
}

func (h *ActivityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, total, err := h.repo.List(c.Request.Context(), c.Query("resource"), c.Query("resource_id"), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": list, "total": total, "page": page})
}

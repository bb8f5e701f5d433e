package handler

import (
	"errors"
	"net/http"
	"strconv"

	"studio8/internal/middleware"
	"studio8/internal/repository"
	"studio8/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	svc   *service.AuthService
	staff *repository.StaffRepository
	audit auditor
	log   *logrus.Entry
}

func NewAuthHandler(svc *service.AuthService, staff *repository.StaffRepository, auditRepo *repository.AuditLogRepository, logger *logrus.Logger) *AuthHandler {
	log := logger.WithField("component", "auth")
	return &AuthHandler{svc: svc, staff: staff, audit: auditor{repo: auditRepo, log: log}, log: log}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCreds):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrAccountBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case err != nil:
		respondError(c, h.log, err)
		return
	}
	c.Set("user_id", u.ID)
	h.audit.record(c, "login", "auth", strconv.FormatUint(uint64(u.ID), 10), nil)
	c.JSON(http.StatusOK, gin.H{"user": u, "access_token": token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.staff.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if errors.Is(err, service.ErrInvalidCreds) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "change_password", "staff_user", strconv.FormatUint(uint64(middleware.GetUserID(c)), 10), nil)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type fcmTokenRequest struct {
	Token string `json:"token" binding:"required,max=512"`
}

// RegisterFCMToken stores the device token push notifications are sent to.
func (h *AuthHandler) RegisterFCMToken(c *gin.Context) {
	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.staff.UpdateFCMToken(c.Request.Context(), middleware.GetUserID(c), req.Token); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createStaffRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=ADMIN STAFF"`
}

func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.svc.CreateStaff(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if errors.Is(err, service.ErrEmailExists) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "staff_create", "staff_user", strconv.FormatUint(uint64(u.ID), 10), map[string]interface{}{"role": u.Role})
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *AuthHandler) ListStaff(c *gin.Context) {
	list, err := h.staff.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": list})
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (h *AuthHandler) SetStaffActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if id == middleware.GetUserID(c) && !*req.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot disable your own account"})
		return
	}
	if err := h.staff.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "staff_set_active", "staff_user", strconv.FormatUint(uint64(id), 10), map[string]interface{}{"is_active": *req.IsActive})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

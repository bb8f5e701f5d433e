package handler

import (
	"net/http"
	"strconv"

	"studio8/internal/booking"
	"studio8/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoyaltyHandler manages loyalty settings and the client ledger.
type LoyaltyHandler struct {
	settings  *repository.SettingRepository
	clients   *repository.ClientRepository
	bookings  *repository.BookingRepository
	referrals *repository.ReferralRepository
	audit     auditor
	log       *logrus.Entry
}

func NewLoyaltyHandler(
	settings *repository.SettingRepository,
	clients *repository.ClientRepository,
	bookings *repository.BookingRepository,
	referrals *repository.ReferralRepository,
	auditRepo *repository.AuditLogRepository,
	logger *logrus.Logger,
) *LoyaltyHandler {
	log := logger.WithField("component", "loyalty")
	return &LoyaltyHandler{
		settings:  settings,
		clients:   clients,
		bookings:  bookings,
		referrals: referrals,
		audit:     auditor{repo: auditRepo, log: log},
		log:       log,
	}
}

func (h *LoyaltyHandler) GetSettings(c *gin.Context) {
	s, err := h.settings.LoyaltySettings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loyalty_settings": s})
}

// UpdateSettings replaces the loyalty document. New values apply to the next request;
// existing bookings and ledgers are not recomputed.
func (h *LoyaltyHandler) UpdateSettings(c *gin.Context) {
	var s booking.LoyaltySettings
	if err := c.ShouldBindJSON(&s); err != nil {
		bindError(c, err)
		return
	}
	if err := h.settings.SaveLoyaltySettings(c.Request.Context(), s); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "loyalty_settings_update", "setting", "loyalty_settings", nil)
	c.JSON(http.StatusOK, gin.H{"loyalty_settings": s})
}

func (h *LoyaltyHandler) ListClients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.clients.List(c.Request.Context(), c.Query("q"), c.Query("tier"), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list, "total": total, "page": page})
}

// GetClient returns one ledger with its booking history and the referrals it made.
func (h *LoyaltyHandler) GetClient(c *gin.Context) {
	ctx := c.Request.Context()
	client, err := h.clients.GetByEmail(ctx, booking.NormalizeEmail(c.Param("email")))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	history, err := h.bookings.ListByClientEmail(ctx, client.Email, 50)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	referrals, err := h.referrals.ListByReferrer(ctx, client.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client, "bookings": history, "referrals": referrals})
}

type adjustPointsRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,max=255"`
}

// AdjustPoints applies a manual correction to a client's points balance.
func (h *LoyaltyHandler) AdjustPoints(c *gin.Context) {
	var req adjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	email := booking.NormalizeEmail(c.Param("email"))
	client, err := h.clients.AdjustPoints(c.Request.Context(), email, req.Delta)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "points_adjust", "client", email, map[string]interface{}{"delta": req.Delta, "reason": req.Reason})
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (h *LoyaltyHandler) ListReferrals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.referrals.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list, "total": total, "page": page})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"studio8/internal/booking"
	"studio8/internal/models"
	"studio8/internal/repository"
	"studio8/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BookingHandler drives the booking lifecycle from the back office.
type BookingHandler struct {
	svc   *service.BookingService
	repo  *repository.BookingRepository
	txs   *repository.TransactionRepository
	audit auditor
	log   *logrus.Entry
}

func NewBookingHandler(svc *service.BookingService, repo *repository.BookingRepository, txs *repository.TransactionRepository, auditRepo *repository.AuditLogRepository, logger *logrus.Logger) *BookingHandler {
	log := logger.WithField("component", "admin_bookings")
	return &BookingHandler{svc: svc, repo: repo, txs: txs, audit: auditor{repo: auditRepo, log: log}, log: log}
}

func (h *BookingHandler) List(c *gin.Context) {
	f := repository.BookingFilter{
		BookingStatus: c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Search:        c.Query("q"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	var err error
	if f.From, err = parseDateQuery(c, "from"); err != nil {
		return
	}
	if f.To, err = parseDateQuery(c, "to"); err != nil {
		return
	}
	list, total, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "total": total, "page": f.Page})
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := h.repo.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	txs, err := h.txs.ListByBooking(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "transactions": txs})
}

// Schedule lists the sessions on ?date=YYYY-MM-DD (today by default).
func (h *BookingHandler) Schedule(c *gin.Context) {
	day := time.Now()
	if s := c.Query("date"); s != "" {
		d, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD", "field": "date"})
			return
		}
		day = d
	}
	list, err := h.repo.ListOnDate(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format("2006-01-02"), "bookings": list})
}

type confirmRequest struct {
	DPAmount int64 `json:"dp_amount" binding:"gte=0"`
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req confirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	b, err := h.svc.ConfirmBooking(c.Request.Context(), id, req.DPAmount)
	h.done(c, b, err, "booking_confirm", map[string]interface{}{"dp_amount": req.DPAmount})
}

func (h *BookingHandler) Start(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.svc.StartSession(c.Request.Context(), id)
	h.done(c, b, err, "booking_start", nil)
}

type completeRequest struct {
	DeliverableLink string `json:"deliverable_link" binding:"required,url,max=512"`
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.svc.CompleteBooking(c.Request.Context(), id, req.DeliverableLink)
	h.done(c, b, err, "booking_complete", map[string]interface{}{"deliverable_link": req.DeliverableLink})
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	b, err := h.svc.CancelBooking(c.Request.Context(), id, req.Reason)
	h.done(c, b, err, "booking_cancel", map[string]interface{}{"reason": req.Reason})
}

func (h *BookingHandler) ApproveReschedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.svc.ApproveReschedule(c.Request.Context(), id)
	h.done(c, b, err, "reschedule_approve", nil)
}

func (h *BookingHandler) DeclineReschedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.svc.DeclineReschedule(c.Request.Context(), id)
	h.done(c, b, err, "reschedule_decline", nil)
}

func (h *BookingHandler) MarkPaymentFailed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.svc.MarkPaymentFailed(c.Request.Context(), id)
	h.done(c, b, err, "payment_failed", nil)
}

func (h *BookingHandler) done(c *gin.Context, b *models.Booking, err error, action string, metadata map[string]interface{}) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, action, "booking", b.Code, metadata)
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter, writing a 400 on failure.
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "must be YYYY-MM-DD", "field": key})
		return nil, booking.Invalid(key, "must be YYYY-MM-DD")
	}
	return &t, nil
}

package handler

import (
	"net/http"
	"strconv"

	"studio8/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FinanceHandler struct {
	txs       *repository.TransactionRepository
	dashboard *repository.DashboardRepository
	log       *logrus.Entry
}

func NewFinanceHandler(txs *repository.TransactionRepository, dashboard *repository.DashboardRepository, logger *logrus.Logger) *FinanceHandler {
	return &FinanceHandler{txs: txs, dashboard: dashboard, log: logger.WithField("component", "finance")}
}

func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.txs.List(c.Request.Context(), c.Query("type"), from, to, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "total": total, "page": page})
}

func (h *FinanceHandler) Summary(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return
	}
	s, err := h.txs.Summary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": s})
}

func (h *FinanceHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}
	stats, err := h.dashboard.Stats(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	bookings, err := h.dashboard.BookingsByDay(ctx, days)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	revenue, err := h.txs.RevenueByDay(ctx, days)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "bookings_by_day": bookings, "revenue_by_day": revenue})
}

package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"studio8/internal/booking"
	"studio8/internal/models"
	"studio8/internal/repository"
	"studio8/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PublicHandler serves the unauthenticated client-facing endpoints.
type PublicHandler struct {
	bookings    *service.BookingService
	catalog     *repository.CatalogRepository
	bookingRepo *repository.BookingRepository
	clients     *repository.ClientRepository
	settings    *repository.SettingRepository
	log         *logrus.Entry
}

func NewPublicHandler(
	bookings *service.BookingService,
	catalog *repository.CatalogRepository,
	bookingRepo *repository.BookingRepository,
	clients *repository.ClientRepository,
	settings *repository.SettingRepository,
	logger *logrus.Logger,
) *PublicHandler {
	return &PublicHandler{
		bookings:    bookings,
		catalog:     catalog,
		bookingRepo: bookingRepo,
		clients:     clients,
		settings:    settings,
		log:         logger.WithField("component", "public"),
	}
}

// Catalog lists the bookable packages and add-ons.
func (h *PublicHandler) Catalog(c *gin.Context) {
	ctx := c.Request.Context()
	packages, err := h.catalog.ListPackages(ctx, false)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	addOns, err := h.catalog.ListAddOns(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages, "add_ons": addOns})
}

type submitBookingRequest struct {
	Name            string    `json:"name" binding:"required,max=150"`
	Email           string    `json:"email" binding:"required,email"`
	Phone           string    `json:"phone" binding:"required,max=32"`
	PackageID       string    `json:"package_id" binding:"required"`
	SubPackageID    string    `json:"sub_package_id" binding:"required"`
	SubAddOnIDs     []string  `json:"sub_add_on_ids"`
	NumberOfPeople  int       `json:"number_of_people" binding:"required,min=1"`
	BookingDate     time.Time `json:"booking_date" binding:"required"`
	PaymentMethod   string    `json:"payment_method" binding:"required,oneof=transfer qris cash"`
	ReferralCode    string    `json:"referral_code" binding:"max=20"`
	RedeemPoints    bool      `json:"redeem_points"`
	PaymentProofURL string    `json:"payment_proof_url" binding:"max=512"`
	Notes           string    `json:"notes" binding:"max=2000"`
}

// SubmitBooking prices and records a booking. An unusable referral code does not fail the
// request; the discount is simply not applied.
func (h *PublicHandler) SubmitBooking(c *gin.Context) {
	var req submitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.bookings.SubmitBooking(c.Request.Context(), service.SubmitForm{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		PackageID:       req.PackageID,
		SubPackageID:    req.SubPackageID,
		SubAddOnIDs:     req.SubAddOnIDs,
		People:          req.NumberOfPeople,
		BookingDate:     req.BookingDate,
		PaymentMethod:   req.PaymentMethod,
		ReferralCode:    req.ReferralCode,
		RedeemPoints:    req.RedeemPoints,
		PaymentProofURL: req.PaymentProofURL,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"booking_code": res.BookingCode,
		"booking":      publicBooking(res.Booking),
	})
}

// LookupBooking returns a booking to the client who made it (code and email must match).
func (h *PublicHandler) LookupBooking(c *gin.Context) {
	code := booking.NormalizeCode(c.Query("code"))
	email := booking.NormalizeEmail(c.Query("email"))
	if code == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and email are required"})
		return
	}
	b, err := h.bookingRepo.GetByCode(c.Request.Context(), code)
	if err == nil && booking.NormalizeEmail(b.ClientEmail) != email {
		err = booking.NotFound("booking", code)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": publicBooking(b)})
}

type rescheduleRequest struct {
	Email         string    `json:"email" binding:"required,email"`
	RequestedDate time.Time `json:"requested_date" binding:"required"`
	Reason        string    `json:"reason" binding:"max=1000"`
}

func (h *PublicHandler) RequestReschedule(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !req.RequestedDate.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "must be in the future", "field": "requested_date"})
		return
	}
	b, err := h.bookings.RequestReschedule(c.Request.Context(), c.Param("code"), req.Email, req.RequestedDate, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": publicBooking(b)})
}

// LoyaltyCard shows a client's points and tier. Email and phone must both match.
func (h *PublicHandler) LoyaltyCard(c *gin.Context) {
	ctx := c.Request.Context()
	email := booking.NormalizeEmail(c.Query("email"))
	phone := c.Query("phone")
	if email == "" || phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and phone are required"})
		return
	}
	client, err := h.clients.GetByEmail(ctx, email)
	if err == nil && phoneDigits(client.Phone) != phoneDigits(phone) {
		err = booking.NotFound("client", email)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	settings, err := h.settings.LoyaltySettings(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	card := gin.H{
		"name":           client.Name,
		"loyalty_tier":   client.LoyaltyTier,
		"loyalty_points": client.LoyaltyPoints,
		"points_value":   int64(float64(client.LoyaltyPoints) * settings.RupiahPerPoint),
		"total_bookings": client.TotalBookings,
		"referral_code":  client.ReferralCode,
	}
	if next := nextTier(settings, client.TotalBookings); next != nil {
		card["next_tier"] = gin.H{
			"name":               next.Name,
			"bookings_remaining": next.BookingThreshold - client.TotalBookings,
		}
	}
	c.JSON(http.StatusOK, gin.H{"card": card})
}

// ValidateReferralCode lets the booking form warn before submission. With ?email= it also
// reports self-referral and returning clients, which would not get the discount.
func (h *PublicHandler) ValidateReferralCode(c *gin.Context) {
	ctx := c.Request.Context()
	code := booking.NormalizeCode(c.Param("code"))
	referrer, err := h.clients.GetByReferralCode(ctx, code)
	if errors.Is(err, booking.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": booking.ReferralUnknown})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if email := booking.NormalizeEmail(c.Query("email")); email != "" {
		if strings.EqualFold(referrer.Email, email) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": booking.ReferralSelf})
			return
		}
		if _, err := h.clients.GetByEmail(ctx, email); err == nil {
			c.JSON(http.StatusOK, gin.H{"valid": false, "reason": booking.ReferralNotNewClient})
			return
		}
	}
	settings, err := h.settings.LoyaltySettings(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "discount": settings.FirstBookingReferralDiscount})
}

// publicBooking is the client-visible projection of a booking.
func publicBooking(b *models.Booking) gin.H {
	return gin.H{
		"code":                b.Code,
		"client_name":         b.ClientName,
		"package":             b.Package,
		"add_ons":             b.AddOns,
		"number_of_people":    b.NumberOfPeople,
		"booking_date":        b.BookingDate,
		"requested_date":      b.RequestedDate,
		"booking_status":      b.BookingStatus,
		"payment_status":      b.PaymentStatus,
		"payment_method":      b.PaymentMethod,
		"subtotal":            b.Subtotal,
		"extra_person_charge": b.ExtraPersonCharge,
		"discount_amount":     b.DiscountAmount,
		"discount_reason":     b.DiscountReason,
		"points_redeemed":     b.PointsRedeemed,
		"total_price":         b.TotalPrice,
		"dp_amount":           b.DPAmount,
		"remaining_balance":   b.RemainingBalance,
		"deliverable_link":    b.DeliverableLink,
	}
}

func nextTier(s booking.LoyaltySettings, totalBookings int) *booking.Tier {
	tiers := append([]booking.Tier(nil), s.LoyaltyTiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].BookingThreshold < tiers[j].BookingThreshold })
	for i := range tiers {
		if tiers[i].BookingThreshold > totalBookings {
			return &tiers[i]
		}
	}
	return nil
}

// phoneDigits reduces a phone number to digits, with the +62 country code as a leading 0.
func phoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if strings.HasPrefix(d, "62") {
		d = "0" + d[2:]
	}
	return d
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studio8/internal/booking"
	"studio8/internal/domain"
	"studio8/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

var paymentMethods = map[string]bool{
	domain.PaymentMethodTransfer: true,
	domain.PaymentMethodQRIS:     true,
	domain.PaymentMethodCash:     true,
}

// SubmitForm is a public booking submission.
type SubmitForm struct {
	Name            string
	Email           string
	Phone           string
	PackageID       string
	SubPackageID    string
	SubAddOnIDs     []string
	People          int
	BookingDate     time.Time
	PaymentMethod   string
	ReferralCode    string
	RedeemPoints    bool
	PaymentProofURL string
	Notes           string
}

func (f SubmitForm) validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return booking.Invalid("name", "is required")
	case !strings.Contains(f.Email, "@"):
		return booking.Invalid("email", "must be a valid email address")
	case strings.TrimSpace(f.Phone) == "":
		return booking.Invalid("phone", "is required")
	case f.PackageID == "":
		return booking.Invalid("package_id", "is required")
	case f.SubPackageID == "":
		return booking.Invalid("sub_package_id", "is required")
	case f.People < 1:
		return booking.Invalid("number_of_people", "must be at least 1")
	case f.BookingDate.IsZero():
		return booking.Invalid("booking_date", "is required")
	case !paymentMethods[f.PaymentMethod]:
		return booking.Invalid("payment_method", "must be one of transfer, qris, cash")
	}
	return nil
}

type SubmitResult struct {
	BookingCode string
	Booking     *models.Booking
	Referral    booking.ReferralOutcome
}

type BookingServiceConfig struct {
	Rules        booking.PricingRules
	CodeAttempts int
}

// BookingService is the booking settlement engine: intake, pricing, discounts, the client
// ledger and every status transition, each committed atomically through the Store.
type BookingService struct {
	store    booking.Store
	catalog  booking.CatalogReader
	settings booking.SettingsReader
	notifier Notifier
	codes    booking.CodeGenerator
	cfg      BookingServiceConfig
	now      func() time.Time
	log      *logrus.Entry
}

func NewBookingService(
	store booking.Store,
	catalog booking.CatalogReader,
	settings booking.SettingsReader,
	notifier Notifier,
	cfg BookingServiceConfig,
	logger *logrus.Logger,
) *BookingService {
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = 10
	}
	return &BookingService{
		store:    store,
		catalog:  catalog,
		settings: settings,
		notifier: notifier,
		codes:    booking.RandomCodes{},
		cfg:      cfg,
		now:      time.Now,
		log:      logger.WithField("component", "booking"),
	}
}

// SetCodeGenerator replaces the random code source.
func (s *BookingService) SetCodeGenerator(g booking.CodeGenerator) { s.codes = g }

// SetClock replaces time.Now.
func (s *BookingService) SetClock(now func() time.Time) { s.now = now }

// SubmitBooking validates a submission against the live catalog, prices it, resolves the
// discount and commits the new booking together with the client ledger update.
func (s *BookingService) SubmitBooking(ctx context.Context, form SubmitForm) (*SubmitResult, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	email := booking.NormalizeEmail(form.Email)

	settings, err := s.settings.LoyaltySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load loyalty settings: %w", err)
	}
	pkg, err := s.catalog.GetPackage(ctx, form.PackageID)
	if err != nil {
		return nil, err
	}
	addOns, err := s.catalog.ListAddOns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load add-ons: %w", err)
	}
	quote, err := booking.Price(pkg, addOns, booking.Selection{
		PackageID:    form.PackageID,
		SubPackageID: form.SubPackageID,
		SubAddOnIDs:  form.SubAddOnIDs,
		People:       form.People,
	}, s.cfg.Rules)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &SubmitResult{}
	err = s.store.RunInTx(ctx, func(tx booking.Tx) error {
		client, err := tx.GetClientByEmail(email)
		isNew := errors.Is(err, booking.ErrNotFound)
		if err != nil && !isNew {
			return err
		}

		in := booking.DiscountInput{
			Subtotal:     quote.Subtotal,
			ClientEmail:  email,
			IsNewClient:  isNew,
			ReferralCode: form.ReferralCode,
			RedeemPoints: form.RedeemPoints,
			Settings:     settings,
		}
		var referrer *models.Client
		if isNew && booking.NormalizeCode(form.ReferralCode) != "" {
			referrer, err = tx.GetClientByReferralCode(booking.NormalizeCode(form.ReferralCode))
			if err != nil && !errors.Is(err, booking.ErrNotFound) {
				return err
			}
			in.Referrer = referrer
		}
		if !isNew {
			in.TotalBookings = client.TotalBookings
			in.LoyaltyPoints = client.LoyaltyPoints
		}
		d := booking.ResolveDiscount(in)

		if isNew {
			refCode, err := booking.UniqueCode(s.cfg.CodeAttempts, s.codes.ReferralCode, tx.ReferralCodeExists)
			if err != nil {
				return fmt.Errorf("referral code: %w", err)
			}
			client = booking.NewClient(email, form.Name, form.Phone, refCode, now)
			if d.Referral == booking.ReferralApplied {
				client.ReferredBy = d.ReferralCodeUsed
			}
		}
		if isNew || d.PointsRedeemed > 0 {
			booking.DebitPoints(client, d.PointsRedeemed)
			if err := tx.SaveClient(client); err != nil {
				return err
			}
		}

		code, err := booking.UniqueCode(s.cfg.CodeAttempts, s.codes.BookingCode, tx.BookingCodeExists)
		if err != nil {
			return fmt.Errorf("booking code: %w", err)
		}
		b := &models.Booking{
			Code:              code,
			ClientName:        strings.TrimSpace(form.Name),
			ClientEmail:       email,
			ClientPhone:       strings.TrimSpace(form.Phone),
			PackageID:         quote.Package.PackageID,
			Package:           datatypes.NewJSONType(quote.Package),
			AddOns:            datatypes.NewJSONType(quote.AddOns),
			NumberOfPeople:    form.People,
			BookingDate:       form.BookingDate,
			PaymentMethod:     form.PaymentMethod,
			PaymentStatus:     domain.PaymentPending,
			BookingStatus:     domain.BookingPending,
			Subtotal:          quote.Subtotal,
			ExtraPersonCharge: quote.ExtraPersonCharge,
			BaseDiscount:      d.BaseDiscount,
			DiscountAmount:    d.Amount,
			DiscountReason:    d.Reason,
			ReferralCodeUsed:  d.ReferralCodeUsed,
			PointsRedeemed:    d.PointsRedeemed,
			PointsValue:       d.PointsValue,
			TotalPrice:        d.TotalPrice,
			RemainingBalance:  d.TotalPrice,
			PaymentProofURL:   form.PaymentProofURL,
			Notes:             form.Notes,
		}
		if err := tx.CreateBooking(b); err != nil {
			return err
		}
		if d.Referral == booking.ReferralApplied {
			if err := tx.CreateReferral(&models.Referral{
				ReferrerClientID: referrer.ID,
				ReferredClientID: client.ID,
				Code:             d.ReferralCodeUsed,
				BookingID:        b.ID,
			}); err != nil {
				return err
			}
		}
		res.Booking = b
		res.BookingCode = b.Code
		res.Referral = d.Referral
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{"booking_code": res.BookingCode, "email": email})
	if res.Referral != booking.ReferralNone && res.Referral != booking.ReferralApplied {
		entry.WithField("referral", res.Referral).Info("referral code ignored")
	}
	entry.WithField("total_price", res.Booking.TotalPrice).Info("booking submitted")
	s.notifier.Dispatch(Notice{
		RecipientRole: domain.RoleStaff,
		Type:          domain.NotifNewBooking,
		Severity:      domain.SeverityInfo,
		Message:       fmt.Sprintf("Booking baru %s dari %s (%s)", res.BookingCode, res.Booking.ClientName, quote.Package.PackageName),
		Link:          bookingLink(res.Booking.ID),
	})
	return res, nil
}

// ConfirmBooking moves a Pending booking to Confirmed/Paid and records the down payment.
func (s *BookingService) ConfirmBooking(ctx context.Context, id uint, dpAmount int64) (*models.Booking, error) {
	now := s.now()
	var b *models.Booking
	err := s.store.RunInTx(ctx, func(tx booking.Tx) error {
		var err error
		if b, err = tx.GetBooking(id); err != nil {
			return err
		}
		if b.BookingStatus != domain.BookingPending {
			return booking.TransitionError("booking", b.BookingStatus, domain.BookingConfirmed)
		}
		if err := booking.CheckPaymentTransition(b.PaymentStatus, domain.PaymentPaid); err != nil {
			return err
		}
		if dpAmount < 0 || dpAmount > b.TotalPrice {
			return booking.Invalid("dp_amount", "must be between 0 and the total price")
		}
		if dpAmount > 0 {
			if err := tx.CreateTransaction(&models.FinancialTransaction{
				Kind:        domain.TxKindIncome,
				Type:        domain.TxTypeDownPayment,
				Amount:      dpAmount,
				BookingID:   &b.ID,
				BookingCode: b.Code,
				Description: fmt.Sprintf("DP booking %s", b.Code),
			}); err != nil {
				return err
			}
		}
		b.DPAmount = dpAmount
		b.RemainingBalance = b.TotalPrice - dpAmount
		b.BookingStatus = domain.BookingConfirmed
		b.PaymentStatus = domain.PaymentPaid
		b.ConfirmedAt = &now
		return tx.SaveBooking(b)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_code": b.Code, "dp_amount": dpAmount}).Info("booking confirmed")
	s.notifier.Dispatch(Notice{
		RecipientRole: domain.RoleStaff,
		Type:          domain.NotifBookingConfirmed,
		Severity:      domain.SeveritySuccess,
		Message:       fmt.Sprintf("Booking %s dikonfirmasi", b.Code),
		Link:          bookingLink(b.ID),
	})
	return b, nil
}

// StartSession marks a confirmed booking as in progress.
func (s *BookingService) StartSession(ctx context.Context, id uint) (*models.Booking, error) {
	return s.transition(ctx, id, domain.BookingInProgress, func(b *models.Booking) error { return nil })
}

// CompleteBooking settles the remaining balance, credits the client ledger (points, totals,
// referral bonus, tier) and stores the deliverable link, all in one commit. Completing a
// booking twice fails with booking.ErrAlreadyCompleted and never credits twice.
func (s *BookingService) CompleteBooking(ctx context.Context, id uint, deliverableLink string) (*models.Booking, error) {
	settings, err := s.settings.LoyaltySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load loyalty settings: %w", err)
	}
	now := s.now()
	var (
		b        *models.Booking
		client   *models.Client
		referrer *models.Client
		result   booking.CompletionResult
	)
	err = s.store.RunInTx(ctx, func(tx booking.Tx) error {
		var err error
		if b, err = tx.GetBooking(id); err != nil {
			return err
		}
		if err := booking.CheckBookingTransition(b.BookingStatus, domain.BookingCompleted); err != nil {
			return err
		}
		client, err = tx.GetClientByEmail(booking.NormalizeEmail(b.ClientEmail))
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				s.log.WithFields(logrus.Fields{"booking_code": b.Code, "email": b.ClientEmail}).
					Error("client ledger missing for booking, completion aborted")
			}
			return err
		}

		var bonus int64
		if client.TotalBookings == 0 {
			referrer, bonus, err = s.creditReferrer(tx, client, b.ReferralCodeUsed, settings, now)
			if err != nil {
				return err
			}
		}
		result = booking.ApplyCompletion(client, b.TotalPrice, bonus, settings, now)
		if err := tx.SaveClient(client); err != nil {
			return err
		}

		if b.RemainingBalance > 0 {
			if err := tx.CreateTransaction(&models.FinancialTransaction{
				Kind:        domain.TxKindIncome,
				Type:        domain.TxTypeSettlement,
				Amount:      b.RemainingBalance,
				BookingID:   &b.ID,
				BookingCode: b.Code,
				Description: fmt.Sprintf("Pelunasan booking %s", b.Code),
			}); err != nil {
				return err
			}
		}
		b.RemainingBalance = 0
		b.BookingStatus = domain.BookingCompleted
		b.PaymentStatus = domain.PaymentPaid
		b.DeliverableLink = strings.TrimSpace(deliverableLink)
		b.CompletedAt = &now
		return tx.SaveBooking(b)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_code":  b.Code,
		"email":         client.Email,
		"points_earned": result.PointsEarned,
		"tier":          result.NewTier,
	}).Info("booking completed")
	s.notifier.Dispatch(Notice{
		RecipientRole: domain.RoleStaff,
		Type:          domain.NotifBookingCompleted,
		Severity:      domain.SeveritySuccess,
		Message:       fmt.Sprintf("Booking %s selesai, %s mendapat %d poin", b.Code, client.Name, result.PointsEarned),
		Link:          bookingLink(b.ID),
	})
	if result.TierChanged {
		s.notifier.Dispatch(Notice{
			RecipientRole: domain.RoleAdmin,
			Type:          domain.NotifTierUpgrade,
			Severity:      domain.SeveritySuccess,
			Message:       fmt.Sprintf("%s naik ke tier %s", client.Name, result.NewTier),
			Link:          clientLink(client.Email),
		})
	}
	if result.ReferralBonus > 0 && referrer != nil {
		s.notifier.Dispatch(Notice{
			RecipientRole: domain.RoleAdmin,
			Type:          domain.NotifReferralBonus,
			Severity:      domain.SeverityInfo,
			Message:       fmt.Sprintf("Bonus referral %d poin untuk %s dan %s", result.ReferralBonus, referrer.Name, client.Name),
			Link:          clientLink(referrer.Email),
		})
	}
	return b, nil
}

// creditReferrer grants the referral bonus on the referred client's first completion,
// whichever of their bookings completes first. The referral row recorded at submission names
// the referrer; bookingCode is the fallback for bookings without one. It returns the credited
// referrer and the bonus the referred client also receives.
func (s *BookingService) creditReferrer(tx booking.Tx, client *models.Client, bookingCode string, settings booking.LoyaltySettings, now time.Time) (*models.Client, int64, error) {
	if settings.ReferralBonusPoints <= 0 {
		return nil, 0, nil
	}
	ref, err := tx.GetReferralByReferred(client.ID)
	if err != nil && !errors.Is(err, booking.ErrNotFound) {
		return nil, 0, err
	}
	if ref != nil && ref.BonusCreditedAt != nil {
		return nil, 0, nil
	}
	code := bookingCode
	if ref != nil {
		code = ref.Code
	}
	if code == "" {
		return nil, 0, nil
	}
	referrer, err := tx.GetClientByReferralCode(code)
	if errors.Is(err, booking.ErrNotFound) {
		s.log.WithFields(logrus.Fields{"email": client.Email, "referral_code": code}).Warn("referrer no longer exists, bonus skipped")
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	if referrer.ID == client.ID || strings.EqualFold(referrer.Email, client.Email) {
		return nil, 0, nil
	}

	bonus := settings.ReferralBonusPoints
	booking.CreditPoints(referrer, bonus)
	if err := tx.SaveClient(referrer); err != nil {
		return nil, 0, err
	}
	if ref != nil {
		ref.BonusPoints = bonus
		ref.BonusCreditedAt = &now
		if err := tx.SaveReferral(ref); err != nil {
			return nil, 0, err
		}
	}
	return referrer, bonus, nil
}

// CancelBooking cancels a booking that has not started and returns redeemed points.
func (s *BookingService) CancelBooking(ctx context.Context, id uint, reason string) (*models.Booking, error) {
	now := s.now()
	var b *models.Booking
	err := s.store.RunInTx(ctx, func(tx booking.Tx) error {
		var err error
		if b, err = tx.GetBooking(id); err != nil {
			return err
		}
		if err := booking.CheckBookingTransition(b.BookingStatus, domain.BookingCancelled); err != nil {
			return err
		}
		if b.PointsRedeemed > 0 {
			client, err := tx.GetClientByEmail(booking.NormalizeEmail(b.ClientEmail))
			switch {
			case errors.Is(err, booking.ErrNotFound):
				s.log.WithField("booking_code", b.Code).Warn("client missing, redeemed points not returned")
			case err != nil:
				return err
			default:
				booking.CreditPoints(client, b.PointsRedeemed)
				if err := tx.SaveClient(client); err != nil {
					return err
				}
			}
		}
		b.BookingStatus = domain.BookingCancelled
		b.CancelReason = strings.TrimSpace(reason)
		b.CancelledAt = &now
		return tx.SaveBooking(b)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("booking_code", b.Code).Info("booking cancelled")
	s.notifier.Dispatch(Notice{
		RecipientRole: domain.RoleStaff,
		Type:          domain.NotifBookingCancelled,
		Severity:      domain.SeverityWarning,
		Message:       fmt.Sprintf("Booking %s dibatalkan", b.Code),
		Link:          bookingLink(b.ID),
	})
	return b, nil
}

// RequestReschedule is the client-facing request to move a confirmed session. The email
// must match the booking; a mismatch is reported as not found.
func (s *BookingService) RequestReschedule(ctx context.Context, code, email string, newDate time.Time, reason string) (*models.Booking, error) {
	if newDate.IsZero() {
		return nil, booking.Invalid("requested_date", "is required")
	}
	code = booking.NormalizeCode(code)
	var b *models.Booking
	err := s.store.RunInTx(ctx, func(tx booking.Tx) error {
		var err error
		if b, err = tx.GetBookingByCode(code); err != nil {
			return err
		}
		if booking.NormalizeEmail(b.ClientEmail) != booking.NormalizeEmail(email) {
			return booking.NotFound("booking", code)
		}
		if err := booking.CheckBookingTransition(b.BookingStatus, domain.BookingRescheduleRequested); err != nil {
			return err
		}
		b.BookingStatus = domain.BookingRescheduleRequested
		b.RequestedDate = &newDate
		b.RescheduleReason = strings.TrimSpace(reason)
		return tx.SaveBooking(b)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Dispatch(Notice{
		RecipientRole: domain.RoleStaff,
		Type:          domain.NotifRescheduleRequest,
		Severity:      domain.SeverityWarning,
		Message:       fmt.Sprintf("%s meminta reschedule booking %s ke %s", b.ClientName, b.Code, newDate.Format("02 Jan 2006 15:04")),
		Link:          bookingLink(b.ID),
	})
	return b, nil
}

// ApproveReschedule confirms the requested date.
func (s *BookingService) ApproveReschedule(ctx context.Context, id uint) (*models.Booking, error) {
	return s.resolveReschedule(ctx, id, true)
}

// DeclineReschedule keeps the original date.
func (s *BookingService) DeclineReschedule(ctx context.Context, id uint) (*models.Booking, error) {
	return s.resolveReschedule(ctx, id, false)
}

func (s *BookingService) resolveReschedule(ctx context.Context, id uint, approve bool) (*models.Booking, error) {
	b, err := s.transition(ctx, id, domain.BookingConfirmed, func(b *models.Booking) error {
		if b.BookingStatus != domain.BookingRescheduleRequested {
			return booking.TransitionError("booking", b.BookingStatus, domain.BookingConfirmed)
		}
		if approve && b.RequestedDate != nil {
			b.BookingDate = *b.RequestedDate
		}
		b.RequestedDate = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	verdict := "ditolak"
	if approve {
		verdict = "disetujui"
	}
	s.notifier.Dispatch(Notice{
		RecipientRole: domain.RoleStaff,
		Type:          domain.NotifRescheduleResolved,
		Severity:      domain.SeverityInfo,
		Message:       fmt.Sprintf("Reschedule booking %s %s", b.Code, verdict),
		Link:          bookingLink(b.ID),
	})
	return b, nil
}

// MarkPaymentFailed flags a pending payment as failed; the booking status is unchanged.
func (s *BookingService) MarkPaymentFailed(ctx context.Context, id uint) (*models.Booking, error) {
	var b *models.Booking
	err := s.store.RunInTx(ctx, func(tx booking.Tx) error {
		var err error
		if b, err = tx.GetBooking(id); err != nil {
			return err
		}
		if err := booking.CheckPaymentTransition(b.PaymentStatus, domain.PaymentFailed); err != nil {
			return err
		}
		b.PaymentStatus = domain.PaymentFailed
		return tx.SaveBooking(b)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Dispatch(Notice{
		RecipientRole: domain.RoleStaff,
		Type:          domain.NotifPaymentFailed,
		Severity:      domain.SeverityWarning,
		Message:       fmt.Sprintf("Pembayaran booking %s gagal", b.Code),
		Link:          bookingLink(b.ID),
	})
	return b, nil
}

// transition moves a booking to status "to" after the state machine allows it.
func (s *BookingService) transition(ctx context.Context, id uint, to string, mutate func(b *models.Booking) error) (*models.Booking, error) {
	var b *models.Booking
	err := s.store.RunInTx(ctx, func(tx booking.Tx) error {
		var err error
		if b, err = tx.GetBooking(id); err != nil {
			return err
		}
		if err := booking.CheckBookingTransition(b.BookingStatus, to); err != nil {
			return err
		}
		if err := mutate(b); err != nil {
			return err
		}
		b.BookingStatus = to
		return tx.SaveBooking(b)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_code": b.Code, "status": to}).Info("booking status changed")
	return b, nil
}

func bookingLink(id uint) string { return fmt.Sprintf("/admin/bookings/%d", id) }

func clientLink(email string) string { return "/admin/clients/" + email }

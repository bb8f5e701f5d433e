package domain

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Booking status values.
const (
	BookingPending             = "Pending"
	BookingConfirmed           = "Confirmed"
	BookingInProgress          = "InProgress"
	BookingCompleted           = "Completed"
	BookingCancelled           = "Cancelled"
	BookingRescheduleRequested = "RescheduleRequested"
)

// Payment status values.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

const (
	PaymentMethodTransfer = "transfer"
	PaymentMethodQRIS     = "qris"
	PaymentMethodCash     = "cash"
)

// Financial transaction types.
const (
	TxTypeDownPayment = "DP"
	TxTypeSettlement  = "SETTLEMENT"
)

const TxKindIncome = "INCOME"

const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
)

const (
	NotifNewBooking         = "NEW_BOOKING"
	NotifBookingConfirmed   = "BOOKING_CONFIRMED"
	NotifBookingCompleted   = "BOOKING_COMPLETED"
	NotifBookingCancelled   = "BOOKING_CANCELLED"
	NotifRescheduleRequest  = "RESCHEDULE_REQUESTED"
	NotifTierUpgrade        = "TIER_UPGRADE"
	NotifReferralBonus      = "REFERRAL_BONUS"
	NotifPaymentFailed      = "PAYMENT_FAILED"
	NotifRescheduleResolved = "RESCHEDULE_RESOLVED"
)

const SettingLoyalty = "loyalty_settings"

// DefaultTier is the tier assigned to a client before any tier threshold is met.
const DefaultTier = "Newbie"

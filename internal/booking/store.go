package booking

import (
	"context"

	"studio8/internal/models"
)

// CatalogReader reads the live catalog; every request re-reads it.
type CatalogReader interface {
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	ListAddOns(ctx context.Context) ([]models.AddOn, error)
}

// SettingsReader loads the loyalty settings document.
type SettingsReader interface {
	LoyaltySettings(ctx context.Context) (LoyaltySettings, error)
}

// Tx is the read-modify-write view of the client/booking store inside one atomic commit.
// Lookups return an error wrapping ErrNotFound when the row is absent.
type Tx interface {
	GetClientByEmail(email string) (*models.Client, error)
	GetClientByReferralCode(code string) (*models.Client, error)
	ReferralCodeExists(code string) (bool, error)
	SaveClient(c *models.Client) error

	BookingCodeExists(code string) (bool, error)
	CreateBooking(b *models.Booking) error
	GetBooking(id uint) (*models.Booking, error)
	GetBookingByCode(code string) (*models.Booking, error)
	SaveBooking(b *models.Booking) error

	CreateReferral(r *models.Referral) error
	GetReferralByReferred(clientID uint) (*models.Referral, error)
	SaveReferral(r *models.Referral) error

	CreateTransaction(t *models.FinancialTransaction) error
}

// Store runs fn inside a transaction: either every write in fn commits or none does.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

package repository

import (
	"context"

	"studio8/internal/booking"
	"studio8/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementStore runs booking settlements inside a database transaction. Client and booking
// rows read through the Tx are locked until commit, which serializes concurrent settlements
// for the same client.
type SettlementStore struct {
	db *gorm.DB
}

func NewSettlementStore(db *gorm.DB) *SettlementStore {
	return &SettlementStore{db: db}
}

func (s *SettlementStore) RunInTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&settlementTx{db: tx})
	})
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

var (
	_ booking.Store          = (*SettlementStore)(nil)
	_ booking.Tx             = (*settlementTx)(nil)
	_ booking.CatalogReader  = (*CatalogRepository)(nil)
	_ booking.SettingsReader = (*SettingRepository)(nil)
)

type settlementTx struct {
	db *gorm.DB
}

func (t *settlementTx) GetClientByEmail(email string) (*models.Client, error) {
	var c models.Client
	if err := lockForUpdate(t.db).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, notFound(err, "client", email)
	}
	return &c, nil
}

func (t *settlementTx) GetClientByReferralCode(code string) (*models.Client, error) {
	var c models.Client
	if err := lockForUpdate(t.db).Where("referral_code = ?", code).First(&c).Error; err != nil {
		return nil, notFound(err, "referral code", code)
	}
	return &c, nil
}

func (t *settlementTx) ReferralCodeExists(code string) (bool, error) {
	var n int64
	err := t.db.Unscoped().Model(&models.Client{}).Where("referral_code = ?", code).Count(&n).Error
	return n > 0, err
}

func (t *settlementTx) SaveClient(c *models.Client) error {
	return t.db.Save(c).Error
}

func (t *settlementTx) BookingCodeExists(code string) (bool, error) {
	var n int64
	err := t.db.Model(&models.Booking{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

func (t *settlementTx) CreateBooking(b *models.Booking) error {
	return t.db.Create(b).Error
}

func (t *settlementTx) GetBooking(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := lockForUpdate(t.db).First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &b, nil
}

func (t *settlementTx) GetBookingByCode(code string) (*models.Booking, error) {
	var b models.Booking
	if err := lockForUpdate(t.db).Where("code = ?", code).First(&b).Error; err != nil {
		return nil, notFound(err, "booking", code)
	}
	return &b, nil
}

func (t *settlementTx) SaveBooking(b *models.Booking) error {
	return t.db.Save(b).Error
}

func (t *settlementTx) CreateReferral(r *models.Referral) error {
	return t.db.Omit(clause.Associations).Create(r).Error
}

func (t *settlementTx) GetReferralByReferred(clientID uint) (*models.Referral, error) {
	var r models.Referral
	if err := lockForUpdate(t.db).Where("referred_client_id = ?", clientID).First(&r).Error; err != nil {
		return nil, notFound(err, "referral", clientID)
	}
	return &r, nil
}

func (t *settlementTx) SaveReferral(r *models.Referral) error {
	return t.db.Omit(clause.Associations).Save(r).Error
}

func (t *settlementTx) CreateTransaction(ft *models.FinancialTransaction) error {
	return t.db.Create(ft).Error
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio8/internal/booking"
	"studio8/internal/domain"
	"studio8/internal/models"
	"studio8/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newBooking(code, email string, date time.Time, status string, total int64) *models.Booking {
	return &models.Booking{
		Code:             code,
		ClientName:       "Ani",
		ClientEmail:      email,
		BookingDate:      date,
		PaymentMethod:    domain.PaymentMethodTransfer,
		PaymentStatus:    domain.PaymentPending,
		BookingStatus:    status,
		Subtotal:         total,
		TotalPrice:       total,
		RemainingBalance: total,
	}
}

func TestSettlementStoreRollback(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewSettlementStore(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(tx booking.Tx) error {
		c := booking.NewClient("ani@example.com", "Ani", "0812", "ANI00001", time.Now())
		require.NoError(t, tx.SaveClient(c))
		require.NoError(t, tx.CreateBooking(newBooking("S8-AAAAAA", c.Email, time.Now(), domain.BookingPending, 100000)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&models.Client{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Booking{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSettlementTx(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewSettlementStore(db)
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	var bookingID uint
	err := store.RunInTx(ctx, func(tx booking.Tx) error {
		_, err := tx.GetClientByEmail("budi@example.com")
		assert.ErrorIs(t, err, booking.ErrNotFound)

		budi := booking.NewClient("budi@example.com", "Budi", "", "BUDI2024", now)
		require.NoError(t, tx.SaveClient(budi))
		cici := booking.NewClient("cici@example.com", "Cici", "", "CICI2024", now)
		require.NoError(t, tx.SaveClient(cici))

		b := newBooking("S8-BBBBBB", cici.Email, now, domain.BookingPending, 65000)
		b.Package = datatypes.NewJSONType(models.PackageSnapshot{PackageID: "self-photo", PackageName: "Self Photo", Price: 100000})
		require.NoError(t, tx.CreateBooking(b))
		bookingID = b.ID

		require.NoError(t, tx.CreateReferral(&models.Referral{
			ReferrerClientID: budi.ID,
			ReferredClientID: cici.ID,
			Code:             "BUDI2024",
			BookingID:        b.ID,
		}))
		return nil
	})
	require.NoError(t, err)

	err = store.RunInTx(ctx, func(tx booking.Tx) error {
		exists, err := tx.ReferralCodeExists("BUDI2024")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = tx.BookingCodeExists("S8-BBBBBB")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = tx.BookingCodeExists("S8-ZZZZZZ")
		require.NoError(t, err)
		assert.False(t, exists)

		ref, err := tx.GetClientByReferralCode("BUDI2024")
		require.NoError(t, err)
		assert.Equal(t, "budi@example.com", ref.Email)

		b, err := tx.GetBookingByCode("S8-BBBBBB")
		require.NoError(t, err)
		assert.Equal(t, bookingID, b.ID)
		assert.Equal(t, "self-photo", b.Package.Data().PackageID)

		cici, err := tx.GetClientByEmail("cici@example.com")
		require.NoError(t, err)
		r, err := tx.GetReferralByReferred(cici.ID)
		require.NoError(t, err)
		r.BonusPoints = 50
		r.BonusCreditedAt = &now
		require.NoError(t, tx.SaveReferral(r))

		b.BookingStatus = domain.BookingConfirmed
		return tx.SaveBooking(b)
	})
	require.NoError(t, err)

	got, err := NewBookingRepository(db).GetByID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.BookingStatus)

	refs, err := NewReferralRepository(db).ListByReferrer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, int64(50), refs[0].BonusPoints)
	require.NotNil(t, refs[0].Referred)
	assert.Equal(t, "cici@example.com", refs[0].Referred.Email)
}

func TestReferralCodeExistsIncludesDeletedClients(t *testing.T) {
	db := testutil.NewTestDB(t)
	c := booking.NewClient("gone@example.com", "Gone", "", "GONE0001", time.Now())
	require.NoError(t, db.Create(c).Error)
	require.NoError(t, db.Delete(c).Error)

	err := NewSettlementStore(db).RunInTx(context.Background(), func(tx booking.Tx) error {
		exists, err := tx.ReferralCodeExists("GONE0001")
		require.NoError(t, err)
		assert.True(t, exists)
		return nil
	})
	require.NoError(t, err)
}

func TestSettingRepositoryLoyaltySettings(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	s, err := repo.LoyaltySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, booking.DefaultLoyaltySettings(), s)

	custom := booking.DefaultLoyaltySettings()
	custom.FirstBookingReferralDiscount = 50000
	custom.LoyaltyTiers = custom.LoyaltyTiers[:1]
	require.NoError(t, repo.SaveLoyaltySettings(ctx, custom))
	s, err = repo.LoyaltySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, s)

	custom.RupiahPerPoint = -1
	_, ok := booking.IsValidation(repo.SaveLoyaltySettings(ctx, custom))
	assert.True(t, ok)

	require.NoError(t, repo.Set(ctx, domain.SettingLoyalty, "{not json"))
	_, err = repo.LoyaltySettings(ctx)
	assert.ErrorIs(t, err, booking.ErrConfiguration)

	require.NoError(t, repo.Set(ctx, domain.SettingLoyalty, `{"rupiah_per_point": -5}`))
	_, err = repo.LoyaltySettings(ctx)
	assert.ErrorIs(t, err, booking.ErrConfiguration)
}

func TestCatalogRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	p := &models.Package{Name: "Self Photo", IsActive: true, SubPackages: []models.SubPackage{
		{Name: "15 Menit", Price: 100000},
		{Name: "30 Menit", Price: 175000},
	}}
	require.NoError(t, repo.SavePackage(ctx, p))
	require.NotEmpty(t, p.ID)
	require.Len(t, p.SubPackages, 2)

	got, err := repo.GetPackage(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.SubPackages, 2)

	// Dropping a variant deletes it; existing bookings keep their snapshot.
	got.SubPackages = got.SubPackages[:1]
	require.NoError(t, repo.SavePackage(ctx, got))
	got, err = repo.GetPackage(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.SubPackages, 1)

	got.IsActive = false
	require.NoError(t, repo.SavePackage(ctx, got))
	_, err = repo.GetPackage(ctx, p.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)

	all, err := repo.ListPackages(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	active, err := repo.ListPackages(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	a := &models.AddOn{Name: "Extra Print", IsActive: true, SubAddOns: []models.SubAddOn{{Name: "4R", Price: 10000}}}
	require.NoError(t, repo.SaveAddOn(ctx, a))
	addOns, err := repo.ListAddOns(ctx)
	require.NoError(t, err)
	require.Len(t, addOns, 1)
	assert.Equal(t, int64(10000), addOns[0].SubAddOns[0].Price)

	require.NoError(t, repo.DeleteAddOn(ctx, a.ID))
	addOns, err = repo.ListAddOns(ctx)
	require.NoError(t, err)
	assert.Empty(t, addOns)
}

func TestClientRepositoryAdjustPoints(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()
	c := booking.NewClient("ani@example.com", "Ani", "", "ANI00001", time.Now())
	c.LoyaltyPoints = 100
	require.NoError(t, db.Create(c).Error)

	got, err := repo.AdjustPoints(ctx, "ani@example.com", 25)
	require.NoError(t, err)
	assert.Equal(t, int64(125), got.LoyaltyPoints)

	got, err = repo.AdjustPoints(ctx, "ani@example.com", -1000)
	require.NoError(t, err)
	assert.Zero(t, got.LoyaltyPoints)

	_, err = repo.AdjustPoints(ctx, "nobody@example.com", 5)
	assert.ErrorIs(t, err, booking.ErrNotFound)

	list, total, err := repo.List(ctx, "ani", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestBookingRepositoryList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, b := range []*models.Booking{
		newBooking("S8-000001", "ani@example.com", day.Add(9*time.Hour), domain.BookingPending, 100000),
		newBooking("S8-000002", "ani@example.com", day.Add(13*time.Hour), domain.BookingConfirmed, 200000),
		newBooking("S8-000003", "budi@example.com", day.Add(15*time.Hour), domain.BookingCancelled, 100000),
		newBooking("S8-000004", "budi@example.com", day.AddDate(0, 0, 1).Add(9*time.Hour), domain.BookingConfirmed, 100000),
	} {
		require.NoError(t, db.Create(b).Error)
	}

	list, total, err := repo.List(ctx, BookingFilter{BookingStatus: domain.BookingConfirmed})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "S8-000004", list[0].Code, "newest session first")

	_, total, err = repo.List(ctx, BookingFilter{Search: "budi"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	to := day.AddDate(0, 0, 1)
	list, total, err = repo.List(ctx, BookingFilter{From: &day, To: &to, Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	assert.Equal(t, "S8-000002", list[0].Code)

	onDay, err := repo.ListOnDate(ctx, day.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, onDay, 2)
	assert.Equal(t, "S8-000001", onDay[0].Code)

	history, err := repo.ListByClientEmail(ctx, "ani@example.com", 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = repo.GetByCode(ctx, "S8-NOPE00")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestTransactionSummaryAndDashboard(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	b := newBooking("S8-000001", "ani@example.com", time.Now(), domain.BookingConfirmed, 100000)
	b.RemainingBalance = 60000
	require.NoError(t, db.Create(b).Error)
	require.NoError(t, db.Create(newBooking("S8-000002", "ani@example.com", time.Now(), domain.BookingPending, 50000)).Error)

	for _, ft := range []models.FinancialTransaction{
		{Kind: domain.TxKindIncome, Type: domain.TxTypeDownPayment, Amount: 40000, BookingID: &b.ID, BookingCode: b.Code},
		{Kind: domain.TxKindIncome, Type: domain.TxTypeSettlement, Amount: 60000},
		{Kind: domain.TxKindIncome, Type: domain.TxTypeDownPayment, Amount: 25000},
	} {
		ft := ft
		require.NoError(t, db.Create(&ft).Error)
	}

	txs := NewTransactionRepository(db)
	s, err := txs.Summary(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(65000), s.DownPayments)
	assert.Equal(t, int64(60000), s.Settlements)
	assert.Equal(t, int64(125000), s.Total)
	assert.Equal(t, int64(3), s.Count)

	list, total, err := txs.List(ctx, domain.TxTypeDownPayment, nil, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	byBooking, err := txs.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, byBooking, 1)

	stats, err := NewDashboardRepository(db).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus[domain.BookingPending])
	assert.Equal(t, int64(2), stats.PendingPayments)
	assert.Equal(t, int64(125000), stats.TotalRevenue)
	assert.Equal(t, int64(60000), stats.OutstandingBalance)
}

func TestNotFoundMapping(t *testing.T) {
	assert.ErrorIs(t, notFound(gorm.ErrRecordNotFound, "booking", 7), booking.ErrNotFound)
	other := errors.New("db down")
	assert.Equal(t, other, notFound(other, "booking", 7))
}

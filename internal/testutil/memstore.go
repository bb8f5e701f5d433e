// Package testutil holds in-memory fakes and database helpers shared by package tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"studio8/internal/booking"
	"studio8/internal/models"
)

// MemStore is an in-memory booking.Store. Each RunInTx works on a copy of the data and
// publishes it only when fn returns nil.
type MemStore struct {
	mu   sync.Mutex
	data memData
	// FailCreateTransaction makes CreateTransaction fail, to exercise rollback.
	FailCreateTransaction error
}

type memData struct {
	nextID       uint
	clients      map[uint]models.Client
	bookings     map[uint]models.Booking
	referrals    map[uint]models.Referral
	transactions []models.FinancialTransaction
}

func NewMemStore() *MemStore {
	return &MemStore{data: memData{
		clients:   map[uint]models.Client{},
		bookings:  map[uint]models.Booking{},
		referrals: map[uint]models.Referral{},
	}}
}

func (d memData) clone() memData {
	out := memData{
		nextID:       d.nextID,
		clients:      make(map[uint]models.Client, len(d.clients)),
		bookings:     make(map[uint]models.Booking, len(d.bookings)),
		referrals:    make(map[uint]models.Referral, len(d.referrals)),
		transactions: append([]models.FinancialTransaction(nil), d.transactions...),
	}
	for k, v := range d.clients {
		out.clients[k] = v
	}
	for k, v := range d.bookings {
		out.bookings[k] = v
	}
	for k, v := range d.referrals {
		out.referrals[k] = v
	}
	return out
}

func (s *MemStore) RunInTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{data: s.data.clone(), failTx: s.FailCreateTransaction}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// SeedClient stores c and returns it with its assigned ID.
func (s *MemStore) SeedClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	c.ID = s.data.nextID
	s.data.clients[c.ID] = c
	return c
}

func (s *MemStore) Client(email string) (models.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data.clients {
		if c.Email == email {
			return c, true
		}
	}
	return models.Client{}, false
}

func (s *MemStore) Booking(id uint) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.bookings[id]
	return b, ok
}

func (s *MemStore) Referrals() []models.Referral {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Referral, 0, len(s.data.referrals))
	for _, r := range s.data.referrals {
		out = append(out, r)
	}
	return out
}

func (s *MemStore) Transactions() []models.FinancialTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FinancialTransaction(nil), s.data.transactions...)
}

type memTx struct {
	data   memData
	failTx error
}

func (t *memTx) id() uint {
	t.data.nextID++
	return t.data.nextID
}

func (t *memTx) GetClientByEmail(email string) (*models.Client, error) {
	for _, c := range t.data.clients {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, booking.NotFound("client", email)
}

func (t *memTx) GetClientByReferralCode(code string) (*models.Client, error) {
	for _, c := range t.data.clients {
		if c.ReferralCode == code {
			return &c, nil
		}
	}
	return nil, booking.NotFound("referral code", code)
}

func (t *memTx) ReferralCodeExists(code string) (bool, error) {
	_, err := t.GetClientByReferralCode(code)
	return err == nil, nil
}

func (t *memTx) SaveClient(c *models.Client) error {
	if c.ID == 0 {
		c.ID = t.id()
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()
	t.data.clients[c.ID] = *c
	return nil
}

func (t *memTx) BookingCodeExists(code string) (bool, error) {
	_, err := t.GetBookingByCode(code)
	return err == nil, nil
}

func (t *memTx) CreateBooking(b *models.Booking) error {
	b.ID = t.id()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	t.data.bookings[b.ID] = *b
	return nil
}

func (t *memTx) GetBooking(id uint) (*models.Booking, error) {
	b, ok := t.data.bookings[id]
	if !ok {
		return nil, booking.NotFound("booking", "id")
	}
	return &b, nil
}

func (t *memTx) GetBookingByCode(code string) (*models.Booking, error) {
	for _, b := range t.data.bookings {
		if b.Code == code {
			return &b, nil
		}
	}
	return nil, booking.NotFound("booking", code)
}

func (t *memTx) SaveBooking(b *models.Booking) error {
	if _, ok := t.data.bookings[b.ID]; !ok {
		return booking.NotFound("booking", b.Code)
	}
	b.UpdatedAt = time.Now()
	t.data.bookings[b.ID] = *b
	return nil
}

func (t *memTx) CreateReferral(r *models.Referral) error {
	for _, existing := range t.data.referrals {
		if existing.ReferredClientID == r.ReferredClientID {
			return booking.Invalid("referral", "client already referred")
		}
	}
	r.ID = t.id()
	t.data.referrals[r.ID] = *r
	return nil
}

func (t *memTx) GetReferralByReferred(clientID uint) (*models.Referral, error) {
	for _, r := range t.data.referrals {
		if r.ReferredClientID == clientID {
			return &r, nil
		}
	}
	return nil, booking.NotFound("referral", "referred client")
}

func (t *memTx) SaveReferral(r *models.Referral) error {
	t.data.referrals[r.ID] = *r
	return nil
}

func (t *memTx) CreateTransaction(tx *models.FinancialTransaction) error {
	if t.failTx != nil {
		return t.failTx
	}
	tx.ID = t.id()
	tx.CreatedAt = time.Now()
	t.data.transactions = append(t.data.transactions, *tx)
	return nil
}

var _ booking.Store = (*MemStore)(nil)

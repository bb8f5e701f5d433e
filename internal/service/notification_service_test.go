package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"studio8/internal/booking"
	"studio8/internal/domain"
	"studio8/internal/models"
	"studio8/internal/repository"
	"studio8/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHub struct {
	mu    sync.Mutex
	roles []string
}

func (h *recordingHub) BroadcastToRole(role string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roles = append(h.roles, role)
}

func seedStaff(t *testing.T, repo *repository.StaffRepository, email, role string, active bool) *models.StaffUser {
	t.Helper()
	u := &models.StaffUser{Name: email, Email: email, Role: role, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))
	if !active {
		require.NoError(t, repo.SetActive(context.Background(), u.ID, false))
	}
	return u
}

func TestNotificationServiceDeliver(t *testing.T) {
	db := testutil.NewTestDB(t)
	staffRepo := repository.NewStaffRepository(db)
	admin := seedStaff(t, staffRepo, "admin@studio8.id", domain.RoleAdmin, true)
	staff := seedStaff(t, staffRepo, "staff@studio8.id", domain.RoleStaff, true)
	seedStaff(t, staffRepo, "old@studio8.id", domain.RoleAdmin, false)

	hub := &recordingHub{}
	svc := NewNotificationService(repository.NewNotificationRepository(db), staffRepo, nil, hub, time.Second, quietLogger())
	ctx := context.Background()

	require.NoError(t, svc.Deliver(ctx, Notice{
		RecipientRole: domain.RoleAdmin,
		Type:          domain.NotifNewBooking,
		Severity:      domain.SeverityInfo,
		Message:       "Booking baru",
		Link:          "/admin/bookings/1",
	}))

	list, unread, err := svc.List(ctx, admin.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, domain.NotifNewBooking, list[0].Type)
	assert.Equal(t, "/admin/bookings/1", list[0].Link)

	list, _, err = svc.List(ctx, staff.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "admin notices skip staff accounts")
	assert.Equal(t, []string{domain.RoleAdmin}, hub.roles)

	require.NoError(t, svc.MarkRead(ctx, firstNotificationID(t, svc, admin.ID), admin.ID))
	_, unread, err = svc.List(ctx, admin.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, unread)

	err = svc.MarkRead(ctx, 9999, admin.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func firstNotificationID(t *testing.T, svc *NotificationService, staffID uint) uint {
	t.Helper()
	list, _, err := svc.List(context.Background(), staffID, 1, 0)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[0].ID
}

func TestNotificationServiceDispatchReachesAllStaff(t *testing.T) {
	db := testutil.NewTestDB(t)
	staffRepo := repository.NewStaffRepository(db)
	admin := seedStaff(t, staffRepo, "admin@studio8.id", domain.RoleAdmin, true)
	staff := seedStaff(t, staffRepo, "staff@studio8.id", domain.RoleStaff, true)

	svc := NewNotificationService(repository.NewNotificationRepository(db), staffRepo, nil, nil, time.Second, quietLogger())
	svc.Dispatch(Notice{RecipientRole: domain.RoleStaff, Type: domain.NotifBookingConfirmed, Severity: domain.SeveritySuccess, Message: "ok"})
	svc.Dispatch(Notice{RecipientRole: domain.RoleStaff, Type: domain.NotifBookingCancelled, Severity: domain.SeverityWarning, Message: "batal"})
	svc.Wait()

	ctx := context.Background()
	for _, id := range []uint{admin.ID, staff.ID} {
		_, unread, err := svc.List(ctx, id, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), unread)
	}

	require.NoError(t, svc.MarkAllRead(ctx, staff.ID))
	_, unread, err := svc.List(ctx, staff.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestNotificationServiceNoRecipients(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewStaffRepository(db), nil, nil, 0, quietLogger())
	assert.NoError(t, svc.Deliver(context.Background(), Notice{RecipientRole: domain.RoleAdmin, Type: domain.NotifNewBooking}))
}

func TestPushData(t *testing.T) {
	got := pushData(domain.NotifNewBooking, map[string]interface{}{
		"link":       "/admin/bookings/3",
		"booking_id": uint(3),
		"amount":     float64(65000),
		"tags":       []string{"a"},
	})
	assert.Equal(t, map[string]string{
		"type":       domain.NotifNewBooking,
		"link":       "/admin/bookings/3",
		"booking_id": "3",
		"amount":     "65000",
		"tags":       `["a"]`,
	}, got)
}

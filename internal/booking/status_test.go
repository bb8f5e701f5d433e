package booking

import (
	"testing"

	"studio8/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCheckBookingTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{domain.BookingPending, domain.BookingConfirmed, true},
		{domain.BookingPending, domain.BookingCancelled, true},
		{domain.BookingPending, domain.BookingCompleted, false},
		{domain.BookingPending, domain.BookingInProgress, false},
		{domain.BookingConfirmed, domain.BookingInProgress, true},
		{domain.BookingConfirmed, domain.BookingCompleted, true},
		{domain.BookingConfirmed, domain.BookingRescheduleRequested, true},
		{domain.BookingConfirmed, domain.BookingPending, false},
		{domain.BookingInProgress, domain.BookingCompleted, true},
		{domain.BookingInProgress, domain.BookingCancelled, false},
		{domain.BookingRescheduleRequested, domain.BookingConfirmed, true},
		{domain.BookingRescheduleRequested, domain.BookingCancelled, true},
		{domain.BookingRescheduleRequested, domain.BookingCompleted, false},
		{domain.BookingCancelled, domain.BookingConfirmed, false},
		{domain.BookingCompleted, domain.BookingCancelled, false},
	}
	for _, tt := range tests {
		err := CheckBookingTransition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestCheckBookingTransitionAlreadyCompleted(t *testing.T) {
	err := CheckBookingTransition(domain.BookingCompleted, domain.BookingCompleted)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckPaymentTransition(t *testing.T) {
	assert.NoError(t, CheckPaymentTransition(domain.PaymentPending, domain.PaymentPaid))
	assert.NoError(t, CheckPaymentTransition(domain.PaymentPending, domain.PaymentFailed))
	assert.NoError(t, CheckPaymentTransition(domain.PaymentFailed, domain.PaymentPaid))
	assert.ErrorIs(t, CheckPaymentTransition(domain.PaymentPaid, domain.PaymentFailed), ErrInvalidTransition)
	assert.ErrorIs(t, CheckPaymentTransition(domain.PaymentPaid, domain.PaymentPaid), ErrInvalidTransition)
}

package booking

import "studio8/internal/domain"

var bookingTransitions = map[string][]string{
	domain.BookingPending:             {domain.BookingConfirmed, domain.BookingCancelled},
	domain.BookingConfirmed:           {domain.BookingInProgress, domain.BookingCompleted, domain.BookingCancelled, domain.BookingRescheduleRequested},
	domain.BookingInProgress:          {domain.BookingCompleted},
	domain.BookingRescheduleRequested: {domain.BookingConfirmed, domain.BookingCancelled},
}

var paymentTransitions = map[string][]string{
	domain.PaymentPending: {domain.PaymentPaid, domain.PaymentFailed},
	domain.PaymentFailed:  {domain.PaymentPaid},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckBookingTransition reports whether bookingStatus may move from -> to.
// Completed and Cancelled are terminal.
func CheckBookingTransition(from, to string) error {
	if from == domain.BookingCompleted && to == domain.BookingCompleted {
		return ErrAlreadyCompleted
	}
	if !allowed(bookingTransitions, from, to) {
		return TransitionError("booking", from, to)
	}
	return nil
}

// CheckPaymentTransition reports whether paymentStatus may move from -> to.
func CheckPaymentTransition(from, to string) error {
	if !allowed(paymentTransitions, from, to) {
		return TransitionError("payment", from, to)
	}
	return nil
}

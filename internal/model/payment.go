package model

import "time"

// PaymentMethod identifies how a payment was settled at the desk.
type PaymentMethod string

const (
	MethodCard     PaymentMethod = "card"
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodCash, MethodTransfer:
		return true
	}
	return false
}

// Payment records money received against a reservation.  Payments are
// immutable once written.
type Payment struct {
	ID            uint64        // payments.id
	Reference     string        // payments.reference (UUID)
	ReservationID uint64        // payments.reservation_id
	Method        PaymentMethod // payments.method
	AmountCents   int64         // payments.amount_cents
	PaidAt        time.Time     // payments.paid_at
}

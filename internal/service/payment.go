package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/policy"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// PayInput is a payment request against a reservation.
type PayInput struct {
	ReservationID uint64
	Method        string
	AmountCents   int64
}

// PaymentService records payments.  The first payment on an active
// reservation moves it to paid; later payments on a paid reservation are
// kept as supplementary payments and leave the status alone.
type PaymentService struct {
	ledger   *ReservationService
	payments PaymentStore
	audit    *AuditTrail
	events   notifier
	timeout  time.Duration
	now      func() time.Time
}

func NewPaymentService(ledger *ReservationService, payments PaymentStore, audit *AuditTrail, events EventPublisher,
	timeout time.Duration, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		ledger:   ledger,
		payments: payments,
		audit:    audit,
		events:   notifier{pub: events, log: log},
		timeout:  orDefault(timeout),
		now:      time.Now,
	}
}

// Pay records a payment and returns it with the reservation as it stands
// afterwards.
func (s *PaymentService) Pay(ctx context.Context, actor Actor, in PayInput) (model.Payment, model.Reservation, error) {
	const op = "payment.pay"
	method := model.PaymentMethod(strings.ToLower(strings.TrimSpace(in.Method)))
	if in.AmountCents <= 0 {
		return model.Payment{}, model.Reservation{}, apperr.Newf(apperr.InvalidInput, op, "amount must be positive")
	}
	if !method.Valid() {
		return model.Payment{}, model.Reservation{}, apperr.Newf(apperr.InvalidInput, op, "unknown payment method %q", in.Method)
	}
	res, err := s.ledger.load(ctx, op, actor, policy.ProcessPayment, in.ReservationID)
	if err != nil {
		return model.Payment{}, model.Reservation{}, err
	}
	if res.Status == model.StatusCancelled {
		return model.Payment{}, model.Reservation{}, apperr.E(apperr.AlreadyCancelled, op, nil)
	}

	p := model.Payment{
		Reference:     uuid.NewString(),
		ReservationID: res.ID,
		Method:        method,
		AmountCents:   in.AmountCents,
		PaidAt:        s.now().UTC(),
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	// the store re-checks the status under a row lock; a cancel may have won the race
	after, err := s.payments.RecordPayment(ctx, &p)
	if err != nil {
		return model.Payment{}, model.Reservation{}, storeErr(op, err)
	}

	s.audit.Record(ctx, actor.ID, model.AuditPaymentRecord, fmt.Sprintf(
		"payment=%d ref=%s reservation=%d method=%s amount_cents=%d status=%s",
		p.ID, p.Reference, after.ID, p.Method, p.AmountCents, after.Status))
	s.events.publish(ctx, reservationEvent(queue.PaymentRecorded, actor, after, p.AmountCents, p.PaidAt))
	return p, after, nil
}

// List returns the payments recorded against a reservation visible to actor.
func (s *PaymentService) List(ctx context.Context, actor Actor, reservationID uint64) ([]model.Payment, error) {
	const op = "payment.list"
	res, err := s.ledger.load(ctx, op, actor, policy.ReadPayments, reservationID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	items, err := s.payments.PaymentsForReservation(ctx, res.ID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return items, nil
}

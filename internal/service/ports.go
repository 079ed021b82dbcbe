package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// UserStore persists identities.  Email lookups are case-insensitive.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.Identity) error
	UserByEmail(ctx context.Context, email string) (model.Identity, error)
	UserByID(ctx context.Context, id uint64) (model.Identity, error)
}

// RoomStore persists rooms and their images.
type RoomStore interface {
	CreateRoom(ctx context.Context, r *model.Room) error
	UpdateRoom(ctx context.Context, r *model.Room) error
	RoomByID(ctx context.Context, id uint64) (model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	SetRoomImage(ctx context.Context, roomID uint64, data []byte, contentType string) error
	RoomImage(ctx context.Context, roomID uint64) ([]byte, string, error)
}

// ReservationStore owns reservation rows.  CreateReservation must perform
// the overlap check and the insert atomically and return
// repository.ErrConflict when an active or paid reservation on the same
// room intersects the new range.  CancelReservation reports whether the
// status actually changed.
type ReservationStore interface {
	CreateReservation(ctx context.Context, r *model.Reservation) error
	ReservationByID(ctx context.Context, id uint64) (model.Reservation, error)
	ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error)
	OverlappingReservations(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Reservation, error)
	AvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error)
	CancelReservation(ctx context.Context, id uint64) (model.Reservation, bool, error)
}

// PaymentStore records payments.  RecordPayment inserts the payment and, if
// the reservation is active, moves it to paid, all in one atomic step; it
// returns repository.ErrCancelled for cancelled reservations and the
// reservation as it stands after the payment.
type PaymentStore interface {
	RecordPayment(ctx context.Context, p *model.Payment) (model.Reservation, error)
	PaymentsForReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error)
}

// AuditStore appends to and reads from the audit trail.
type AuditStore interface {
	AppendAudit(ctx context.Context, e *model.AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

// EventPublisher forwards domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Actor is the authenticated identity performing a call, taken from
// verified token claims.
type Actor struct {
	ID   uint64
	Role model.Role
}

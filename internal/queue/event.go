// Package queue defines the domain events exchanged over RabbitMQ and the
// publisher and consumer that move them.
package queue

import "time"

// QueueName is the durable queue every reservation event is routed to.
const QueueName = "hotel.reservations"

// Event types carried in ReservationEvent.Type.
const (
	ReservationCreated   = "reservation.created"
	ReservationCancelled = "reservation.cancelled"
	PaymentRecorded      = "payment.recorded"
)

// ReservationEvent is published after a reservation is created, cancelled
// or paid.  It carries enough information for downstream consumers to log
// or trigger analytics without querying the primary database.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID uint64    `json:"reservation_id"`
	RoomID        uint64    `json:"room_id"`
	ClientID      uint64    `json:"client_id"`
	ActorID       uint64    `json:"actor_id"`
	Status        string    `json:"status"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	AmountCents   int64     `json:"amount_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

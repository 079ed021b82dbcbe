package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.  The only
// transitions are active→paid, active→cancelled and paid→cancelled.
type ReservationStatus string

const (
	StatusActive    ReservationStatus = "active"
	StatusPaid      ReservationStatus = "paid"
	StatusCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Holds reports whether a reservation in this state occupies its dates.
// Cancelled reservations never block a room.
func (s ReservationStatus) Holds() bool { return s == StatusActive || s == StatusPaid }

// Reservation records a client's booking of one room for a range of
// nights.  CheckOut is exclusive: a stay from 06-01 to 06-03 covers the
// nights of the 1st and the 2nd.
//
// Fields:
//  ID         – primary key identifier.
//  RoomID     – room being reserved.
//  ClientID   – identity the reservation belongs to.
//  CheckIn    – first night (UTC midnight).
//  CheckOut   – departure day (UTC midnight), after CheckIn.
//  Status     – active, paid or cancelled.
//  TotalCents – room price multiplied by the number of nights.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID         uint64            // reservations.id
	RoomID     uint64            // reservations.room_id
	ClientID   uint64            // reservations.client_id
	CheckIn    time.Time         // reservations.check_in
	CheckOut   time.Time         // reservations.check_out
	Status     ReservationStatus // reservations.status
	TotalCents int64             // reservations.total_cents
	CreatedAt  time.Time         // reservations.created_at
	UpdatedAt  time.Time         // reservations.updated_at
}

// Nights returns the number of nights covered by the reservation.
func (r Reservation) Nights() int64 { return Nights(r.CheckIn, r.CheckOut) }

// Blocks reports whether r prevents a new stay over [checkIn, checkOut).
func (r Reservation) Blocks(checkIn, checkOut time.Time) bool {
	return r.Status.Holds() && Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut)
}

// Overlaps reports whether the half-open intervals [a1,b1) and [a2,b2)
// intersect.  Back-to-back stays (one ends the day the other starts) do not.
func Overlaps(a1, b1, a2, b2 time.Time) bool {
	return a1.Before(b2) && a2.Before(b1)
}

// ReservationFilter narrows a reservation listing.  Zero values mean "any".
type ReservationFilter struct {
	ClientID uint64
	RoomID   uint64
	Status   ReservationStatus
}

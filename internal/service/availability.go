package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// AvailabilityChecker answers whether a room is free for a date range.
// Reads go through the reservation store, so the answer is only binding
// while the caller holds the room's admission lock.
type AvailabilityChecker struct {
	reservations ReservationStore
	rooms        RoomStore
	timeout      time.Duration
}

func NewAvailabilityChecker(reservations ReservationStore, rooms RoomStore, timeout time.Duration) *AvailabilityChecker {
	return &AvailabilityChecker{reservations: reservations, rooms: rooms, timeout: orDefault(timeout)}
}

// IsAvailable is false iff an active or paid reservation on roomID satisfies
// checkIn < existing.CheckOut && existing.CheckIn < checkOut.
func (a *AvailabilityChecker) IsAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	const op = "availability.check"
	if !checkOut.After(checkIn) {
		return false, apperr.E(apperr.InvalidInput, op, model.ErrInvalidRange)
	}
	existing, err := a.reservations.OverlappingReservations(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, storeErr(op, err)
	}
	for _, r := range existing {
		if r.Blocks(checkIn, checkOut) {
			return false, nil
		}
	}
	return true, nil
}

// CheckRoom parses a raw date range and reports whether an existing room is
// free for it.
func (a *AvailabilityChecker) CheckRoom(ctx context.Context, roomID uint64, checkIn, checkOut string) (bool, error) {
	const op = "availability.check_room"
	in, out, err := model.ParseRange(checkIn, checkOut)
	if err != nil {
		return false, apperr.E(apperr.InvalidInput, op, err)
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	room, err := a.rooms.RoomByID(ctx, roomID)
	if err != nil {
		return false, storeErr(op, err)
	}
	if !room.Bookable() {
		return false, nil
	}
	return a.IsAvailable(ctx, roomID, in, out)
}

// AvailableRooms lists rooms that are not under maintenance and have no
// active or paid reservation intersecting the range.
func (a *AvailabilityChecker) AvailableRooms(ctx context.Context, checkIn, checkOut string) ([]model.Room, error) {
	const op = "availability.rooms"
	in, out, err := model.ParseRange(checkIn, checkOut)
	if err != nil {
		return nil, apperr.E(apperr.InvalidInput, op, err)
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	rooms, err := a.reservations.AvailableRooms(ctx, in, out)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rooms, nil
}

// Package repository holds the MySQL implementations of the storage ports
// and the sentinel errors every store implementation returns.  The service
// layer translates these sentinels into typed apperr kinds; any other error
// coming out of a store is treated as the backing store being unavailable.
package repository

import "errors"

var (
	// ErrNotFound is returned when a row (or a room image) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailExists is returned when a user email violates uniqueness.
	ErrEmailExists = errors.New("email already exists")

	// ErrRoomNumberExists is returned when a room number is already taken.
	ErrRoomNumberExists = errors.New("room number already exists")

	// ErrConflict is returned when a reservation would overlap an active or
	// paid reservation on the same room.
	ErrConflict = errors.New("conflict")

	// ErrCancelled is returned when a payment targets a cancelled reservation.
	ErrCancelled = errors.New("reservation cancelled")
)

package model

import "time"

// RoomStatus is the administrative state of a room.
type RoomStatus string

const (
	RoomFree        RoomStatus = "free"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// Valid reports whether s is a known room status.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomFree, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

// Room represents a bookable hotel room.  The image bytes live in the same
// table but are only loaded by the asset endpoints, so Room carries the
// content type and a presence flag instead of the blob.
//
// Fields:
//  ID               – primary key identifier.
//  Number           – unique room number shown to guests (e.g. "101").
//  Type             – free-form category such as "single" or "suite".
//  PriceCents       – nightly price in cents, never negative.
//  Capacity         – maximum number of guests.
//  Status           – free, occupied or maintenance.
//  HasImage         – whether an image has been uploaded.
//  ImageContentType – MIME type of the stored image, empty when none.
type Room struct {
	ID               uint64     // rooms.id
	Number           string     // rooms.number
	Type             string     // rooms.type
	PriceCents       int64      // rooms.price_cents
	Capacity         uint32     // rooms.capacity
	Status           RoomStatus // rooms.status
	HasImage         bool       // rooms.image IS NOT NULL
	ImageContentType string     // rooms.image_content_type
	CreatedAt        time.Time  // rooms.created_at
	UpdatedAt        time.Time  // rooms.updated_at
}

// Bookable reports whether new reservations may be admitted for the room.
func (r Room) Bookable() bool { return r.Status != RoomMaintenance }

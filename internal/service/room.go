package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/policy"
)

// RoomInput describes a new room.  An empty Status means free.
type RoomInput struct {
	Number     string
	Type       string
	PriceCents int64
	Capacity   uint32
	Status     string
}

// RoomPatch carries a partial room update; nil fields are left unchanged.
// The room number is immutable.
type RoomPatch struct {
	Type       *string
	PriceCents *int64
	Capacity   *uint32
	Status     *string
}

// RoomService manages the room catalogue.  Reads are public, writes are
// admin only.
type RoomService struct {
	rooms   RoomStore
	audit   *AuditTrail
	timeout time.Duration
	now     func() time.Time
}

func NewRoomService(rooms RoomStore, audit *AuditTrail, timeout time.Duration) *RoomService {
	return &RoomService{rooms: rooms, audit: audit, timeout: orDefault(timeout), now: time.Now}
}

func (s *RoomService) Create(ctx context.Context, actor Actor, in RoomInput) (model.Room, error) {
	const op = "room.create"
	if !policy.Permit(actor.Role, policy.ManageRooms, false) {
		return model.Room{}, apperr.E(apperr.Forbidden, op, nil)
	}
	status := model.RoomStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if status == "" {
		status = model.RoomFree
	}
	now := s.now().UTC()
	r := model.Room{
		Number:     strings.TrimSpace(in.Number),
		Type:       strings.TrimSpace(in.Type),
		PriceCents: in.PriceCents,
		Capacity:   in.Capacity,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := validateRoom(r); err != nil {
		return model.Room{}, apperr.E(apperr.InvalidInput, op, err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.rooms.CreateRoom(ctx, &r); err != nil {
		return model.Room{}, storeErr(op, err)
	}
	s.audit.Record(ctx, actor.ID, model.AuditRoomCreate, fmt.Sprintf(
		"room=%d number=%s type=%s price_cents=%d capacity=%d", r.ID, r.Number, r.Type, r.PriceCents, r.Capacity))
	return r, nil
}

func (s *RoomService) Update(ctx context.Context, actor Actor, id uint64, p RoomPatch) (model.Room, error) {
	const op = "room.update"
	if !policy.Permit(actor.Role, policy.ManageRooms, false) {
		return model.Room{}, apperr.E(apperr.Forbidden, op, nil)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	r, err := s.rooms.RoomByID(ctx, id)
	if err != nil {
		return model.Room{}, storeErr(op, err)
	}
	if p.Type != nil {
		r.Type = strings.TrimSpace(*p.Type)
	}
	if p.PriceCents != nil {
		r.PriceCents = *p.PriceCents
	}
	if p.Capacity != nil {
		r.Capacity = *p.Capacity
	}
	if p.Status != nil {
		r.Status = model.RoomStatus(strings.ToLower(strings.TrimSpace(*p.Status)))
	}
	if err := validateRoom(r); err != nil {
		return model.Room{}, apperr.E(apperr.InvalidInput, op, err)
	}
	r.UpdatedAt = s.now().UTC()
	if err := s.rooms.UpdateRoom(ctx, &r); err != nil {
		return model.Room{}, storeErr(op, err)
	}
	s.audit.Record(ctx, actor.ID, model.AuditRoomUpdate, fmt.Sprintf(
		"room=%d type=%s price_cents=%d capacity=%d status=%s", r.ID, r.Type, r.PriceCents, r.Capacity, r.Status))
	return r, nil
}

func (s *RoomService) Get(ctx context.Context, id uint64) (model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	r, err := s.rooms.RoomByID(ctx, id)
	if err != nil {
		return model.Room{}, storeErr("room.get", err)
	}
	return r, nil
}

func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, storeErr("room.list", err)
	}
	return rooms, nil
}

func validateRoom(r model.Room) error {
	switch {
	case r.Number == "":
		return fmt.Errorf("number required")
	case r.Type == "":
		return fmt.Errorf("type required")
	case r.PriceCents < 0:
		return fmt.Errorf("price must not be negative")
	case r.Capacity < 1:
		return fmt.Errorf("capacity must be at least 1")
	case !r.Status.Valid():
		return fmt.Errorf("unknown status %q", r.Status)
	}
	return nil
}

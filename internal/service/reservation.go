package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/policy"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// CreateReservationInput is a booking request.  ClientID zero means the
// actor books for themselves.  Dates are YYYY-MM-DD strings.
type CreateReservationInput struct {
	ClientID uint64
	RoomID   uint64
	CheckIn  string
	CheckOut string
}

// ReservationService is the reservation ledger.  It admits new
// reservations, enforces per-record access and drives the
// active → paid → cancelled state machine together with PaymentService.
type ReservationService struct {
	users        UserStore
	rooms        RoomStore
	reservations ReservationStore
	avail        *AvailabilityChecker
	audit        *AuditTrail
	events       notifier
	locks        *roomLocker
	timeout      time.Duration
	now          func() time.Time
}

// NewReservationService wires the ledger.  events may be nil to disable
// event publishing.
func NewReservationService(users UserStore, rooms RoomStore, reservations ReservationStore, avail *AvailabilityChecker,
	audit *AuditTrail, events EventPublisher, timeout time.Duration, log zerolog.Logger) *ReservationService {
	return &ReservationService{
		users:        users,
		rooms:        rooms,
		reservations: reservations,
		avail:        avail,
		audit:        audit,
		events:       notifier{pub: events, log: log},
		locks:        newRoomLocker(),
		timeout:      orDefault(timeout),
		now:          time.Now,
	}
}

// Create admits a reservation.  The availability check and the insert run
// under the room's lock, and the store repeats the overlap check inside its
// own transaction, so two concurrent requests for the same nights cannot
// both succeed.  Audit and event side effects run after the lock is
// released.
func (s *ReservationService) Create(ctx context.Context, actor Actor, in CreateReservationInput) (model.Reservation, error) {
	const op = "reservation.create"
	clientID := in.ClientID
	if clientID == 0 {
		if actor.Role.IsStaff() {
			return model.Reservation{}, apperr.Newf(apperr.InvalidInput, op, "client_id required")
		}
		clientID = actor.ID
	}
	if in.RoomID == 0 {
		return model.Reservation{}, apperr.Newf(apperr.InvalidInput, op, "room_id required")
	}
	checkIn, checkOut, err := model.ParseRange(in.CheckIn, in.CheckOut)
	if err != nil {
		return model.Reservation{}, apperr.E(apperr.InvalidInput, op, err)
	}
	if !policy.Permit(actor.Role, policy.CreateReservation, clientID == actor.ID) {
		return model.Reservation{}, apperr.E(apperr.Forbidden, op, nil)
	}

	room, err := s.bookable(ctx, op, actor, clientID, in.RoomID)
	if err != nil {
		return model.Reservation{}, err
	}
	total, ok := model.StayTotal(room.PriceCents, model.Nights(checkIn, checkOut))
	if !ok {
		return model.Reservation{}, apperr.Newf(apperr.InvalidInput, op, "stay total out of range")
	}

	now := s.now().UTC()
	res := model.Reservation{
		RoomID:     room.ID,
		ClientID:   clientID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     model.StatusActive,
		TotalCents: total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.admit(ctx, op, room, &res); err != nil {
		return model.Reservation{}, err
	}

	s.audit.Record(ctx, actor.ID, model.AuditReservationCreate, fmt.Sprintf(
		"reservation=%d room=%d client=%d check_in=%s check_out=%s total_cents=%d",
		res.ID, res.RoomID, res.ClientID, model.FormatDate(res.CheckIn), model.FormatDate(res.CheckOut), res.TotalCents))
	s.events.publish(ctx, reservationEvent(queue.ReservationCreated, actor, res, res.TotalCents, now))
	return res, nil
}

// bookable loads the room and, when booking on someone's behalf, checks the
// target identity is a client.
func (s *ReservationService) bookable(ctx context.Context, op string, actor Actor, clientID, roomID uint64) (model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if clientID != actor.ID {
		u, err := s.users.UserByID(ctx, clientID)
		if err != nil {
			return model.Room{}, storeErr(op, err)
		}
		if u.Role != model.RoleClient {
			return model.Room{}, apperr.Newf(apperr.InvalidInput, op, "user %d is not a client", clientID)
		}
	}
	room, err := s.rooms.RoomByID(ctx, roomID)
	if err != nil {
		return model.Room{}, storeErr(op, err)
	}
	if !room.Bookable() {
		return model.Room{}, apperr.Newf(apperr.Conflict, op, "room %s is under maintenance", room.Number)
	}
	return room, nil
}

// admit checks availability and inserts res while holding the room's lock.
// The storage deadline starts once the lock is held, so time spent queued
// behind another booking does not count against it.
func (s *ReservationService) admit(ctx context.Context, op string, room model.Room, res *model.Reservation) error {
	unlock := s.locks.Lock(room.ID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ok, err := s.avail.IsAvailable(ctx, room.ID, res.CheckIn, res.CheckOut)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Newf(apperr.Conflict, op, "room %s is booked in that range", room.Number)
	}
	if err := s.reservations.CreateReservation(ctx, res); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// Get returns a reservation visible to actor.  Records owned by another
// client are reported as Forbidden, never as NotFound.
func (s *ReservationService) Get(ctx context.Context, actor Actor, id uint64) (model.Reservation, error) {
	return s.load(ctx, "reservation.get", actor, policy.ReadReservation, id)
}

func (s *ReservationService) load(ctx context.Context, op string, actor Actor, action policy.Action, id uint64) (model.Reservation, error) {
	if id == 0 {
		return model.Reservation{}, apperr.Newf(apperr.InvalidInput, op, "reservation id required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.reservations.ReservationByID(ctx, id)
	if err != nil {
		return model.Reservation{}, storeErr(op, err)
	}
	if !policy.Permit(actor.Role, action, res.ClientID == actor.ID) {
		return model.Reservation{}, apperr.E(apperr.Forbidden, op, nil)
	}
	return res, nil
}

// Cancel moves a reservation to cancelled.  Cancelling an already
// cancelled reservation succeeds without touching it again.
func (s *ReservationService) Cancel(ctx context.Context, actor Actor, id uint64) (model.Reservation, error) {
	const op = "reservation.cancel"
	res, err := s.load(ctx, op, actor, policy.CancelReservation, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Status == model.StatusCancelled {
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, changed, err := s.reservations.CancelReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, storeErr(op, err)
	}
	if changed {
		s.audit.Record(ctx, actor.ID, model.AuditReservationCancel,
			fmt.Sprintf("reservation=%d room=%d client=%d", res.ID, res.RoomID, res.ClientID))
		s.events.publish(ctx, reservationEvent(queue.ReservationCancelled, actor, res, 0, s.now().UTC()))
	}
	return res, nil
}

// List returns reservations matching f.  Clients only ever see their own;
// asking for someone else's is Forbidden.
func (s *ReservationService) List(ctx context.Context, actor Actor, f model.ReservationFilter) ([]model.Reservation, error) {
	const op = "reservation.list"
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, op, "unknown status %q", f.Status)
	}
	if !policy.Permit(actor.Role, policy.ListAllReservations, false) {
		if f.ClientID != 0 && f.ClientID != actor.ID {
			return nil, apperr.E(apperr.Forbidden, op, nil)
		}
		f.ClientID = actor.ID
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	items, err := s.reservations.ListReservations(ctx, f)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return items, nil
}

func reservationEvent(typ string, actor Actor, r model.Reservation, amount int64, at time.Time) queue.ReservationEvent {
	return queue.ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		RoomID:        r.RoomID,
		ClientID:      r.ClientID,
		ActorID:       actor.ID,
		Status:        string(r.Status),
		CheckIn:       model.FormatDate(r.CheckIn),
		CheckOut:      model.FormatDate(r.CheckOut),
		AmountCents:   amount,
		OccurredAt:    at,
	}
}

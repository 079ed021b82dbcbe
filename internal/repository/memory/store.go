// Package memory is an in-process implementation of every storage port.
// It backs STORAGE_DRIVER=memory and the service tests.  All state lives
// behind one RWMutex, so each method is atomic with respect to the others.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// DBRole is the audit db_role stamped by the in-memory store.
const DBRole = "memory"

type image struct {
	data        []byte
	contentType string
}

type Store struct {
	mu sync.RWMutex

	users        map[uint64]model.Identity
	userByEmail  map[string]uint64
	rooms        map[uint64]model.Room
	roomByNumber map[string]uint64
	images       map[uint64]image
	reservations map[uint64]model.Reservation
	payments     map[uint64][]model.Payment
	audit        []model.AuditEntry

	sequence uint64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uint64]model.Identity),
		userByEmail:  make(map[string]uint64),
		rooms:        make(map[uint64]model.Room),
		roomByNumber: make(map[string]uint64),
		images:       make(map[uint64]image),
		reservations: make(map[uint64]model.Reservation),
		payments:     make(map[uint64][]model.Payment),
		now:          time.Now,
	}
}

// nextID must be called with the write lock held.
func (s *Store) nextID() uint64 {
	s.sequence++
	return s.sequence
}

func (s *Store) CreateUser(ctx context.Context, u *model.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := s.userByEmail[email]; ok {
		return repository.ErrEmailExists
	}
	u.ID = s.nextID()
	u.Email = email
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	s.users[u.ID] = *u
	s.userByEmail[email] = u.ID
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return model.Identity{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userByEmail[strings.ToLower(email)]
	if !ok {
		return model.Identity{}, repository.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) UserByID(ctx context.Context, id uint64) (model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return model.Identity{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.Identity{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateRoom(ctx context.Context, r *model.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roomByNumber[r.Number]; ok {
		return repository.ErrRoomNumberExists
	}
	r.ID = s.nextID()
	r.HasImage = false
	r.ImageContentType = ""
	s.rooms[r.ID] = *r
	s.roomByNumber[r.Number] = r.ID
	return nil
}

// UpdateRoom replaces the mutable columns of an existing room.  Number and
// image fields are kept from the stored row.
func (s *Store) UpdateRoom(ctx context.Context, r *model.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rooms[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Type = r.Type
	cur.PriceCents = r.PriceCents
	cur.Capacity = r.Capacity
	cur.Status = r.Status
	cur.UpdatedAt = r.UpdatedAt
	s.rooms[r.ID] = cur
	*r = cur
	return nil
}

func (s *Store) RoomByID(ctx context.Context, id uint64) (model.Room, error) {
	if err := ctx.Err(); err != nil {
		return model.Room{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return model.Room{}, repository.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListRooms(ctx context.Context) ([]model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	sortRooms(out)
	return out, nil
}

func (s *Store) SetRoomImage(ctx context.Context, roomID uint64, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return repository.ErrNotFound
	}
	s.images[roomID] = image{data: append([]byte(nil), data...), contentType: contentType}
	r.HasImage = true
	r.ImageContentType = contentType
	r.UpdatedAt = s.now().UTC()
	s.rooms[roomID] = r
	return nil
}

func (s *Store) RoomImage(ctx context.Context, roomID uint64) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[roomID]
	if !ok {
		return nil, "", repository.ErrNotFound
	}
	return append([]byte(nil), img.data...), img.contentType, nil
}

// CreateReservation checks for overlaps and inserts under the write lock.
func (s *Store) CreateReservation(ctx context.Context, r *model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.RoomID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range s.reservations {
		if existing.RoomID == r.RoomID && existing.Blocks(r.CheckIn, r.CheckOut) {
			return repository.ErrConflict
		}
	}
	r.ID = s.nextID()
	s.reservations[r.ID] = *r
	return nil
}

func (s *Store) ReservationByID(ctx context.Context, id uint64) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reservation, 0)
	for _, r := range s.reservations {
		if f.ClientID != 0 && r.ClientID != f.ClientID {
			continue
		}
		if f.RoomID != 0 && r.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) OverlappingReservations(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.RoomID == roomID && r.Blocks(checkIn, checkOut) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AvailableRooms lists rooms outside maintenance with no blocking
// reservation over the range.
func (s *Store) AvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	busy := make(map[uint64]bool)
	for _, r := range s.reservations {
		if r.Blocks(checkIn, checkOut) {
			busy[r.RoomID] = true
		}
	}
	out := make([]model.Room, 0)
	for id, r := range s.rooms {
		if busy[id] || !r.Bookable() {
			continue
		}
		out = append(out, r)
	}
	sortRooms(out)
	return out, nil
}

func (s *Store) CancelReservation(ctx context.Context, id uint64) (model.Reservation, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return model.Reservation{}, false, repository.ErrNotFound
	}
	if r.Status == model.StatusCancelled {
		return r, false, nil
	}
	r.Status = model.StatusCancelled
	r.UpdatedAt = s.now().UTC()
	s.reservations[id] = r
	return r, true, nil
}

func (s *Store) RecordPayment(ctx context.Context, p *model.Payment) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[p.ReservationID]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	if r.Status == model.StatusCancelled {
		return model.Reservation{}, repository.ErrCancelled
	}
	p.ID = s.nextID()
	s.payments[r.ID] = append(s.payments[r.ID], *p)
	if r.Status == model.StatusActive {
		r.Status = model.StatusPaid
		r.UpdatedAt = s.now().UTC()
		s.reservations[r.ID] = r
	}
	return r, nil
}

func (s *Store) PaymentsForReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Payment{}, s.payments[reservationID]...), nil
}

func (s *Store) AppendAudit(ctx context.Context, e *model.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID()
	s.audit = append(s.audit, *e)
	return nil
}

// ListAudit returns up to limit entries, newest first.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []model.AuditEntry{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AuditEntry, 0, limit)
	for i := len(s.audit) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.audit[i])
	}
	return out, nil
}

func sortRooms(rooms []model.Room) {
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
}

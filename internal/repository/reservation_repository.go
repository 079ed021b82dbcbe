package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo stores reservations.  Dates are DATE columns read back as
// UTC midnight; all timestamps are UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, room_id, client_id, check_in, check_out, status, total_cents, created_at, updated_at`

// holdingStatuses is the SQL list of statuses that occupy a room.
const holdingStatuses = `('active','paid')`

func scanReservation(s rowScanner) (model.Reservation, error) {
	var r model.Reservation
	var status string
	err := s.Scan(&r.ID, &r.RoomID, &r.ClientID, &r.CheckIn, &r.CheckOut, &status,
		&r.TotalCents, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	r.Status = model.ReservationStatus(status)
	r.CheckIn = r.CheckIn.UTC()
	r.CheckOut = r.CheckOut.UTC()
	return r, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateReservation admits res in one transaction: the room row is locked
// with SELECT ... FOR UPDATE, the overlap query runs under that lock and
// the insert follows.  Concurrent admissions for the same room, from this
// process or another instance, queue on the room row.
func (r *ReservationRepo) CreateReservation(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var roomID uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, res.RoomID).Scan(&roomID); err != nil {
		return notFound(err)
	}
	var clashes int
	const overlap = `SELECT COUNT(*) FROM reservations
	                 WHERE room_id = ? AND status IN ` + holdingStatuses + `
	                   AND check_in < ? AND check_out > ?`
	if err := tx.QueryRowContext(ctx, overlap, res.RoomID, res.CheckOut, res.CheckIn).Scan(&clashes); err != nil {
		return err
	}
	if clashes > 0 {
		return ErrConflict
	}

	const ins = `INSERT INTO reservations (room_id, client_id, check_in, check_out, status, total_cents, created_at, updated_at)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, res.RoomID, res.ClientID, res.CheckIn, res.CheckOut,
		string(res.Status), res.TotalCents, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	res.ID = uint64(id)
	return nil
}

func (r *ReservationRepo) ReservationByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	res, err := scanReservation(row)
	if err != nil {
		return model.Reservation{}, notFound(err)
	}
	return res, nil
}

// ListReservations applies the non-zero fields of f, oldest first.
func (r *ReservationRepo) ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	var where []string
	var args []any
	if f.ClientID != 0 {
		where = append(where, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.RoomID != 0 {
		where = append(where, "room_id = ?")
		args = append(args, f.RoomID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	q := "SELECT " + reservationColumns + " FROM reservations"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// OverlappingReservations returns the active or paid reservations on roomID
// that intersect [checkIn, checkOut).
func (r *ReservationRepo) OverlappingReservations(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Reservation, error) {
	q := "SELECT " + reservationColumns + ` FROM reservations
	      WHERE room_id = ? AND status IN ` + holdingStatuses + `
	        AND check_in < ? AND check_out > ?
	      ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, roomID, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// AvailableRooms lists rooms outside maintenance with no active or paid
// reservation intersecting the range.
func (r *ReservationRepo) AvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error) {
	q := "SELECT " + roomColumns + ` FROM rooms rm
	      WHERE rm.status <> 'maintenance'
	        AND NOT EXISTS (
	          SELECT 1 FROM reservations rs
	          WHERE rs.room_id = rm.id AND rs.status IN ` + holdingStatuses + `
	            AND rs.check_in < ? AND rs.check_out > ?)
	      ORDER BY rm.number`
	rows, err := r.db.QueryContext(ctx, q, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// CancelReservation sets status to cancelled under a row lock.  The bool
// result is false when the reservation was already cancelled.
func (r *ReservationRepo) CancelReservation(ctx context.Context, id uint64) (model.Reservation, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := lockReservation(ctx, tx, id)
	if err != nil {
		return model.Reservation{}, false, err
	}
	if res.Status == model.StatusCancelled {
		return res, false, nil
	}
	now := time.Now().UTC().Truncate(time.Second)
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = 'cancelled', updated_at = ? WHERE id = ?`, now, id); err != nil {
		return model.Reservation{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, false, err
	}
	committed = true
	res.Status = model.StatusCancelled
	res.UpdatedAt = now
	return res, true, nil
}

// lockReservation reads a reservation with SELECT ... FOR UPDATE inside tx.
func lockReservation(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id = ? FOR UPDATE", id)
	res, err := scanReservation(row)
	if err != nil {
		return model.Reservation{}, notFound(err)
	}
	return res, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo stores rooms and their images.  The image blob is only read by
// RoomImage; every other query selects the presence flag instead.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, number, type, price_cents, capacity, status,
	image IS NOT NULL, image_content_type, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (model.Room, error) {
	var r model.Room
	var status string
	err := s.Scan(&r.ID, &r.Number, &r.Type, &r.PriceCents, &r.Capacity, &status,
		&r.HasImage, &r.ImageContentType, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.Room{}, err
	}
	r.Status = model.RoomStatus(status)
	return r, nil
}

func (r *RoomRepo) CreateRoom(ctx context.Context, room *model.Room) error {
	const q = `INSERT INTO rooms (number, type, price_cents, capacity, status, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, room.Number, room.Type, room.PriceCents, room.Capacity,
		string(room.Status), room.CreatedAt, room.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// UpdateRoom writes the mutable columns.  The number never changes.
func (r *RoomRepo) UpdateRoom(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms SET type = ?, price_cents = ?, capacity = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, room.Type, room.PriceCents, room.Capacity,
		string(room.Status), room.UpdatedAt, room.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 for rows whose values did not change, so confirm the row exists
		if _, err := r.RoomByID(ctx, room.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *RoomRepo) RoomByID(ctx context.Context, id uint64) (model.Room, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id)
	room, err := scanRoom(row)
	if err != nil {
		return model.Room{}, notFound(err)
	}
	return room, nil
}

func (r *RoomRepo) ListRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

func collectRooms(rows *sql.Rows) ([]model.Room, error) {
	out := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *RoomRepo) SetRoomImage(ctx context.Context, roomID uint64, data []byte, contentType string) error {
	const q = `UPDATE rooms SET image = ?, image_content_type = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, data, contentType, roomID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.RoomByID(ctx, roomID); err != nil {
			return err
		}
	}
	return nil
}

// RoomImage returns ErrNotFound when the room is missing or has no image.
func (r *RoomRepo) RoomImage(ctx context.Context, roomID uint64) ([]byte, string, error) {
	var data []byte
	var ct string
	err := r.db.QueryRowContext(ctx,
		`SELECT image, image_content_type FROM rooms WHERE id = ? AND image IS NOT NULL`, roomID).Scan(&data, &ct)
	if err != nil {
		return nil, "", notFound(err)
	}
	return data, ct, nil
}

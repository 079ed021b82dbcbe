package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// RecordPayment locks the reservation, rejects cancelled ones, inserts the
// payment and moves an active reservation to paid, all in one transaction.
func (r *PaymentRepo) RecordPayment(ctx context.Context, p *model.Payment) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := lockReservation(ctx, tx, p.ReservationID)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Status == model.StatusCancelled {
		return model.Reservation{}, ErrCancelled
	}

	const ins = `INSERT INTO payments (reference, reservation_id, method, amount_cents, paid_at) VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, p.Reference, p.ReservationID, string(p.Method), p.AmountCents, p.PaidAt)
	if err != nil {
		return model.Reservation{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Status == model.StatusActive {
		if _, err := tx.ExecContext(ctx,
			`UPDATE reservations SET status = 'paid', updated_at = ? WHERE id = ?`, p.PaidAt, res.ID); err != nil {
			return model.Reservation{}, err
		}
		res.Status = model.StatusPaid
		res.UpdatedAt = p.PaidAt
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	p.ID = uint64(id)
	return res, nil
}

func (r *PaymentRepo) PaymentsForReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	const q = `SELECT id, reference, reservation_id, method, amount_cents, paid_at
	           FROM payments WHERE reservation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		var method string
		if err := rows.Scan(&p.ID, &p.Reference, &p.ReservationID, &method, &p.AmountCents, &p.PaidAt); err != nil {
			return nil, err
		}
		p.Method = model.PaymentMethod(method)
		out = append(out, p)
	}
	return out, rows.Err()
}

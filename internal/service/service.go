// Package service implements the reservation core: credentials, tokens,
// availability, the reservation ledger, payments, the audit trail, rooms
// and room images.  Services depend on the storage ports declared in
// ports.go and return *apperr.Error values only.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// DefaultTimeout bounds a single service call's storage work when the
// caller configures none.
const DefaultTimeout = 5 * time.Second

// storeErr translates a store error into a typed failure.  Known sentinels
// keep their meaning; everything else (driver errors, timeouts, refused
// connections) means the backing store could not serve the request.
func storeErr(op string, err error) error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperr.E(apperr.NotFound, op, err)
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrRoomNumberExists),
		errors.Is(err, repository.ErrConflict):
		return apperr.E(apperr.Conflict, op, err)
	case errors.Is(err, repository.ErrCancelled):
		return apperr.E(apperr.AlreadyCancelled, op, err)
	}
	return apperr.E(apperr.StorageUnavailable, op, err)
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// notifier publishes domain events on a best-effort basis.  A nil
// publisher disables publishing.
type notifier struct {
	pub EventPublisher
	log zerolog.Logger
}

func (n notifier) publish(ctx context.Context, ev queue.ReservationEvent) {
	if n.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := n.pub.Publish(ctx, ev); err != nil {
		n.log.Warn().Err(err).
			Str("event", ev.Type).
			Uint64("reservation_id", ev.ReservationID).
			Msg("publish event failed")
	}
}

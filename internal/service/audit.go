package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/policy"
)

// AuditTrail appends audit entries for mutating actions.  Writes are best
// effort: a failed write is logged and never undoes the mutation it
// describes.
type AuditTrail struct {
	store   AuditStore
	dbRole  string
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuditTrail builds an AuditTrail.  dbRole names the storage account the
// service writes with and is stamped on every entry.
func NewAuditTrail(store AuditStore, dbRole string, timeout time.Duration, log zerolog.Logger) *AuditTrail {
	return &AuditTrail{
		store:   store,
		dbRole:  dbRole,
		timeout: orDefault(timeout),
		log:     log,
		now:     time.Now,
	}
}

// Record appends one entry.  The write runs on a context detached from the
// caller's cancellation so a client hanging up does not lose the entry.
func (a *AuditTrail) Record(ctx context.Context, actorID uint64, action, detail string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()
	e := model.AuditEntry{
		At:      a.now().UTC(),
		ActorID: actorID,
		DBRole:  a.dbRole,
		Action:  action,
		Detail:  detail,
	}
	if err := a.store.AppendAudit(ctx, &e); err != nil {
		a.log.Error().Err(err).
			Uint64("actor_id", actorID).
			Str("db_role", a.dbRole).
			Str("action", action).
			Str("detail", detail).
			Msg("audit write failed")
	}
}

// List returns the most recent entries, newest first.  Only admins may read
// the trail.
func (a *AuditTrail) List(ctx context.Context, actor Actor, limit int) ([]model.AuditEntry, error) {
	const op = "audit.list"
	if !policy.Permit(actor.Role, policy.ReadAudit, false) {
		return nil, apperr.E(apperr.Forbidden, op, nil)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	entries, err := a.store.ListAudit(ctx, limit)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return entries, nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository/memory"
)

func TestAuditFailureDoesNotUndoMutation(t *testing.T) {
	h := newHarnessWithAudit(t, failingAudit{})
	ctx := context.Background()
	room := h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")

	res, err := h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-02"})
	require.NoError(t, err)

	_, err = h.reservations.Get(ctx, alice, res.ID)
	require.NoError(t, err)
	assert.Contains(t, h.logs.String(), "audit write failed")
	assert.Contains(t, h.logs.String(), model.AuditReservationCreate)

	_, err = h.audit.List(ctx, admin, 10)
	assert.Equal(t, apperr.StorageUnavailable, apperr.KindOf(err))
}

func TestAuditListAdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")

	_, err := h.audit.List(ctx, alice, 10)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	entries, err := h.audit.List(ctx, admin, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditRoomCreate, entries[0].Action)
	assert.Equal(t, admin.ID, entries[0].ActorID)
	assert.Equal(t, memory.DBRole, entries[0].DBRole)
	assert.False(t, entries[0].At.IsZero())
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestRoomCreateAndUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	r, err := h.rooms.Create(ctx, admin, RoomInput{Number: " 101 ", Type: "suite", PriceCents: 30_000, Capacity: 3})
	require.NoError(t, err)
	assert.Equal(t, "101", r.Number)
	assert.Equal(t, model.RoomFree, r.Status)

	price := int64(35_000)
	status := "Occupied"
	upd, err := h.rooms.Update(ctx, admin, r.ID, RoomPatch{PriceCents: &price, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, price, upd.PriceCents)
	assert.Equal(t, model.RoomOccupied, upd.Status)
	assert.Equal(t, "suite", upd.Type)

	rooms, err := h.rooms.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, price, rooms[0].PriceCents)

	assert.Equal(t, []string{model.AuditRoomCreate, model.AuditRoomUpdate}, h.auditActions(t))
}

func TestRoomValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.room(t, "101", 10_000)
	desk := h.frontDesk(t)

	cases := []struct {
		name  string
		actor Actor
		in    RoomInput
		want  apperr.Kind
	}{
		{"duplicate number", admin, RoomInput{Number: "101", Type: "single", Capacity: 1}, apperr.Conflict},
		{"negative price", admin, RoomInput{Number: "102", Type: "single", PriceCents: -1, Capacity: 1}, apperr.InvalidInput},
		{"zero capacity", admin, RoomInput{Number: "102", Type: "single"}, apperr.InvalidInput},
		{"unknown status", admin, RoomInput{Number: "102", Type: "single", Capacity: 1, Status: "closed"}, apperr.InvalidInput},
		{"missing number", admin, RoomInput{Type: "single", Capacity: 1}, apperr.InvalidInput},
		{"front desk", desk, RoomInput{Number: "102", Type: "single", Capacity: 1}, apperr.Forbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.rooms.Create(ctx, tc.actor, tc.in)
			assert.Equal(t, tc.want, apperr.KindOf(err))
		})
	}

	capacity := uint32(0)
	_, err := h.rooms.Update(ctx, admin, 9999, RoomPatch{Capacity: &capacity})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = h.rooms.Get(ctx, 9999)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

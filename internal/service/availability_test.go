package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestIsAvailableMatchesOverlapRule(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")

	_, err := h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-10", CheckOut: "2025-06-15"})
	require.NoError(t, err)
	existingIn, existingOut, err := model.ParseRange("2025-06-10", "2025-06-15")
	require.NoError(t, err)

	days := []string{"2025-06-05", "2025-06-09", "2025-06-10", "2025-06-11", "2025-06-14", "2025-06-15", "2025-06-16", "2025-06-20"}
	for i, a := range days {
		for _, b := range days[i+1:] {
			in, out, err := model.ParseRange(a, b)
			require.NoError(t, err)
			got, err := h.availability.IsAvailable(ctx, room.ID, in, out)
			require.NoError(t, err)
			want := !(in.Before(existingOut) && existingIn.Before(out))
			assert.Equal(t, want, got, "%s..%s", a, b)
		}
	}
}

func TestIsAvailableIgnoresCancelled(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")

	res, err := h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"})
	require.NoError(t, err)

	ok, err := h.availability.CheckRoom(ctx, room.ID, "2025-06-02", "2025-06-04")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.reservations.Cancel(ctx, alice, res.ID)
	require.NoError(t, err)

	ok, err = h.availability.CheckRoom(ctx, room.ID, "2025-06-02", "2025-06-04")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckRoomErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.availability.CheckRoom(ctx, 9999, "2025-06-01", "2025-06-02")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = h.availability.CheckRoom(ctx, 1, "2025-06-02", "2025-06-01")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))

	_, err = h.availability.AvailableRooms(ctx, "tomorrow", "2025-06-01")
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
}

func TestAvailableRooms(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	r1 := h.room(t, "101", 10_000)
	r2 := h.room(t, "102", 10_000)
	alice := h.client(t, "alice@example.com")

	_, err := h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: r1.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"})
	require.NoError(t, err)

	rooms, err := h.availability.AvailableRooms(ctx, "2025-06-02", "2025-06-03")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, r2.ID, rooms[0].ID)

	rooms, err = h.availability.AvailableRooms(ctx, "2025-06-03", "2025-06-04")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

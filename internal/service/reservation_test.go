package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository/memory"
)

func TestCreateThenGet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 12_500)
	alice := h.client(t, "alice@example.com")
	bob := h.client(t, "bob@example.com")

	res, err := h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, res.Status)
	assert.Equal(t, alice.ID, res.ClientID)
	assert.Equal(t, int64(25_000), res.TotalCents)

	got, err := h.reservations.Get(ctx, alice, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", model.FormatDate(got.CheckIn))
	assert.Equal(t, "2025-06-03", model.FormatDate(got.CheckOut))
	assert.Equal(t, res.TotalCents, got.TotalCents)

	_, err = h.reservations.Get(ctx, bob, res.ID)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, err = h.reservations.Get(ctx, bob, 424242)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	desk := h.frontDesk(t)
	_, err = h.reservations.Get(ctx, desk, res.ID)
	require.NoError(t, err)

	assert.Contains(t, h.auditActions(t), model.AuditReservationCreate)
	assert.Equal(t, []string{queue.ReservationCreated}, h.events.types())
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 10_000)
	pricey := h.room(t, "penthouse", 1<<62)
	alice := h.client(t, "alice@example.com")
	bob := h.client(t, "bob@example.com")

	cases := []struct {
		name  string
		actor Actor
		in    CreateReservationInput
		want  apperr.Kind
	}{
		{"bad date", alice, CreateReservationInput{RoomID: room.ID, CheckIn: "06/01/2025", CheckOut: "2025-06-03"}, apperr.InvalidInput},
		{"empty range", alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-03", CheckOut: "2025-06-03"}, apperr.InvalidInput},
		{"reversed range", alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-05", CheckOut: "2025-06-03"}, apperr.InvalidInput},
		{"missing room", alice, CreateReservationInput{CheckIn: "2025-06-01", CheckOut: "2025-06-03"}, apperr.InvalidInput},
		{"unknown room", alice, CreateReservationInput{RoomID: 9999, CheckIn: "2025-06-01", CheckOut: "2025-06-03"}, apperr.NotFound},
		{"client books for another", alice, CreateReservationInput{ClientID: bob.ID, RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"}, apperr.Forbidden},
		{"admin books for unknown client", admin, CreateReservationInput{ClientID: 9999, RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"}, apperr.NotFound},
		{"staff books without client", admin, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"}, apperr.InvalidInput},
		{"total overflows", alice, CreateReservationInput{RoomID: pricey.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-05"}, apperr.InvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.reservations.Create(ctx, tc.actor, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.want, apperr.KindOf(err))
		})
	}
}

func TestStaffBooksForClient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")
	desk := h.frontDesk(t)

	res, err := h.reservations.Create(ctx, desk, CreateReservationInput{ClientID: alice.ID, RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-02"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.ClientID)

	_, err = h.reservations.Get(ctx, alice, res.ID)
	require.NoError(t, err)

	_, err = h.reservations.Create(ctx, admin, CreateReservationInput{ClientID: desk.ID, RoomID: room.ID, CheckIn: "2025-07-01", CheckOut: "2025-07-02"})
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	_, err = h.reservations.Create(ctx, desk, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-07-01", CheckOut: "2025-07-02"})
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
}

func TestMaintenanceRoomNotBookable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")

	status := string(model.RoomMaintenance)
	_, err := h.rooms.Update(ctx, admin, room.ID, RoomPatch{Status: &status})
	require.NoError(t, err)

	_, err = h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-02"})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestConcurrentCreateExactlyOneWins(t *testing.T) {
	h := newHarness(t)
	room := h.room(t, "101", 10_000)

	const n = 16
	actors := make([]Actor, n)
	for i := range actors {
		actors[i] = Actor{ID: uint64(100 + i), Role: model.RoleClient}
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = h.reservations.Create(context.Background(), actors[i], CreateReservationInput{
				RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03",
			})
		}(i)
	}
	close(start)
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperr.Is(err, apperr.Conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, conflicts)
	assert.Zero(t, h.reservations.locks.size())

	held, err := h.store.ListReservations(context.Background(), model.ReservationFilter{RoomID: room.ID})
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestScenarioConflictCancelRetry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 9_900)
	a := h.client(t, "a@example.com")
	b := h.client(t, "b@example.com")

	in := CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"}
	resA, err := h.reservations.Create(ctx, a, in)
	require.NoError(t, err)

	_, err = h.reservations.Create(ctx, b, in)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	_, err = h.reservations.Cancel(ctx, a, resA.ID)
	require.NoError(t, err)

	resB, err := h.reservations.Create(ctx, b, in)
	require.NoError(t, err)
	assert.Equal(t, b.ID, resB.ClientID)
}

func TestCancelIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	room := h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")
	bob := h.client(t, "bob@example.com")

	res, err := h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"})
	require.NoError(t, err)

	_, err = h.reservations.Cancel(ctx, bob, res.ID)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	first, err := h.reservations.Cancel(ctx, alice, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, first.Status)

	second, err := h.reservations.Cancel(ctx, alice, res.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cancels := 0
	for _, a := range h.auditActions(t) {
		if a == model.AuditReservationCancel {
			cancels++
		}
	}
	assert.Equal(t, 1, cancels)
	assert.Equal(t, []string{queue.ReservationCreated, queue.ReservationCancelled}, h.events.types())

	_, err = h.reservations.Cancel(ctx, alice, 9999)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestListScopesClients(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	r1 := h.room(t, "101", 10_000)
	r2 := h.room(t, "102", 10_000)
	alice := h.client(t, "alice@example.com")
	bob := h.client(t, "bob@example.com")

	_, err := h.reservations.Create(ctx, alice, CreateReservationInput{RoomID: r1.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"})
	require.NoError(t, err)
	_, err = h.reservations.Create(ctx, bob, CreateReservationInput{RoomID: r2.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-03"})
	require.NoError(t, err)

	mine, err := h.reservations.List(ctx, alice, model.ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].ClientID)

	_, err = h.reservations.List(ctx, alice, model.ReservationFilter{ClientID: bob.ID})
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	all, err := h.reservations.List(ctx, admin, model.ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byRoom, err := h.reservations.List(ctx, admin, model.ReservationFilter{RoomID: r2.ID})
	require.NoError(t, err)
	require.Len(t, byRoom, 1)
	assert.Equal(t, bob.ID, byRoom[0].ClientID)

	_, err = h.reservations.List(ctx, admin, model.ReservationFilter{Status: "pending"})
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	h := newHarness(t)
	h.events.err = assert.AnError
	room := h.room(t, "101", 10_000)
	alice := h.client(t, "alice@example.com")

	_, err := h.reservations.Create(context.Background(), alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-02"})
	require.NoError(t, err)
	assert.Contains(t, h.logs.String(), "publish event failed")
}

// stallingPublisher ignores ctx and sleeps, the way a broker dial does.
type stallingPublisher struct{ delay time.Duration }

func (p stallingPublisher) Publish(context.Context, queue.ReservationEvent) error {
	time.Sleep(p.delay)
	return nil
}

// stallingAudit delays every append and signals the first one.
type stallingAudit struct {
	AuditStore
	delay   time.Duration
	once    sync.Once
	entered chan struct{}
}

func (a *stallingAudit) AppendAudit(ctx context.Context, e *model.AuditEntry) error {
	a.once.Do(func() { close(a.entered) })
	time.Sleep(a.delay)
	return a.AuditStore.AppendAudit(context.WithoutCancel(ctx), e)
}

func TestSlowSideEffectsDoNotBlockRoom(t *testing.T) {
	const (
		stall   = 400 * time.Millisecond
		timeout = 150 * time.Millisecond
	)
	store := memory.NewStore()
	ctx := context.Background()
	room := model.Room{Number: "101", Type: "double", PriceCents: 100, Capacity: 2, Status: model.RoomFree}
	require.NoError(t, store.CreateRoom(ctx, &room))

	slow := &stallingAudit{AuditStore: store, delay: stall, entered: make(chan struct{})}
	log := zerolog.Nop()
	audit := NewAuditTrail(slow, memory.DBRole, time.Second, log)
	avail := NewAvailabilityChecker(store, store, timeout)
	ledger := NewReservationService(store, store, store, avail, audit, stallingPublisher{delay: stall}, timeout, log)

	alice := Actor{ID: 501, Role: model.RoleClient}
	bob := Actor{ID: 502, Role: model.RoleClient}

	var wg sync.WaitGroup
	var errA, errB error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errA = ledger.Create(ctx, alice, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-06-01", CheckOut: "2025-06-02"})
	}()

	select {
	case <-slow.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first booking never reached the audit write")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errB = ledger.Create(ctx, bob, CreateReservationInput{RoomID: room.ID, CheckIn: "2025-07-01", CheckOut: "2025-07-02"})
	}()

	assert.Eventually(t, func() bool {
		items, err := store.ListReservations(ctx, model.ReservationFilter{RoomID: room.ID})
		return err == nil && len(items) == 2
	}, stall/2, 5*time.Millisecond, "second booking waited on the first one's side effects")

	wg.Wait()
	require.NoError(t, errA)
	require.NoError(t, errB)
}

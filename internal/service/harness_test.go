package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository/memory"
)

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// failingAudit rejects every write.
type failingAudit struct{}

func (failingAudit) AppendAudit(context.Context, *model.AuditEntry) error {
	return errors.New("audit_log: connection refused")
}

func (failingAudit) ListAudit(context.Context, int) ([]model.AuditEntry, error) {
	return nil, errors.New("audit_log: connection refused")
}

type harness struct {
	store  *memory.Store
	logs   *bytes.Buffer
	events *fakePublisher

	audit        *AuditTrail
	credentials  *CredentialService
	tokens       *TokenService
	availability *AvailabilityChecker
	reservations *ReservationService
	payments     *PaymentService
	rooms        *RoomService
	assets       *AssetService
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithAudit(t, nil)
}

// newHarnessWithAudit wires every service over one memory store.  A nil
// auditStore means the memory store records the audit trail too.
func newHarnessWithAudit(t *testing.T, auditStore AuditStore) *harness {
	t.Helper()
	store := memory.NewStore()
	if auditStore == nil {
		auditStore = store
	}
	logs := &bytes.Buffer{}
	log := zerolog.New(logs)
	pub := &fakePublisher{}

	audit := NewAuditTrail(auditStore, memory.DBRole, time.Second, log)
	creds, err := NewCredentialService(store, audit, bcrypt.MinCost, time.Second)
	require.NoError(t, err)
	avail := NewAvailabilityChecker(store, store, time.Second)
	ledger := NewReservationService(store, store, store, avail, audit, pub, time.Second, log)

	return &harness{
		store:        store,
		logs:         logs,
		events:       pub,
		audit:        audit,
		credentials:  creds,
		tokens:       NewTokenService("test-secret", time.Hour),
		availability: avail,
		reservations: ledger,
		payments:     NewPaymentService(ledger, store, audit, pub, time.Second, log),
		rooms:        NewRoomService(store, audit, time.Second),
		assets:       NewAssetService(store, audit, time.Second),
	}
}

var admin = Actor{ID: 1_000_000, Role: model.RoleAdmin}

func (h *harness) client(t *testing.T, email string) Actor {
	t.Helper()
	u, err := h.credentials.Register(context.Background(), RegisterInput{Name: "Guest", Email: email, Password: "secret-pass"})
	require.NoError(t, err)
	return Actor{ID: u.ID, Role: u.Role}
}

func (h *harness) frontDesk(t *testing.T) Actor {
	t.Helper()
	u, err := h.credentials.CreateStaff(context.Background(), admin, RegisterInput{
		Name: "Desk", Email: "desk@hotel.test", Password: "secret-pass", Role: "front_desk",
	})
	require.NoError(t, err)
	return Actor{ID: u.ID, Role: u.Role}
}

func (h *harness) room(t *testing.T, number string, priceCents int64) model.Room {
	t.Helper()
	r, err := h.rooms.Create(context.Background(), admin, RoomInput{Number: number, Type: "double", PriceCents: priceCents, Capacity: 2})
	require.NoError(t, err)
	return r
}

func (h *harness) auditActions(t *testing.T) []string {
	t.Helper()
	entries, err := h.store.ListAudit(context.Background(), 1000)
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].Action)
	}
	return out
}

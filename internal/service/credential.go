package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/policy"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// RegisterInput carries the fields needed to create an identity.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CredentialService owns identity creation and password verification.
type CredentialService struct {
	users     UserStore
	audit     *AuditTrail
	cost      int
	dummyHash string
	timeout   time.Duration
	now       func() time.Time
}

// NewCredentialService builds the service.  cost is the bcrypt work factor.
func NewCredentialService(users UserStore, audit *AuditTrail, cost int, timeout time.Duration) (*CredentialService, error) {
	// compared against for unknown emails so both login failures cost one bcrypt run
	dummy, err := utils.HashPassword("no-such-user-password", cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &CredentialService{
		users:     users,
		audit:     audit,
		cost:      cost,
		dummyHash: dummy,
		timeout:   orDefault(timeout),
		now:       time.Now,
	}, nil
}

// Register creates a client identity.  Public sign-up never grants staff
// roles; the Role field of in is ignored.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (model.Identity, error) {
	return s.create(ctx, "credential.register", in, model.RoleClient)
}

// CreateStaff lets an admin create an identity with any role.
func (s *CredentialService) CreateStaff(ctx context.Context, actor Actor, in RegisterInput) (model.Identity, error) {
	const op = "credential.create_staff"
	if !policy.Permit(actor.Role, policy.ManageUsers, false) {
		return model.Identity{}, apperr.E(apperr.Forbidden, op, nil)
	}
	role, err := model.ParseRole(in.Role)
	if err != nil {
		return model.Identity{}, apperr.E(apperr.InvalidInput, op, err)
	}
	u, err := s.create(ctx, op, in, role)
	if err != nil {
		return model.Identity{}, err
	}
	s.audit.Record(ctx, actor.ID, model.AuditUserCreate,
		fmt.Sprintf("user=%d email=%s role=%s", u.ID, u.Email, u.Role))
	return u, nil
}

func (s *CredentialService) create(ctx context.Context, op string, in RegisterInput, role model.Role) (model.Identity, error) {
	name := strings.TrimSpace(in.Name)
	email, err := normalizeEmail(in.Email)
	switch {
	case name == "":
		return model.Identity{}, apperr.Newf(apperr.InvalidInput, op, "name required")
	case err != nil:
		return model.Identity{}, apperr.E(apperr.InvalidInput, op, err)
	case in.Password == "":
		return model.Identity{}, apperr.Newf(apperr.InvalidInput, op, "password required")
	}
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return model.Identity{}, apperr.E(apperr.InvalidInput, op, err)
		}
		return model.Identity{}, apperr.E(apperr.Internal, op, err)
	}
	u := model.Identity{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return model.Identity{}, storeErr(op, err)
	}
	return u, nil
}

// Verify checks an email/password pair.  An unknown email fails with
// NotFound and a wrong password with Unauthenticated; boundary code should
// report both the same way.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (model.Identity, error) {
	const op = "credential.verify"
	email, err := normalizeEmail(email)
	if err != nil || password == "" {
		return model.Identity{}, apperr.Newf(apperr.InvalidInput, op, "email and password required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.VerifyPassword(s.dummyHash, password)
		}
		return model.Identity{}, storeErr(op, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.Identity{}, apperr.Newf(apperr.Unauthenticated, op, "bad credential")
	}
	return u, nil
}

// normalizeEmail lower-cases and trims an address and rejects anything that
// is not a bare addr-spec.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email %q", raw)
	}
	return email, nil
}

package service

import (
	"time"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// TokenService issues and verifies stateless session tokens.  Tokens cannot
// be revoked before they expire; logging out means the client discards
// its token.
type TokenService struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService signing with secret.  A non-positive
// ttl defaults to 24 hours.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for u.
func (s *TokenService) Issue(u model.Identity) (utils.AccessToken, error) {
	tok, err := utils.NewAccessToken(s.secret, u.ID, u.Role.String(), s.now(), s.ttl)
	if err != nil {
		return utils.AccessToken{}, apperr.E(apperr.Internal, "token.issue", err)
	}
	return tok, nil
}

// Verify checks raw and returns the actor it was issued to.  All failures
// are Unauthenticated and wrap utils.ErrTokenExpired, ErrTokenMalformed or
// ErrTokenSignature.
func (s *TokenService) Verify(raw string) (Actor, error) {
	const op = "token.verify"
	if raw == "" {
		return Actor{}, apperr.E(apperr.Unauthenticated, op, utils.ErrTokenMalformed)
	}
	claims, err := utils.ParseAccessToken(s.secret, raw, s.now())
	if err != nil {
		return Actor{}, apperr.E(apperr.Unauthenticated, op, err)
	}
	id, err := claims.UserID()
	if err != nil {
		return Actor{}, apperr.E(apperr.Unauthenticated, op, err)
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return Actor{}, apperr.E(apperr.Unauthenticated, op, utils.ErrTokenMalformed)
	}
	return Actor{ID: id, Role: role}, nil
}

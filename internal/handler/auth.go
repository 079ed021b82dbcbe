package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// AuthHandler serves sign-up, login and the caller's own claims.
type AuthHandler struct {
	Creds  *service.CredentialService
	Tokens *service.TokenService
}

func NewAuthHandler(creds *service.CredentialService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{Creds: creds, Tokens: tokens}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User   userView  `json:"user"`
	Access tokenPart `json:"access"`
}

// Register creates a client account and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	u, err := h.Creds.Register(c.Request().Context(), service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		return fail(c, err)
	}
	tok, err := h.Tokens.Issue(u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, authResp{
		User:   toUserView(u),
		Access: tokenPart{Token: tok.Token, Expires: tok.Exp},
	})
}

// Login verifies credentials and issues a token.  Unknown email and wrong
// password produce the same 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	u, err := h.Creds.Verify(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			err = apperr.E(apperr.Unauthenticated, "auth.login", err)
		}
		return fail(c, err)
	}
	tok, err := h.Tokens.Issue(u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		User:   toUserView(u),
		Access: tokenPart{Token: tok.Token, Expires: tok.Exp},
	})
}

// Me echoes the verified claims of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": a.ID, "role": a.Role.String()})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

// AdminHandler serves staff account creation and the audit trail.
type AdminHandler struct {
	Creds *service.CredentialService
	Audit *service.AuditTrail
}

func NewAdminHandler(creds *service.CredentialService, audit *service.AuditTrail) *AdminHandler {
	return &AdminHandler{Creds: creds, Audit: audit}
}

type createUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // client | front_desk | admin
}

// CreateUser handles POST /v1/admin/users.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	u, err := h.Creds.CreateStaff(c.Request().Context(), a, service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toUserView(u))
}

// AuditLog handles GET /v1/admin/audit?limit=.
func (h *AdminHandler) AuditLog(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return badRequest(c)
		}
	}
	entries, err := h.Audit.List(c.Request().Context(), a, limit)
	if err != nil {
		return fail(c, err)
	}
	out := make([]auditView, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditView{ID: e.ID, At: e.At, ActorID: e.ActorID, DBRole: e.DBRole, Action: e.Action, Detail: e.Detail})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}

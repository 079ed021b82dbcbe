package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// ReservationHandler serves reservations and their payments.  Every route
// is authenticated; per-record access is decided by the services.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Payments     *service.PaymentService
}

func NewReservationHandler(reservations *service.ReservationService, payments *service.PaymentService) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations, Payments: payments}
}

type createReservationReq struct {
	ClientID uint64 `json:"client_id"` // staff only; zero books for the caller
	RoomID   uint64 `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type payReq struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	res, err := h.Reservations.Create(c.Request().Context(), a, service.CreateReservationInput{
		ClientID: req.ClientID, RoomID: req.RoomID, CheckIn: req.CheckIn, CheckOut: req.CheckOut,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationView(res))
}

// List handles GET /v1/reservations?client_id=&room_id=&status=.
func (h *ReservationHandler) List(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var f model.ReservationFilter
	if v := c.QueryParam("client_id"); v != "" {
		if f.ClientID, err = strconv.ParseUint(v, 10, 64); err != nil {
			return badRequest(c)
		}
	}
	if v := c.QueryParam("room_id"); v != "" {
		if f.RoomID, err = strconv.ParseUint(v, 10, 64); err != nil {
			return badRequest(c)
		}
	}
	f.Status = model.ReservationStatus(c.QueryParam("status"))

	items, err := h.Reservations.List(c.Request().Context(), a, f)
	if err != nil {
		return fail(c, err)
	}
	out := make([]reservationView, 0, len(items))
	for _, r := range items {
		out = append(out, toReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	res, err := h.Reservations.Get(c.Request().Context(), a, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	res, err := h.Reservations.Cancel(c.Request().Context(), a, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

// Pay handles POST /v1/reservations/:id/payments.
func (h *ReservationHandler) Pay(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	var req payReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	p, res, err := h.Payments.Pay(c.Request().Context(), a, service.PayInput{
		ReservationID: id, Method: req.Method, AmountCents: req.AmountCents,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"payment":     toPaymentView(p),
		"reservation": toReservationView(res),
	})
}

// ListPayments handles GET /v1/reservations/:id/payments.
func (h *ReservationHandler) ListPayments(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	items, err := h.Payments.List(c.Request().Context(), a, id)
	if err != nil {
		return fail(c, err)
	}
	out := make([]paymentView, 0, len(items))
	for _, p := range items {
		out = append(out, toPaymentView(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}

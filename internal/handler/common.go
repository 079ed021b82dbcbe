package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// currentActor returns the actor set by JWTAuth.  Routes using it are
// always behind that middleware, so a missing actor is an internal error.
func currentActor(c echo.Context) (service.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return service.Actor{}, apperr.E(apperr.Unauthenticated, "handler.actor", nil)
	}
	return a, nil
}

// ----- response DTOs -----

type userView struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u model.Identity) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role.String(), CreatedAt: u.CreatedAt}
}

type roomView struct {
	ID               uint64    `json:"id"`
	Number           string    `json:"number"`
	Type             string    `json:"type"`
	PriceCents       int64     `json:"price_cents"`
	Capacity         uint32    `json:"capacity"`
	Status           string    `json:"status"`
	HasImage         bool      `json:"has_image"`
	ImageContentType string    `json:"image_content_type,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toRoomView(r model.Room) roomView {
	return roomView{
		ID:               r.ID,
		Number:           r.Number,
		Type:             r.Type,
		PriceCents:       r.PriceCents,
		Capacity:         r.Capacity,
		Status:           string(r.Status),
		HasImage:         r.HasImage,
		ImageContentType: r.ImageContentType,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toRoomViews(rooms []model.Room) []roomView {
	out := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomView(r))
	}
	return out
}

type reservationView struct {
	ID         uint64    `json:"id"`
	RoomID     uint64    `json:"room_id"`
	ClientID   uint64    `json:"client_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Nights     int64     `json:"nights"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toReservationView(r model.Reservation) reservationView {
	return reservationView{
		ID:         r.ID,
		RoomID:     r.RoomID,
		ClientID:   r.ClientID,
		CheckIn:    model.FormatDate(r.CheckIn),
		CheckOut:   model.FormatDate(r.CheckOut),
		Nights:     r.Nights(),
		Status:     string(r.Status),
		TotalCents: r.TotalCents,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type paymentView struct {
	ID            uint64    `json:"id"`
	Reference     string    `json:"reference"`
	ReservationID uint64    `json:"reservation_id"`
	Method        string    `json:"method"`
	AmountCents   int64     `json:"amount_cents"`
	PaidAt        time.Time `json:"paid_at"`
}

func toPaymentView(p model.Payment) paymentView {
	return paymentView{
		ID:            p.ID,
		Reference:     p.Reference,
		ReservationID: p.ReservationID,
		Method:        string(p.Method),
		AmountCents:   p.AmountCents,
		PaidAt:        p.PaidAt,
	}
}

type auditView struct {
	ID      uint64    `json:"id"`
	At      time.Time `json:"at"`
	ActorID uint64    `json:"actor_id"`
	DBRole  string    `json:"db_role"`
	Action  string    `json:"action"`
	Detail  string    `json:"detail"`
}

package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// RoomHandler serves the room catalogue, availability and room images.
type RoomHandler struct {
	Rooms  *service.RoomService
	Assets *service.AssetService
	Avail  *service.AvailabilityChecker
}

func NewRoomHandler(rooms *service.RoomService, assets *service.AssetService, avail *service.AvailabilityChecker) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Assets: assets, Avail: avail}
}

type createRoomReq struct {
	Number     string `json:"number"`
	Type       string `json:"type"`
	PriceCents int64  `json:"price_cents"`
	Capacity   uint32 `json:"capacity"`
	Status     string `json:"status"`
}

type updateRoomReq struct {
	Type       *string `json:"type"`
	PriceCents *int64  `json:"price_cents"`
	Capacity   *uint32 `json:"capacity"`
	Status     *string `json:"status"`
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": toRoomViews(rooms)})
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	r, err := h.Rooms.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toRoomView(r))
}

// Available handles GET /v1/rooms/available?check_in=&check_out=.
func (h *RoomHandler) Available(c echo.Context) error {
	rooms, err := h.Avail.AvailableRooms(c.Request().Context(), c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"check_in":  c.QueryParam("check_in"),
		"check_out": c.QueryParam("check_out"),
		"rooms":     toRoomViews(rooms),
	})
}

// Availability handles GET /v1/rooms/:id/availability?check_in=&check_out=.
func (h *RoomHandler) Availability(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	free, err := h.Avail.CheckRoom(c.Request().Context(), id, c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   id,
		"check_in":  c.QueryParam("check_in"),
		"check_out": c.QueryParam("check_out"),
		"available": free,
	})
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	r, err := h.Rooms.Create(c.Request().Context(), a, service.RoomInput{
		Number: req.Number, Type: req.Type, PriceCents: req.PriceCents, Capacity: req.Capacity, Status: req.Status,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toRoomView(r))
}

// Update handles PATCH /v1/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	r, err := h.Rooms.Update(c.Request().Context(), a, id, service.RoomPatch{
		Type: req.Type, PriceCents: req.PriceCents, Capacity: req.Capacity, Status: req.Status,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toRoomView(r))
}

// PutImage handles PUT /v1/rooms/:id/image with a multipart "file" part.
// At most one byte past the limit is read so oversize uploads are reported
// as too_large without buffering them.
func (h *RoomHandler) PutImage(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
	if err != nil {
		return fail(c, apperr.E(apperr.InvalidInput, "room.put_image", err))
	}
	if err := h.Assets.Put(c.Request().Context(), a, id, data, fh.Header.Get(echo.HeaderContentType)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetImage handles GET /v1/rooms/:id/image.
func (h *RoomHandler) GetImage(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c)
	}
	data, ct, err := h.Assets.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, ct, data)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
)

// statusFor maps a failure kind onto the HTTP status reported for it.
func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Conflict, apperr.AlreadyCancelled:
		return http.StatusConflict
	case apperr.TooLarge:
		return http.StatusRequestEntityTooLarge
	case apperr.UnsupportedType:
		return http.StatusUnsupportedMediaType
	case apperr.StorageUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail renders err as {"error": "<kind>"}.  Causes are never echoed back;
// 5xx failures are handed to the request logger through c.Set.
func fail(c echo.Context, err error) error {
	k := apperr.KindOf(err)
	status := statusFor(k)
	if status >= http.StatusInternalServerError {
		c.Set("error", err)
	}
	return c.JSON(status, echo.Map{"error": k.String()})
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": apperr.InvalidInput.String()})
}

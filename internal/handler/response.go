package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octobees/sentiment-dashboard/internal/service"
	"github.com/octobees/sentiment-dashboard/internal/store"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	return SuccessWithMeta(c, status, message, data, nil)
}

// SuccessWithMeta is Success for paginated payloads.
func SuccessWithMeta(c echo.Context, status int, message string, data, meta any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
		Meta:    meta,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}

// respondError maps service and store errors onto HTTP statuses. Server side
// failures are logged with the request scoped logger.
func respondError(c echo.Context, err error) error {
	var vErr service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return Error(c, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrNoData):
		return Error(c, http.StatusNotFound, service.ErrNoData.Error())
	case errors.Is(err, service.ErrNotFound):
		return Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrSourceUnavailable):
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("answer source unavailable")
		return Error(c, http.StatusServiceUnavailable, "data source unavailable")
	case errors.Is(err, store.ErrSourceCorrupt):
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("answer source corrupt")
		return Error(c, http.StatusInternalServerError, "data source is corrupt")
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("request failed")
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}

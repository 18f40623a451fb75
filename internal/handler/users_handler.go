package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/sentiment-dashboard/internal/dto"
	"github.com/octobees/sentiment-dashboard/internal/service"
)

// UsersHandler exposes per-user views.
type UsersHandler struct {
	service *service.AnalyticsService
}

// NewUsersHandler creates a new handler instance.
func NewUsersHandler(service *service.AnalyticsService) *UsersHandler {
	return &UsersHandler{service: service}
}

// Leaderboard handles GET /api/users requests.
func (h *UsersHandler) Leaderboard(c echo.Context) error {
	page := dto.PageQuery{
		Limit:  parseLimit(c.QueryParam("limit"), service.LeaderboardDefaultLimit),
		Offset: parseIntDefault(strings.TrimSpace(c.QueryParam("offset")), 0),
	}
	result, err := h.service.UserLeaderboard(c.Request().Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return SuccessWithMeta(c, http.StatusOK, "users retrieved", result.Items, dto.MetaOf(result))
}

// Companies handles GET /api/users/:user/companies requests.
func (h *UsersHandler) Companies(c echo.Context) error {
	stats, err := h.service.UserCompanies(c.Request().Context(), c.Param("user"))
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "user companies retrieved", stats)
}

// Trend handles GET /api/users/:user/trend requests.
func (h *UsersHandler) Trend(c echo.Context) error {
	query := dto.UserTrendQuery{
		User:   c.Param("user"),
		By:     c.QueryParam("by"),
		Locale: strings.TrimSpace(c.QueryParam("locale")),
	}
	series, err := h.service.UserTrend(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "user trend computed", series)
}

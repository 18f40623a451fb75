package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/sentiment-dashboard/internal/dto"
	"github.com/octobees/sentiment-dashboard/internal/service"
)

// CompaniesHandler exposes company level views.
type CompaniesHandler struct {
	service *service.AnalyticsService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.AnalyticsService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// List handles GET /api/companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	companies, err := h.service.CompanyRoster(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "companies retrieved", companies)
}

// Score handles GET /api/score requests.
func (h *CompaniesHandler) Score(c echo.Context) error {
	query := dto.ScoreQuery{
		ISIN:  strings.TrimSpace(c.QueryParam("isin")),
		Start: strings.TrimSpace(c.QueryParam("start")),
		End:   strings.TrimSpace(c.QueryParam("end")),
	}
	result, err := h.service.ScoreForCompany(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "score computed", result)
}

// Trend handles GET /api/companies/:isin/trend requests.
func (h *CompaniesHandler) Trend(c echo.Context) error {
	points, err := h.service.CompanyTrend(c.Request().Context(), c.Param("isin"), c.QueryParam("bucket"))
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "trend computed", points)
}

// Latest handles GET /api/companies/:isin/latest requests.
func (h *CompaniesHandler) Latest(c echo.Context) error {
	latest, err := h.service.LatestByQuestion(c.Request().Context(), c.Param("isin"), strings.TrimSpace(c.QueryParam("locale")))
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "latest answers retrieved", latest)
}

// Compare handles GET /api/compare requests.
func (h *CompaniesHandler) Compare(c echo.Context) error {
	query := dto.CompareQuery{
		ISINs:  c.QueryParam("isins"),
		Bucket: c.QueryParam("bucket"),
		Start:  strings.TrimSpace(c.QueryParam("start")),
		End:    strings.TrimSpace(c.QueryParam("end")),
	}
	series, err := h.service.Compare(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "comparison computed", series)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}

// parseLimit returns absent when no limit was sent and zero, which selects
// the pager default, when it does not parse.
func parseLimit(input string, absent int) int {
	input = strings.TrimSpace(input)
	if input == "" {
		return absent
	}
	return parseIntDefault(input, 0)
}

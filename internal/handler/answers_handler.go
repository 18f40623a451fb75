package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/sentiment-dashboard/internal/dto"
	"github.com/octobees/sentiment-dashboard/internal/service"
)

// AnswersHandler exposes the raw answer listing.
type AnswersHandler struct {
	service *service.AnalyticsService
}

// NewAnswersHandler creates a new handler instance.
func NewAnswersHandler(service *service.AnalyticsService) *AnswersHandler {
	return &AnswersHandler{service: service}
}

// List handles GET /api/answers requests.
func (h *AnswersHandler) List(c echo.Context) error {
	filter := dto.AnswerFilter{
		ISIN:   strings.TrimSpace(c.QueryParam("isin")),
		User:   strings.TrimSpace(c.QueryParam("user")),
		IDs:    strings.TrimSpace(c.QueryParam("ids")),
		Skip:   strings.TrimSpace(c.QueryParam("skip")),
		Start:  strings.TrimSpace(c.QueryParam("start")),
		End:    strings.TrimSpace(c.QueryParam("end")),
		Limit:  parseLimit(c.QueryParam("limit"), 0),
		Offset: parseIntDefault(strings.TrimSpace(c.QueryParam("offset")), 0),
	}

	page, err := h.service.ListAnswers(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return SuccessWithMeta(c, http.StatusOK, "answers retrieved", page.Items, dto.MetaOf(page))
}

// Get handles GET /api/answers/:id requests.
func (h *AnswersHandler) Get(c echo.Context) error {
	answer, err := h.service.GetAnswer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return Success(c, http.StatusOK, "answer retrieved", answer)
}

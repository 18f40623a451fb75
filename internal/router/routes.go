package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/sentiment-dashboard/internal/config"
	"github.com/octobees/sentiment-dashboard/internal/handler"
	"github.com/octobees/sentiment-dashboard/internal/metrics"
	middlewarepkg "github.com/octobees/sentiment-dashboard/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health    *handler.HealthHandler
	Answers   *handler.AnswersHandler
	Companies *handler.CompaniesHandler
	Users     *handler.UsersHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, handlers Handlers) {
	e.GET("/healthz", handlers.Health.Check)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	api := e.Group("/api", middlewarepkg.APIRateLimiter(cfg.RateLimitAPI))

	api.GET("/answers", handlers.Answers.List)
	api.GET("/answers/:id", handlers.Answers.Get)

	api.GET("/companies", handlers.Companies.List)
	api.GET("/companies/:isin/trend", handlers.Companies.Trend)
	api.GET("/companies/:isin/latest", handlers.Companies.Latest)
	api.GET("/score", handlers.Companies.Score)
	api.GET("/compare", handlers.Companies.Compare)

	api.GET("/users", handlers.Users.Leaderboard)
	api.GET("/users/:user/companies", handlers.Users.Companies)
	api.GET("/users/:user/trend", handlers.Users.Trend)
}

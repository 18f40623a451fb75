package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/sentiment-dashboard/internal/config"
	"github.com/octobees/sentiment-dashboard/internal/database"
	"github.com/octobees/sentiment-dashboard/internal/handler"
	"github.com/octobees/sentiment-dashboard/internal/labels"
	"github.com/octobees/sentiment-dashboard/internal/logger"
	"github.com/octobees/sentiment-dashboard/internal/metrics"
	middlewarepkg "github.com/octobees/sentiment-dashboard/internal/middleware"
	"github.com/octobees/sentiment-dashboard/internal/repository"
	"github.com/octobees/sentiment-dashboard/internal/router"
	"github.com/octobees/sentiment-dashboard/internal/service"
	"github.com/octobees/sentiment-dashboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", nil)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel, nil)

	catalog, err := labels.Load(cfg.LabelsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load label catalogue")
	}

	m := metrics.New()

	var source store.Source
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:       cfg.DBMaxConns,
			ConnectTimeout: cfg.SourceTimeout,
		})
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		source = repository.NewPGXAnswersRepository(pool)
	default:
		source = store.NewFileSource(cfg.DataPath)
	}

	answers := store.New(source,
		store.WithLogger(log.With().Str("component", "store").Logger()),
		store.WithMetrics(m),
		store.WithSourceTimeout(cfg.SourceTimeout),
	)
	// A failed first load is not fatal; queries retry it and /healthz reports it.
	if _, err := answers.Load(context.Background()); err != nil {
		log.Warn().Err(err).Str("source", source.Name()).Msg("initial answer load failed")
	}

	analytics := service.NewAnalyticsService(answers, catalog)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(middlewarepkg.Metrics(m))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	router.Register(e, cfg, m, router.Handlers{
		Health:    handler.NewHealthHandler(answers),
		Answers:   handler.NewAnswersHandler(analytics),
		Companies: handler.NewCompaniesHandler(analytics),
		Users:     handler.NewUsersHandler(analytics),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("source", source.Name()).Msg("starting http server")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/sentiment-dashboard/internal/config"
	"github.com/octobees/sentiment-dashboard/internal/entity"
	"github.com/octobees/sentiment-dashboard/internal/handler"
	"github.com/octobees/sentiment-dashboard/internal/metrics"
	middlewarepkg "github.com/octobees/sentiment-dashboard/internal/middleware"
	"github.com/octobees/sentiment-dashboard/internal/service"
	"github.com/octobees/sentiment-dashboard/internal/store"
)

type fixedSnapshots struct {
	snap *store.Snapshot
}

func (f *fixedSnapshots) Load(ctx context.Context) (*store.Snapshot, error) { return f.snap, nil }

func (f *fixedSnapshots) Current() *store.Snapshot { return f.snap }

func stamp(value string) entity.Timestamp {
	ts, err := entity.ParseTimestamp(value)
	if err != nil {
		panic(err)
	}
	return ts
}

func newTestServer(cfg *config.Config) (*echo.Echo, *metrics.Metrics) {
	snaps := &fixedSnapshots{snap: &store.Snapshot{
		Version: store.Version{ModTime: time.Unix(0, 0)},
		Answers: []entity.Answer{{
			ID:      "1",
			Value:   55,
			Created: stamp("2024-05-01T08:00:00Z"),
			User:    "u1",
			Company: entity.Company{ISIN: "A", Title: "Alpha"},
		}},
	}}
	svc := service.NewAnalyticsService(snaps, nil)
	m := metrics.New()

	e := echo.New()
	e.Use(middlewarepkg.Metrics(m))
	Register(e, cfg, m, Handlers{
		Health:    handler.NewHealthHandler(snaps),
		Answers:   handler.NewAnswersHandler(svc),
		Companies: handler.NewCompaniesHandler(svc),
		Users:     handler.NewUsersHandler(svc),
	})
	return e, m
}

func TestRegister_Routes(t *testing.T) {
	e, _ := newTestServer(&config.Config{})

	cases := map[string]int{
		"/healthz":                     http.StatusOK,
		"/api/answers":                 http.StatusOK,
		"/api/answers/1":               http.StatusOK,
		"/api/answers/2":               http.StatusNotFound,
		"/api/companies":               http.StatusOK,
		"/api/companies/A/trend":       http.StatusOK,
		"/api/companies/A/latest":      http.StatusOK,
		"/api/score?isin=A":            http.StatusOK,
		"/api/score":                   http.StatusBadRequest,
		"/api/compare?isins=A":         http.StatusOK,
		"/api/users":                   http.StatusOK,
		"/api/users/u1/companies":      http.StatusOK,
		"/api/users/u1/trend?by=other": http.StatusBadRequest,
		"/metrics":                     http.StatusOK,
	}
	for target, want := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d (%s)", target, want, rec.Code, rec.Body.String())
		}
	}
}

func TestRegister_ScoreBody(t *testing.T) {
	e, _ := newTestServer(&config.Config{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/score?isin=A", nil))

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			Score float64 `json:"score"`
			N     int     `json:"n"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "success" || payload.Data.Score != 55 || payload.Data.N != 1 {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestRegister_RateLimitAppliesToAPIOnly(t *testing.T) {
	e, _ := newTestServer(&config.Config{RateLimitAPI: config.RateLimitConfig{Requests: 1, Interval: time.Hour}})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %v", codes)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz to bypass limiter, got %d", rec.Code)
	}
}

func TestRegister_MetricsEndpointReportsRequests(t *testing.T) {
	e, _ := newTestServer(&config.Config{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies", nil))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `route="/api/companies"`) {
		t.Fatalf("expected route label in exposition, got %s", rec.Body.String())
	}
}

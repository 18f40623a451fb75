package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/octobees/sentiment-dashboard/internal/config"
	"github.com/octobees/sentiment-dashboard/internal/metrics"
)

func TestLoggingMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	base := zerolog.New(buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging(base)(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside handler")
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected handler line and request line, got %q", buf.String())
	}
	if !strings.Contains(lines[0], `"request_id":"rid-123"`) {
		t.Fatalf("expected handler log to carry request id, got %s", lines[0])
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("expected json log line: %v", err)
	}
	if entry["request_id"] != "rid-123" || entry["path"] != "/api/companies" || entry["status"] != float64(200) {
		t.Fatalf("unexpected log entry: %v", entry)
	}
	if entry["level"] != "info" {
		t.Fatalf("expected info level, got %v", entry["level"])
	}

	// ensure errors are propagated and logged
	buf.Reset()
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(base)(func(c echo.Context) error {
		return expected
	})(c)
	if !strings.Contains(buf.String(), "rid-456") || !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log entry with new request id, got %s", buf.String())
	}
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
}

func TestAPIRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Second}
	mw := APIRateLimiter(cfg)

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/score?isin=A", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = mw(next)(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/answers", nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	_ = mw(next)(c2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", rec2.Code)
	}

	// Non-api paths bypass the limiter.
	req3 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec3 := httptest.NewRecorder()
	c3 := e.NewContext(req3, rec3)
	_ = mw(next)(c3)
	if rec3.Code != http.StatusOK {
		t.Fatalf("expected non-api request to pass")
	}

	// zero config should behave as passthrough
	mw = APIRateLimiter(config.RateLimitConfig{})
	req4 := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec4 := httptest.NewRecorder()
	c4 := e.NewContext(req4, rec4)
	_ = mw(next)(c4)
	if rec4.Code != http.StatusOK {
		t.Fatalf("expected passthrough when limiter disabled")
	}
	if nextCalls != 3 {
		t.Fatalf("expected next handler to be invoked 3 times, got %d", nextCalls)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	mw := Metrics(m)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/companies/A/trend", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/companies/:isin/trend")

	if err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	_ = mw(func(c echo.Context) error {
		return echo.ErrNotFound
	})(c)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/companies/:isin/trend", "200")); got != 1 {
		t.Fatalf("expected one request on route template, got %v", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "unmatched", "404")); got != 1 {
		t.Fatalf("expected one unmatched 404, got %v", got)
	}
	if n := testutil.CollectAndCount(m.RequestDuration); n != 2 {
		t.Fatalf("expected two latency series, got %d", n)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("generate when missing or oversized", func(t *testing.T) {
		for _, incoming := range []string{"", strings.Repeat("x", maxRequestIDLength+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", incoming)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler(func(c echo.Context) error {
				rid := RequestIDFromContext(c)
				if rid == "" || rid == incoming {
					t.Fatalf("expected generated request id")
				}
				return c.NoContent(http.StatusOK)
			})(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatalf("expected response header set")
			}
		}
	})
}

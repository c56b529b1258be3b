package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TiltBoard/internal/domain/models"
	applogger "TiltBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubForecaster struct {
	gotOpts models.ForecastOptions
	fail    bool
}

func (s *stubForecaster) Table(_ context.Context, opts models.ForecastOptions) (*models.ForecastTable, error) {
	s.gotOpts = opts
	if s.fail {
		return nil, fmt.Errorf("provider down")
	}
	return &models.ForecastTable{
		GeneratedAt:  time.Now().UTC(),
		BaseScale:    opts.BaseScale,
		TiltStrength: opts.TiltStrength,
		Etfs: []models.EtfForecast{{
			Ticker: "GOLD",
			Ranges: map[string]models.Range{"mid": {Low: 0.02, High: 0.08}},
			Grades: map[string]string{"mid": "yellow"},
		}},
	}, nil
}

func (s *stubForecaster) Snapshot(context.Context) ([]models.SignalReading, error) {
	if s.fail {
		return nil, fmt.Errorf("provider down")
	}
	return []models.SignalReading{{Name: "VIX", Value: 15, Median: 16, OK: true}}, nil
}

type stubHealth struct {
	healthy bool
	at      time.Time
}

func (s *stubHealth) ProviderStatus() (bool, time.Time) { return s.healthy, s.at }

func newTestHandler(fail bool) (*DashboardHandler, *stubForecaster) {
	logger, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	stub := &stubForecaster{fail: fail}
	return NewDashboardHandler(logger, stub, nil), stub
}

func doRequest(t *testing.T, h *DashboardHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestForecastDefaults(t *testing.T) {
	h, stub := newTestHandler(false)
	rec := doRequest(t, h, "/api/forecast")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if stub.gotOpts.BaseScale != 1.0 || stub.gotOpts.TiltStrength != 1.0 {
		t.Fatalf("defaults not applied: %+v", stub.gotOpts)
	}
	if !stub.gotOpts.IncludeNotes {
		t.Fatalf("notes should default on")
	}
}

func TestForecastKnobs(t *testing.T) {
	h, stub := newTestHandler(false)
	rec := doRequest(t, h, "/api/forecast?base_scale=1.2&tilt_strength=0&dfns=DFNS.DE&notes=false")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if stub.gotOpts.BaseScale != 1.2 {
		t.Fatalf("base scale = %v", stub.gotOpts.BaseScale)
	}
	if stub.gotOpts.TiltStrength != 0 {
		t.Fatalf("explicit zero tilt strength overwritten: %v", stub.gotOpts.TiltStrength)
	}
	if stub.gotOpts.Overrides["DFNS"] != "DFNS.DE" {
		t.Fatalf("override not applied: %+v", stub.gotOpts.Overrides)
	}
	if stub.gotOpts.IncludeNotes {
		t.Fatalf("notes=false ignored")
	}
}

func TestForecastValidation(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := doRequest(t, h, "/api/forecast?base_scale=9")
	var body struct {
		Data []struct {
			Code  string `json:"code"`
			Field string `json:"field"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) == 0 || body.Data[0].Code != "ERR_LTE" {
		t.Fatalf("expected ERR_LTE validation error, got %s", rec.Body.String())
	}
}

func TestForecastUpstreamError(t *testing.T) {
	h, _ := newTestHandler(true)
	rec := doRequest(t, h, "/api/forecast")
	var body struct {
		Data []struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Code != "ERR_UPSTREAM" {
		t.Fatalf("expected ERR_UPSTREAM, got %s", rec.Body.String())
	}
}

func TestSignals(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := doRequest(t, h, "/api/signals")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data []models.SignalReading `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Name != "VIX" {
		t.Fatalf("unexpected snapshot: %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := doRequest(t, h, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data HealthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Status != "ok" {
		t.Fatalf("health = %+v", body.Data)
	}
	if body.Data.Provider != "unknown" {
		t.Fatalf("provider = %q, want unknown before first fetch", body.Data.Provider)
	}
}

func TestHealthDegradedWhenProviderUnreachable(t *testing.T) {
	logger, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	h := NewDashboardHandler(logger, &stubForecaster{}, &stubHealth{healthy: false, at: time.Now()})

	rec := doRequest(t, h, "/api/health")
	var body struct {
		Data HealthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Status != "degraded" || body.Data.Provider != "unreachable" {
		t.Fatalf("health = %+v, want degraded/unreachable", body.Data)
	}
	if body.Data.LastFetchAt == nil {
		t.Fatalf("last fetch time missing")
	}
}

func TestHealthProviderOK(t *testing.T) {
	logger, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	h := NewDashboardHandler(logger, &stubForecaster{}, &stubHealth{healthy: true, at: time.Now()})

	rec := doRequest(t, h, "/api/health")
	var body struct {
		Data HealthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Status != "ok" || body.Data.Provider != "ok" {
		t.Fatalf("health = %+v, want ok/ok", body.Data)
	}
}

func TestIndexServesDashboard(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := doRequest(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(rec.Body.Bytes()) == 0 {
		t.Fatalf("empty dashboard page")
	}
}

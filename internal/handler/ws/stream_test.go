package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TiltBoard/internal/domain/models"
	applogger "TiltBoard/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type captureForecaster struct {
	calls chan models.ForecastOptions
}

func (c *captureForecaster) Table(_ context.Context, opts models.ForecastOptions) (*models.ForecastTable, error) {
	c.calls <- opts
	return &models.ForecastTable{GeneratedAt: time.Now().UTC()}, nil
}

func (c *captureForecaster) Snapshot(context.Context) ([]models.SignalReading, error) {
	return nil, nil
}

func dialStreamer(t *testing.T) (*websocket.Conn, *captureForecaster) {
	t.Helper()
	logger, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	fc := &captureForecaster{calls: make(chan models.ForecastOptions, 8)}
	s := NewStreamer(logger, fc, time.Minute)

	e := echo.New()
	s.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, fc
}

func nextCall(t *testing.T, fc *captureForecaster) models.ForecastOptions {
	t.Helper()
	select {
	case opts := <-fc.calls:
		return opts
	case <-time.After(2 * time.Second):
		t.Fatalf("no forecast computed in time")
		return models.ForecastOptions{}
	}
}

func TestStreamPushesOnConnect(t *testing.T) {
	conn, fc := dialStreamer(t)

	opts := nextCall(t, fc)
	if opts.BaseScale != 1.0 || opts.TiltStrength != 1.0 {
		t.Fatalf("initial knobs = %+v, want defaults", opts)
	}

	var table models.ForecastTable
	if err := conn.ReadJSON(&table); err != nil {
		t.Fatalf("read push: %v", err)
	}
	if table.GeneratedAt.IsZero() {
		t.Fatalf("empty push payload")
	}
}

func TestRetuneClampsOutOfRangeKnobs(t *testing.T) {
	conn, fc := dialStreamer(t)
	nextCall(t, fc) // initial push

	if err := conn.WriteJSON(map[string]float64{"base_scale": 100, "tilt_strength": -5}); err != nil {
		t.Fatalf("write retune: %v", err)
	}

	opts := nextCall(t, fc)
	if opts.BaseScale != 1.5 {
		t.Fatalf("base scale = %v, want clamped to 1.5", opts.BaseScale)
	}
	if opts.TiltStrength != 0 {
		t.Fatalf("tilt strength = %v, want clamped to 0", opts.TiltStrength)
	}
}

func TestRetunePartialKeepsOtherKnob(t *testing.T) {
	conn, fc := dialStreamer(t)
	nextCall(t, fc) // initial push

	if err := conn.WriteJSON(map[string]float64{"base_scale": 1.2}); err != nil {
		t.Fatalf("write retune: %v", err)
	}
	opts := nextCall(t, fc)
	if opts.BaseScale != 1.2 || opts.TiltStrength != 1.0 {
		t.Fatalf("knobs = %+v, want base 1.2 with tilt untouched", opts)
	}

	if err := conn.WriteJSON(map[string]float64{"tilt_strength": 0.5}); err != nil {
		t.Fatalf("write retune: %v", err)
	}
	opts = nextCall(t, fc)
	if opts.BaseScale != 1.2 || opts.TiltStrength != 0.5 {
		t.Fatalf("knobs = %+v, want base kept at 1.2", opts)
	}
}

package yahoo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string)            {}
func (noopMetrics) RecordError(string)                    {}
func (noopMetrics) RecordSignal(string, float64, float64) {}
func (noopMetrics) RecordForecast()                       {}
func (noopMetrics) RecordLatency(string, float64)         {}

const chartBody = `{"chart":{"result":[{"meta":{"regularMarketPrice":187.3,"symbol":"GLD"},
"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"close":[185.2,null,187.3]}]}}],"error":null}}`

func TestDailyCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/GLD" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("range") != "2y" || r.URL.Query().Get("interval") != "1d" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Fatalf("missing user agent")
		}
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	c := New(srv.URL, noopMetrics{})
	s, err := c.DailyCloses(context.Background(), "GLD")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(s.Closes) != 3 {
		t.Fatalf("closes = %v", s.Closes)
	}
	if !math.IsNaN(s.Closes[1]) {
		t.Fatalf("gap should stay NaN, got %v", s.Closes[1])
	}
	if s.Closes[2] != 187.3 {
		t.Fatalf("last close = %v, want 187.3", s.Closes[2])
	}
}

func TestDailyClosesNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, noopMetrics{})
	if _, err := c.DailyCloses(context.Background(), "NOPE"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDailyClosesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, noopMetrics{})
	if _, err := c.DailyCloses(context.Background(), "BAD"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestGetRetriesOn429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	c := New(srv.URL, noopMetrics{}, WithRetries(3, time.Millisecond))
	if _, err := c.DailyCloses(context.Background(), "GLD"); err != nil {
		t.Fatalf("fetch after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestGetFailsFastOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, noopMetrics{}, WithRetries(3, time.Millisecond))
	if _, err := c.DailyCloses(context.Background(), "GLD"); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on 404)", calls)
	}
}

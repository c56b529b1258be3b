package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMetricsEndpointEnabled(t *testing.T) {
	s := NewServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want scrape endpoint at default path", rec.Code)
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	s := NewServer(nil, WithMetricsEndpoint(""))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when scrape endpoint is off", rec.Code)
	}
}

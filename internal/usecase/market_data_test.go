package usecase

import (
	"context"
	"testing"
	"time"

	"TiltBoard/pkg/cache"
	applogger "TiltBoard/pkg/logger"
)

func TestProviderStatusTracksLastRound(t *testing.T) {
	logger, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	mc := cache.NewMemoryCache()
	t.Cleanup(mc.Close)

	src := &fakeSource{closes: map[string][]float64{"GLD": flat(180, 9, 180)}}
	m := NewMarketData(src, mc, time.Minute, 2, logger)
	ctx := context.Background()

	if healthy, at := m.ProviderStatus(); !healthy || !at.IsZero() {
		t.Fatalf("before first fetch: healthy=%v at=%v, want true with zero time", healthy, at)
	}

	if _, _, err := m.FetchAll(ctx, []string{"GLD"}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if healthy, at := m.ProviderStatus(); !healthy || at.IsZero() {
		t.Fatalf("after success: healthy=%v at=%v, want true with timestamp", healthy, at)
	}

	if _, _, err := m.FetchAll(ctx, []string{"NOPE"}); err == nil {
		t.Fatalf("expected all-failed error")
	}
	if healthy, _ := m.ProviderStatus(); healthy {
		t.Fatalf("after all-failed round: healthy=true, want false")
	}
}

func TestFetchAllPartialFailure(t *testing.T) {
	logger, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	mc := cache.NewMemoryCache()
	t.Cleanup(mc.Close)

	src := &fakeSource{closes: map[string][]float64{"GLD": flat(180, 9, 180)}}
	m := NewMarketData(src, mc, time.Minute, 2, logger)

	results, missing, err := m.FetchAll(context.Background(), []string{"GLD", "NOPE"})
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
	if len(results) != 1 || results["GLD"] == nil {
		t.Fatalf("results = %v", results)
	}
	if len(missing) != 1 || missing[0] != "NOPE" {
		t.Fatalf("missing = %v", missing)
	}
	if healthy, _ := m.ProviderStatus(); !healthy {
		t.Fatalf("partial round should still count as reachable")
	}
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TiltBoard/internal/domain/models"
	drepo "TiltBoard/internal/domain/repository"
	domsvc "TiltBoard/internal/domain/service"
	"TiltBoard/pkg/cache"
	applogger "TiltBoard/pkg/logger"
)

// MarketData fetches daily close series through the cache. Per-symbol fetches
// fan out under a semaphore; a symbol that fails is reported as missing, not
// fatal, unless every symbol fails.
type MarketData struct {
	source        drepo.PriceSource
	cache         cache.Service
	ttl           time.Duration
	maxConcurrent int
	logger        *applogger.Logger

	statusMu    sync.RWMutex
	lastHealthy bool
	lastChecked time.Time
}

var _ domsvc.ProviderHealth = (*MarketData)(nil)

func NewMarketData(source drepo.PriceSource, c cache.Service, ttl time.Duration, maxConcurrent int, logger *applogger.Logger) *MarketData {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &MarketData{
		source:        source,
		cache:         c,
		ttl:           ttl,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// FetchAll returns the series for every symbol it could obtain, plus the
// symbols that yielded nothing. It errors only when no symbol produced data
// (provider unreachable).
func (m *MarketData) FetchAll(ctx context.Context, symbols []string) (map[string]*models.Series, []string, error) {
	results := make(map[string]*models.Series, len(symbols))
	var missing []string
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, m.maxConcurrent)

	for _, sym := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			s, err := m.fetchOne(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.logger.Warn("series unavailable", applogger.String("symbol", symbol), applogger.Error(err))
				missing = append(missing, symbol)
				return
			}
			results[symbol] = s
		}(sym)
	}
	wg.Wait()

	m.recordStatus(len(results) > 0)

	if len(results) == 0 {
		return nil, missing, fmt.Errorf("no market data for any of %d symbols", len(symbols))
	}
	return results, missing, nil
}

func (m *MarketData) recordStatus(ok bool) {
	m.statusMu.Lock()
	m.lastHealthy = ok
	m.lastChecked = time.Now()
	m.statusMu.Unlock()
}

// ProviderStatus reports whether the most recent round produced any data and
// when it ran. Healthy is true before the first fetch.
func (m *MarketData) ProviderStatus() (bool, time.Time) {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	if m.lastChecked.IsZero() {
		return true, time.Time{}
	}
	return m.lastHealthy, m.lastChecked
}

func (m *MarketData) fetchOne(ctx context.Context, symbol string) (*models.Series, error) {
	key := cache.GenerateKey("series", symbol)

	var cached models.Series
	if err := m.cache.Get(ctx, key, &cached); err == nil && !cached.Empty() {
		return &cached, nil
	}

	s, err := m.source.DailyCloses(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := m.cache.Set(ctx, key, s, m.ttl); err != nil {
		m.logger.Warn("series cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
	return s, nil
}

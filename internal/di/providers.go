package di

import (
	"fmt"
	"time"

	drepo "TiltBoard/internal/domain/repository"
	domsvc "TiltBoard/internal/domain/service"
	"TiltBoard/internal/handler/api"
	"TiltBoard/internal/handler/ws"
	"TiltBoard/internal/model"
	"TiltBoard/internal/service/yahoo"
	"TiltBoard/internal/usecase"
	"TiltBoard/pkg/cache"
	"TiltBoard/pkg/config"
	xhttp "TiltBoard/pkg/http"
	applogger "TiltBoard/pkg/logger"
	"TiltBoard/pkg/metrics"
	"TiltBoard/pkg/server"
)

// ProvideLogger creates the application logger with the aggregated error collector.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		MaxRecent:      50,
	})
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideModelTables loads the authored model tables.
func ProvideModelTables(cfg *config.Config) (*model.Tables, error) {
	t, err := model.Load(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("model tables: %w", err)
	}
	return t, nil
}

// ProvideRedis creates the Redis cache client, or nil when disabled.
func ProvideRedis(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService builds the series cache: layered when Redis is up,
// memory-only otherwise.
func ProvideCacheService(cfg *config.Config, redis *cache.RedisCache) cache.Service {
	if redis != nil {
		return cache.NewLayeredCache(redis, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
	}
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
}

// ProvidePriceSource creates the market data provider client.
func ProvidePriceSource(cfg *config.Config, m drepo.Metrics) drepo.PriceSource {
	return yahoo.New(cfg.Provider.BaseURL, m,
		yahoo.WithRange(cfg.Provider.Range),
		yahoo.WithInterval(cfg.Provider.Interval),
		yahoo.WithUserAgent(cfg.Provider.UserAgent),
		yahoo.WithTimeout(cfg.Provider.Timeout),
		yahoo.WithRetries(cfg.Provider.MaxRetries, cfg.Provider.RetryDelay),
		yahoo.WithRateLimit(cfg.Provider.RatePerSec, cfg.Provider.RateBurst),
	)
}

// ProvideMarketData creates the cached market data fetcher.
func ProvideMarketData(src drepo.PriceSource, c cache.Service, cfg *config.Config, l *applogger.Logger) *usecase.MarketData {
	return usecase.NewMarketData(src, c, cfg.Cache.TTL, cfg.Provider.MaxConcurrent, l)
}

// ProvideForecaster creates the signal tilt calculator.
func ProvideForecaster(tables *model.Tables, md *usecase.MarketData, m drepo.Metrics, l *applogger.Logger, cfg *config.Config) domsvc.Forecaster {
	return usecase.NewForecaster(tables, md, m, l, cfg.Model.MedianWindow)
}

// ProvideHTTPHandler assembles the route registrars.
func ProvideHTTPHandler(cfg *config.Config, l *applogger.Logger, f domsvc.Forecaster, md *usecase.MarketData) xhttp.Handler {
	handlers := []xhttp.Handler{api.NewDashboardHandler(l, f, md)}
	if cfg.Stream.Enabled {
		handlers = append(handlers, ws.NewStreamer(l, f, cfg.Stream.PushInterval))
	}
	return xhttp.CombineHandlers(handlers...)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, h xhttp.Handler, redis *cache.RedisCache) *server.App {
	return server.New(cfg, l, h, redis)
}

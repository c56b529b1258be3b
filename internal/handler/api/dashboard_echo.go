package api

import (
	"time"

	models "TiltBoard/internal/domain/models"
	domsvc "TiltBoard/internal/domain/service"
	xhttp "TiltBoard/pkg/http"
	xlogger "TiltBoard/pkg/logger"
	"TiltBoard/web"

	"github.com/labstack/echo/v4"
)

// DashboardHandler implements Echo-based HTTP handlers following Clean Architecture.
type DashboardHandler struct {
	logger     *xlogger.Logger
	forecaster domsvc.Forecaster
	health     domsvc.ProviderHealth
	started    time.Time
}

func NewDashboardHandler(logger *xlogger.Logger, forecaster domsvc.Forecaster, health domsvc.ProviderHealth) *DashboardHandler {
	return &DashboardHandler{logger: logger, forecaster: forecaster, health: health, started: time.Now()}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/signals", h.Signals)
	g.GET("/health", h.Health)
}

// Index serves the embedded dashboard page.
func (h *DashboardHandler) Index(c echo.Context) error {
	return c.HTMLBlob(200, web.IndexHTML)
}

func (h *DashboardHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecaster.Table(c.Request().Context(), req.Options())
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("market data provider unreachable").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Signals(c echo.Context) error {
	res, err := h.forecaster.Snapshot(c.Request().Context())
	if err != nil {
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("market data provider unreachable").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

// HealthResponse reports process liveness, provider reachability, and recent
// aggregated errors. Provider is "unknown" until the first fetch runs.
type HealthResponse struct {
	Status       string                       `json:"status"`
	Provider     string                       `json:"provider"`
	LastFetchAt  *time.Time                   `json:"last_fetch_at,omitempty"`
	UptimeSec    int64                        `json:"uptime_sec"`
	RecentErrors []xlogger.AggregatedLogEntry `json:"recent_errors,omitempty"`
}

func (h *DashboardHandler) Health(c echo.Context) error {
	res := HealthResponse{
		Status:    "ok",
		Provider:  "unknown",
		UptimeSec: int64(time.Since(h.started).Seconds()),
	}
	if h.health != nil {
		healthy, at := h.health.ProviderStatus()
		if !at.IsZero() {
			res.LastFetchAt = &at
			if healthy {
				res.Provider = "ok"
			} else {
				res.Provider = "unreachable"
				res.Status = "degraded"
			}
		}
	}
	if col := h.logger.Collector(); col != nil {
		res.RecentErrors = col.Recent()
	}
	return xhttp.SuccessResponse(c, res)
}

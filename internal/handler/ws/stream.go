package ws

import (
	"context"
	"net/http"
	"time"

	models "TiltBoard/internal/domain/models"
	domsvc "TiltBoard/internal/domain/service"
	xlogger "TiltBoard/pkg/logger"
	"TiltBoard/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Knob bounds, same as the REST request validation.
const (
	minBaseScale    = 0.5
	maxBaseScale    = 1.5
	minTiltStrength = 0
	maxTiltStrength = 2
)

// retune is the client -> server message adjusting the stream's knobs.
type retune struct {
	BaseScale    *float64 `json:"base_scale"`
	TiltStrength *float64 `json:"tilt_strength"`
}

// Streamer pushes a recomputed forecast table to dashboard clients on an
// interval, so the page updates without polling. Each connection carries its
// own knob state; a retune message triggers an immediate push.
type Streamer struct {
	logger     *xlogger.Logger
	forecaster domsvc.Forecaster
	interval   time.Duration
	upgrader   websocket.Upgrader
}

func NewStreamer(logger *xlogger.Logger, forecaster domsvc.Forecaster, interval time.Duration) *Streamer {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Streamer{
		logger:     logger,
		forecaster: forecaster,
		interval:   interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboard is same-origin; CORS already open on the API.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *Streamer) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", s.Serve)
}

func (s *Streamer) Serve(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	opts := models.ForecastOptions{BaseScale: 1.0, TiltStrength: 1.0, IncludeNotes: true}
	retunes := make(chan retune, 4)

	// read loop: retune messages and client close
	go func() {
		defer cancel()
		for {
			var msg retune
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case retunes <- msg:
			default:
				// drop on backpressure
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.push(ctx, conn, opts); err != nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-retunes:
			if msg.BaseScale != nil {
				opts.BaseScale = util.Clamp(*msg.BaseScale, minBaseScale, maxBaseScale)
			}
			if msg.TiltStrength != nil {
				opts.TiltStrength = util.Clamp(*msg.TiltStrength, minTiltStrength, maxTiltStrength)
			}
			if err := s.push(ctx, conn, opts); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := s.push(ctx, conn, opts); err != nil {
				return nil
			}
		}
	}
}

func (s *Streamer) push(ctx context.Context, conn *websocket.Conn, opts models.ForecastOptions) error {
	table, err := s.forecaster.Table(ctx, opts)
	if err != nil {
		s.logger.Warn("stream forecast error", xlogger.Error(err))
		return conn.WriteJSON(map[string]string{"error": "market data provider unreachable"})
	}
	return conn.WriteJSON(table)
}

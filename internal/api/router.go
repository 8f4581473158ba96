// Package api exposes the dashboard over HTTP with gin.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rxcast/internal/dashboard"
	"rxcast/internal/domain"
	"rxcast/internal/logging"
	"rxcast/internal/observability"
)

// ForecastSourceHeader reports where the forecast behind a reply came from.
const ForecastSourceHeader = "X-Forecast-Source"

// DefaultStreamInterval is how often the stream pushes the inventory.
const DefaultStreamInterval = 30 * time.Second

// Dashboard is the query surface served by the API.
type Dashboard interface {
	ListInventory(ctx context.Context) dashboard.InventoryResult
	ListForecast(ctx context.Context, ndc string) dashboard.ForecastResult
	ForecastSummary(ctx context.Context) dashboard.Summary
	SubmitPurchaseOrder(ctx context.Context, ndc string, qty int) domain.PurchaseOrderAck
}

// Handler serves the dashboard routes.
type Handler struct {
	dash           Dashboard
	logger         logrus.FieldLogger
	streamInterval time.Duration
	upgrader       websocket.Upgrader
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithStreamInterval sets the push interval of /api/v1/stream.
func WithStreamInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.streamInterval = d
		}
	}
}

// NewHandler creates a handler over dash.
func NewHandler(dash Dashboard, opts ...Option) *Handler {
	h := &Handler{
		dash:           dash,
		logger:         logging.Discard(),
		streamInterval: DefaultStreamInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The dashboard UI is served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the gin engine with middleware and all routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(h.logger))
	r.Use(Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/inventory", h.listInventory)
		v1.GET("/forecast/:ndc", h.listForecast)
		v1.GET("/forecast-summary", h.forecastSummary)
		v1.POST("/purchase-orders", h.submitPurchaseOrder)
		v1.GET("/stream", h.stream)
	}

	r.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found")
	})

	return r
}

// Package main runs a stand-in forecasting backend that serves a fixed
// seven-day Tamiflu demand series on GET /predict, with the live openFDA
// shortage status when enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rxcast/internal/domain"
	"rxcast/internal/logging"
)

// Placeholder series served until a trained model is wired in.
var (
	placeholderDates  = []string{"2025-09-21", "2025-09-22", "2025-09-23", "2025-09-24", "2025-09-25", "2025-09-26", "2025-09-27"}
	placeholderDemand = []float64{150, 165, 180, 170, 160, 140, 120}
)

const (
	placeholderStatus     = "Warning: Potential Local Shortage"
	placeholderConfidence = 0.92
)

func main() {
	addr := flag.String("addr", envOr("FORECASTD_ADDR", ":8000"), "HTTP listen address")
	fdaEndpoint := flag.String("fda-endpoint", envOr("FDA_SHORTAGES_ENDPOINT", DefaultFDAEndpoint), "openFDA drug shortages endpoint")
	fdaEnabled := flag.Bool("fda", true, "Query openFDA for the shortage status")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger := logging.New(*logLevel, "json")
	gin.SetMode(gin.ReleaseMode)

	var fda ShortageChecker = staticStatus(FDAStatusNormal)
	if *fdaEnabled {
		fda = NewFDAClient(*fdaEndpoint, WithLogger(logger))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newRouter(fda, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", *addr).Info("forecastd listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("forecastd stopped")
	}
}

func newRouter(fda ShortageChecker, logger logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors())

	r.GET("/predict", func(c *gin.Context) {
		confidence := placeholderConfidence
		resp := domain.RawForecastResponse{
			ForecastDates:   placeholderDates,
			PredictedDemand: placeholderDemand,
			Status:          placeholderStatus,
			Confidence:      &confidence,
			FDAStatus:       fda.ShortageStatus(c.Request.Context()),
		}
		logger.WithField("fda_status", resp.FDAStatus).Debug("served prediction")
		c.JSON(http.StatusOK, resp)
	})

	return r
}

// cors allows the dashboard to call the backend from any origin.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

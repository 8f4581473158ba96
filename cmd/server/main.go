// Package main runs the inventory dashboard API:
// - Gateway: fetches the upstream demand forecast once and caches it
// - Dashboard: inventory risk table, forecast bands, purchase-order stub
// - HTTP: JSON API, inventory stream, health and Prometheus metrics
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rxcast/internal/api"
	"rxcast/internal/config"
	"rxcast/internal/dashboard"
	"rxcast/internal/gateway"
	"rxcast/internal/logging"
	"rxcast/internal/risk"
	"rxcast/internal/storage"
)

func main() {
	// Load .env file if exists
	loadEnvFile(".env")

	configPath := flag.String("config", os.Getenv("RXCAST_CONFIG"), "Path to YAML config file (optional)")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server error")
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, cleanup, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer cleanup()

	inserted, err := storage.Seed(ctx, store, cfg.Seed)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"driver":  cfg.Storage.Driver,
		"seeded":  inserted,
		"tracked": len(cfg.Seed),
	}).Info("inventory store ready")

	baseURL := gateway.ResolveBaseURL(cfg.Backend.URL, cfg.Backend.PublicOrigin)
	gw := gateway.New(
		gateway.NewHTTPClient(baseURL, gateway.WithTimeout(cfg.Backend.Timeout)),
		gateway.WithSlot(gateway.NewSlot(cfg.Backend.SingleFlight)),
		gateway.WithLogger(logger.WithField("component", "gateway")),
	)

	svc := dashboard.NewService(store, gw,
		dashboard.WithEvaluator(risk.NewEvaluator(risk.WithSafetyBuffer(cfg.Risk.SafetyBuffer))),
		dashboard.WithNDCPrefix(cfg.Forecast.NDCPrefix),
		dashboard.WithOrderWindow(cfg.Orders.Window),
		dashboard.WithLogger(logger.WithField("component", "dashboard")),
	)

	handler := api.NewHandler(svc,
		api.WithLogger(logger.WithField("component", "api")),
		api.WithStreamInterval(cfg.Stream.Interval),
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    cfg.Server.Addr,
			"backend": baseURL,
		}).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal, draining connections")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// loadEnvFile loads environment variables from path if it exists.
// Variables already set in the environment win.
func loadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, set := os.LookupEnv(key); !set {
			os.Setenv(key, value)
		}
	}
}

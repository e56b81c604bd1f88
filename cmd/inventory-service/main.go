package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	inventoryservice "github.com/gideon-jacob/online-shop-microservices/internal/inventory-service"
	"github.com/gideon-jacob/online-shop-microservices/internal/inventory-service/adapters/httpx"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/telemetry"
)

type config struct {
	Port        string           `envconfig:"PORT" default:"8082"`
	StockLevels map[string]int32 `envconfig:"STOCK_LEVELS" default:"prod_1:15,prod_2:10,prod_3:0"`
	LogLevel    string           `envconfig:"LOG_LEVEL" default:"info"`

	ServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"inventory-service"`
	OTLPEndpoint   string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	Environment    string `envconfig:"OTEL_ENVIRONMENT" default:"local"`
	TracingEnabled bool   `envconfig:"OTEL_ENABLED" default:"true"`
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process("INVENTORY", &cfg); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(telemetry.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.Environment)
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	stock := inventoryservice.NewStock(cfg.StockLevels)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.NewRouter(httpx.NewHandler(stock)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("inventory service HTTP running", "addr", srv.Addr, "skus", len(cfg.StockLevels))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

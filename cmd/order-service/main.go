package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/adapters/httpx"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/adapters/inventory"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/adapters/postgres"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/adapters/sqlite"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/app"
	"github.com/gideon-jacob/online-shop-microservices/internal/order-service/placementlog"
	placementsqlite "github.com/gideon-jacob/online-shop-microservices/internal/order-service/placementlog/sqlite"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/cache"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/config"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/interceptors"
	"github.com/gideon-jacob/online-shop-microservices/internal/pkg/telemetry"
)

const healthServiceName = "order-service"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
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

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open order store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var (
		placementLog     placementlog.Repository
		placementHistory placementlog.Reader
	)
	if cfg.PlacementLogPath != "" {
		repo, err := placementsqlite.Open(cfg.PlacementLogPath)
		if err != nil {
			slog.Error("failed to open placement log", "path", cfg.PlacementLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		placementLog = repo
		placementHistory = repo
	}

	inventoryClient := inventory.NewClient(cfg.InventoryBaseURL, &http.Client{})
	orders := app.NewPlacementService(inventoryClient, store, placementLog, cfg.InventoryTimeout)

	var idempotency cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, "order")
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, replay will retry per request", "addr", cfg.RedisAddr, "error", err)
		}
		idempotency = redisCache
	}

	handler := httpx.NewHandler(orders, idempotency, cfg.IdempotencyTTL).WithPlacementLog(placementHistory)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	errCh := make(chan error, 2)
	go func() {
		slog.Info("order service gRPC admin running", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("order service HTTP running", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server failed", "error", err)
	}

	healthSrv.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
}

func openStore(ctx context.Context, cfg *config.Config) (app.OrderStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PGURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store := postgres.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/app/background"
	"github.com/LavaJover/shvark-exchange-service/internal/app/setup"
	"github.com/LavaJover/shvark-exchange-service/internal/config"
	"github.com/LavaJover/shvark-exchange-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "exchange-service"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger, logCloser, err := logger.New(cfg.LogConfig, serviceName, cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	ucs, err := setup.InitializeUseCases(ctx, deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}
	defer ucs.Close()

	// Фоновые задачи
	tasks := background.NewBackgroundTasks(ucs.MarketService, cfg.MarketData.RefreshInterval, appLogger)
	tasks.StartAll(ctx)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterDeps{
		Quotes:       ucs.QuoteUsecase,
		Transactions: ucs.TransactionUsecase,
		Tiers:        ucs.TierUsecase,
		Market:       ucs.MarketService,
		Book:         ucs.TierBook,
		Gatherer:     deps.Registry,
		AdminToken:   cfg.Admin.Token,
		Logger:       appLogger,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// gRPC: только health, статус следует за состоянием тиров
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	go watchTierBook(ctx, ucs.TierBook, healthServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	errCh := make(chan error, 2)
	go func() {
		appLogger.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		appLogger.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("shutting down")
	case err := <-errCh:
		appLogger.Error("server failed", "error", err)
		stop()
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	tasks.Wait()
}

func watchTierBook(ctx context.Context, book usecase.RatesView, hs *health.Server) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		status := healthpb.HealthCheckResponse_SERVING
		if state, snapshot := book.View(); state == usecase.BookUnavailable || snapshot == nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
		hs.SetServingStatus(serviceName, status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/icecream-stock/internal/adapter/handler"
	"github.com/rl1809/icecream-stock/internal/adapter/storage"
	"github.com/rl1809/icecream-stock/internal/config"
	"github.com/rl1809/icecream-stock/internal/core/service"
	"github.com/rl1809/icecream-stock/internal/logger"
	"github.com/rl1809/icecream-stock/internal/metrics"
	"github.com/rl1809/icecream-stock/internal/port"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, config.ServiceName)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	os.Exit(exitCode(lg, run(cfg, lg)))
}

// exitCode logs a failed run and flushes the logger, since os.Exit skips deferred calls.
func exitCode(lg *zap.Logger, err error) int {
	if err != nil {
		lg.Error("server stopped with error", zap.Error(err))
	}
	_ = lg.Sync()
	if err != nil {
		return 1
	}
	return 0
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("starting",
		zap.String("version", config.ServiceVersion),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("grpc_addr", cfg.GRPCAddr),
	)

	var repo port.StockRepository
	if cfg.DBDriver == storage.DriverMemory {
		lg.Warn("using in-memory storage, stock is lost on exit")
		repo = storage.NewMemoryAdapter()
	} else {
		db, err := storage.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, storage.PoolOptions{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				lg.Error("failed to close database", zap.Error(err))
			}
		}()
		lg.Info("connected to database", zap.String("driver", cfg.DBDriver))

		repo, err = storage.NewRepository(db)
		if err != nil {
			return err
		}
	}

	var publisher port.StockPublisher = storage.NopPublisher{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() {
			if err := rdb.Close(); err != nil {
				lg.Error("failed to close redis", zap.Error(err))
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Notifications are best effort; the client reconnects on its own.
			lg.Warn("redis not reachable, stock updates may not be published",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			lg.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		}
		publisher = storage.NewRedisAdapter(rdb, cfg.RedisChannel)
	}

	stockService := service.NewStockService(repo, publisher, lg)
	if err := stockService.Bootstrap(ctx); err != nil {
		return err
	}

	healthChecker := handler.NewHealthChecker(stockService, cfg.HealthCheckInterval, lg)

	grpcServer := grpc.NewServer()
	healthChecker.Register(grpcServer)

	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	httpHandler := handler.NewHTTPHandler(stockService, healthChecker, lg)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(httpHandler, metrics.NewHTTPMetrics(), cfg.CORSAllowedOrigins, lg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return healthChecker.Run(gctx)
	})

	g.Go(func() error {
		lg.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(grpcListener); err != nil {
			return fmt.Errorf("serve grpc: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lg.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			lg.Error("failed to shut down HTTP server", zap.Error(err))
		}
		lg.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		lg.Info("gRPC server stopped")
		return nil
	})

	return g.Wait()
}

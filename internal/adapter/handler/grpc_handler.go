package handler

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const StockServiceName = "ice_creams.StockService"

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker feeds the gRPC health service and /health from periodic storage pings.
type HealthChecker struct {
	pinger   Pinger
	server   *health.Server
	interval time.Duration
	logger   *zap.Logger
	healthy  atomic.Bool
}

func NewHealthChecker(pinger Pinger, interval time.Duration, logger *zap.Logger) *HealthChecker {
	h := &HealthChecker{
		pinger:   pinger,
		server:   health.NewServer(),
		interval: interval,
		logger:   logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

func (h *HealthChecker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

func (h *HealthChecker) Healthy() bool {
	return h.healthy.Load()
}

// Check pings storage once and publishes the result.
func (h *HealthChecker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	err := h.pinger.Ping(ctx)
	ok := err == nil

	if was := h.healthy.Swap(ok); was != ok {
		if ok {
			h.logger.Info("storage reachable")
		} else {
			h.logger.Error("storage unreachable", zap.Error(err))
		}
	}

	if ok {
		h.setStatus(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return ok
}

// Run checks immediately and then every interval until ctx is done.
func (h *HealthChecker) Run(ctx context.Context) error {
	h.Check(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

func (h *HealthChecker) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(StockServiceName, status)
}

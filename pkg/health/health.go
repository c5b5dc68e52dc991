// Package health exposes an aggregated health endpoint over the
// service's external dependencies (Mongo, Redis, RabbitMQ).
package health

import (
	"net/http"

	"github.com/formforge/form-service/pkg/logger"
	"go.uber.org/zap"
)

type (
	// Healther is implemented by any dependency that can report
	// whether it is ready to serve requests. Implementations should
	// answer quickly; the check runs on every probe.
	Healther interface {
		IsHealthy() bool
	}

	// HealthChecker aggregates multiple Healther implementations and
	// reports overall service health.
	HealthChecker struct {
		logger    *logger.Logger
		healthers []Healther
	}
)

func NewHealthChecker(logger *logger.Logger, healthers ...Healther) *HealthChecker {
	return &HealthChecker{
		healthers: healthers,
		logger:    logger,
	}
}

// HealthCheck answers 200 "OK" when every registered dependency is
// healthy, 500 "Not OK" otherwise. Every dependency is probed even
// after the first failure so all problems get logged.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ok := true

	for _, healther := range h.healthers {
		if !healther.IsHealthy() {
			ok = false
			h.logger.Error("health check failed")
		}
	}

	if ok {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	} else {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Not OK"))
	}
}

// StartHealthCheckServer serves GET /health on its own listener so
// probes stay reachable independently of the API server. Blocks;
// run in a goroutine.
func (h *HealthChecker) StartHealthCheckServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HealthCheck)

	h.logger.Info("starting health check server", zap.String("addr", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		h.logger.Error("failed to start health check server", zap.Error(err))
	}
}

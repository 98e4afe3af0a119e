package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// UploadBytes records the size of accepted media uploads.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quill_upload_bytes",
		Help:    "Size distribution of accepted media uploads in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	// GateVerifications counts sensitive-entry password checks by outcome.
	GateVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_gate_verifications_total",
		Help: "Total sensitive-entry password verifications by outcome",
	}, []string{"outcome"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

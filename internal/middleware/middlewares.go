package middleware

import (
	"github.com/deppfellow/projects-api/internal/server"
)

// Middlewares is a lightweight container that groups all middleware components
// used by the HTTP server.
//
// It keeps middleware construction in one place so the router only wires
// them in order.
type Middlewares struct {
	// Global holds common middleware used across the whole API:
	// CORS, request logging, recovery, secure headers, and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and custom transaction attributes.
	Tracing *TracingMiddleware

	// RateLimit enforces the optional per-client request rate.
	RateLimit *RateLimitMiddleware

	// Metrics records Prometheus request metrics.
	Metrics *MetricsMiddleware

	// Project gates routes carrying a project :id.
	Project *ProjectMiddleware
}

// NewMiddlewares constructs all middleware components using the application container.
//
// When New Relic is not configured, nrApp is nil and the tracing middleware
// degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	nrApp := s.LoggerService.GetApplication()

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
		Metrics:         NewMetricsMiddleware(s),
		Project:         NewProjectMiddleware(s),
	}
}

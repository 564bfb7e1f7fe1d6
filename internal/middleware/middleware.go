// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request logging, request ids, tracing, metrics, CORS,
// rate limiting, panic recovery and project id validation
package middleware

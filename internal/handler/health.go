package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/projects-api/internal/middleware"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/deppfellow/projects-api/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes a "system" endpoint that load balancers and
// uptime monitors use to verify the service is alive.
type HealthHandler struct {
	Handler
	projects *service.ProjectService
}

func NewHealthHandler(s *server.Server, projects *service.ProjectService) *HealthHandler {
	return &HealthHandler{
		Handler:  NewHandler(s),
		projects: projects,
	}
}

// HealthResponse is the GET /status body.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]HealthCheck `json:"checks"`
}

// HealthCheck reports a single dependency.
type HealthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Projects     int    `json:"projects"`
}

// CheckHealth returns system health status and the project store check.
//
// The store lives in process memory, so as long as the process answers it
// is healthy; the check reports its size for operators.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	storeStart := time.Now()
	count := h.projects.CountProjects()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks: map[string]HealthCheck{
			"store": {
				Status:       "healthy",
				ResponseTime: time.Since(storeStart).String(),
				Projects:     count,
			},
		},
	}

	logger.Debug().
		Int("projects", count).
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":    "response",
				"operation":     "health_check",
				"error_type":    "json_response_error",
				"error_message": err.Error(),
			})
		}

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

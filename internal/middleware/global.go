package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/projects-api/internal/errs"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups “global” middleware and the global error handler.
//
// Middleware functions read shared app dependencies (config, logger)
// from *server.Server.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo’s CORS middleware configured by your server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// TimerKey is the key shared by the start and end log lines of one request.
//
//	TimerKey("PUT", "/projects/42") == "[PUT] /projects/42"
func TimerKey(method, path string) string {
	return fmt.Sprintf("[%s] %s", method, path)
}

// RequestLogger logs a start line before the rest of the chain runs and an
// end line, with the elapsed time, once the response has been written.
//
// Errors from the chain are handed to the HTTP error handler here rather
// than after the chain unwinds, so elapsed and status cover the error
// response too. Middleware outside of RequestLogger sees a nil error.
//
// Both lines carry the same "timer" field. The end line is emitted from a
// defer, so it is also written for panics travelling up the chain.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timer := TimerKey(c.Request().Method, c.Request().URL.Path)
			logger := GetLogger(c)

			logger.Info().Str("timer", timer).Msg("request started")

			start := time.Now()
			completed := false
			var err error

			defer func() {
				elapsed := time.Since(start)

				statusCode := ResponseStatus(c, err)
				if c.Response().Committed {
					statusCode = c.Response().Status
				}
				if !completed {
					// A panic is unwinding through us; whoever recovers it
					// will answer with a 500.
					statusCode = http.StatusInternalServerError
				}

				// Pick log level based on status:
				// - 5xx = server fault -> Error
				// - 4xx = client fault -> Warn
				// - otherwise -> Info
				var e *zerolog.Event
				switch {
				case statusCode >= 500:
					e = logger.Error().Err(err)
				case statusCode >= 400:
					e = logger.Warn()
				default:
					e = logger.Info()
				}

				e.
					Str("timer", timer).
					Dur("elapsed", elapsed).
					Int("status", statusCode).
					Bool("panicked", !completed).
					Msg("request completed")
			}()

			err = next(c)
			if err != nil {
				c.Error(err)
			}
			completed = true

			return nil
		}
	}
}

// ResponseStatus reports the status a request ends with.
//
// When a handler returns an error, Echo has not written the response yet:
// the global error handler runs after the whole middleware chain has
// returned. In that case the status is derived from the error type.
// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
func ResponseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// Recover returns Echo’s panic recovery middleware.
//
// Panics are turned into errors and handed to the global error handler,
// which answers with a JSON 500.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo’s secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error returned by a handler or middleware ends up here and is
// translated into the `{ "error": "..." }` response shape.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// Keep the original error for logging.
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			switch {
			case echoErr.Code == http.StatusNotFound:
				httpErr = errs.NewNotFoundError("Route not found", nil)
			default:
				httpErr = &errs.HTTPError{
					Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
					Message: echoMessage(echoErr),
					Status:  echoErr.Code,
				}
			}
		} else {
			// Anything unclassified (including recovered panics) is a 500.
			// The real error is logged, never sent to the client.
			httpErr = errs.NewInternalServerError()
		}
	}

	logger := GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= http.StatusInternalServerError {
		e = logger.Error().Stack()
	} else {
		e = logger.Warn()
	}

	e.
		Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	// Only write response if it hasn’t already been written.
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, errs.HTTPError{
		Message: httpErr.Message,
		Errors:  httpErr.Errors,
	})
}

// echoMessage normalizes Echo's interface{} message into a string.
func echoMessage(echoErr *echo.HTTPError) string {
	if msg, ok := echoErr.Message.(string); ok {
		return msg
	}
	return http.StatusText(echoErr.Code)
}

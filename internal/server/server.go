// Package server exposes the application over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ohare93/pacer/internal/app"
	"github.com/ohare93/pacer/internal/config"
	"github.com/ohare93/pacer/internal/project"
	"github.com/ohare93/pacer/internal/telemetry"
)

// Server serves the pacer API
type Server struct {
	echo    *echo.Echo
	app     *app.App
	cfg     config.ServerConfig
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// requestValidator adapts validator to echo.Validator
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// New creates a server for a. logger and m may be nil.
func New(a *app.App, cfg config.ServerConfig, logger *zap.Logger, m *telemetry.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Validator = &requestValidator{validate: validator.New()}

	s := &Server{
		echo:    e,
		app:     a,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(s.logRequests)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic serving request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}).Handler))

	s.registerRoutes()
	return s
}

// Handler returns the full handler chain
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", zap.String("addr", s.cfg.Addr))
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("API server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// logRequests records every request once its final status is known. Handler
// errors are rendered here so the logged status matches the response.
func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		req, res := c.Request(), c.Response()
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Request(req.Method+" "+route, strconv.Itoa(res.Status))
		s.logger.Debug("http request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", res.Status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)))
		return nil
	}
}

// decode reads and validates a JSON body into v. Unknown fields are rejected.
func decode(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return project.Invalidf("invalid request body: %v", err)
	}
	if err := c.Validate(v); err != nil {
		return project.Invalidf("invalid request: %v", err)
	}
	return nil
}

// handleError maps domain errors to status codes
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status = he.Code
		msg = fmt.Sprint(he.Message)
	case errors.Is(err, project.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case project.IsInvalid(err):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		s.logger.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: msg})
}

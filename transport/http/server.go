package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/slighter12/mcp-toolserver-go/config"
	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/tools"
	"github.com/slighter12/mcp-toolserver-go/transport/shared"
)

type Server struct {
	toolManager *tools.Manager
	dispatcher  *shared.Dispatcher
	config      *config.Config
	echo        *echo.Echo
}

func NewServer(cfg *config.Config, toolManager *tools.Manager, dispatcher *shared.Dispatcher) *Server {
	s := &Server{
		toolManager: toolManager,
		dispatcher:  dispatcher,
		config:      cfg,
		echo:        echo.New(),
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Debug = s.config.Server.Debug
	s.echo.HTTPErrorHandler = errorHandler

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.InfoContext(c.Request().Context(), "HTTP request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	RegisterRoutes(s.echo, s)
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	addr := s.config.Addr()
	logger.Info("HTTP server starting to listen", "address", addr, "tools", s.toolManager.Count())
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routed echo instance.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// errorHandler renders framework errors in the {"detail": ...} shape.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)
	if he, ok := errors.AsType[*echo.HTTPError](err); ok {
		code = he.Code
		detail = fmt.Sprint(he.Message)
	} else {
		logger.Error("Unhandled HTTP error", "error", err, "uri", c.Request().RequestURI)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, detailBody(detail))
	}
	if err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}

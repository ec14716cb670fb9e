package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kartoza/house-predictor/internal/api"
	"github.com/kartoza/house-predictor/internal/config"
	"github.com/kartoza/house-predictor/internal/middleware"
	"github.com/kartoza/house-predictor/internal/model"
	"github.com/kartoza/house-predictor/internal/predict"
	"github.com/kartoza/house-predictor/internal/ui"
	"go.uber.org/zap"
)

// ServiceName identifies the server in traces
const ServiceName = "house-predictor"

// Server holds all the components for the web application
type Server struct {
	cfg        config.Config
	logger     *zap.Logger
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	svc        *predict.Service
}

// New loads the model and wires the routes. The model is loaded once and
// shared read-only by every request.
func New(cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := model.Load(cfg.ModelType, cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}
	logger.Info("model loaded",
		zap.String("path", cfg.ModelPath),
		zap.Any("info", describe(m)),
	)

	m, err = model.NewCached(m, cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create prediction cache: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: mux.NewRouter(),
		svc:    predict.New(m, predict.Options{StrictValidation: cfg.StrictValidation}, logger),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes and the middleware chain
func (s *Server) setupRoutes() {
	api.NewHandler(s.svc, s.cfg, s.logger).RegisterRoutes(s.router)
	ui.NewHandler(s.svc, s.cfg.UIPath, s.logger).RegisterRoutes(s.router)

	chain := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger(s.logger),
		middleware.Recover(s.logger),
	}
	if s.cfg.Tracing {
		chain = append([]middleware.Middleware{middleware.OTel(ServiceName)}, chain...)
	}
	s.handler = middleware.Chain(s.router, chain...)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for HTTP connections. It returns nil once the
// server has been stopped.
func (s *Server) Start() error {
	s.logger.Info("server listening",
		zap.String("addr", s.cfg.Addr()),
		zap.String("ui", s.cfg.UIPath),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

func describe(m model.Model) map[string]interface{} {
	if d, ok := m.(model.Describer); ok {
		return d.Info()
	}
	return nil
}

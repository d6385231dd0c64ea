package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cleansight/cleansight/internal/engine"
	"github.com/cleansight/cleansight/internal/storage"
	"github.com/cleansight/cleansight/pkg/models"
)

// Config contains HTTP server configuration.
type Config struct {
	Host            string        `json:"host" mapstructure:"host"`
	Port            int           `json:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxRequestSize  int64         `json:"max_request_size" mapstructure:"max_request_size"`
	EnableMetrics   bool          `json:"enable_metrics" mapstructure:"enable_metrics"`
}

// DefaultConfig returns the server defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MaxRequestSize:  64 << 20,
		EnableMetrics:   true,
	}
}

// Server exposes the analysis engine over HTTP.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *logrus.Logger
	config     *Config
	engine     *engine.Engine
	store      storage.ReportStore
}

// NewServer creates an HTTP server around the given engine policy and report
// store.
func NewServer(config *Config, analysisCfg *models.AnalysisConfig, store storage.ReportStore, logger *logrus.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
		config: config,
		engine: engine.New(analysisCfg, logger),
		store:  store,
	}

	s.setupRoutes()
	s.setupMiddleware()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/profile", s.handleProfile).Methods(http.MethodPost)
	api.HandleFunc("/score", s.handleScore).Methods(http.MethodPost)
	api.HandleFunc("/clean", s.handleClean).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id}", s.handleGetReport).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.config.EnableMetrics {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metricsMiddleware)
}

// Start runs the HTTP server until it is stopped or fails.
func (s *Server) Start() error {
	s.logger.Infof("Starting HTTP server on %s:%d", s.config.Host, s.config.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/MineBot/bridge/internal/api/http"
	"github.com/GriffinCanCode/MineBot/bridge/internal/api/middleware"
	"github.com/GriffinCanCode/MineBot/bridge/internal/bridge"
	"github.com/GriffinCanCode/MineBot/bridge/internal/command"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/MineBot/bridge/internal/scheduler"
	"github.com/GriffinCanCode/MineBot/bridge/internal/session"
	"github.com/GriffinCanCode/MineBot/bridge/internal/structure"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and the dispatch pipeline it hosts
type Server struct {
	router    *gin.Engine
	http      *http.Server
	scheduler *scheduler.Scheduler
	worker    *bridge.Worker
	client    *bridge.Client
	hub       *session.Hub
	tracer    *tracing.Tracer
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing MineBot bridge",
		zap.String("port", cfg.Server.Port),
		zap.String("bridge_url", cfg.Bridge.URL),
		zap.Bool("strict_sequences", cfg.Dispatch.StrictSequences),
	)

	// Private registry so /metrics carries only what this process exports
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	whitelist := command.DefaultWhitelist()
	if cfg.Dispatch.WhitelistFile != "" {
		whitelist, err = command.LoadWhitelist(cfg.Dispatch.WhitelistFile)
		if err != nil {
			metrics.Close()
			return nil, fmt.Errorf("failed to load whitelist: %w", err)
		}
	}
	logger.Info("Command whitelist loaded", zap.Int("commands", whitelist.Len()))

	tracer := tracing.New("minebot-bridge", logger.Logger)
	sched := scheduler.New(logger.Logger).WithMetrics(metrics)
	worker := bridge.NewWorker(bridge.DefaultQueueSize, logger.Logger)
	client := bridge.NewClient(bridge.Options{
		BaseURL:           cfg.Bridge.URL,
		ConnectTimeout:    cfg.Bridge.ConnectTimeout.Duration,
		ChatTimeout:       cfg.Bridge.ChatTimeout.Duration,
		ResetTimeout:      cfg.Bridge.ResetTimeout.Duration,
		RequestsPerSecond: cfg.Bridge.RequestsPerSecond,
		Logger:            logger.Logger,
		Metrics:           metrics,
		Tracer:            tracer,
	})

	hub := session.NewHub(metrics)
	sessions := session.NewHandler(session.Options{
		Hub:             hub,
		Scheduler:       sched,
		Validator:       command.NewValidator(whitelist),
		Generator:       &structure.Generator{Offset: cfg.Dispatch.BuildOffset},
		Inference:       client,
		Worker:          worker,
		CommandInterval: cfg.Dispatch.CommandInterval.Duration,
		BuildInterval:   cfg.Dispatch.BuildInterval.Duration,
		ProgressEvery:   cfg.Dispatch.ProgressEvery,
		Strict:          cfg.Dispatch.StrictSequences,
		ChatPrefix:      cfg.Chat.Prefix,
		ChatMaxLength:   cfg.Chat.MaxLength,
		ChatCooldown:    cfg.Chat.Cooldown.Duration,
		Logger:          logger.Logger,
		Metrics:         metrics,
	})

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	// Register routes
	apihttp.NewHandlers(hub, sched, client, whitelist, registry).Register(router)
	router.GET("/session", sessions.HandleConnection)

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		scheduler: sched,
		worker:    worker,
		client:    client,
		hub:       hub,
		tracer:    tracer,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Router exposes the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var err error
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("Failed to shut down HTTP server", zap.Error(shutdownErr))
			err = fmt.Errorf("failed to shut down http server: %w", shutdownErr)
		}
	}

	// Upgraded connections are not tracked by http.Server
	s.hub.CloseAll()
	s.worker.Close()
	s.scheduler.Stop()
	s.tracer.Close()
	s.metrics.Close()

	_ = s.logger.Sync()
	return err
}

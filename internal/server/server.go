package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/court-availability-service/internal/app/availability"
	"github.com/preston-bernstein/court-availability-service/internal/config"
	httpserver "github.com/preston-bernstein/court-availability-service/internal/http"
	"github.com/preston-bernstein/court-availability-service/internal/http/handlers"
	"github.com/preston-bernstein/court-availability-service/internal/http/middleware"
	"github.com/preston-bernstein/court-availability-service/internal/logging"
	"github.com/preston-bernstein/court-availability-service/internal/metrics"
	"github.com/preston-bernstein/court-availability-service/internal/providers"
	"github.com/preston-bernstein/court-availability-service/internal/tracing"
	"github.com/preston-bernstein/court-availability-service/internal/warmer"
)

var (
	metricsSetup = metrics.Setup
	tracingSetup = tracing.Setup
)

// Warmer refreshes cached lookups in the background.
type Warmer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	search        *availability.Service
	chain         directoryChain
	warmer        Warmer
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	tracingStop   func(context.Context) error
}

// New constructs a server with the configured upstream directory.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithDirectory(cfg, logger, nil)
}

// newServerWithDirectory wraps base with the standard decorators. A nil base
// selects the configured provider.
func newServerWithDirectory(cfg config.Config, logger *slog.Logger, base providers.VenueDirectory) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)
	tracingShutdown := buildTracing(cfg, logger)

	factory := newProviderFactory(logger, recorder)
	var chain directoryChain
	if base == nil {
		chain = factory.build(cfg)
	} else {
		chain = factory.wrap(cfg, base)
	}
	svc := newSearchService(cfg, logger, recorder, chain)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		search:        svc,
		chain:         chain,
		warmer:        buildWarmer(cfg, chain, logger, recorder),
		httpServer:    buildHTTPServer(cfg, svc, chain.ready, logger, recorder),
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		tracingStop:   tracingShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, metricsSrv httpServer) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
	}
}

func buildHTTPServer(cfg config.Config, svc handlers.Searcher, readyFn func() bool, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := handlers.NewHandler(svc, logger, readyFn)
	router := httpserver.NewRouter(handler)
	wrapped := middleware.Tracing("http.server", middleware.LoggingMiddleware(logger, recorder, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// buildWarmer returns nil unless the cache is on and places are configured.
func buildWarmer(cfg config.Config, chain directoryChain, logger *slog.Logger, recorder *metrics.Recorder) Warmer {
	if !cfg.Cache.WarmingEnabled() {
		return nil
	}
	if cfg.Cache.WarmInterval >= cfg.Cache.TTL && logger != nil {
		logger.Warn("cache warm interval is not shorter than the cache ttl; entries may expire between passes",
			slog.Duration("interval", cfg.Cache.WarmInterval),
			slog.Duration("ttl", cfg.Cache.TTL),
		)
	}
	return warmer.New(chain.directory, cfg.Cache.WarmPlaces, logger, recorder, cfg.Cache.WarmInterval)
}

// Run starts the HTTP and metrics servers and the cache warmer, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.warmer != nil {
		s.warmer.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting",
			slog.String("addr", s.httpServer.Addr()),
			slog.String("provider", s.chain.name),
		)
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.warmer != nil {
		if err := s.warmer.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop cache warmer", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.tracingStop != nil {
		if err := s.tracingStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("tracing shutdown failed", "error", err)
		}
	}

	if err := s.chain.Close(); err != nil && s.logger != nil {
		s.logger.Warn("cache close failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func buildTracing(cfg config.Config, logger *slog.Logger) func(context.Context) error {
	shutdown, err := tracingSetup(context.Background(), tracing.Config{
		ServiceName: cfg.Metrics.ServiceName,
		Endpoint:    cfg.Metrics.OtlpEndpoint,
		Insecure:    cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		if logger != nil {
			logger.Warn("tracing setup failed, continuing without traces", "err", err)
		}
		return nil
	}
	return shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	appreplay "github.com/preston-bernstein/nba-replay-service/internal/app/replay"
	"github.com/preston-bernstein/nba-replay-service/internal/config"
	"github.com/preston-bernstein/nba-replay-service/internal/fixtures"
	httpserver "github.com/preston-bernstein/nba-replay-service/internal/http"
	"github.com/preston-bernstein/nba-replay-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
	"github.com/preston-bernstein/nba-replay-service/internal/providers"
	"github.com/preston-bernstein/nba-replay-service/internal/providers/cached"
	"github.com/preston-bernstein/nba-replay-service/internal/replay"
	"github.com/preston-bernstein/nba-replay-service/internal/warmup"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	service       *appreplay.Service
	httpServer    httpServer
	metricsServer httpServer
	warmup        Warmup
	metricsStop   func(context.Context) error
	closers       []func() error
}

// New constructs a server wired to the live data CDN.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithUpstream(cfg config.Config, logger *slog.Logger, upstream providers.Upstream) *Server {
	return newServerWithMetrics(cfg, logger, upstream, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, upstream providers.Upstream, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if upstream == nil {
		upstream = buildUpstream(cfg, logger, recorder)
	} else {
		upstream = providers.NewInstrumentedUpstream(upstream, logger, recorder, "upstream")
	}

	fs := fixtures.NewFSStore(cfg.AssetsDir)
	docs, closeDocs := buildDocumentStore(cfg, fs, logger)
	svc := buildService(fs, docs, upstream, logger, recorder)

	var wu Warmup
	if cfg.Warmup.Enabled {
		wu = warmup.New(svc, logger, recorder, cfg.Warmup.Interval)
	}
	httpSrv := buildHTTPServer(cfg, svc, logger, recorder, wu)

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		service:       svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		warmup:        wu,
		metricsStop:   metricsShutdown,
	}
	if closeDocs != nil {
		s.closers = append(s.closers, closeDocs)
	}
	return s
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *appreplay.Service, httpSrv httpServer, wu Warmup) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpSrv,
		warmup:     wu,
	}
}

func buildService(fs *fixtures.FSStore, docs cached.DocumentStore, upstream providers.Upstream, logger *slog.Logger, recorder *metrics.Recorder) *appreplay.Service {
	cache := replay.NewCache(cached.New(docs, upstream, logger), logger, recorder)
	clock := replay.NewClock(cache, logger, recorder)
	return appreplay.NewService(fs, cache, clock, logger)
}

func buildHTTPServer(cfg config.Config, svc *appreplay.Service, logger *slog.Logger, recorder *metrics.Recorder, wu Warmup) httpServer {
	var statusFn func() warmup.Status
	if wu != nil {
		statusFn = wu.Status
	}
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	handler := handlers.NewHandler(svc, logger, statusFn)
	router := httpserver.NewRouter(handler, logger, recorder)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the warmup loop and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.warmup != nil {
		s.warmup.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
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
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.warmup != nil {
		if err := s.warmup.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop warmup", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logging.Warn(s.logger, "close dependency failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
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

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "error", err)
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

// Service exposes the replay service.
func (s *Server) Service() *appreplay.Service {
	return s.service
}

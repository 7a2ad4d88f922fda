package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/DeskOS/backend/internal/api/http"
	"github.com/GriffinCanCode/DeskOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/DeskOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

const (
	serviceName     = "deskos-backend"
	compressMinSize = 1024
	streamRoute     = "/sessions/:id/stream"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server

	appRegistry *registry.Manager
	sessions    *session.Manager
	metrics     *monitoring.Metrics
	tracer      *tracing.Tracer
	logger      *logging.Logger

	stopReaper context.CancelFunc
	reaperDone chan struct{}
}

// NewServer creates a new server instance. A nil logger discards output.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing DeskOS server",
		zap.String("port", cfg.Server.Port),
		zap.String("registry_glob", cfg.Registry.Glob),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New(serviceName, logger.Logger)

	// App registry: built-in catalog plus optional catalog files
	appRegistry := registry.NewManager()
	seeder := registry.NewSeeder(appRegistry, logger.Logger)
	if err := seeder.SeedDefaults(); err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to seed registry: %w", err)
	}
	if _, err := seeder.SeedFiles(cfg.Registry.Glob); err != nil {
		logger.Warn("Failed to load registry files", zap.Error(err))
	}
	metrics.SetRegistryApps(appRegistry.Len())

	sessions := session.NewManager(appRegistry, SessionConfig(cfg)).
		WithMetrics(metrics).
		WithLogger(logger.Logger)
	desktopShell := shell.New(appRegistry, ShellConfig(cfg))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	corsCfg.AllowCredentials = !containsWildcard(cfg.Server.CORSOrigins)
	router.Use(middleware.CORS(corsCfg))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rateCfg := middleware.DefaultRateLimitConfig()
		rateCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rateCfg.Burst = cfg.RateLimit.Burst
		rateCfg.SkipPaths = []string{streamRoute, "/metrics"}
		router.Use(middleware.RateLimit(rateCfg))
	}

	var logLimits []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		logLimits = append(logLimits, middleware.GlobalRateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.LogsPerSecond,
			Burst:             cfg.RateLimit.LogsBurst,
		}))
	}

	handlers := apihttp.NewHandlers(appRegistry, sessions, desktopShell, metrics, logger.Logger)
	apihttp.RegisterRoutes(router, handlers, logLimits...)

	wsHandler := ws.NewHandler(sessions, desktopShell, logger.Logger).
		WithMetrics(metrics).
		WithTracer(tracer)
	router.GET(streamRoute, wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s := &Server{
		cfg:         cfg,
		router:      router,
		handler:     router,
		appRegistry: appRegistry,
		sessions:    sessions,
		metrics:     metrics,
		tracer:      tracer,
		logger:      logger,
	}

	if cfg.Server.Compression {
		compressed, err := middleware.Compress(router, compressMinSize)
		if err != nil {
			tracer.Close()
			return nil, err
		}
		s.handler = bypassUpgrades(router, compressed)
	}

	logger.Info("Server initialized successfully", zap.Int("apps", appRegistry.Len()))

	ctx, cancel := context.WithCancel(context.Background())
	s.stopReaper = cancel
	s.reaperDone = make(chan struct{})
	go func() {
		defer close(s.reaperDone)
		sessions.RunReaper(ctx, cfg.Session.ReapInterval)
	}()

	return s, nil
}

// bypassUpgrades routes WebSocket handshakes around the gzip wrapper
func bypassUpgrades(raw, compressed http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			raw.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the session store
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Registry returns the app registry
func (s *Server) Registry() *registry.Manager {
	return s.appRegistry
}

// Metrics returns the metrics collector
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run starts the server and blocks until it stops
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting desktop service",
		zap.String("addr", addr),
		zap.Int("apps", s.appRegistry.Len()),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drops sessions and flushes spans
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.stopReaper()
	<-s.reaperDone
	s.sessions.Shutdown()
	s.tracer.Close()
	s.logger.Info("Server stopped")
	_ = s.logger.Sync()
	return err
}

// WindowConfig converts desktop settings to window manager settings
func WindowConfig(cfg *config.Config) window.Config {
	return window.Config{
		TaskbarHeight:    cfg.Desktop.TaskbarHeight,
		MobileBreakpoint: cfg.Desktop.MobileBreakpoint,
		FullscreenApps:   cfg.Desktop.FullscreenApps,
		MinSize: types.Size{
			Width:  cfg.Desktop.MinWidth,
			Height: cfg.Desktop.MinHeight,
		},
	}
}

// SessionConfig converts session settings to the session store's
func SessionConfig(cfg *config.Config) session.Config {
	sc := session.DefaultConfig()
	sc.Window = WindowConfig(cfg)
	sc.ExternalCloseDelay = cfg.Session.ExternalCloseDelay
	sc.IdleTTL = cfg.Session.IdleTTL
	return sc
}

// ShellConfig converts desktop settings to the shell layout
func ShellConfig(cfg *config.Config) shell.Config {
	sc := shell.DefaultConfig()
	sc.PinnedApps = cfg.Desktop.PinnedApps
	sc.HiddenApps = cfg.Desktop.HiddenApps
	return sc
}

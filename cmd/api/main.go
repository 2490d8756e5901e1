// Package main is the entrypoint for the engagement tracker API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pulsetrack/pulsetrack/internal/config"
	"github.com/pulsetrack/pulsetrack/internal/fetch"
	"github.com/pulsetrack/pulsetrack/internal/handler"
	"github.com/pulsetrack/pulsetrack/internal/metrics"
	"github.com/pulsetrack/pulsetrack/internal/middleware"
	"github.com/pulsetrack/pulsetrack/internal/server"
	"github.com/pulsetrack/pulsetrack/internal/service"
	"github.com/pulsetrack/pulsetrack/internal/session"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	srv, err := buildServer(ctx, cfg, logger)
	if err != nil {
		os.Exit(1)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildServer wires storage, services, handlers and the HTTP server.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server.Server, error) {
	recorder := metrics.NewInMemory()

	// Storage gateway: Postgres primary, Redis secondary. Either is
	// optional; with both absent everything lives in process memory.
	var (
		pg  *store.Postgres
		rds *store.Redis
	)

	if cfg.DatabaseURL != "" {
		var err error
		pg, err = store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return nil, err
		}
		logger.Info("connected to database")
	}

	if cfg.RedisURL != "" {
		var err error
		rds, err = store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			if pg != nil {
				pg.Close()
			}
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return nil, err
		}
		logger.Info("connected to Redis")
	}

	gw := buildGateway(pg, rds, logger, recorder)

	fetcher := fetch.New(logger, recorder)
	sessions := session.NewManager(gw, logger)
	tracker := service.NewTracker(gw, fetcher, logger, recorder,
		service.WithAPIDefaults(cfg.PlatformDefaults()))

	// Nil backends must stay nil interfaces for the health handler.
	var dbCheck, cacheCheck handler.HealthChecker
	if pg != nil {
		dbCheck = pg
	}
	if rds != nil {
		cacheCheck = rds
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(dbCheck, cacheCheck)
	metricsHandler := handler.NewMetricsHandler(recorder)
	contentHandler := handler.NewContentHandler(tracker, logger)
	engagementHandler := handler.NewEngagementHandler(tracker, logger)
	transferHandler := handler.NewTransferHandler(tracker, logger)
	settingsHandler := handler.NewSettingsHandler(tracker, logger)
	sessionHandler := handler.NewSessionHandler(sessions, logger)

	r := setupRouter(routerDeps{
		base:       h,
		health:     healthHandler,
		metrics:    metricsHandler,
		content:    contentHandler,
		engagement: engagementHandler,
		transfer:   transferHandler,
		settings:   settingsHandler,
		sessions:   sessionHandler,
		validator:  sessions,
		limiter:    rds,
		cfg:        cfg,
		logger:     logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	if pg != nil {
		srv.OnShutdown("postgres", func(ctx context.Context) error {
			pg.Close()
			return nil
		})
	}
	if rds != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return rds.Close()
		})
	}

	return srv, nil
}

// buildGateway picks the storage topology from what connected.
func buildGateway(pg *store.Postgres, rds *store.Redis, logger *slog.Logger, recorder metrics.Recorder) store.Gateway {
	switch {
	case pg != nil && rds != nil:
		return store.NewFallback(pg, rds, logger, recorder)
	case pg != nil:
		return pg
	case rds != nil:
		return rds
	default:
		logger.Warn("no storage configured, data is held in process memory only")
		return store.NewMemory()
	}
}

type routerDeps struct {
	base       *handler.Handler
	health     *handler.HealthHandler
	metrics    *handler.MetricsHandler
	content    *handler.ContentHandler
	engagement *handler.EngagementHandler
	transfer   *handler.TransferHandler
	settings   *handler.SettingsHandler
	sessions   *handler.SessionHandler
	validator  middleware.SessionValidator
	limiter    *store.Redis
	cfg        *config.Config
	logger     *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	cfg := deps.cfg
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)
	r.Get("/", deps.base.Info)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:            deps.logger,
		Enabled:           cfg.RateLimitEnabled && deps.limiter != nil,
		RequestsPerMinute: cfg.RateLimitRequestsPerMinute,
		Burst:             cfg.RateLimitBurst,
	}
	if deps.limiter != nil {
		rateLimitCfg.Limiter = deps.limiter
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(rateLimitCfg))

		// Session bootstrap endpoints carry no session yet.
		r.Post("/sessions", deps.sessions.Create)
		r.Post("/register", deps.sessions.Register)
		r.Post("/login", deps.sessions.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(deps.validator, deps.logger))

			r.Get("/sessions/current", deps.sessions.Current)

			r.Route("/content", func(r chi.Router) {
				r.Get("/", deps.content.List)
				r.Post("/", deps.content.Create)
				r.Get("/{id}", deps.content.Get)
				r.Patch("/{id}", deps.content.Update)
				r.Delete("/{id}", deps.content.Delete)
				r.Post("/{id}/refresh", deps.engagement.RefreshOne)
			})

			r.Post("/engagement/refresh", deps.engagement.RefreshAll)
			r.Get("/dashboard", deps.engagement.Dashboard)

			r.Get("/export", deps.transfer.Export)
			r.Post("/import", deps.transfer.Import)

			r.Get("/config", deps.settings.GetAPIConfig)
			r.Put("/config", deps.settings.PutAPIConfig)
			r.Get("/preferences", deps.settings.GetPreferences)
			r.Put("/preferences", deps.settings.PutPreferences)
		})
	})

	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

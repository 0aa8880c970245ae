package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/guardia/guardia/internal/config"
	"github.com/guardia/guardia/internal/domain/consultation"
	"github.com/guardia/guardia/internal/domain/patient"
	"github.com/guardia/guardia/internal/domain/resource"
	"github.com/guardia/guardia/internal/domain/staff"
	"github.com/guardia/guardia/internal/domain/stats"
	"github.com/guardia/guardia/internal/platform/auth"
	"github.com/guardia/guardia/internal/platform/cache"
	"github.com/guardia/guardia/internal/platform/db"
	"github.com/guardia/guardia/internal/platform/middleware"
	"github.com/guardia/guardia/internal/platform/telemetry"
)

const (
	version        = "0.1.0"
	requestTimeout = 30 * time.Second
	exportPath     = "/api/v1/stats/export"
)

type services struct {
	patients      *patient.Service
	consultations *consultation.Service
	staff         *staff.Service
	resources     *resource.Service
	stats         *stats.Service
}

// newServices wires every domain service to q. statsCache may be nil.
func newServices(q db.Querier, cfg *config.Config, logger zerolog.Logger, m *telemetry.Metrics, statsCache stats.Cache) *services {
	patients := patient.NewService(patient.NewRepoPG(q))

	consultations := consultation.NewService(consultation.NewRepoPG(q), patients,
		logger.With().Str("component", "consultation").Logger())
	resources := resource.NewService(resource.NewRepoPG(q), cfg.CriticalStockThreshold,
		logger.With().Str("component", "resource").Logger())
	if m != nil {
		consultations.SetMetrics(m)
		resources.SetMetrics(m)
	}

	st := stats.NewService(stats.NewRepoPG(q), cfg.CriticalStockThreshold,
		logger.With().Str("component", "stats").Logger())
	if statsCache != nil {
		st.SetCache(statsCache, cfg.StatsCacheTTL)
		consultations.SetInvalidator(st)
		resources.SetInvalidator(st)
	}

	return &services{
		patients:      patients,
		consultations: consultations,
		staff:         staff.NewService(staff.NewRepoPG(q)),
		resources:     resources,
		stats:         st,
	}
}

// newRouter builds the echo instance. dbHealth serves /health/db.
func newRouter(cfg *config.Config, logger zerolog.Logger, svcs *services, m *telemetry.Metrics, dbHealth echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.Metrics(m))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}
	e.Use(middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", dbHealth)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.RequestTimeout(requestTimeout, exportPath))

	patient.NewHandler(svcs.patients).RegisterRoutes(apiV1)
	consultation.NewHandler(svcs.consultations).RegisterRoutes(apiV1)
	staff.NewHandler(svcs.staff).RegisterRoutes(apiV1)
	resource.NewHandler(svcs.resources).RegisterRoutes(apiV1)
	stats.NewHandler(svcs.stats).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	var statsCache stats.Cache
	if cfg.RedisURL != "" {
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			// The dashboard still works uncached.
			logger.Warn().Err(err).Msg("redis unavailable, stats cache disabled")
		} else {
			defer client.Close()
			statsCache = cache.New(client, "guardia:")
			logger.Info().Dur("ttl", cfg.StatsCacheTTL).Msg("stats cache enabled")
		}
	}

	metrics := telemetry.New()
	svcs := newServices(pool, cfg, logger, metrics, statsCache)
	e := newRouter(cfg, logger, svcs, metrics, db.PoolHealthHandler(pool))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

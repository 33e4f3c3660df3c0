package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dharmasatrya/farecalendar/internal/cache"
	"github.com/dharmasatrya/farecalendar/internal/client"
	"github.com/dharmasatrya/farecalendar/internal/config"
	"github.com/dharmasatrya/farecalendar/internal/handler"
	"github.com/dharmasatrya/farecalendar/internal/logger"
	"github.com/dharmasatrya/farecalendar/internal/queries"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
	"github.com/dharmasatrya/farecalendar/internal/ratelimit"
	"github.com/dharmasatrya/farecalendar/internal/search"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logr := logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rateLimiter := ratelimit.NewFamilyLimiter(ratelimit.Limit{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	}, map[string]ratelimit.Limit{
		client.FamilyHealth: {RequestsPerSecond: 1, BurstSize: 5},
	})

	apiClient, err := client.New(client.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Limiter: rateLimiter,
		Logger:  logr.With().Str("component", "client").Logger(),
	})
	if err != nil {
		logr.Fatal().Err(err).Msg("failed to create fare service client")
	}

	queryCache := querycache.New(
		querycache.WithLogger(logr.With().Str("component", "querycache").Logger()),
		querycache.WithRegisterer(prometheus.DefaultRegisterer),
	)
	go func() {
		_ = queryCache.Run(ctx, cfg.Cache.SweepInterval)
	}()

	airports := queries.NewAirports(queryCache, apiClient)
	fares := queries.NewFares(queryCache, apiClient)
	service := search.NewService(fares, airports, search.Config{
		Timeout: cfg.API.SearchTimeout,
	}, logr.With().Str("component", "search").Logger())

	responses := newResponseCache(ctx, cfg, logr)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	handler.Register(e, handler.Handlers{
		Airports: handler.NewAirportHandler(airports),
		Fares:    handler.NewFareHandler(service, responses, logr),
		Cache:    handler.NewCacheHandler(queryCache, responses, logr),
		Health:   handler.NewHealthHandler(apiClient),
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		logr.Info().Str("port", cfg.HTTP.Port).Str("api", cfg.API.BaseURL).Msg("starting fare calendar server")
		if err := e.Start(":" + cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logr.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logr.Error().Err(err).Msg("server shutdown failed")
	}
	queryCache.Close()
	if err := responses.Close(); err != nil {
		logr.Error().Err(err).Msg("response cache close failed")
	}
}

func newResponseCache(ctx context.Context, cfg *config.Config, logr zerolog.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		logr.Info().Msg("response cache disabled")
		return cache.NewNoOpCache()
	}

	redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		logr.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
	}
	logr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("redis response cache enabled")
	return redisCache
}

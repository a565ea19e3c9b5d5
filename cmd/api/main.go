package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"videostudio/internal/bootstrap"
	"videostudio/internal/http/handlers"
	httpapi "videostudio/internal/http/httpapi"
	"videostudio/internal/infra"
	"videostudio/internal/infra/geoip"
	"videostudio/internal/middleware"
	"videostudio/internal/storage"
)

func main() {
	// .env.local overrides .env; both are optional.
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dependencies")
	}
	defer c.Close()

	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimitPerMin, time.Minute)
	redisClient, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, rate limiting per process")
	} else if redisClient != nil {
		defer redisClient.Close()
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimitPerMin, time.Minute)
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = nil
	}
	var lookup middleware.CountryLookup
	if resolver.Enabled() {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	app := &handlers.App{
		DB:             c.Pool,
		Generator:      c.Service,
		Profiles:       c.Profiles,
		Generations:    c.Generations,
		Projects:       c.Projects,
		Templates:      c.Templates,
		Notifications:  c.Notifications,
		Gallery:        c.Gallery,
		Stats:          c.Stats,
		Enhancer:       c.Enhancer(ctx),
		Logger:         logger,
		WelcomeCredits: cfg.WelcomeCredits,
	}

	opts := httpapi.Options{
		Logger:        logger,
		Metrics:       c.Metrics,
		Limiter:       limiter,
		JWTSecret:     cfg.JWTSecret,
		JWTAudience:   cfg.JWTAudience,
		CORSOrigins:   cfg.CORSOrigins,
		DefaultLocale: cfg.DefaultLocale,
		CountryLookup: lookup,
	}
	if fs, ok := c.Store.(*storage.FileStore); ok {
		opts.StaticDir = fs.BasePath()
	}
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, opts))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Msg("api listening")
		return server.Run(gctx)
	})
	g.Go(func() error {
		return c.RunSweeper(gctx, cfg.SweepInterval)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("api stopped with error")
	}

	// Generations whose callers disconnected keep running; give them until
	// their lifetime bound to settle.
	waitCtx, cancel := context.WithTimeout(context.Background(), cfg.MaxJobLifetime())
	defer cancel()
	if err := c.Service.Wait(waitCtx); err != nil {
		logger.Warn().Err(err).Msg("in-flight generations abandoned at shutdown")
	}
	logger.Info().Msg("api stopped")
}

package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tilsley/insights/apps/server/internal/platform/config"
	platformgh "github.com/tilsley/insights/apps/server/internal/platform/github"
	"github.com/tilsley/insights/apps/server/internal/platform/logger"
	"github.com/tilsley/insights/apps/server/internal/platform/telemetry"
	"github.com/tilsley/insights/apps/server/internal/platform/validation"
	"github.com/tilsley/insights/apps/server/internal/profile"
	"github.com/tilsley/insights/apps/server/internal/profile/adapters/github"
	"github.com/tilsley/insights/apps/server/internal/profile/cache"
	"github.com/tilsley/insights/apps/server/internal/profile/handler"
	"github.com/tilsley/insights/schemas"
)

func main() {
	log := logger.New("insights-server")

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Credentials().Validate(); err != nil {
		// Not fatal: /profile reports the same error so /health stays up.
		log.Warn("github credentials incomplete", "error", err)
	}

	// --- Observability ---

	ctx := context.Background()
	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		log.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "error", err)
		}
	}()

	// --- Platform: Redis (optional summary cache) ---

	var summaryCache handler.SummaryCache
	if cfg.Server.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Server.RedisAddr})
		defer rdb.Close() //nolint:errcheck // close errors on shutdown are non-actionable
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, cache will degrade per request", "addr", cfg.Server.RedisAddr, "error", err)
		}
		summaryCache = cache.NewRedisSummaryCache(rdb, cfg.Server.CacheTTL)
		log.Info("summary cache enabled", "addr", cfg.Server.RedisAddr, "ttl", cfg.Server.CacheTTL)
	}

	// --- Service + HTTP ---

	newSource := func(token string) profile.GitHub {
		return github.New(platformgh.NewTokenClient(token, cfg.GitHub.APIURL))
	}
	svc := profile.NewService(newSource, log,
		profile.WithPageSize(cfg.GitHub.PageSize),
		profile.WithEstimatorOptions(profile.WithCutoff(cfg.Estimate.Cutoff)),
	)

	router := gin.New()

	validator, err := validation.New(schemas.OpenAPISpec)
	if err != nil {
		log.Error("openapi validation middleware init failed", "error", err)
		os.Exit(1)
	}

	router.Use(gin.Recovery(), otelgin.Middleware(cfg.Telemetry.ServiceName), validator)
	handler.RegisterRoutes(router, svc, summaryCache, cfg.Credentials(), log)

	log.Info("starting insights", "port", cfg.Server.Port, "username", cfg.GitHub.Username)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

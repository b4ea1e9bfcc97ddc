package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

// SummaryCache stores built summaries keyed by username. Get returns nil on a miss.
type SummaryCache interface {
	Get(ctx context.Context, username string) (*profile.ProfileSummary, error)
	Save(ctx context.Context, username string, s *profile.ProfileSummary) error
	Delete(ctx context.Context, username string) error
}

// Handler translates HTTP requests into calls on the profile.Service.
type Handler struct {
	svc   *profile.Service
	cache SummaryCache
	creds profile.Credentials
	log   *slog.Logger
}

// RegisterRoutes mounts the insights API onto the given Gin engine. cache may
// be nil, in which case every request rebuilds the summary.
func RegisterRoutes(
	r *gin.Engine,
	svc *profile.Service,
	cache SummaryCache,
	creds profile.Credentials,
	log *slog.Logger,
) {
	h := &Handler{svc: svc, cache: cache, creds: creds, log: log}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/profile", h.GetProfile)
	r.DELETE("/profile", h.EvictProfile)
}

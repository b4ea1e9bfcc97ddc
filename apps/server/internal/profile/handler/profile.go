package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

const cacheHeader = "X-Cache"

// GetProfile returns the ProfileSummary for the configured account, served
// from the cache unless refresh=true.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	refresh, _ := strconv.ParseBool(c.Query("refresh"))

	if h.cache != nil && !refresh {
		cached, err := h.cache.Get(ctx, h.creds.Username)
		if err != nil {
			h.log.Warn("summary cache read failed", "error", err)
		}
		if cached != nil {
			c.Header(cacheHeader, "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	summary, err := h.svc.BuildProfileSummary(ctx, h.creds)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Save(ctx, h.creds.Username, summary); err != nil {
			h.log.Warn("summary cache write failed", "error", err)
		}
	}
	c.Header(cacheHeader, "MISS")
	c.JSON(http.StatusOK, summary)
}

// EvictProfile drops the cached summary so the next read rebuilds it.
func (h *Handler) EvictProfile(c *gin.Context) {
	if h.cache != nil {
		if err := h.cache.Delete(c.Request.Context(), h.creds.Username); err != nil {
			h.log.Error("summary cache evict failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evict cached summary"})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var cfgErr profile.ConfigurationError
	if errors.As(err, &cfgErr) {
		h.log.Error("profile not configured", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var fetchErr profile.RemoteFetchError
	if errors.As(err, &fetchErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.log.Error("profile summary failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build profile summary"})
}

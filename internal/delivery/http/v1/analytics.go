package v1

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// The read-only analytics routes are public per user id, matching the
// dashboard's unauthenticated fetches.

func (h *Handler) handleStreak(c *gin.Context) {
	streak, err := h.streaks.Streak(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

func (h *Handler) handleSummary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context(), c.Param("user_id"), h.svcClock.Now())
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) handleAnalytics(c *gin.Context) {
	recent, err := h.analytics.Recent(c.Request.Context(), c.Param("user_id"), h.svcClock.Now())
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recent)
}

func (h *Handler) handleHeatmap(c *gin.Context) {
	heatmap, err := h.analytics.Heatmap(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

func (h *Handler) handleXP(c *gin.Context) {
	xp, err := h.analytics.XP(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, xp)
}

func (h *Handler) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "Bot is online",
		"uptime":    math.Round(h.svcClock.Uptime().Seconds()),
		"timestamp": h.svcClock.Now().Format(time.RFC3339),
	})
}

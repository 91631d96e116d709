package handlers

import (
	"net/http"

	"github.com/JillVernus/learn-tube/internal/quota"
	"github.com/JillVernus/learn-tube/internal/rotation"
	"github.com/gin-gonic/gin"
)

// QuotaHandler exposes the daily quota budget
type QuotaHandler struct {
	tracker  *quota.Tracker
	rotation *rotation.Tracker
}

// NewQuotaHandler creates a new quota handler
func NewQuotaHandler(t *quota.Tracker, rot *rotation.Tracker) *QuotaHandler {
	return &QuotaHandler{tracker: t, rotation: rot}
}

// Status returns the current quota state
// GET /api/quota
func (h *QuotaHandler) Status(c *gin.Context) {
	state := h.tracker.Status()
	failedCreds, failedModels := h.rotation.FailedCounts()

	c.JSON(http.StatusOK, gin.H{
		"dailyLimit":   state.DailyLimit,
		"usedToday":    state.UsedToday,
		"resetDate":    state.ResetDate,
		"exceeded":     state.Exceeded,
		"failedKeys":   failedCreds,
		"failedModels": failedModels,
	})
}

// Reset clears today's usage and credential cooldowns
// POST /api/quota/reset
func (h *QuotaHandler) Reset(c *gin.Context) {
	h.tracker.Reset()
	h.rotation.Reset()

	state := h.tracker.Status()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"dailyLimit": state.DailyLimit,
		"usedToday":  state.UsedToday,
		"exceeded":   state.Exceeded,
	})
}

package handlers

import (
	"net/http"

	"github.com/JillVernus/learn-tube/internal/profile"
	"github.com/JillVernus/learn-tube/internal/recommend"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles watch history, interests, search history,
// preferences, and recommendations
type ProfileHandler struct {
	profiles *profile.Manager
	engine   *recommend.Engine
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(p *profile.Manager, e *recommend.Engine) *ProfileHandler {
	return &ProfileHandler{profiles: p, engine: e}
}

type watchRequest struct {
	VideoID              string   `json:"videoId" binding:"required"`
	Title                string   `json:"title"`
	ChannelID            string   `json:"channelId"`
	ChannelTitle         string   `json:"channelTitle"`
	ThumbnailURL         string   `json:"thumbnailUrl"`
	Tags                 []string `json:"tags"`
	WatchDurationSeconds int      `json:"watchDurationSeconds"`
	CompletionPercent    int      `json:"completionPercent"`
}

type searchHistoryRequest struct {
	Queries []string `json:"queries"`
}

// RecordWatch adds a watched video to the history
// POST /api/profile/watch
func (h *ProfileHandler) RecordWatch(c *gin.Context) {
	var req watchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.profiles.RecordWatch(profile.WatchRecord{
		VideoID:              req.VideoID,
		Title:                req.Title,
		ChannelID:            req.ChannelID,
		ChannelTitle:         req.ChannelTitle,
		ThumbnailURL:         req.ThumbnailURL,
		Tags:                 req.Tags,
		WatchDurationSeconds: req.WatchDurationSeconds,
		CompletionPercent:    req.CompletionPercent,
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// History returns the watch history, newest first
// GET /api/profile/history
func (h *ProfileHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.profiles.WatchHistory()})
}

// Interests returns the tag weights and the favorites derived from them
// GET /api/profile/interests
func (h *ProfileHandler) Interests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"weights":      h.profiles.InterestWeights(),
		"favoriteTags": h.profiles.FavoriteTags(),
	})
}

// Recommendations returns ranked video recommendations
// GET /api/recommendations
func (h *ProfileHandler) Recommendations(c *gin.Context) {
	limit := queryInt(c, "limit", 10)
	c.JSON(http.StatusOK, gin.H{
		"recommendations": h.engine.Recommend(c.Request.Context(), limit),
	})
}

// SearchHistory returns recent searches, newest first
// GET /api/profile/search-history
func (h *ProfileHandler) SearchHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"queries": h.profiles.SearchHistory()})
}

// SetSearchHistory replaces the search history, an empty list clears it
// PUT /api/profile/search-history
func (h *ProfileHandler) SetSearchHistory(c *gin.Context) {
	var req searchHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.profiles.SetSearchHistory(req.Queries)
	c.JSON(http.StatusOK, gin.H{"success": true, "queries": h.profiles.SearchHistory()})
}

// Preferences returns the UI preferences
// GET /api/profile/preferences
func (h *ProfileHandler) Preferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.profiles.Preferences())
}

// SetPreferences replaces the UI preferences
// PUT /api/profile/preferences
func (h *ProfileHandler) SetPreferences(c *gin.Context) {
	var prefs profile.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.profiles.SetPreferences(prefs)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

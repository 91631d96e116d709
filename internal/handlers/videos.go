package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JillVernus/learn-tube/internal/catalog"
	"github.com/JillVernus/learn-tube/internal/profile"
	"github.com/gin-gonic/gin"
)

// VideoHandler handles browse, search, and playback-support endpoints
type VideoHandler struct {
	catalog  *catalog.Client
	profiles *profile.Manager
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(c *catalog.Client, p *profile.Manager) *VideoHandler {
	return &VideoHandler{catalog: c, profiles: p}
}

// Popular returns the popular-videos feed
// GET /api/videos/popular
func (h *VideoHandler) Popular(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	page := h.catalog.PopularVideos(c.Request.Context(), limit, c.Query("pageToken"))
	c.JSON(http.StatusOK, page)
}

// Search runs a catalog search and records the query in search history
// GET /api/videos/search?q=...
func (h *VideoHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter q"})
		return
	}

	limit := queryInt(c, "limit", 20)
	page := h.catalog.Search(c.Request.Context(), query, limit, c.Query("pageToken"))
	h.profiles.RecordSearch(query)
	c.JSON(http.StatusOK, page)
}

// Detail returns one video's full record
// GET /api/videos/:id
func (h *VideoHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	page := h.catalog.VideoDetails(c.Request.Context(), []string{id})
	if len(page.Items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"video": page.Items[0], "fromMock": page.FromMock})
}

// Related returns videos related to the given one
// GET /api/videos/:id/related
func (h *VideoHandler) Related(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	page := h.catalog.RelatedVideos(c.Request.Context(), c.Param("id"), limit)
	c.JSON(http.StatusOK, page)
}

// Comments returns top-level comments for a video
// GET /api/videos/:id/comments
func (h *VideoHandler) Comments(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	page := h.catalog.Comments(c.Request.Context(), c.Param("id"), limit, c.Query("pageToken"))
	c.JSON(http.StatusOK, page)
}

// Channel returns one channel's record
// GET /api/channels/:id
func (h *VideoHandler) Channel(c *gin.Context) {
	ch := h.catalog.ChannelDetails(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, ch)
}

// queryInt parses an integer query parameter with a fallback
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

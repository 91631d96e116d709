package handlers

import (
	"net/http"

	"github.com/JillVernus/learn-tube/internal/genai"
	"github.com/JillVernus/learn-tube/internal/rotation"
	"github.com/gin-gonic/gin"
)

// LearningHandler handles the AI study features: summaries, notes, chat
type LearningHandler struct {
	genai    *genai.Client
	rotation *rotation.Tracker
}

// NewLearningHandler creates a new learning handler
func NewLearningHandler(g *genai.Client, rot *rotation.Tracker) *LearningHandler {
	return &LearningHandler{genai: g, rotation: rot}
}

type videoPromptRequest struct {
	Title      string `json:"title" binding:"required"`
	Transcript string `json:"transcript"`
	// Description substitutes when no transcript is available
	Description string `json:"description"`
}

type chatRequest struct {
	Title       string              `json:"title" binding:"required"`
	Transcript  string              `json:"transcript"`
	Description string              `json:"description"`
	History     []genai.ChatMessage `json:"history"`
	Question    string              `json:"question" binding:"required"`
}

// transcriptOrFallback prefers the transcript, falling back to the
// video description for videos without captions
func transcriptOrFallback(transcript, description string) string {
	if transcript != "" {
		return transcript
	}
	return description
}

// Status reports whether learning features are available
// GET /api/learning/status
func (h *LearningHandler) Status(c *gin.Context) {
	failedCreds, failedModels := h.rotation.FailedCounts()
	c.JSON(http.StatusOK, gin.H{
		"configured":   h.genai.IsConfigured(),
		"failedKeys":   failedCreds,
		"failedModels": failedModels,
	})
}

// Summarize generates a video summary
// POST /api/learning/summary
func (h *LearningHandler) Summarize(c *gin.Context) {
	var req videoPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := transcriptOrFallback(req.Transcript, req.Description)
	bullets, err := h.genai.Summarize(c.Request.Context(), req.Title, source)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": bullets})
}

// Notes generates study notes for a video
// POST /api/learning/notes
func (h *LearningHandler) Notes(c *gin.Context) {
	var req videoPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := transcriptOrFallback(req.Transcript, req.Description)
	text, err := h.genai.GenerateNotes(c.Request.Context(), req.Title, source)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": text})
}

// Chat answers a question in the context of a video
// POST /api/learning/chat
func (h *LearningHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := transcriptOrFallback(req.Transcript, req.Description)
	text, err := h.genai.Chat(c.Request.Context(), req.Title, source, req.History, req.Question)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": text})
}

// Test runs a minimal round trip so the UI can verify the API key works
// POST /api/learning/test
func (h *LearningHandler) Test(c *gin.Context) {
	if !h.genai.IsConfigured() {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "No API key configured"})
		return
	}

	text, err := h.genai.Generate(c.Request.Context(), "Reply with the single word OK.")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "response": text})
}

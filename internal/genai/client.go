// Package genai implements the generative-text client behind the
// learning features: summaries, study notes, and contextual chat. It
// rotates API keys and model names independently, retries transient
// failures, and demotes the credential or model that a failure points at.
package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/JillVernus/learn-tube/internal/rotation"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	maxAttempts  = 3
	attemptDelay = time.Second
)

// errEmptyResponse marks a 200 with no candidate text, which retries
var errEmptyResponse = errors.New("empty completion text")

// ChatMessage is one turn of a learning-chat conversation
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "model"
	Content string `json:"content"`
}

// Client calls the generative-language upstream with key and model rotation
type Client struct {
	keys       []string
	settings   *config.SettingsManager
	rotation   *rotation.Tracker
	httpClient *http.Client
}

// NewClient creates a generative-text client
func NewClient(keys []string, settings *config.SettingsManager, rot *rotation.Tracker) *Client {
	return &Client{
		keys:     keys,
		settings: settings,
		rotation: rot,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// IsConfigured reports whether at least one generative-text credential
// is present. Learning features are hidden from the UI when this is false.
func (c *Client) IsConfigured() bool {
	return len(c.keys) > 0
}

// Summarize produces key points for a video from its transcript,
// returned as an ordered list of bullet strings
func (c *Client) Summarize(ctx context.Context, title, transcript string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following video for a learner as 3-7 key points. "+
			"Reply with one point per line, each starting with \"- \", and "+
			"nothing else.\n\nTitle: %s\nTranscript:\n%s",
		title, transcript)

	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return splitBullets(text), nil
}

// GenerateNotes produces study notes for a video from its transcript
func (c *Client) GenerateNotes(ctx context.Context, title, transcript string) (string, error) {
	prompt := fmt.Sprintf(
		"Write concise study notes for the following video. Use markdown with "+
			"section headings, definitions of key terms, and takeaways a student "+
			"could review later.\n\nTitle: %s\nTranscript:\n%s",
		title, transcript)
	return c.Generate(ctx, prompt)
}

// Chat answers a question in the context of a video, carrying prior turns
func (c *Client) Chat(ctx context.Context, title, transcript string, history []ChatMessage, question string) (string, error) {
	var sb strings.Builder
	sb.WriteString("You are a study assistant helping a learner understand a video.\n")
	sb.WriteString("Video title: " + title + "\n")
	if transcript != "" {
		sb.WriteString("Video transcript:\n" + transcript + "\n")
	}
	sb.WriteString("\nConversation so far:\n")
	for _, m := range history {
		sb.WriteString(m.Role + ": " + m.Content + "\n")
	}
	sb.WriteString("user: " + question + "\n")
	sb.WriteString("\nAnswer the last question helpfully and concisely.")
	return c.Generate(ctx, sb.String())
}

// splitBullets breaks a completion into individual bullet strings,
// stripping list markers. A completion without any markers falls back
// to one bullet per non-empty line.
func splitBullets(text string) []string {
	bullets := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(strings.TrimPrefix(line, marker))
				break
			}
		}
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}

// Generate runs one prompt through the upstream with rotation and retry.
// Quota and rate-limit failures demote the active credential; model
// failures demote the active model. Both stop the retry loop so the
// next call starts on a healthy pair.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("no generative-text API key configured")
	}

	settings := c.settings.Get()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt-1) * attemptDelay):
			}
		}

		apiKey := c.rotation.NextCredential(rotation.ScopeGenAI, c.keys)
		model := c.rotation.NextModel(settings.Models)
		if apiKey == "" || model == "" {
			return "", fmt.Errorf("all generative-text credentials or models are cooling down")
		}

		text, err := c.generateOnce(ctx, settings.GenAIBaseURL, apiKey, model, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if errors.Is(err, errEmptyResponse) {
			log.Printf("⚠️ [GenAI] Attempt %d/%d returned no text, retrying", attempt, maxAttempts)
			continue
		}

		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "429"):
			c.rotation.MarkCredentialFailed(rotation.ScopeGenAI, apiKey)
			return "", fmt.Errorf("generative-text quota exhausted: %w", err)
		case strings.Contains(msg, "model"):
			c.rotation.MarkModelFailed(model)
			return "", fmt.Errorf("generative-text model unavailable: %w", err)
		}

		log.Printf("⚠️ [GenAI] Attempt %d/%d failed: %v", attempt, maxAttempts, err)
	}

	return "", fmt.Errorf("generative-text request failed after %d attempts: %w", maxAttempts, lastErr)
}

// generateOnce issues a single generateContent call
func (c *Client) generateOnce(ctx context.Context, baseURL, apiKey, model, prompt string) (string, error) {
	reqBody, err := buildGenerateRequest(prompt)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(baseURL, "/"), model, apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if errObj := gjson.GetBytes(body, "error"); errObj.Exists() {
		return "", fmt.Errorf("upstream error %d (%s): %s",
			errObj.Get("code").Int(),
			errObj.Get("status").String(),
			errObj.Get("message").String())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}

	return text, nil
}

// buildGenerateRequest assembles the generateContent JSON payload
func buildGenerateRequest(prompt string) (string, error) {
	body := "{}"
	var err error

	body, err = sjson.Set(body, "contents.0.role", "user")
	if err != nil {
		return "", err
	}
	body, err = sjson.Set(body, "contents.0.parts.0.text", prompt)
	if err != nil {
		return "", err
	}
	body, err = sjson.Set(body, "generationConfig.temperature", 0.7)
	if err != nil {
		return "", err
	}
	body, err = sjson.Set(body, "generationConfig.maxOutputTokens", 2048)
	if err != nil {
		return "", err
	}

	return body, nil
}

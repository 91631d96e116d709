// Package catalog implements the quota-aware client for the upstream
// video-catalog API. Every operation degrades to bundled mock data when
// the daily budget is exhausted or the upstream misbehaves; callers
// never see an error.
package catalog

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/JillVernus/learn-tube/internal/quota"
	"github.com/JillVernus/learn-tube/internal/rotation"
	"github.com/tidwall/gjson"
)

// Client issues catalog requests with quota pre-flight checks and
// credential rotation
type Client struct {
	keys       []string
	settings   *config.SettingsManager
	tracker    *quota.Tracker
	rotation   *rotation.Tracker
	httpClient *http.Client
}

// NewClient creates a catalog client
func NewClient(keys []string, settings *config.SettingsManager, tracker *quota.Tracker, rot *rotation.Tracker) *Client {
	return &Client{
		keys:     keys,
		settings: settings,
		tracker:  tracker,
		rotation: rot,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// IsConfigured reports whether at least one catalog credential is present
func (c *Client) IsConfigured() bool {
	return len(c.keys) > 0
}

// PopularVideos returns the most popular videos, mock-backed
func (c *Client) PopularVideos(ctx context.Context, limit int, pageToken string) *VideoPage {
	if c.preflight(quota.KindVideos) {
		return mockPopular(limit)
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("chart", "mostPopular")
	params.Set("maxResults", strconv.Itoa(boundResults(limit)))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	body, ok := c.fetch(ctx, "/videos", params)
	if !ok {
		return mockPopular(limit)
	}

	return parseVideoList(body)
}

// Search runs a catalog search and hydrates the hits with full details.
// The search call itself costs 100 units; the follow-up details call is
// costed per ID.
func (c *Client) Search(ctx context.Context, query string, limit int, pageToken string) *VideoPage {
	if c.preflight(quota.KindSearch) {
		return mockSearch(query, limit)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(boundResults(limit)))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	body, ok := c.fetch(ctx, "/search", params)
	if !ok {
		return mockSearch(query, limit)
	}

	ids, nextToken := parseSearchHits(body)
	if len(ids) == 0 {
		return mockSearch(query, limit)
	}

	page := c.VideoDetails(ctx, ids)
	page.NextPageToken = nextToken
	return page
}

// VideoDetails fetches full records for the given IDs in one request.
// Quota is costed once per ID; when the budget trips partway through,
// the whole batch falls back to mock data. Cost is recorded for every
// ID even past the trip point, matching the provider's per-resource
// accounting.
func (c *Client) VideoDetails(ctx context.Context, ids []string) *VideoPage {
	if len(ids) == 0 {
		return &VideoPage{Items: []Video{}}
	}
	if c.tracker.Exceeded() {
		return mockVideosByID(ids)
	}

	tripped := false
	for range ids {
		if c.tracker.RecordUsage(quota.KindVideos) {
			tripped = true
		}
	}
	if tripped {
		return mockVideosByID(ids)
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	body, ok := c.fetch(ctx, "/videos", params)
	if !ok {
		return mockVideosByID(ids)
	}

	return parseVideoList(body)
}

// ChannelDetails fetches one channel record, mock-backed
func (c *Client) ChannelDetails(ctx context.Context, channelID string) *Channel {
	if c.preflight(quota.KindChannels) {
		return mockChannel(channelID)
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	body, ok := c.fetch(ctx, "/channels", params)
	if !ok {
		return mockChannel(channelID)
	}

	ch := parseChannel(body)
	if ch == nil {
		return mockChannel(channelID)
	}
	return ch
}

// Comments fetches top-level comment threads for a video, mock-backed
func (c *Client) Comments(ctx context.Context, videoID string, limit int, pageToken string) *CommentPage {
	if c.preflight(quota.KindComments) {
		return mockCommentPage(limit)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(boundResults(limit)))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	body, ok := c.fetch(ctx, "/commentThreads", params)
	if !ok {
		return mockCommentPage(limit)
	}

	return parseCommentList(body)
}

// RelatedVideos returns videos related to the given one, hydrated with
// full details so the recommendation scorer sees their tags
func (c *Client) RelatedVideos(ctx context.Context, videoID string, limit int) *VideoPage {
	if c.preflight(quota.KindRelated) {
		return mockRelated(videoID, limit)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("relatedToVideoId", videoID)
	params.Set("maxResults", strconv.Itoa(boundResults(limit)))

	body, ok := c.fetch(ctx, "/search", params)
	if !ok {
		return mockRelated(videoID, limit)
	}

	ids, _ := parseSearchHits(body)
	if len(ids) == 0 {
		return mockRelated(videoID, limit)
	}

	return c.VideoDetails(ctx, ids)
}

// preflight applies the quota contract shared by all single-cost
// operations: serve mock when already exceeded, otherwise record the
// cost and serve mock when that very call trips the threshold.
func (c *Client) preflight(kind quota.EndpointKind) bool {
	if c.tracker.Exceeded() {
		return true
	}
	return c.tracker.RecordUsage(kind)
}

// fetch issues one catalog request and classifies failures. Returns the
// response body and ok=false on any condition that calls for mock data.
func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, bool) {
	apiKey := c.rotation.NextCredential(rotation.ScopeCatalog, c.keys)
	if apiKey == "" {
		log.Printf("⚠️ [Catalog] No usable API key, serving mock data")
		return nil, false
	}

	settings := c.settings.Get()
	if settings.MockOnly {
		return nil, false
	}

	params.Set("key", apiKey)
	reqURL := strings.TrimSuffix(settings.CatalogBaseURL, "/") + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Printf("⚠️ [Catalog] Failed to build request: %v", err)
		return nil, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️ [Catalog] Request failed: %v", err)
		return nil, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("⚠️ [Catalog] Failed to read response: %v", err)
		return nil, false
	}

	if errObj := gjson.GetBytes(body, "error"); errObj.Exists() {
		code := errObj.Get("code").Int()
		reason := errObj.Get("errors.0.reason").String()
		message := errObj.Get("message").String()

		if code == 403 || reason == "quotaExceeded" || reason == "dailyLimitExceeded" {
			c.tracker.MarkExceeded(reason + " " + message)
			c.rotation.MarkCredentialFailed(rotation.ScopeCatalog, apiKey)
			return nil, false
		}

		log.Printf("⚠️ [Catalog] Upstream error %d (%s): %s", code, reason, message)
		return nil, false
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("⚠️ [Catalog] Unexpected status %d from %s", resp.StatusCode, path)
		return nil, false
	}

	return body, true
}

// boundResults clamps the requested page size to the provider's 1..50
func boundResults(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

// parseVideoList extracts videos from a /videos response
func parseVideoList(body []byte) *VideoPage {
	page := &VideoPage{Items: []Video{}}
	page.NextPageToken = gjson.GetBytes(body, "nextPageToken").String()

	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		v := Video{
			ID:           item.Get("id").String(),
			Title:        item.Get("snippet.title").String(),
			Description:  item.Get("snippet.description").String(),
			ChannelID:    item.Get("snippet.channelId").String(),
			ChannelTitle: item.Get("snippet.channelTitle").String(),
			ThumbnailURL: item.Get("snippet.thumbnails.high.url").String(),
			Duration:     item.Get("contentDetails.duration").String(),
			ViewCount:    item.Get("statistics.viewCount").Int(),
			LikeCount:    item.Get("statistics.likeCount").Int(),
			CategoryID:   item.Get("snippet.categoryId").String(),
		}
		item.Get("snippet.tags").ForEach(func(_, tag gjson.Result) bool {
			v.Tags = append(v.Tags, tag.String())
			return true
		})
		if t, err := time.Parse(time.RFC3339, item.Get("snippet.publishedAt").String()); err == nil {
			v.PublishedAt = t
		}
		page.Items = append(page.Items, v)
		return true
	})

	return page
}

// parseSearchHits extracts video IDs and the pagination cursor from a
// /search response
func parseSearchHits(body []byte) (ids []string, nextPageToken string) {
	nextPageToken = gjson.GetBytes(body, "nextPageToken").String()
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		if id := item.Get("id.videoId").String(); id != "" {
			ids = append(ids, id)
		}
		return true
	})
	return ids, nextPageToken
}

// parseChannel extracts the first channel from a /channels response
func parseChannel(body []byte) *Channel {
	item := gjson.GetBytes(body, "items.0")
	if !item.Exists() {
		return nil
	}

	return &Channel{
		ID:              item.Get("id").String(),
		Title:           item.Get("snippet.title").String(),
		Description:     item.Get("snippet.description").String(),
		ThumbnailURL:    item.Get("snippet.thumbnails.high.url").String(),
		SubscriberCount: item.Get("statistics.subscriberCount").Int(),
		VideoCount:      item.Get("statistics.videoCount").Int(),
	}
}

// parseCommentList extracts comment threads from a /commentThreads response
func parseCommentList(body []byte) *CommentPage {
	page := &CommentPage{Items: []Comment{}}
	page.NextPageToken = gjson.GetBytes(body, "nextPageToken").String()

	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		top := item.Get("snippet.topLevelComment.snippet")
		comment := Comment{
			ID:          item.Get("id").String(),
			Author:      top.Get("authorDisplayName").String(),
			AuthorImage: top.Get("authorProfileImageUrl").String(),
			Text:        top.Get("textDisplay").String(),
			LikeCount:   top.Get("likeCount").Int(),
		}
		if t, err := time.Parse(time.RFC3339, top.Get("publishedAt").String()); err == nil {
			comment.PublishedAt = t
		}
		page.Items = append(page.Items, comment)
		return true
	})

	return page
}

package catalog

import (
	"strings"
	"time"
)

// Statically bundled sample data, served whenever the upstream catalog
// is unreachable or the daily budget is exhausted.

var mockVideos = []Video{
	{
		ID:           "mock-react-hooks-01",
		Title:        "React Hooks Explained in 20 Minutes",
		Description:  "useState, useEffect and custom hooks from scratch.",
		ChannelID:    "mock-chan-webdev",
		ChannelTitle: "WebDev Simplified Labs",
		Tags:         []string{"react", "hooks", "javascript", "tutorial"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-react-hooks-01/hqdefault.jpg",
		PublishedAt:  time.Date(2025, 11, 3, 14, 0, 0, 0, time.UTC),
		Duration:     "PT19M48S",
		ViewCount:    482311,
		LikeCount:    18233,
		CategoryID:   "27",
	},
	{
		ID:           "mock-go-concurrency-02",
		Title:        "Go Concurrency Patterns: Channels and Select",
		Description:  "Worker pools, fan-in/fan-out and cancellation.",
		ChannelID:    "mock-chan-gopher",
		ChannelTitle: "Practical Gopher",
		Tags:         []string{"go", "golang", "concurrency", "tutorial"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-go-concurrency-02/hqdefault.jpg",
		PublishedAt:  time.Date(2025, 9, 21, 9, 30, 0, 0, time.UTC),
		Duration:     "PT24M10S",
		ViewCount:    190457,
		LikeCount:    9120,
		CategoryID:   "27",
	},
	{
		ID:           "mock-typescript-03",
		Title:        "TypeScript Generics for React Developers",
		Description:  "Generic components, hooks and utility types.",
		ChannelID:    "mock-chan-webdev",
		ChannelTitle: "WebDev Simplified Labs",
		Tags:         []string{"typescript", "react", "generics"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-typescript-03/hqdefault.jpg",
		PublishedAt:  time.Date(2025, 12, 12, 17, 15, 0, 0, time.UTC),
		Duration:     "PT15M02S",
		ViewCount:    98211,
		LikeCount:    5012,
		CategoryID:   "27",
	},
	{
		ID:           "mock-sql-indexes-04",
		Title:        "Database Indexes: How They Actually Work",
		Description:  "B-trees, covering indexes and query plans.",
		ChannelID:    "mock-chan-data",
		ChannelTitle: "Data Engineering Daily",
		Tags:         []string{"sql", "database", "indexes", "performance"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-sql-indexes-04/hqdefault.jpg",
		PublishedAt:  time.Date(2025, 8, 2, 11, 0, 0, 0, time.UTC),
		Duration:     "PT21M33S",
		ViewCount:    310882,
		LikeCount:    14201,
		CategoryID:   "28",
	},
	{
		ID:           "mock-docker-05",
		Title:        "Docker Networking Deep Dive",
		Description:  "Bridge networks, overlays and DNS resolution.",
		ChannelID:    "mock-chan-infra",
		ChannelTitle: "Infra Field Notes",
		Tags:         []string{"docker", "networking", "devops"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-docker-05/hqdefault.jpg",
		PublishedAt:  time.Date(2025, 10, 14, 8, 45, 0, 0, time.UTC),
		Duration:     "PT28M51S",
		ViewCount:    150034,
		LikeCount:    7831,
		CategoryID:   "28",
	},
	{
		ID:           "mock-react-state-06",
		Title:        "State Management in React Without a Library",
		Description:  "Context, reducers and the cost of re-renders.",
		ChannelID:    "mock-chan-webdev",
		ChannelTitle: "WebDev Simplified Labs",
		Tags:         []string{"react", "state", "context", "javascript"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-react-state-06/hqdefault.jpg",
		PublishedAt:  time.Date(2026, 1, 9, 16, 0, 0, 0, time.UTC),
		Duration:     "PT17M26S",
		ViewCount:    66109,
		LikeCount:    4290,
		CategoryID:   "27",
	},
	{
		ID:           "mock-python-testing-07",
		Title:        "Pytest Fixtures You Should Be Using",
		Description:  "Parametrize, tmp_path and fixture factories.",
		ChannelID:    "mock-chan-data",
		ChannelTitle: "Data Engineering Daily",
		Tags:         []string{"python", "pytest", "testing"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-python-testing-07/hqdefault.jpg",
		PublishedAt:  time.Date(2025, 7, 19, 13, 20, 0, 0, time.UTC),
		Duration:     "PT13M44S",
		ViewCount:    87772,
		LikeCount:    3988,
		CategoryID:   "27",
	},
	{
		ID:           "mock-kubernetes-08",
		Title:        "Kubernetes for Developers: Just Enough to Ship",
		Description:  "Deployments, services and debugging pods.",
		ChannelID:    "mock-chan-infra",
		ChannelTitle: "Infra Field Notes",
		Tags:         []string{"kubernetes", "devops", "containers"},
		ThumbnailURL: "https://i.ytimg.com/vi/mock-kubernetes-08/hqdefault.jpg",
		PublishedAt:  time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC),
		Duration:     "PT32M07S",
		ViewCount:    240119,
		LikeCount:    11560,
		CategoryID:   "28",
	},
}

var mockChannels = map[string]Channel{
	"mock-chan-webdev": {
		ID:              "mock-chan-webdev",
		Title:           "WebDev Simplified Labs",
		Description:     "Frontend engineering tutorials, one concept at a time.",
		SubscriberCount: 1250000,
		VideoCount:      412,
	},
	"mock-chan-gopher": {
		ID:              "mock-chan-gopher",
		Title:           "Practical Gopher",
		Description:     "Go programming from the trenches.",
		SubscriberCount: 310000,
		VideoCount:      188,
	},
	"mock-chan-data": {
		ID:              "mock-chan-data",
		Title:           "Data Engineering Daily",
		Description:     "Databases, pipelines and everything in between.",
		SubscriberCount: 540000,
		VideoCount:      295,
	},
	"mock-chan-infra": {
		ID:              "mock-chan-infra",
		Title:           "Infra Field Notes",
		Description:     "Operations and infrastructure, explained.",
		SubscriberCount: 420000,
		VideoCount:      233,
	},
}

var mockComments = []Comment{
	{
		ID:          "mock-comment-1",
		Author:      "devlearner42",
		Text:        "This finally made the dependency array click for me. Thanks!",
		LikeCount:   230,
		PublishedAt: time.Date(2026, 1, 11, 19, 2, 0, 0, time.UTC),
	},
	{
		ID:          "mock-comment-2",
		Author:      "marta.codes",
		Text:        "Would love a follow-up covering race conditions in effects.",
		LikeCount:   88,
		PublishedAt: time.Date(2026, 1, 12, 7, 41, 0, 0, time.UTC),
	},
	{
		ID:          "mock-comment-3",
		Author:      "kubefan",
		Text:        "Watching this at 2x before an interview, wish me luck.",
		LikeCount:   45,
		PublishedAt: time.Date(2026, 1, 13, 22, 10, 0, 0, time.UTC),
	},
}

// mockPopular returns up to limit sample videos
func mockPopular(limit int) *VideoPage {
	return &VideoPage{Items: capVideos(mockVideos, limit), FromMock: true}
}

// mockSearch filters the sample data by case-insensitive substring match
// on the title
func mockSearch(query string, limit int) *VideoPage {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return mockPopular(limit)
	}

	matched := []Video{}
	for _, v := range mockVideos {
		if strings.Contains(strings.ToLower(v.Title), q) {
			matched = append(matched, v)
		}
	}
	return &VideoPage{Items: capVideos(matched, limit), FromMock: true}
}

// mockVideosByID returns sample entries for the requested IDs, falling
// back to the first samples for unknown IDs so callers always get data
func mockVideosByID(ids []string) *VideoPage {
	byID := make(map[string]Video, len(mockVideos))
	for _, v := range mockVideos {
		byID[v.ID] = v
	}

	items := []Video{}
	for i, id := range ids {
		if v, ok := byID[id]; ok {
			items = append(items, v)
		} else if i < len(mockVideos) {
			items = append(items, mockVideos[i])
		}
	}
	return &VideoPage{Items: items, FromMock: true}
}

// mockChannel returns a sample channel, defaulting to the first one
func mockChannel(id string) *Channel {
	if ch, ok := mockChannels[id]; ok {
		c := ch
		return &c
	}
	c := mockChannels["mock-chan-webdev"]
	c.ID = id
	return &c
}

// mockCommentPage returns the sample comment threads
func mockCommentPage(limit int) *CommentPage {
	items := mockComments
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return &CommentPage{Items: items, FromMock: true}
}

// mockRelated returns sample videos excluding the seed video itself
func mockRelated(videoID string, limit int) *VideoPage {
	items := []Video{}
	for _, v := range mockVideos {
		if v.ID != videoID {
			items = append(items, v)
		}
	}
	return &VideoPage{Items: capVideos(items, limit), FromMock: true}
}

func capVideos(items []Video, limit int) []Video {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}

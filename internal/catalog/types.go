package catalog

import "time"

// Video is a single catalog entry as rendered by the watch and browse views
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	Tags         []string  `json:"tags,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	PublishedAt  time.Time `json:"publishedAt,omitempty"`
	Duration     string    `json:"duration,omitempty"` // ISO 8601, e.g. PT12M34S
	ViewCount    int64     `json:"viewCount,omitempty"`
	LikeCount    int64     `json:"likeCount,omitempty"`
	CategoryID   string    `json:"categoryId,omitempty"`
}

// VideoPage wraps a video listing with its pagination cursor
type VideoPage struct {
	Items         []Video `json:"items"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	FromMock      bool    `json:"fromMock,omitempty"`
}

// Channel describes a catalog channel
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	SubscriberCount int64  `json:"subscriberCount,omitempty"`
	VideoCount      int64  `json:"videoCount,omitempty"`
}

// Comment is a single top-level comment thread entry
type Comment struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	AuthorImage string    `json:"authorImage,omitempty"`
	Text        string    `json:"text"`
	LikeCount   int64     `json:"likeCount,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// CommentPage wraps a comment listing with its pagination cursor
type CommentPage struct {
	Items         []Comment `json:"items"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
	FromMock      bool      `json:"fromMock,omitempty"`
}

// Package profile tracks the learner's viewing behavior: watch history,
// per-tag interest weights, search history, recommendation history, and
// UI preferences. All state persists through the blob store so a restart
// picks up where the learner left off.
package profile

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/JillVernus/learn-tube/internal/store"
)

const (
	maxWatchHistory          = 50
	maxRecommendationHistory = 200
	maxSearchHistory         = 10
	maxFavoriteTags          = 10
)

// WatchRecord is one watched video in the history, newest first.
// At most one record exists per video; a rewatch updates the duration,
// completion, and timestamp of the existing record.
type WatchRecord struct {
	VideoID              string    `json:"videoId"`
	Title                string    `json:"title"`
	ChannelID            string    `json:"channelId,omitempty"`
	ChannelTitle         string    `json:"channelTitle"`
	ThumbnailURL         string    `json:"thumbnailUrl,omitempty"`
	Tags                 []string  `json:"tags,omitempty"`
	WatchedAt            time.Time `json:"watchedAt"`
	WatchDurationSeconds int       `json:"watchDurationSeconds,omitempty"`
	CompletionPercent    int       `json:"completionPercent,omitempty"`
}

// Profile is the persisted learner state
type Profile struct {
	WatchHistory          []WatchRecord  `json:"watchHistory"`
	InterestWeights       map[string]int `json:"interestWeights"`
	RecommendationHistory []string       `json:"recommendationHistory"`
}

// Preferences holds the persisted UI switches
type Preferences struct {
	DarkMode     bool `json:"darkMode"`
	LearningMode bool `json:"learningMode"`
}

// Store is the subset of blob-store operations the manager needs
type Store interface {
	Load(key string, v interface{}) error
	Save(key string, v interface{}) error
}

// Manager owns the learner profile with a RWMutex around every access
type Manager struct {
	mu            sync.RWMutex
	profile       Profile
	searchHistory []string
	preferences   Preferences
	store         Store
	now           func() time.Time
}

// NewManager restores the profile from the store, starting empty on
// first run
func NewManager(s Store) *Manager {
	m := &Manager{
		store: s,
		now:   time.Now,
		profile: Profile{
			WatchHistory:          []WatchRecord{},
			InterestWeights:       map[string]int{},
			RecommendationHistory: []string{},
		},
		searchHistory: []string{},
	}

	if err := s.Load(store.KeyProfile, &m.profile); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("⚠️ Failed to restore learner profile: %v", err)
	}
	if m.profile.InterestWeights == nil {
		m.profile.InterestWeights = map[string]int{}
	}
	if err := s.Load(store.KeySearchHistory, &m.searchHistory); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("⚠️ Failed to restore search history: %v", err)
	}
	if err := s.Load(store.KeyPreferences, &m.preferences); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("⚠️ Failed to restore preferences: %v", err)
	}

	if len(m.profile.WatchHistory) > 0 {
		log.Printf("🔄 Restored learner profile: %d watched, %d interest tags",
			len(m.profile.WatchHistory), len(m.profile.InterestWeights))
	}

	return m
}

// RecordWatch puts a video at the front of the watch history and bumps
// the interest weight of each of its tags by one. A rewatch updates the
// existing record's duration, completion, and timestamp instead of
// duplicating it; the oldest entry falls off past the cap.
func (m *Manager) RecordWatch(rec WatchRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.WatchedAt.IsZero() {
		rec.WatchedAt = m.now()
	}
	if rec.CompletionPercent < 0 {
		rec.CompletionPercent = 0
	}
	if rec.CompletionPercent > 100 {
		rec.CompletionPercent = 100
	}

	filtered := make([]WatchRecord, 0, len(m.profile.WatchHistory)+1)
	for _, r := range m.profile.WatchHistory {
		if r.VideoID != rec.VideoID {
			filtered = append(filtered, r)
			continue
		}
		// Rewatch: carry metadata forward when the new event omits it
		if rec.Title == "" {
			rec.Title = r.Title
		}
		if rec.ChannelID == "" {
			rec.ChannelID = r.ChannelID
		}
		if rec.ChannelTitle == "" {
			rec.ChannelTitle = r.ChannelTitle
		}
		if rec.ThumbnailURL == "" {
			rec.ThumbnailURL = r.ThumbnailURL
		}
		if len(rec.Tags) == 0 {
			rec.Tags = r.Tags
		}
	}
	filtered = append([]WatchRecord{rec}, filtered...)
	if len(filtered) > maxWatchHistory {
		filtered = filtered[:maxWatchHistory]
	}
	m.profile.WatchHistory = filtered

	for _, tag := range rec.Tags {
		m.profile.InterestWeights[tag]++
	}

	m.persistProfileLocked()
}

// WatchHistory returns a copy of the history, newest first
func (m *Manager) WatchHistory() []WatchRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]WatchRecord, len(m.profile.WatchHistory))
	copy(out, m.profile.WatchHistory)
	return out
}

// LatestWatch returns the most recent watch record, or false when the
// history is empty
func (m *Manager) LatestWatch() (WatchRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.profile.WatchHistory) == 0 {
		return WatchRecord{}, false
	}
	return m.profile.WatchHistory[0], true
}

// InterestWeights returns a copy of the tag weight map
func (m *Manager) InterestWeights() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.profile.InterestWeights))
	for k, v := range m.profile.InterestWeights {
		out[k] = v
	}
	return out
}

// FavoriteTags returns the highest-weighted tags, at most ten, ties
// broken alphabetically so the result is stable
func (m *Manager) FavoriteTags() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]string, 0, len(m.profile.InterestWeights))
	for tag := range m.profile.InterestWeights {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		wi, wj := m.profile.InterestWeights[tags[i]], m.profile.InterestWeights[tags[j]]
		if wi != wj {
			return wi > wj
		}
		return tags[i] < tags[j]
	})
	if len(tags) > maxFavoriteTags {
		tags = tags[:maxFavoriteTags]
	}
	return tags
}

// SeenRecommendations returns the set of video IDs already recommended
func (m *Manager) SeenRecommendations() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]bool, len(m.profile.RecommendationHistory))
	for _, id := range m.profile.RecommendationHistory {
		out[id] = true
	}
	return out
}

// WatchedVideoIDs returns the set of video IDs in the watch history
func (m *Manager) WatchedVideoIDs() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]bool, len(m.profile.WatchHistory))
	for _, r := range m.profile.WatchHistory {
		out[r.VideoID] = true
	}
	return out
}

// RecordRecommendations appends served video IDs to the recommendation
// history, trimming the oldest entries past the cap
func (m *Manager) RecordRecommendations(videoIDs []string) {
	if len(videoIDs) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.profile.RecommendationHistory = append(m.profile.RecommendationHistory, videoIDs...)
	if n := len(m.profile.RecommendationHistory); n > maxRecommendationHistory {
		m.profile.RecommendationHistory = m.profile.RecommendationHistory[n-maxRecommendationHistory:]
	}

	m.persistProfileLocked()
}

// SearchHistory returns a copy of the recent searches, newest first
func (m *Manager) SearchHistory() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.searchHistory))
	copy(out, m.searchHistory)
	return out
}

// RecordSearch puts a query at the front of the search history,
// deduplicating and keeping at most ten entries
func (m *Manager) RecordSearch(query string) {
	if query == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := make([]string, 0, len(m.searchHistory)+1)
	filtered = append(filtered, query)
	for _, q := range m.searchHistory {
		if q != query {
			filtered = append(filtered, q)
		}
	}
	if len(filtered) > maxSearchHistory {
		filtered = filtered[:maxSearchHistory]
	}
	m.searchHistory = filtered

	if err := m.store.Save(store.KeySearchHistory, m.searchHistory); err != nil {
		log.Printf("⚠️ Failed to persist search history: %v", err)
	}
}

// SetSearchHistory replaces the search history wholesale, used by the
// clear action
func (m *Manager) SetSearchHistory(queries []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if queries == nil {
		queries = []string{}
	}
	if len(queries) > maxSearchHistory {
		queries = queries[:maxSearchHistory]
	}
	m.searchHistory = queries

	if err := m.store.Save(store.KeySearchHistory, m.searchHistory); err != nil {
		log.Printf("⚠️ Failed to persist search history: %v", err)
	}
}

// Preferences returns the current UI preferences
func (m *Manager) Preferences() Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preferences
}

// SetPreferences replaces the UI preferences
func (m *Manager) SetPreferences(p Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.preferences = p
	if err := m.store.Save(store.KeyPreferences, m.preferences); err != nil {
		log.Printf("⚠️ Failed to persist preferences: %v", err)
	}
}

func (m *Manager) persistProfileLocked() {
	if err := m.store.Save(store.KeyProfile, m.profile); err != nil {
		log.Printf("⚠️ Failed to persist learner profile: %v", err)
	}
}

// Package recommend ranks related-video candidates against the learner's
// accumulated interests.
package recommend

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/JillVernus/learn-tube/internal/catalog"
	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/JillVernus/learn-tube/internal/profile"
)

const (
	favoriteTagBonus = 5
	educationalBonus = 10
)

// educationalCategories are the catalog category IDs counted as
// educational: 27 is Education, 28 is Science & Technology
var educationalCategories = map[string]bool{
	"27": true,
	"28": true,
}

var educationalKeywords = []string{
	"tutorial", "course", "learn", "lesson", "lecture",
	"guide", "explained", "introduction", "how to",
}

// Scored pairs a video with its relevance score
type Scored struct {
	Video catalog.Video `json:"video"`
	Score int           `json:"score"`
}

// Engine produces ranked recommendations from the latest watch
type Engine struct {
	catalog  *catalog.Client
	profiles *profile.Manager
	settings *config.SettingsManager
}

// NewEngine creates a recommendation engine
func NewEngine(c *catalog.Client, p *profile.Manager, s *config.SettingsManager) *Engine {
	return &Engine{catalog: c, profiles: p, settings: s}
}

// Recommend returns up to limit videos ranked most-relevant-first.
// Candidates come from the videos related to the most recent watch,
// minus anything already watched or already recommended. Served IDs
// are appended to the recommendation history so refreshes rotate
// through fresh material.
func (e *Engine) Recommend(ctx context.Context, limit int) []Scored {
	latest, ok := e.profiles.LatestWatch()
	if !ok {
		return []Scored{}
	}
	if limit <= 0 {
		limit = 10
	}

	fetchSize := e.settings.Get().RelatedFetchSize
	related := e.catalog.RelatedVideos(ctx, latest.VideoID, fetchSize)

	watched := e.profiles.WatchedVideoIDs()
	seen := e.profiles.SeenRecommendations()

	candidates := make([]catalog.Video, 0, len(related.Items))
	for _, v := range related.Items {
		if watched[v.ID] || seen[v.ID] {
			continue
		}
		candidates = append(candidates, v)
	}

	weights := e.profiles.InterestWeights()
	favorites := make(map[string]bool)
	for _, tag := range e.profiles.FavoriteTags() {
		favorites[tag] = true
	}

	scored := make([]Scored, 0, len(candidates))
	for _, v := range candidates {
		scored = append(scored, Scored{Video: v, Score: Score(v, weights, favorites)})
	}

	// Stable sort keeps the related-videos order for equal scores
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	served := make([]string, len(scored))
	for i, s := range scored {
		served[i] = s.Video.ID
	}
	e.profiles.RecordRecommendations(served)

	log.Printf("🔄 Recommended %d of %d candidates from %q", len(scored), len(candidates), latest.Title)
	return scored
}

// Score computes a candidate's relevance: the sum of interest weights
// over its tags, +5 per tag in the favorites set, +10 when the video
// looks educational
func Score(v catalog.Video, weights map[string]int, favorites map[string]bool) int {
	score := 0
	for _, tag := range v.Tags {
		score += weights[tag]
		if favorites[tag] {
			score += favoriteTagBonus
		}
	}
	if IsEducational(v) {
		score += educationalBonus
	}
	return score
}

// IsEducational flags a video by its category or by teaching keywords
// in the title or tags
func IsEducational(v catalog.Video) bool {
	if educationalCategories[v.CategoryID] {
		return true
	}

	title := strings.ToLower(v.Title)
	for _, kw := range educationalKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	for _, tag := range v.Tags {
		lower := strings.ToLower(tag)
		for _, kw := range educationalKeywords {
			if lower == kw {
				return true
			}
		}
	}
	return false
}

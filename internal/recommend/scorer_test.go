package recommend

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/JillVernus/learn-tube/internal/catalog"
	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/JillVernus/learn-tube/internal/profile"
	"github.com/JillVernus/learn-tube/internal/quota"
	"github.com/JillVernus/learn-tube/internal/rotation"
	"github.com/JillVernus/learn-tube/internal/store"
)

type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Load(key string, v interface{}) error {
	raw, ok := m.blobs[key]
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

func (m *memStore) Save(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.blobs[key] = raw
	return nil
}

func mockOnlySettings(t *testing.T) *config.SettingsManager {
	t.Helper()

	s := config.DefaultSettings()
	s.MockOnly = true

	path := filepath.Join(t.TempDir(), "settings.json")
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal settings: %+v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write settings: %+v", err)
	}

	sm, err := config.NewSettingsManager(path)
	if err != nil {
		t.Fatalf("settings manager: %+v", err)
	}
	t.Cleanup(func() { sm.Close() })
	return sm
}

func testEngine(t *testing.T) (*Engine, *profile.Manager) {
	t.Helper()

	sm := mockOnlySettings(t)
	tracker := quota.NewTracker(1000000, nil)
	rot := rotation.NewTracker(nil)
	client := catalog.NewClient([]string{"test-key"}, sm, tracker, rot)
	profiles := profile.NewManager(newMemStore())
	return NewEngine(client, profiles, sm), profiles
}

func TestScoreSumsInterestWeights(t *testing.T) {
	weights := map[string]int{"react": 1, "hooks": 1}
	v := catalog.Video{ID: "c1", Title: "Some Video", Tags: []string{"react"}}

	if got := Score(v, weights, nil); got != 1 {
		t.Fatalf("expected score 1 from interest weight, got %d", got)
	}
}

func TestScoreFavoriteTagBonus(t *testing.T) {
	weights := map[string]int{"react": 2}
	favorites := map[string]bool{"react": true}
	v := catalog.Video{ID: "c1", Title: "Some Video", Tags: []string{"react"}}

	// 2 from weight + 5 favorite bonus
	if got := Score(v, weights, favorites); got != 7 {
		t.Fatalf("expected score 7, got %d", got)
	}
}

func TestScoreEducationalBonus(t *testing.T) {
	v := catalog.Video{ID: "c1", Title: "Some Video", CategoryID: "27"}
	if got := Score(v, nil, nil); got != 10 {
		t.Fatalf("expected flat educational bonus 10, got %d", got)
	}

	keyword := catalog.Video{ID: "c2", Title: "Kubernetes Tutorial for Beginners"}
	if got := Score(keyword, nil, nil); got != 10 {
		t.Fatalf("expected keyword-based educational bonus, got %d", got)
	}

	plain := catalog.Video{ID: "c3", Title: "Cat Compilation 2026", CategoryID: "24"}
	if got := Score(plain, nil, nil); got != 0 {
		t.Fatalf("expected no bonus for entertainment, got %d", got)
	}
}

func TestRecommendEmptyWithoutHistory(t *testing.T) {
	engine, _ := testEngine(t)

	if got := engine.Recommend(context.Background(), 10); len(got) != 0 {
		t.Fatalf("expected no recommendations without watch history, got %d", len(got))
	}
}

func TestRecommendExcludesWatchedAndRanks(t *testing.T) {
	engine, profiles := testEngine(t)

	// Watching a react video seeds interest in react-tagged candidates
	profiles.RecordWatch(profile.WatchRecord{
		VideoID: "mock-react-hooks-01",
		Title:   "React Hooks Explained in 20 Minutes",
		Tags:    []string{"react", "hooks"},
	})

	results := engine.Recommend(context.Background(), 5)
	if len(results) == 0 {
		t.Fatalf("expected recommendations from related mock videos")
	}

	for _, r := range results {
		if r.Video.ID == "mock-react-hooks-01" {
			t.Fatalf("watched video must not be recommended")
		}
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not sorted by score: %d before %d", results[i-1].Score, results[i].Score)
		}
	}

	// react-tagged candidates outrank unrelated ones
	if len(results[0].Video.Tags) == 0 {
		t.Fatalf("expected a tagged candidate on top, got %+v", results[0].Video)
	}
}

func TestRecommendationsRotateThroughHistory(t *testing.T) {
	engine, profiles := testEngine(t)

	profiles.RecordWatch(profile.WatchRecord{
		VideoID: "mock-react-hooks-01",
		Tags:    []string{"react", "hooks"},
	})

	first := engine.Recommend(context.Background(), 3)
	if len(first) == 0 {
		t.Fatalf("expected initial recommendations")
	}

	seen := make(map[string]bool)
	for _, r := range first {
		seen[r.Video.ID] = true
	}

	// A refresh never repeats what was already served
	second := engine.Recommend(context.Background(), 3)
	for _, r := range second {
		if seen[r.Video.ID] {
			t.Fatalf("recommendation %s repeated across refreshes", r.Video.ID)
		}
	}
}

func TestRecommendHonorsLimit(t *testing.T) {
	engine, profiles := testEngine(t)

	profiles.RecordWatch(profile.WatchRecord{
		VideoID: "mock-react-hooks-01",
		Tags:    []string{"react"},
	})

	results := engine.Recommend(context.Background(), 2)
	if len(results) > 2 {
		t.Fatalf("expected at most 2 results, got %d", len(results))
	}
}

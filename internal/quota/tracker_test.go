package quota

import (
	"encoding/json"
	"testing"
	"time"

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

func TestRecordUsageCosts(t *testing.T) {
	tr := NewTracker(10000, newMemStore())

	tr.RecordUsage(KindSearch)
	if got := tr.Status().UsedToday; got != 100 {
		t.Fatalf("search should cost 100 units, used=%d", got)
	}

	tr.RecordUsage(KindVideos)
	tr.RecordUsage(KindChannels)
	tr.RecordUsage(KindComments)
	tr.RecordUsage(KindRelated)
	if got := tr.Status().UsedToday; got != 104 {
		t.Fatalf("non-search calls should cost 1 unit each, used=%d", got)
	}
}

func TestExceededThresholdIsSticky(t *testing.T) {
	tr := NewTracker(1000, newMemStore())

	// 8 searches = 800 units, still under 90%
	for i := 0; i < 8; i++ {
		if exceeded := tr.RecordUsage(KindSearch); exceeded {
			t.Fatalf("exceeded at %d units, threshold should be 900", tr.Status().UsedToday)
		}
	}

	// 9th search hits 900 = exactly 90%
	if exceeded := tr.RecordUsage(KindSearch); !exceeded {
		t.Fatalf("expected exceeded at 900/1000 units")
	}
	if !tr.Exceeded() {
		t.Fatalf("exceeded flag should be sticky")
	}

	// Stays exceeded on cheap calls too
	tr.RecordUsage(KindVideos)
	if !tr.Exceeded() {
		t.Fatalf("exceeded flag should survive further usage")
	}
}

func TestDateRolloverResetsUsage(t *testing.T) {
	tr := NewTracker(1000, newMemStore())
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return day }
	tr.state.ResetDate = day.Format("2006-01-02")

	for i := 0; i < 9; i++ {
		tr.RecordUsage(KindSearch)
	}
	if !tr.Exceeded() {
		t.Fatalf("expected exceeded before rollover")
	}

	day = day.Add(24 * time.Hour)
	if tr.Exceeded() {
		t.Fatalf("new day should clear the exceeded flag")
	}
	if got := tr.Status().UsedToday; got != 0 {
		t.Fatalf("new day should zero usage, got %d", got)
	}
	if got := tr.Status().ResetDate; got != "2026-03-02" {
		t.Fatalf("reset date should advance, got %s", got)
	}
}

func TestMarkExceededFromUpstream(t *testing.T) {
	tr := NewTracker(10000, newMemStore())

	if tr.Exceeded() {
		t.Fatalf("fresh tracker should not be exceeded")
	}

	tr.MarkExceeded("quotaExceeded")
	if !tr.Exceeded() {
		t.Fatalf("upstream rejection should flip exceeded")
	}
	if got := tr.Status().UsedToday; got != 0 {
		t.Fatalf("MarkExceeded should not fabricate usage, got %d", got)
	}
}

func TestManualReset(t *testing.T) {
	tr := NewTracker(1000, newMemStore())
	for i := 0; i < 9; i++ {
		tr.RecordUsage(KindSearch)
	}
	if !tr.Exceeded() {
		t.Fatalf("expected exceeded before reset")
	}

	tr.Reset()
	if tr.Exceeded() {
		t.Fatalf("reset should clear exceeded")
	}
	if got := tr.Status().UsedToday; got != 0 {
		t.Fatalf("reset should zero usage, got %d", got)
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	s := newMemStore()

	tr := NewTracker(1000, s)
	tr.RecordUsage(KindSearch)
	tr.RecordUsage(KindVideos)

	restored := NewTracker(1000, s)
	if got := restored.Status().UsedToday; got != 101 {
		t.Fatalf("expected restored usage 101, got %d", got)
	}
}

func TestRestoredLimitFollowsConfig(t *testing.T) {
	s := newMemStore()

	tr := NewTracker(1000, s)
	tr.RecordUsage(KindVideos)

	// The configured limit wins over the persisted one
	restored := NewTracker(5000, s)
	if got := restored.Status().DailyLimit; got != 5000 {
		t.Fatalf("expected configured limit 5000, got %d", got)
	}
}

func TestNilStoreIsUsable(t *testing.T) {
	tr := NewTracker(1000, nil)
	tr.RecordUsage(KindSearch)
	if got := tr.Status().UsedToday; got != 100 {
		t.Fatalf("expected in-memory tracking without a store, used=%d", got)
	}
}

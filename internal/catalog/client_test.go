package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/JillVernus/learn-tube/internal/quota"
	"github.com/JillVernus/learn-tube/internal/rotation"
)

func testSettings(t *testing.T, baseURL string) *config.SettingsManager {
	t.Helper()

	s := config.DefaultSettings()
	s.CatalogBaseURL = baseURL

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

func testClient(t *testing.T, baseURL string, dailyLimit int) (*Client, *quota.Tracker, *rotation.Tracker) {
	t.Helper()

	tracker := quota.NewTracker(dailyLimit, nil)
	rot := rotation.NewTracker(nil)
	sm := testSettings(t, baseURL)
	return NewClient([]string{"test-key-1", "test-key-2"}, sm, tracker, rot), tracker, rot
}

func TestSearchHydratesDetails(t *testing.T) {
	var sawKey string
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		sawKey = r.URL.Query().Get("key")
		w.Write([]byte(`{
			"nextPageToken": "tok-2",
			"items": [
				{"id": {"videoId": "vid-1"}},
				{"id": {"videoId": "vid-2"}}
			]
		}`))
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"items": [
				{"id": "vid-1", "snippet": {"title": "Go Tutorial", "channelId": "ch-1", "channelTitle": "GoTube", "tags": ["go", "tutorial"], "categoryId": "27", "publishedAt": "2026-01-10T08:00:00Z", "thumbnails": {"high": {"url": "http://img/1"}}}, "contentDetails": {"duration": "PT10M"}, "statistics": {"viewCount": "1200", "likeCount": "80"}},
				{"id": "vid-2", "snippet": {"title": "Rust Intro"}}
			]
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, tracker, _ := testClient(t, srv.URL, 100000)

	page := client.Search(context.Background(), "go", 10, "")
	if page.FromMock {
		t.Fatalf("expected live results, got mock")
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 hydrated videos, got %d", len(page.Items))
	}
	if page.NextPageToken != "tok-2" {
		t.Fatalf("expected search pagination token, got %q", page.NextPageToken)
	}

	v := page.Items[0]
	if v.Title != "Go Tutorial" || v.ViewCount != 1200 || len(v.Tags) != 2 {
		t.Fatalf("unexpected parsed video: %+v", v)
	}
	if sawKey != "test-key-1" {
		t.Fatalf("expected first rotation key, got %q", sawKey)
	}

	// search costs 100, hydration costs 1 per ID
	if got := tracker.Status().UsedToday; got != 102 {
		t.Fatalf("expected 102 units used, got %d", got)
	}
}

func TestExceededServesMockWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client, tracker, _ := testClient(t, srv.URL, 1000)
	tracker.MarkExceeded("test")

	page := client.Search(context.Background(), "react", 10, "")
	if !page.FromMock {
		t.Fatalf("expected mock fallback when exceeded")
	}
	if called {
		t.Fatalf("exceeded budget should skip the network entirely")
	}
}

func TestTrippingCallStillSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	// 100-unit budget: the first search reaches 100 >= 90, tripping
	client, tracker, _ := testClient(t, srv.URL, 100)

	page := client.Search(context.Background(), "react", 10, "")
	if !page.FromMock {
		t.Fatalf("expected mock on the tripping call")
	}
	if called {
		t.Fatalf("the tripping call must not hit the network")
	}
	if got := tracker.Status().UsedToday; got != 100 {
		t.Fatalf("the tripping call is still costed, got %d", got)
	}
}

func TestUpstreamQuotaErrorMarksExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "quota exceeded", "errors": [{"reason": "quotaExceeded"}]}}`))
	}))
	defer srv.Close()

	client, tracker, rot := testClient(t, srv.URL, 100000)

	page := client.PopularVideos(context.Background(), 10, "")
	if !page.FromMock {
		t.Fatalf("expected mock fallback on upstream quota error")
	}
	if !tracker.Exceeded() {
		t.Fatalf("upstream quota rejection should flip the tracker")
	}
	creds, _ := rot.FailedCounts()
	if creds != 1 {
		t.Fatalf("the rejected key should be demoted, got %d failed", creds)
	}
}

func TestTransportFailureFallsBackToMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client, _, _ := testClient(t, srv.URL, 100000)

	page := client.PopularVideos(context.Background(), 10, "")
	if !page.FromMock {
		t.Fatalf("expected mock fallback on connection failure")
	}
	if len(page.Items) == 0 {
		t.Fatalf("mock fallback should not be empty")
	}
}

func TestVideoDetailsCostsEveryID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	// 10-unit budget trips at 9; a 12-ID batch still costs all 12
	client, tracker, _ := testClient(t, srv.URL, 10)

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = "v"
	}
	page := client.VideoDetails(context.Background(), ids)
	if !page.FromMock {
		t.Fatalf("expected mock after tripping mid-batch")
	}
	if got := tracker.Status().UsedToday; got != 12 {
		t.Fatalf("every ID in the batch is costed, got %d", got)
	}
}

func TestRelatedExcludesSeedInMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, _, _ := testClient(t, srv.URL, 100000)

	seed := mockVideos[0].ID
	page := client.RelatedVideos(context.Background(), seed, 20)
	for _, v := range page.Items {
		if v.ID == seed {
			t.Fatalf("related results must not include the seed video")
		}
	}
}

func TestMockSearchFiltersByTitle(t *testing.T) {
	page := mockSearch("react", 10)
	if len(page.Items) == 0 {
		t.Fatalf("expected mock hits for react")
	}
	for _, v := range page.Items {
		if !strings.Contains(strings.ToLower(v.Title), "react") {
			t.Fatalf("unexpected mock hit %q", v.Title)
		}
	}

	// Unknown terms return nothing rather than everything
	if got := mockSearch("zzzzz", 10); len(got.Items) != 0 {
		t.Fatalf("expected no hits for nonsense query, got %d", len(got.Items))
	}
}

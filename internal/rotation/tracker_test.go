package rotation

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

func TestNextCredentialSkipsFailed(t *testing.T) {
	tr := NewTracker(newMemStore())
	keys := []string{"key-a", "key-b", "key-c"}

	if got := tr.NextCredential(ScopeCatalog, keys); got != "key-a" {
		t.Fatalf("expected key-a first, got %q", got)
	}

	tr.MarkCredentialFailed(ScopeCatalog, "key-a")
	if got := tr.NextCredential(ScopeCatalog, keys); got != "key-b" {
		t.Fatalf("expected key-b after demotion, got %q", got)
	}

	tr.MarkCredentialFailed(ScopeCatalog, "key-b")
	if got := tr.NextCredential(ScopeCatalog, keys); got != "key-c" {
		t.Fatalf("expected key-c, got %q", got)
	}
}

func TestNextCredentialWrapsAround(t *testing.T) {
	tr := NewTracker(newMemStore())
	keys := []string{"key-a", "key-b", "key-c"}

	tr.MarkCredentialFailed(ScopeCatalog, "key-c")
	tr.credentialCursors[ScopeCatalog] = 2
	if got := tr.NextCredential(ScopeCatalog, keys); got != "key-a" {
		t.Fatalf("expected wrap to key-a, got %q", got)
	}
}

func TestAllCredentialsFailed(t *testing.T) {
	tr := NewTracker(newMemStore())
	keys := []string{"key-a", "key-b"}

	tr.MarkCredentialFailed(ScopeCatalog, "key-a")
	tr.MarkCredentialFailed(ScopeCatalog, "key-b")
	if got := tr.NextCredential(ScopeCatalog, keys); got != "" {
		t.Fatalf("expected empty when all failed, got %q", got)
	}
}

func TestNoCandidates(t *testing.T) {
	tr := NewTracker(newMemStore())
	if got := tr.NextCredential(ScopeCatalog, nil); got != "" {
		t.Fatalf("expected empty for no candidates, got %q", got)
	}
	if got := tr.NextModel(nil); got != "" {
		t.Fatalf("expected empty for no models, got %q", got)
	}
}

func TestModelRotationIsIndependent(t *testing.T) {
	tr := NewTracker(newMemStore())
	keys := []string{"key-a", "key-b"}
	models := []string{"model-1", "model-2"}

	tr.MarkModelFailed("model-1")
	if got := tr.NextModel(models); got != "model-2" {
		t.Fatalf("expected model-2, got %q", got)
	}
	// Credential rotation is unaffected by model demotions
	if got := tr.NextCredential(ScopeCatalog, keys); got != "key-a" {
		t.Fatalf("expected key-a untouched, got %q", got)
	}
}

func TestRecoveryWindowClearsWholesale(t *testing.T) {
	tr := NewTracker(newMemStore())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return base }
	tr.lastResetAt = base

	tr.MarkCredentialFailed(ScopeCatalog, "key-a")
	tr.MarkModelFailed("model-1")

	// Just under the window: still demoted
	base = base.Add(recoveryWindow - time.Second)
	creds, models := tr.FailedCounts()
	if creds != 1 || models != 1 {
		t.Fatalf("expected demotions within window, got creds=%d models=%d", creds, models)
	}

	// Past the window: both sets cleared at once
	base = base.Add(2 * time.Second)
	creds, models = tr.FailedCounts()
	if creds != 0 || models != 0 {
		t.Fatalf("expected wholesale clear, got creds=%d models=%d", creds, models)
	}
	if got := tr.NextCredential(ScopeCatalog, []string{"key-a"}); got != "key-a" {
		t.Fatalf("expected key-a usable again, got %q", got)
	}
}

func TestResetClearsImmediately(t *testing.T) {
	tr := NewTracker(newMemStore())
	tr.MarkCredentialFailed(ScopeCatalog, "key-a")

	tr.Reset()
	creds, _ := tr.FailedCounts()
	if creds != 0 {
		t.Fatalf("expected cleared after reset, got %d", creds)
	}
}

func TestCredentialCursorsAreScoped(t *testing.T) {
	tr := NewTracker(newMemStore())
	catalogKeys := []string{"yt-a", "yt-b", "yt-c"}
	genaiKeys := []string{"gm-a", "gm-b"}

	// Advance the catalog cursor past the first key.
	tr.MarkCredentialFailed(ScopeCatalog, "yt-a")
	if got := tr.NextCredential(ScopeCatalog, catalogKeys); got != "yt-b" {
		t.Fatalf("expected yt-b for catalog, got %q", got)
	}

	// The genai scan still starts at its own first key.
	if got := tr.NextCredential(ScopeGenAI, genaiKeys); got != "gm-a" {
		t.Fatalf("expected gm-a for genai, got %q", got)
	}

	// And moving the genai cursor leaves the catalog position alone.
	tr.credentialCursors[ScopeGenAI] = 1
	if got := tr.NextCredential(ScopeGenAI, genaiKeys); got != "gm-b" {
		t.Fatalf("expected gm-b for genai, got %q", got)
	}
	if got := tr.NextCredential(ScopeCatalog, catalogKeys); got != "yt-b" {
		t.Fatalf("expected catalog cursor unchanged, got %q", got)
	}
}

func TestScopedCursorsPersistAcrossRestart(t *testing.T) {
	s := newMemStore()

	tr := NewTracker(s)
	tr.credentialCursors[ScopeGenAI] = 1
	tr.MarkCredentialFailed(ScopeCatalog, "yt-a") // advances catalog to 1 and persists

	restored := NewTracker(s)
	if got := restored.credentialCursors[ScopeCatalog]; got != 1 {
		t.Fatalf("expected catalog cursor 1 after restart, got %d", got)
	}
	if got := restored.credentialCursors[ScopeGenAI]; got != 1 {
		t.Fatalf("expected genai cursor 1 after restart, got %d", got)
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	s := newMemStore()

	tr := NewTracker(s)
	tr.MarkCredentialFailed(ScopeCatalog, "key-a")
	tr.MarkModelFailed("model-1")

	restored := NewTracker(s)
	creds, models := restored.FailedCounts()
	if creds != 1 || models != 1 {
		t.Fatalf("expected restored demotions, got creds=%d models=%d", creds, models)
	}
	if got := restored.NextCredential(ScopeCatalog, []string{"key-a", "key-b"}); got != "key-b" {
		t.Fatalf("expected restored tracker to skip key-a, got %q", got)
	}
}

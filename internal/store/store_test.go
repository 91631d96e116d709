package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/JillVernus/learn-tube/internal/database"
)

func testStore(t *testing.T) *BlobStore {
	t.Helper()

	db, err := database.New(database.Config{
		Type: database.DialectSQLite,
		URL:  filepath.Join(t.TempDir(), "state.db"),
	})
	if err != nil {
		t.Fatalf("open db: %+v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := New(db)
	if err != nil {
		t.Fatalf("init store: %+v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)

	type blob struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := s.Save("test_blob", blob{Name: "quota", Count: 42}); err != nil {
		t.Fatalf("save: %+v", err)
	}

	var got blob
	if err := s.Load("test_blob", &got); err != nil {
		t.Fatalf("load: %+v", err)
	}
	if got.Name != "quota" || got.Count != 42 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := testStore(t)

	var v map[string]interface{}
	err := s.Load("never_saved", &v)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %+v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := testStore(t)

	if err := s.Save("counter", 1); err != nil {
		t.Fatalf("save: %+v", err)
	}
	if err := s.Save("counter", 2); err != nil {
		t.Fatalf("overwrite: %+v", err)
	}

	var got int
	if err := s.Load("counter", &got); err != nil {
		t.Fatalf("load: %+v", err)
	}
	if got != 2 {
		t.Fatalf("expected overwritten value 2, got %d", got)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	if err := s.Save("doomed", "x"); err != nil {
		t.Fatalf("save: %+v", err)
	}
	if err := s.Delete("doomed"); err != nil {
		t.Fatalf("delete: %+v", err)
	}

	var v string
	if err := s.Load("doomed", &v); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %+v", err)
	}
}

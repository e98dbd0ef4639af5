package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/codedesc/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func entryAt(path string, at time.Time) model.Entry {
	return model.Entry{
		Path:        path,
		Description: "describes " + path,
		Provider:    "openai",
		Size:        42,
		RunID:       "run-1",
		DescribedAt: at,
	}
}

func TestSaveThenGet(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Save(entryAt("main.go", at)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := s.Get("main.go")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected entry to be found after Save")
	}
	if got.Description != "describes main.go" || got.Provider != "openai" || got.Size != 42 || got.RunID != "run-1" {
		t.Errorf("got %+v", got)
	}
	if !got.DescribedAt.Equal(at) {
		t.Errorf("DescribedAt = %v, want %v", got.DescribedAt, at)
	}
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.Get("does-not-exist.go")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected found=false for unknown path")
	}
}

func TestSaveReplacesPreviousDescription(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Save(entryAt("a.py", at)); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	updated := entryAt("a.py", at.Add(time.Hour))
	updated.Description = "(unknown)"
	updated.RunID = "run-2"
	if err := s.Save(updated); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, _, err := s.Get("a.py")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Description != "(unknown)" || got.RunID != "run-2" {
		t.Errorf("got %+v, want replaced entry", got)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}

func TestListSinceFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, e := range []model.Entry{
		entryAt("z.go", base.Add(2*time.Hour)),
		entryAt("old.go", base.Add(-48*time.Hour)),
		entryAt("a.go", base.Add(time.Hour)),
	} {
		if err := s.Save(e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := s.List(time.Time{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(zero) len = %d, want 3", len(all))
	}

	recent, err := s.List(base)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recent) != 2 || recent[0].Path != "a.go" || recent[1].Path != "z.go" {
		t.Errorf("List(base) = %+v, want [a.go z.go]", recent)
	}
}

func TestNopStore(t *testing.T) {
	s := NewNopStore()
	if err := s.Save(entryAt("a.go", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, found, _ := s.Get("a.go"); found {
		t.Error("NopStore must not remember entries")
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

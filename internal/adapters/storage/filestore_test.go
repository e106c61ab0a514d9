package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"flex_reviews/internal/adapters/storage"
)

func tempStore(t *testing.T) (*storage.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	return storage.New(path), path
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, _ := tempStore(t)
	_, ok, err := s.Get("approvedReviews")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for absent key")
	}
}

func TestFileStore_SetGetClear(t *testing.T) {
	s, _ := tempStore(t)

	if err := s.Set("approvedReviews", []byte(`["1","2"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get("approvedReviews")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `["1","2"]` {
		t.Fatalf("value = %s", v)
	}

	if err := s.Clear("approvedReviews"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := s.Get("approvedReviews"); ok {
		t.Fatalf("expected key gone after clear")
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	s, path := tempStore(t)
	if err := s.Set("approvedReviews", []byte(`["a"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	s2 := storage.New(path)
	v, ok, err := s2.Get("approvedReviews")
	if err != nil || !ok {
		t.Fatalf("reopen get: ok=%v err=%v", ok, err)
	}
	if string(v) != `["a"]` {
		t.Fatalf("value = %s", v)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	s, path := tempStore(t)
	if err := os.WriteFile(path, []byte("{{{{"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	if _, _, err := s.Get("approvedReviews"); err == nil {
		t.Fatalf("expected error reading corrupt store")
	}

	// writes rebuild the store instead of failing forever
	if err := s.Set("approvedReviews", []byte(`[]`)); err != nil {
		t.Fatalf("set after corruption: %v", err)
	}
	v, ok, err := s.Get("approvedReviews")
	if err != nil || !ok || string(v) != `[]` {
		t.Fatalf("recovered get: v=%s ok=%v err=%v", v, ok, err)
	}
}

func TestFileStore_KeysAreIndependent(t *testing.T) {
	s, _ := tempStore(t)
	_ = s.Set("a", []byte(`1`))
	_ = s.Set("b", []byte(`2`))
	_ = s.Clear("a")

	if _, ok, _ := s.Get("a"); ok {
		t.Fatalf("a should be cleared")
	}
	v, ok, _ := s.Get("b")
	if !ok || string(v) != `2` {
		t.Fatalf("b lost: v=%s ok=%v", v, ok)
	}
}

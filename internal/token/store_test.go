package token

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s
}

func TestStore_GetEmpty(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.Get(); ok {
		t.Error("expected no token in a fresh store")
	}
}

func TestStore_SetGet(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("abc.def.ghi"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := s.Get()
	if !ok {
		t.Fatal("expected token after Set")
	}
	if got != "abc.def.ghi" {
		t.Errorf("got %q, want abc.def.ghi", got)
	}
}

func TestStore_SetReplaces(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("first"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("second"); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Get()
	if got != "second" {
		t.Errorf("got %q, want second", got)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("tok"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := s.Get(); ok {
		t.Error("expected no token after Clear")
	}

	// Clearing again must stay a no-op
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

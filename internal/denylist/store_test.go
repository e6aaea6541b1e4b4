package denylist

import (
	"path/filepath"
	"reflect"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "denylist.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	t.Run("add and list", func(t *testing.T) {
		s := openTemp(t)
		if err := s.Add("frida", "instrumentation"); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if err := s.Add("x64dbg", ""); err != nil {
			t.Fatalf("Add: %v", err)
		}

		names, err := s.Names()
		if err != nil {
			t.Fatalf("Names: %v", err)
		}
		if want := []string{"frida", "x64dbg"}; !reflect.DeepEqual(names, want) {
			t.Errorf("Names = %v, want %v", names, want)
		}

		entries, err := s.Entries()
		if err != nil {
			t.Fatalf("Entries: %v", err)
		}
		if entries[0].Reason != "instrumentation" {
			t.Errorf("reason = %q", entries[0].Reason)
		}
	})

	t.Run("duplicates ignored", func(t *testing.T) {
		s := openTemp(t)
		for i := 0; i < 3; i++ {
			if err := s.Add("frida", ""); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
		names, _ := s.Names()
		if len(names) != 1 {
			t.Errorf("got %d entries, want 1", len(names))
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		s := openTemp(t)
		if err := s.Add("  ", ""); err == nil {
			t.Error("expected error for blank name")
		}
	})

	t.Run("remove", func(t *testing.T) {
		s := openTemp(t)
		_ = s.Add("frida", "")
		if err := s.Remove("frida"); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		names, _ := s.Names()
		if len(names) != 0 {
			t.Errorf("Names = %v, want empty", names)
		}
	})

	t.Run("persists across reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "denylist.db")
		s, err := Open(path)
		if err != nil {
			t.Fatal(err)
		}
		_ = s.Add("frida", "")
		s.Close()

		s2, err := Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer s2.Close()
		names, _ := s2.Names()
		if len(names) != 1 || names[0] != "frida" {
			t.Errorf("Names after reopen = %v", names)
		}
	})
}

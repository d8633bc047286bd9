package settings

import (
	"fmt"
	"testing"

	"github.com/quilledit/quill/internal/vfs"
)

func setupStore(t *testing.T) (*Store, *vfs.MemFS) {
	t.Helper()
	memfs := vfs.NewMemFS()
	return NewStore(memfs, "/config/settings.json"), memfs
}

func TestStoreMissingFile(t *testing.T) {
	store, _ := setupStore(t)

	if err := store.Load(); err != nil {
		t.Fatalf("Load() with no file error = %v", err)
	}
	if store.Document() != "{}" {
		t.Errorf("Document() = %q, want empty object", store.Document())
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, memfs := setupStore(t)

	if err := store.Set("editor.theme", "gruvbox"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("editor.tabSize", 4); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded := NewStore(memfs, "/config/settings.json")
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get("editor.theme").String(); got != "gruvbox" {
		t.Errorf("editor.theme = %q", got)
	}
	if got := reloaded.Get("editor.tabSize").Int(); got != 4 {
		t.Errorf("editor.tabSize = %d", got)
	}
}

func TestStoreInvalidJSON(t *testing.T) {
	store, memfs := setupStore(t)
	if err := memfs.AddFile("/config/settings.json", "{not json"); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(); err == nil {
		t.Error("Load() of malformed JSON should fail")
	}
}

func TestStoreDelete(t *testing.T) {
	store, _ := setupStore(t)
	if err := store.Set("a.b", 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("a.b"); err != nil {
		t.Fatal(err)
	}
	if store.Get("a.b").Exists() {
		t.Error("value should be gone after Delete")
	}
}

func TestGeometry(t *testing.T) {
	store, _ := setupStore(t)

	if _, ok := store.GetGeometry(); ok {
		t.Error("GetGeometry() on an empty store should report absence")
	}

	want := Geometry{X: 10, Y: 20, Width: 1200, Height: 800}
	if err := store.SetGeometry(want); err != nil {
		t.Fatal(err)
	}
	got, ok := store.GetGeometry()
	if !ok || got != want {
		t.Errorf("GetGeometry() = %+v, %v, want %+v", got, ok, want)
	}
}

func TestRecentFilesOrderAndDedup(t *testing.T) {
	store, _ := setupStore(t)
	recent := NewRecentFiles(store, 5)

	for _, path := range []string{"/a.txt", "/b.txt", "/c.txt", "/a.txt"} {
		if err := recent.Add(path); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"/a.txt", "/c.txt", "/b.txt"}
	got := recent.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() = %v, want %v", got, want)
		}
	}
}

func TestRecentFilesBounded(t *testing.T) {
	store, _ := setupStore(t)
	recent := NewRecentFiles(store, 3)

	for i := 0; i < 6; i++ {
		if err := recent.Add(fmt.Sprintf("/f%d.txt", i)); err != nil {
			t.Fatal(err)
		}
	}

	got := recent.List()
	if len(got) != 3 {
		t.Fatalf("List() has %d entries, want 3", len(got))
	}
	if got[0] != "/f5.txt" || got[2] != "/f3.txt" {
		t.Errorf("List() = %v", got)
	}
}

func TestRecentFilesRemove(t *testing.T) {
	store, _ := setupStore(t)
	recent := NewRecentFiles(store, 5)

	if err := recent.Add("/a.txt"); err != nil {
		t.Fatal(err)
	}
	if err := recent.Add("/b.txt"); err != nil {
		t.Fatal(err)
	}
	if err := recent.Remove("/a.txt"); err != nil {
		t.Fatal(err)
	}

	got := recent.List()
	if len(got) != 1 || got[0] != "/b.txt" {
		t.Errorf("List() = %v, want [/b.txt]", got)
	}

	// Removing an absent path is a no-op.
	if err := recent.Remove("/zzz.txt"); err != nil {
		t.Fatal(err)
	}
}

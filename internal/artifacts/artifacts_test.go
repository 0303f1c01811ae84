package artifacts_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldnote/internal/artifacts"
)

func newStore(t *testing.T) *artifacts.Store {
	t.Helper()
	store, err := artifacts.NewStore(filepath.Join(t.TempDir(), "uploads"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStoreSaveAndOpen(t *testing.T) {
	store := newStore(t)
	ref, err := store.Save("session one.webm", []byte("pcm-data"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(ref, "-session one.webm") {
		t.Fatalf("ref %q missing time prefix + name", ref)
	}

	rc, err := store.Open(ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "pcm-data" {
		t.Fatalf("round trip mismatch: %q", data)
	}
}

func TestStoreSanitizesNames(t *testing.T) {
	store := newStore(t)
	ref, err := store.Save("../escape/at:tempt?.webm", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.ContainsAny(ref, "/\\:?") {
		t.Fatalf("unsafe characters survived sanitization: %q", ref)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), ref)); err != nil {
		t.Fatalf("artifact not written inside the store: %v", err)
	}
}

func TestStoreFallbackName(t *testing.T) {
	store := newStore(t)
	ref, err := store.Save("???", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(ref, "-audio.webm") {
		t.Fatalf("expected fallback name, got %q", ref)
	}
}

func TestStoreRejectsEscapingRefs(t *testing.T) {
	store := newStore(t)
	for _, ref := range []string{"", "..", "../elsewhere", "a/b", ".hidden"} {
		if _, err := store.Path(ref); !errors.Is(err, artifacts.ErrInvalidRef) {
			t.Fatalf("ref %q: expected ErrInvalidRef, got %v", ref, err)
		}
	}
}

func TestStoreRemoveMissingIsNoError(t *testing.T) {
	store := newStore(t)
	if err := store.Remove("1-absent.webm"); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	ref, err := store.Save("take.webm", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.RemoveAll([]string{ref, "", "1-absent.webm"}); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), ref)); !os.IsNotExist(err) {
		t.Fatal("artifact survived RemoveAll")
	}
}

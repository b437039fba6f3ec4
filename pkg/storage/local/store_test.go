package local

import (
	"io"
	"strings"
	"testing"
)

func TestSaveOpenDelete(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ref, size, err := store.Save("creatives", "banner.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if size != int64(len("png-bytes")) {
		t.Fatalf("expected size %d, got %d", len("png-bytes"), size)
	}
	if !strings.HasPrefix(ref, "creatives/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected ref %q", ref)
	}

	rc, err := store.Open(ref)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected contents %q", data)
	}

	removed, err := store.Delete(ref)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !removed {
		t.Fatalf("expected delete to remove the artifact")
	}
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	removed, err := store.Delete("creatives/does-not-exist.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed {
		t.Fatalf("expected removed=false for missing artifact")
	}
}

func TestRefCannotEscapeRoot(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Open("../outside.txt"); err == nil {
		t.Fatalf("expected traversal ref to be rejected")
	}
	if _, err := store.Delete("../../etc/passwd"); err == nil {
		t.Fatalf("expected traversal ref to be rejected")
	}
}

func TestInvalidScopeRejected(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, _, err := store.Save("../evil", "a.png", strings.NewReader("x")); err == nil {
		t.Fatalf("expected scope with traversal to be rejected")
	}
}

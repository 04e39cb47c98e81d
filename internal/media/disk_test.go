package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sakif/restro-server/internal/apperror"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return store
}

func TestSave_WritesFileAndReturnsReference(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(context.Background(), "dinner.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasPrefix(ref, "/uploads/") {
		t.Errorf("reference = %q, want /uploads/ prefix", ref)
	}
	if !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("reference = %q, want original extension kept", ref)
	}

	// The file must exist on disk with the saved content
	name := strings.TrimPrefix(ref, "/uploads/")
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored content = %q, want the uploaded bytes", data)
	}
}

func TestSave_GeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)

	ref1, err := store.Save(context.Background(), "same.png", strings.NewReader("one"))
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := store.Save(context.Background(), "same.png", strings.NewReader("two"))
	if err != nil {
		t.Fatal(err)
	}

	if ref1 == ref2 {
		t.Error("Save() returned the same reference for two uploads")
	}
}

func TestSave_RejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"script.exe", "notes.txt", "noext", "archive.tar.gz"} {
		_, err := store.Save(context.Background(), name, strings.NewReader("x"))
		if err == nil {
			t.Errorf("Save(%q) should reject the extension", name)
			continue
		}
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Save(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestSave_ExtensionCaseInsensitive(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(context.Background(), "PHOTO.JPG", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() should accept uppercase extensions: %v", err)
	}
	if !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("reference = %q, want lowercased extension", ref)
	}
}

func TestSave_CancelledContext(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Save(ctx, "late.jpg", strings.NewReader("x")); err == nil {
		t.Error("Save() should fail once the context is cancelled")
	}
}

func TestRemove_DeletesSavedFile(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(context.Background(), "dinner.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Remove(context.Background(), ref); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("reading store dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("store dir holds %d files after Remove(), want 0", len(entries))
	}
}

func TestRemove_RejectsForeignReferences(t *testing.T) {
	store := newTestStore(t)

	// None of these is a reference Save could have produced; Remove must
	// refuse them instead of resolving a path from them.
	for _, ref := range []string{
		"/elsewhere/abc.jpg",
		"/uploads/",
		"/uploads/../secret.jpg",
		"abc.jpg",
	} {
		err := store.Remove(context.Background(), ref)
		if err == nil {
			t.Errorf("Remove(%q) should refuse the reference", ref)
			continue
		}
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Remove(%q) error = %v, want ErrValidation", ref, err)
		}
	}
}

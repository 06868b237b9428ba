package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/craftsync/pkg/logging"
	"github.com/JaimeStill/craftsync/pkg/storage"
)

func newStorage(t *testing.T) (storage.System, string) {
	t.Helper()
	dir := t.TempDir()
	sys, err := storage.New(&storage.Config{BasePath: dir}, logging.Discard())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return sys, dir
}

func TestNew_EmptyBasePath(t *testing.T) {
	if _, err := storage.New(&storage.Config{}, logging.Discard()); err == nil {
		t.Fatal("New() succeeded with empty BasePath, want error")
	}
}

func TestStore_Retrieve_RoundTrip(t *testing.T) {
	sys, _ := newStorage(t)
	ctx := context.Background()
	data := []byte(`{"_id":"p1"}`)

	if err := sys.Store(ctx, "post/hello.json", data); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	got, err := sys.Retrieve(ctx, "post/hello.json")
	if err != nil {
		t.Fatalf("Retrieve() failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Retrieve() = %q, want %q", got, data)
	}
}

func TestStore_CreatesNestedDirectories(t *testing.T) {
	sys, dir := newStorage(t)

	if err := sys.Store(context.Background(), "a/b/c.json", []byte("x")); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "a", "b", "c.json")); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a", "b", "c.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestStore_Overwrite(t *testing.T) {
	sys, _ := newStorage(t)
	ctx := context.Background()

	sys.Store(ctx, "k.json", []byte("first"))
	if err := sys.Store(ctx, "k.json", []byte("second")); err != nil {
		t.Fatalf("Store() overwrite failed: %v", err)
	}

	got, _ := sys.Retrieve(ctx, "k.json")
	if string(got) != "second" {
		t.Errorf("Retrieve() = %q, want second", got)
	}
}

func TestRetrieve_NotFound(t *testing.T) {
	sys, _ := newStorage(t)

	_, err := sys.Retrieve(context.Background(), "missing.json")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Retrieve() error = %v, want ErrNotFound", err)
	}
}

func TestPath(t *testing.T) {
	sys, dir := newStorage(t)

	got, err := sys.Path(context.Background(), "published/hello.json")
	if err != nil {
		t.Fatalf("Path() failed: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join(dir, "published", "hello.json"))
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	sys, _ := newStorage(t)
	ctx := context.Background()
	sys.Store(ctx, "present.json", []byte("x"))

	if ok, err := sys.Validate(ctx, "present.json"); err != nil || !ok {
		t.Errorf("Validate(present) = %v, %v; want true, nil", ok, err)
	}
	if ok, err := sys.Validate(ctx, "absent.json"); err != nil || ok {
		t.Errorf("Validate(absent) = %v, %v; want false, nil", ok, err)
	}
}

func TestInvalidKeys(t *testing.T) {
	sys, _ := newStorage(t)
	ctx := context.Background()

	for _, key := range []string{"", ".", "../escape.json", "/etc/passwd", "a/../../b"} {
		t.Run(key, func(t *testing.T) {
			if err := sys.Store(ctx, key, []byte("x")); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Store(%q) error = %v, want ErrInvalidKey", key, err)
			}
			if _, err := sys.Path(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Path(%q) error = %v, want ErrInvalidKey", key, err)
			}
		})
	}
}

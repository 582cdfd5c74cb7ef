package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStorePutAndDelete(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDiskStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	body := "fake-png-bytes"
	if err := d.Put(ctx, "uploads/cupid/avatar.png", strings.NewReader(body), int64(len(body)), "image/png"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "uploads", "cupid", "avatar.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Fatalf("stored bytes mismatch: %q", data)
	}
	if err := d.Delete(ctx, "uploads/cupid/avatar.png"); err != nil {
		t.Fatal(err)
	}
	if err := d.Delete(ctx, "uploads/cupid/avatar.png"); err != nil {
		t.Fatalf("deleting a missing object should be a no-op, got %v", err)
	}
}

func TestDiskStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDiskStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	body := "x"
	if err := d.Put(context.Background(), "../../etc/passwd", strings.NewReader(body), 1, "text/plain"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "etc", "passwd")); err != nil {
		t.Fatalf("sanitized object missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "etc")); err == nil {
		t.Fatal("traversal escaped the base directory")
	}
}

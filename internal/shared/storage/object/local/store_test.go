package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interview-summarizer/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	payload := append([]byte("ID3"), bytes.Repeat([]byte{0x01}, 2048)...)
	key, size, mimeType, err := store.Save(ctx, "session-1", "call.mp3", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", size, len(payload))
	}
	if mimeType != "audio/mpeg" {
		t.Fatalf("mimeType = %q, want audio/mpeg", mimeType)
	}
	if !strings.HasSuffix(key, "_call.mp3") || strings.Contains(key, "session-1") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("content mismatch")
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
}

func TestSaveSmallFile(t *testing.T) {
	store := New(t.TempDir())
	_, size, _, err := store.Save(context.Background(), "s", "tiny.wav", strings.NewReader("RIFF"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != 4 {
		t.Fatalf("size = %d, want 4", size)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, _, _, err := store.Save(ctx, "s", "../evil.mp3", strings.NewReader("x")); err == nil {
		t.Fatalf("expected sanitize error")
	}
	if _, err := store.Open(ctx, "../outside"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("Open traversal err = %v", err)
	}
	if err := store.Delete(ctx, "/abs/path"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("Delete absolute err = %v", err)
	}
}

func TestOpenHonorsCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Open(ctx, "a/b"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

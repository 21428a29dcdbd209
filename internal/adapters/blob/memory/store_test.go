package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"pet-care-log/internal/ports/store"
)

func TestStore_UploadOpenAndURL(t *testing.T) {
	ctx := context.Background()
	s := New("http://localhost:8080/storage/")

	if err := s.Upload(ctx, "pet-photos", "u1/a.jpg", strings.NewReader("data"), "image/jpeg"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := s.Upload(ctx, "pet-photos", "u1/a.jpg", strings.NewReader("x"), ""); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	rc, ct, err := s.Open(ctx, "pet-photos", "u1/a.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	if string(body) != "data" || ct != "image/jpeg" {
		t.Fatalf("unexpected %q %q", body, ct)
	}

	if _, _, err := s.Open(ctx, "pet-photos", "u1/b.jpg"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if got := s.PublicURL("pet-photos", "u1/a.jpg"); got != "http://localhost:8080/storage/pet-photos/u1/a.jpg" {
		t.Fatalf("unexpected url %q", got)
	}
}

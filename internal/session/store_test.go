package session

import (
	"context"
	"testing"
	"time"
)

func TestRedisStore_KeyFormat(t *testing.T) {
	store, err := NewRedisStore(RedisStoreOpts{Addr: "127.0.0.1:6379", Prefix: "surveyor"})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	got := store.keyFor("whatsapp:+15550100")
	want := "surveyor:chat:session:whatsapp:+15550100"
	if got != want {
		t.Errorf("keyFor = %q, want %q", got, want)
	}
}

func TestNewRedisStore_Validation(t *testing.T) {
	if _, err := NewRedisStore(RedisStoreOpts{Prefix: "x"}); err == nil {
		t.Error("expected error for missing addr")
	}
	if _, err := NewRedisStore(RedisStoreOpts{Addr: "127.0.0.1:6379"}); err == nil {
		t.Error("expected error for missing prefix")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("id")
	s.Inspector = &InspectorRef{ID: 2, Name: "Dana"}
	s.Media = []MediaUpload{{StorageKey: "k", URL: "https://cdn/x", TaskID: uintPtr(1)}}
	if err := store.Save(ctx, "id", s, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the original after save must not leak into the store.
	s.Inspector.Name = "changed"

	got, err := store.Load(ctx, "id")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("load returned nil for live session")
	}
	if got.Inspector.Name != "Dana" {
		t.Errorf("copy isolation broken: inspector name = %q", got.Inspector.Name)
	}
	if len(got.Media) != 1 || got.Media[0].StorageKey != "k" {
		t.Errorf("media round trip: %+v", got.Media)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.Clock = func() time.Time { return now }

	if err := store.Save(ctx, "id", New("id"), time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}

	now = now.Add(59 * time.Second)
	if got, _ := store.Load(ctx, "id"); got == nil {
		t.Error("session expired before TTL elapsed")
	}

	now = now.Add(2 * time.Second)
	if got, _ := store.Load(ctx, "id"); got != nil {
		t.Error("session still live past TTL")
	}
}

func TestMemoryStore_MissingIsNilNil(t *testing.T) {
	got, err := NewMemoryStore().Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session for unknown identity, got %+v", got)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, "id", New("id"), 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "id"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := store.Load(ctx, "id"); got != nil {
		t.Error("session survived delete")
	}
}

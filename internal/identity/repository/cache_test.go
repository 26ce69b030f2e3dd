package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*SettingsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSettingsCache(client, 5*time.Minute), mr
}

func TestSettingsCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	agencyID := uuid.New()
	doc := json.RawMessage(`{"currency":"INR","theme":"dark"}`)

	if _, err := cache.Get(ctx, agencyID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected miss before set, got %v", err)
	}

	if err := cache.Set(ctx, agencyID, doc); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.Get(ctx, agencyID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("cached document altered: got %s want %s", got, doc)
	}
}

func TestSettingsCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	agencyID := uuid.New()

	if err := cache.Set(ctx, agencyID, json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Invalidate(ctx, agencyID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := cache.Get(ctx, agencyID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected miss after invalidate, got %v", err)
	}
}

func TestSettingsCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	agencyID := uuid.New()

	if err := cache.Set(ctx, agencyID, json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(6 * time.Minute)

	if _, err := cache.Get(ctx, agencyID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}

func TestSettingsCacheNilClientIsNoop(t *testing.T) {
	var cache *SettingsCache
	ctx := context.Background()
	agencyID := uuid.New()

	if err := cache.Set(ctx, agencyID, json.RawMessage(`{}`)); err != nil {
		t.Fatalf("nil cache set: %v", err)
	}
	if _, err := cache.Get(ctx, agencyID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nil cache get should miss, got %v", err)
	}
}

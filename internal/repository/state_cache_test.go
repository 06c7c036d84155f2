package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/pkg/cache"
)

func newStore(t *testing.T) domrepo.StateStore {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	return NewCacheStateStore(mc)
}

func TestCacheStateStore(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	cd := models.CooldownState{Symbol: "BTCUSDT", CooldownUntil: time.Now().Add(time.Hour).UTC()}
	if err := store.Set(ctx, "cooldown:BTCUSDT", cd, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got models.CooldownState
	if err := store.Get(ctx, "cooldown:BTCUSDT", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Symbol != cd.Symbol {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := store.Get(ctx, "missing", &got); !errors.Is(err, domrepo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	ok, err := store.SetIfAbsent(ctx, "claim", 1, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}
	ok, err = store.SetIfAbsent(ctx, "claim", 1, time.Minute)
	if err != nil || ok {
		t.Fatalf("second claim must lose: ok=%v err=%v", ok, err)
	}

	if err := store.Delete(ctx, "claim"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestStateLiquidationFeed(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	feed := NewStateLiquidationFeed(store)

	// Nothing written yet: neutral snapshot, no error.
	snap, err := feed.Snapshot(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("empty feed: %v", err)
	}
	if snap.IntensityScore != 0 || snap.DirectionBias != 0 {
		t.Fatalf("want neutral snapshot, got %+v", snap)
	}

	want := models.LiquidationSnapshot{IntensityScore: 6, DirectionBias: -1, NotionalSum: 2_500_000}
	if err := store.Set(ctx, LiquidationKey("BTCUSDT"), want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap, err = feed.Snapshot(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap != want {
		t.Fatalf("want %+v, got %+v", want, snap)
	}
}

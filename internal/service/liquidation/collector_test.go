package liquidation

import (
	"context"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/repository"
	"TradePulse/pkg/cache"
	"TradePulse/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordSignal(string, string)      {}
func (nopMetrics) RecordSuppression(string)         {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordConfidence(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)    {}

func newCollector(t *testing.T) (*Collector, func(symbol string) models.LiquidationSnapshot) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	store := repository.NewCacheStateStore(mc)

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	c := NewCollector(store, nopMetrics{}, log)
	read := func(symbol string) models.LiquidationSnapshot {
		var snap models.LiquidationSnapshot
		if err := store.Get(context.Background(), repository.LiquidationKey(symbol), &snap); err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
		return snap
	}
	return c, read
}

func TestIntensityBuckets(t *testing.T) {
	cases := []struct {
		notional float64
		want     float64
	}{
		{6_000_000, 10},
		{2_500_000, 8},
		{1_200_000, 6},
		{300_000, 4},
		{60_000, 2},
		{10_000, 0},
	}
	for _, tc := range cases {
		if got := intensity(tc.notional); got != tc.want {
			t.Fatalf("intensity(%v) = %v, want %v", tc.notional, got, tc.want)
		}
	}
}

func TestAggregateBias(t *testing.T) {
	now := time.Now()

	// Longs flushed hard: bias +1.
	snap := aggregate([]event{
		{longSide: true, notional: 900_000, at: now},
		{longSide: false, notional: 100_000, at: now},
	})
	if snap.DirectionBias != 1 {
		t.Fatalf("want bias +1, got %d", snap.DirectionBias)
	}
	if snap.IntensityScore != 6 {
		t.Fatalf("1M window should score 6, got %v", snap.IntensityScore)
	}

	// Balanced flow stays neutral.
	snap = aggregate([]event{
		{longSide: true, notional: 500_000, at: now},
		{longSide: false, notional: 450_000, at: now},
	})
	if snap.DirectionBias != 0 {
		t.Fatalf("balanced flow must stay neutral, got %d", snap.DirectionBias)
	}

	// Only shorts flushed: bias -1.
	snap = aggregate([]event{{longSide: false, notional: 80_000, at: now}})
	if snap.DirectionBias != -1 {
		t.Fatalf("want bias -1, got %d", snap.DirectionBias)
	}
}

func TestRecordPrunesWindow(t *testing.T) {
	c, _ := newCollector(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	c.record("BTCUSDT", true, 1_000_000, base.Add(-time.Minute))

	// An hour later the old event has left the window.
	c.now = func() time.Time { return base.Add(time.Hour) }
	snap := c.record("BTCUSDT", false, 60_000, base.Add(time.Hour))
	if snap.NotionalSum != 60_000 {
		t.Fatalf("stale events must be pruned, window sum %v", snap.NotionalSum)
	}
	if snap.IntensityScore != 2 {
		t.Fatalf("want intensity 2, got %v", snap.IntensityScore)
	}
}

func TestHandleMessagePublishesSnapshot(t *testing.T) {
	c, read := newCollector(t)
	ctx := context.Background()

	frame := []byte(`{"e":"forceOrder","E":1748800000000,"o":{"s":"BTCUSDT","S":"SELL","q":"20","p":"100000","ap":"100000","X":"FILLED","T":1748800000000}}`)
	if err := c.handleMessage(ctx, frame); err != nil {
		t.Fatalf("handle: %v", err)
	}

	snap := read("BTCUSDT")
	if snap.NotionalSum != 2_000_000 {
		t.Fatalf("want notional 2M, got %v", snap.NotionalSum)
	}
	if snap.IntensityScore != 8 {
		t.Fatalf("want intensity 8, got %v", snap.IntensityScore)
	}
	if snap.DirectionBias != 1 {
		t.Fatalf("SELL liquidation flushes longs, want bias +1, got %d", snap.DirectionBias)
	}
}

func TestHandleMessageIgnoresOtherFrames(t *testing.T) {
	c, _ := newCollector(t)
	if err := c.handleMessage(context.Background(), []byte(`{"e":"aggTrade"}`)); err != nil {
		t.Fatalf("non-liquidation frames must be ignored, got %v", err)
	}
	if err := c.handleMessage(context.Background(), []byte(`not json`)); err == nil {
		t.Fatal("garbage frame should error")
	}
}

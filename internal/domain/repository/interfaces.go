package repository

import (
	"context"
	"errors"
	"time"

	"TradePulse/internal/domain/models"
)

// ErrNotFound is returned by StateStore.Get for a missing key.
var ErrNotFound = errors.New("state: key not found")

// MarketData supplies candle history and 24h/funding context. Candles
// must be chronological; a short or empty series is a recoverable
// failure, not a fatal one.
type MarketData interface {
	FetchCandles(ctx context.Context, symbol, interval string, limit int) (models.CandleSeries, error)
	FetchContext(ctx context.Context, symbol string) (*models.MarketContext, error)
}

// StateStore is the TTL-capable key-value substrate holding cooldown,
// pending-confirmation, last-signal and dedupe state. TTL bounds
// storage lifetime only; it carries no business-logic expiry.
type StateStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// SetIfAbsent atomically claims a key; false means someone already holds it.
	SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// LiquidationFeed exposes aggregated liquidation pressure. An external
// producer writes it; the evaluator only reads, defaulting to neutral
// when nothing is there.
type LiquidationFeed interface {
	Snapshot(ctx context.Context, symbol string) (models.LiquidationSnapshot, error)
}

// SignalPublisher fans emitted signals out to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, s *models.Signal) error
	Close() error
}

// SignalHistory appends emitted signals for later analysis.
type SignalHistory interface {
	Append(ctx context.Context, s *models.Signal) error
	Health(ctx context.Context) error
}

// Metrics records evaluation outcomes.
type Metrics interface {
	RecordSignal(mode, direction string)
	RecordSuppression(reason string)
	RecordError(stage string)
	RecordConfidence(symbol string, confidence float64)
	RecordLatency(op string, seconds float64)
}

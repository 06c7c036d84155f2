package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	pkgkafka "TradePulse/pkg/kafka"
)

// KafkaSignalPublisher fans emitted signals out on a Kafka topic, keyed
// by symbol so per-instrument ordering is preserved.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) domrepo.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, s *models.Signal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Symbol), s)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// SignalsSchema returns idempotent DDL for the signal history table.
func SignalsSchema(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id String,
		symbol String,
		mode String,
		direction String,
		confidence Int32,
		entry_price Float64,
		stop_loss Float64,
		take_profit Float64,
		reasons String,
		warnings String,
		created_at DateTime64(3)
	) ENGINE = MergeTree()
	ORDER BY (symbol, created_at)`, table)}
}

// ClickHouseSignalHistory appends every emitted signal for later
// analysis. Append failures are the caller's problem to log; history is
// a best-effort sink.
type ClickHouseSignalHistory struct {
	db    *sql.DB
	table string
}

func NewClickHouseSignalHistory(db *sql.DB, table string) domrepo.SignalHistory {
	return &ClickHouseSignalHistory{db: db, table: table}
}

func (h *ClickHouseSignalHistory) Append(ctx context.Context, s *models.Signal) error {
	q := fmt.Sprintf("INSERT INTO %s (id, symbol, mode, direction, confidence, entry_price, stop_loss, take_profit, reasons, warnings, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", h.table)
	_, err := h.db.ExecContext(ctx, q,
		s.ID,
		s.Symbol,
		string(s.Mode),
		string(s.Direction),
		int32(s.Confidence),
		s.EntryPrice,
		s.StopLoss,
		s.TakeProfit,
		strings.Join(s.Reasons, ","),
		strings.Join(s.Warnings, ","),
		s.CreatedAt.UTC().Format("2006-01-02 15:04:05.000"),
	)
	return err
}

// Query returns recent signals for a symbol, newest first.
func (h *ClickHouseSignalHistory) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Signal, error) {
	q := fmt.Sprintf("SELECT id, symbol, mode, direction, confidence, entry_price, stop_loss, take_profit, created_at FROM %s WHERE symbol = ? AND created_at >= ? AND created_at <= ? ORDER BY created_at DESC LIMIT ?", h.table)
	rows, err := h.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []*models.Signal
	for rows.Next() {
		var s models.Signal
		var mode, direction string
		var confidence int32
		if err := rows.Scan(&s.ID, &s.Symbol, &mode, &direction, &confidence, &s.EntryPrice, &s.StopLoss, &s.TakeProfit, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Mode = models.SignalMode(mode)
		s.Direction = models.Direction(direction)
		s.Confidence = int(confidence)
		signals = append(signals, &s)
	}
	return signals, rows.Err()
}

func (h *ClickHouseSignalHistory) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

package models

import "time"

// SignalMode is the lifecycle stage of an emitted signal.
type SignalMode string

const (
	ModePreview     SignalMode = "PREVIEW"
	ModeConfirmed   SignalMode = "CONFIRMED"
	ModeInvalidated SignalMode = "INVALIDATED"
)

// Signal is an immutable trade signal record. A superseding signal gets
// a new ID; existing records are never mutated.
type Signal struct {
	ID          string             `json:"id"`
	Symbol      string             `json:"symbol"`
	Mode        SignalMode         `json:"mode"`
	Direction   Direction          `json:"direction"`
	Confidence  int                `json:"confidence"`
	EntryPrice  float64            `json:"entry_price"`
	StopLoss    float64            `json:"stop_loss,omitempty"`
	TakeProfit  float64            `json:"take_profit,omitempty"`
	Metadata    map[string]float64 `json:"metadata,omitempty"`
	Reasons     []string           `json:"reasons,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	ConfirmedAt *time.Time         `json:"confirmed_at,omitempty"`
}

// PreviewMetrics snapshots the values a confirmation is checked against.
type PreviewMetrics struct {
	RSI           float64 `json:"rsi"`
	MomentumScore int     `json:"momentum_score"`
	Confidence    int     `json:"confidence"`
	EntryPrice    float64 `json:"entry_price"`
}

// PendingConfirmation is the per-symbol record created on PREVIEW and
// consumed by the close-confirmation evaluation. At most one exists per
// symbol at any time, and it is only ever written whole.
type PendingConfirmation struct {
	SignalID   string         `json:"signal_id"`
	Symbol     string         `json:"symbol"`
	Direction  Direction      `json:"direction"`
	IsReversal bool           `json:"is_reversal"`
	Snapshot   PreviewMetrics `json:"snapshot"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ConfirmRecord marks a specific preview for settlement at close. It
// lives under its own key and names the preview by signal ID, so a
// request never rewrites the pending record and cannot attach itself to
// a preview emitted after it.
type ConfirmRecord struct {
	SignalID    string    `json:"signal_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// CooldownState gates new previews for a symbol after a terminal
// outcome. The storage TTL outlives CooldownUntil; only the timestamp
// decides the gate.
type CooldownState struct {
	Symbol        string    `json:"symbol"`
	CooldownUntil time.Time `json:"cooldown_until"`
}

// ConfirmationAck reports the outcome of a confirmation request.
type ConfirmationAck struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

const ReasonNoPendingPreview = "NO_PENDING_PREVIEW"

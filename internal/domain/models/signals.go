package models

import "time"

// EvaluationBatch is the consolidated result of one watch-list pass.
// Per-symbol failures land in Errors and never abort sibling symbols.
type EvaluationBatch struct {
	Mode      SignalMode        `json:"mode"`
	Timestamp time.Time         `json:"timestamp"`
	Signals   []*Signal         `json:"signals"`
	Errors    map[string]string `json:"errors,omitempty"`
}

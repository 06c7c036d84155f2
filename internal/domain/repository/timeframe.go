package repository

// Candle intervals supported for evaluation.
const (
	Interval1m  = "1m"
	Interval5m  = "5m"
	Interval15m = "15m"
	Interval1h  = "1h"
)

// IsValidInterval returns true if the interval is supported.
func IsValidInterval(s string) bool {
	switch s {
	case Interval1m, Interval5m, Interval15m, Interval1h:
		return true
	default:
		return false
	}
}

// NormalizeInterval converts a raw string to a valid interval (or the default).
func NormalizeInterval(s string) string {
	if IsValidInterval(s) {
		return s
	}
	return Interval15m
}

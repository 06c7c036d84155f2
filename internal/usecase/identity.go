package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"TradePulse/internal/domain/models"
)

// PreviewBucketSeconds is the time quantum for preview identity. Two
// previews for the same symbol and direction inside one bucket share an
// ID and deduplicate against each other.
const PreviewBucketSeconds = 120

// PreviewID derives a deterministic preview signal ID from symbol,
// direction and the time bucket of the evaluation.
func PreviewID(symbol string, dir models.Direction, at time.Time) string {
	bucket := at.Unix() / PreviewBucketSeconds
	return hashID("preview", symbol, string(dir), strconv.FormatInt(bucket, 10))
}

// ConfirmedID derives a confirmed signal ID from the closing candle, so
// repeated close evaluations of the same candle collapse to one signal.
func ConfirmedID(symbol string, dir models.Direction, candleClose time.Time) string {
	return hashID("confirmed", symbol, string(dir), strconv.FormatInt(candleClose.Unix(), 10))
}

// InvalidatedID derives a unique ID for an invalidation record. These
// are terminal and never deduplicated, so nanosecond time is enough.
func InvalidatedID(symbol string, dir models.Direction, at time.Time) string {
	return hashID("invalidated", symbol, string(dir), strconv.FormatInt(at.UnixNano(), 10))
}

func hashID(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

package usecase

import "time"

// State-store key prefixes. One record of each kind exists per symbol;
// dedupe keys are per signal ID.
const (
	keyPrefixCooldown   = "cooldown:"
	keyPrefixPending    = "pending:"
	keyPrefixConfirm    = "confirm:"
	keyPrefixLastSignal = "signal:last:"
	keyPrefixDedupe     = "dedupe:"
)

// Storage TTLs. These bound record lifetime in the store only; business
// expiry is carried inside the records themselves.
const (
	cooldownTTL   = 4 * time.Hour
	pendingTTL    = 2 * time.Hour
	lastSignalTTL = 24 * time.Hour
	dedupeTTL     = 10 * time.Minute
)

func cooldownKey(symbol string) string   { return keyPrefixCooldown + symbol }
func pendingKey(symbol string) string    { return keyPrefixPending + symbol }
func confirmKey(symbol string) string    { return keyPrefixConfirm + symbol }
func lastSignalKey(symbol string) string { return keyPrefixLastSignal + symbol }
func dedupeKey(id string) string         { return keyPrefixDedupe + id }

package risk

import (
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/engine/strategy"
)

// Liquidation intensity tiers.
const (
	IntensityHigh     = 8.0
	IntensityMedium   = 6.0
	IntensityElevated = 4.0
)

// Funding warning window and rate floor.
const (
	fundingSoonWindow  = 30 * time.Minute
	fundingRateWarning = 0.0002
)

// Warning codes attached to adjusted candidates.
const (
	WarnLiquidationExtreme  = "liquidation_pressure_extreme"
	WarnLiquidationHigh     = "liquidation_pressure_high"
	WarnLiquidationElevated = "liquidation_pressure_elevated"
	WarnContrarianFlow      = "contrarian_liquidation_flow"
	WarnFundingSoon         = "funding_event_imminent"
)

// Adjust applies liquidation pressure and funding context to a scored
// direction. A veto suppresses the signal entirely; otherwise the
// confidence is shifted by the highest matching intensity tier and a
// contrarian-flow bonus, then clamped to [0,100].
func Adjust(dir models.Direction, confidence int, liq models.LiquidationSnapshot, mctx *models.MarketContext, now time.Time) models.RiskAdjustment {
	adj := models.RiskAdjustment{Confidence: confidence}

	if liq.IntensityScore >= IntensityHigh && biasAgainst(dir, liq.DirectionBias) {
		adj.Veto = true
		adj.Warnings = append(adj.Warnings, WarnLiquidationExtreme)
		return adj
	}

	switch {
	case liq.IntensityScore >= IntensityHigh:
		adj.Confidence -= 10
		adj.Warnings = append(adj.Warnings, WarnLiquidationExtreme)
	case liq.IntensityScore >= IntensityMedium:
		adj.Confidence -= 7
		adj.Warnings = append(adj.Warnings, WarnLiquidationHigh)
	case liq.IntensityScore >= IntensityElevated:
		adj.Confidence -= 4
		adj.Warnings = append(adj.Warnings, WarnLiquidationElevated)
	}

	if biasWith(dir, liq.DirectionBias) {
		adj.Confidence += 5
		adj.Warnings = append(adj.Warnings, WarnContrarianFlow)
	}

	if mctx != nil && fundingSoon(mctx, now) {
		adj.Warnings = append(adj.Warnings, WarnFundingSoon)
	}

	adj.Confidence = strategy.Clamp(adj.Confidence)
	return adj
}

// biasAgainst reports whether the flush direction threatens the trade:
// longs are vetoed when longs are being flushed, shorts when shorts are.
func biasAgainst(dir models.Direction, bias int) bool {
	return (dir == models.DirectionLong && bias == 1) ||
		(dir == models.DirectionShort && bias == -1)
}

// biasWith reports a contrarian alignment: entering against the side
// currently being flushed.
func biasWith(dir models.Direction, bias int) bool {
	return (dir == models.DirectionLong && bias == -1) ||
		(dir == models.DirectionShort && bias == 1)
}

func fundingSoon(mctx *models.MarketContext, now time.Time) bool {
	if mctx.NextFundingTime.IsZero() {
		return false
	}
	until := mctx.NextFundingTime.Sub(now)
	if until < 0 || until > fundingSoonWindow {
		return false
	}
	rate := mctx.FundingRate
	if rate < 0 {
		rate = -rate
	}
	return rate >= fundingRateWarning
}

package strategy

import (
	"TradePulse/internal/domain/models"
)

// Trend and momentum thresholds.
const (
	trendChangeThreshold = 2.0 // percent 24h change that anchors the trend score
	trendScoreThreshold  = 2

	rsiOverbought = 70.0
	rsiOversold   = 30.0

	momentumStrongScore = 4
	momentumMediumScore = 2
)

// Candidate reason codes.
const (
	ReasonUptrend        = "uptrend_ok"
	ReasonDowntrend      = "downtrend_ok"
	ReasonOverboughtFlip = "overbought_in_uptrend"
	ReasonOversoldFlip   = "oversold_in_downtrend"
	ReasonRangeLong      = "range_momentum_long"
	ReasonRangeShort     = "range_momentum_short"
	ReasonNoEdge         = "no_edge"
)

// ClassifyTrend builds a signed score from the 24h change, the MACD
// histogram sign and the close position against the middle band.
func ClassifyTrend(percentChange24h float64, ind *models.IndicatorSnapshot) models.Trend {
	score := 0
	switch {
	case percentChange24h >= trendChangeThreshold:
		score += 2
	case percentChange24h <= -trendChangeThreshold:
		score -= 2
	}
	if ind.MACD.Histogram > 0 {
		score++
	} else if ind.MACD.Histogram < 0 {
		score--
	}
	score += ind.BandPosition

	switch {
	case score >= trendScoreThreshold:
		return models.TrendUp
	case score <= -trendScoreThreshold:
		return models.TrendDown
	default:
		return models.TrendSide
	}
}

// ComputeMomentum scores RSI, volume ratio and band width into a signed
// momentum value plus a strength bucket on its magnitude.
func ComputeMomentum(ind *models.IndicatorSnapshot) models.Momentum {
	score := 0

	switch {
	case ind.RSI >= 60:
		score += 2
	case ind.RSI >= 52:
		score++
	case ind.RSI <= 40:
		score -= 2
	case ind.RSI <= 48:
		score--
	}

	switch {
	case ind.VolumeRatio >= 1.5:
		score += 2
	case ind.VolumeRatio >= 1.1:
		score++
	case ind.VolumeRatio <= 0.7:
		score--
	}

	switch ind.BandWidth {
	case models.BandWidthHigh:
		score++
	case models.BandWidthLow:
		score--
	}

	return models.Momentum{Score: score, Strength: strength(score)}
}

func strength(score int) models.MomentumStrength {
	abs := score
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= momentumStrongScore:
		return models.MomentumStrong
	case abs >= momentumMediumScore:
		return models.MomentumMedium
	default:
		return models.MomentumWeak
	}
}

// DirectionCandidate proposes a trade side for the classified trend.
// An extreme RSI against the trend flips the side and marks the
// candidate as a reversal, which faces a stricter confirmation later.
func DirectionCandidate(trend models.Trend, ind *models.IndicatorSnapshot) models.DirectionCandidate {
	switch trend {
	case models.TrendUp:
		if ind.RSI >= rsiOverbought {
			return models.DirectionCandidate{Direction: models.DirectionShort, IsReversal: true, Reason: ReasonOverboughtFlip}
		}
		return models.DirectionCandidate{Direction: models.DirectionLong, Reason: ReasonUptrend}
	case models.TrendDown:
		if ind.RSI <= rsiOversold {
			return models.DirectionCandidate{Direction: models.DirectionLong, IsReversal: true, Reason: ReasonOversoldFlip}
		}
		return models.DirectionCandidate{Direction: models.DirectionShort, Reason: ReasonDowntrend}
	default:
		if ind.RSI > 55 && ind.MACD.Histogram > 0 {
			return models.DirectionCandidate{Direction: models.DirectionLong, Reason: ReasonRangeLong}
		}
		if ind.RSI < 45 && ind.MACD.Histogram < 0 {
			return models.DirectionCandidate{Direction: models.DirectionShort, Reason: ReasonRangeShort}
		}
		return models.DirectionCandidate{Direction: models.DirectionNone, Reason: ReasonNoEdge}
	}
}

// ScoreConfidence rates a candidate from trend/momentum/volatility
// alignment, clamped to [0,100].
func ScoreConfidence(trend models.Trend, momentum models.Momentum, volatilityProxy float64) int {
	score := 50

	if aligned(trend, momentum) {
		score += 10
	} else {
		score -= 8
	}

	switch momentum.Strength {
	case models.MomentumStrong:
		score += 15
	case models.MomentumMedium:
		score += 8
	default:
		score -= 5
	}

	vol := volatilityProxy
	if vol < 0 {
		vol = -vol
	}
	switch {
	case vol > 5:
		score += 8
	case vol > 2:
		score += 4
	default:
		score -= 3
	}

	return Clamp(score)
}

func aligned(trend models.Trend, momentum models.Momentum) bool {
	switch trend {
	case models.TrendUp:
		return momentum.Score > 0
	case models.TrendDown:
		return momentum.Score < 0
	default:
		return momentum.Score >= momentumMediumScore || momentum.Score <= -momentumMediumScore
	}
}

// Clamp bounds a confidence value to [0,100].
func Clamp(confidence int) int {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

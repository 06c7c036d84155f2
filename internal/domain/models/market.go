package models

import "time"

// Trend classifies the market direction for a symbol.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendSide Trend = "SIDE"
)

// MomentumStrength buckets the absolute momentum score.
type MomentumStrength string

const (
	MomentumWeak   MomentumStrength = "WEAK"
	MomentumMedium MomentumStrength = "MED"
	MomentumStrong MomentumStrength = "STRONG"
)

// Momentum holds the signed momentum score and its strength bucket.
type Momentum struct {
	Score    int
	Strength MomentumStrength
}

// Direction is the proposed trade side.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionNone  Direction = "NO_TRADE"
)

// DirectionCandidate is a proposed direction with its origin.
// IsReversal marks a counter-trend candidate that needs a stricter
// confirmation check at candle close.
type DirectionCandidate struct {
	Direction  Direction
	IsReversal bool
	Reason     string
}

// BandWidthClass buckets the relative Bollinger band width.
type BandWidthClass string

const (
	BandWidthLow  BandWidthClass = "low"
	BandWidthMid  BandWidthClass = "mid"
	BandWidthHigh BandWidthClass = "high"
)

// MACD holds the last MACD line, signal line and histogram values.
type MACD struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// Bollinger holds the last band values.
type Bollinger struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// IndicatorSnapshot is the last value of every indicator computed over
// a candle series. It is only produced complete; a series too short for
// any window yields no snapshot at all.
type IndicatorSnapshot struct {
	RSI           float64
	MACD          MACD
	Bollinger     Bollinger
	ATR           float64
	VolumeRatio   float64
	BandWidth     BandWidthClass
	BandPosition  int // +1 close above middle band, -1 below, 0 equal
	LastClose     float64
	LastCloseTime time.Time
}

// MarketContext carries 24h statistics and funding data for a symbol.
type MarketContext struct {
	PercentChange24h float64
	// DailyRangePct is the 24h high-low range as a percent of the low,
	// used as the volatility proxy when available.
	DailyRangePct   float64
	FundingRate     float64
	NextFundingTime time.Time
}

// VolatilityProxy picks the reference volatility for confidence scoring.
func (m *MarketContext) VolatilityProxy() float64 {
	if m.DailyRangePct != 0 {
		return m.DailyRangePct
	}
	return m.PercentChange24h
}

// LiquidationSnapshot is the aggregated liquidation pressure for a
// symbol. A zero value means no data, treated as neutral.
type LiquidationSnapshot struct {
	IntensityScore float64 `json:"intensity_score"`
	// DirectionBias: +1 longs are being flushed, -1 shorts, 0 balanced.
	DirectionBias int     `json:"direction_bias"`
	NotionalSum   float64 `json:"notional_sum"`
}

// RiskAdjustment is the outcome of applying liquidation and funding
// context to a scored candidate.
type RiskAdjustment struct {
	Confidence int
	Veto       bool
	Warnings   []string
}

// TargetPlan holds computed stop-loss/take-profit levels.
type TargetPlan struct {
	StopLoss     float64
	TakeProfit   float64
	ATRUsed      float64
	SLMultiplier float64
	RiskReward   float64
}

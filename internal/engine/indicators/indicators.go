package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"TradePulse/internal/domain/models"
)

// Indicator windows. MinCandles is the shortest series that yields a
// complete snapshot; anything shorter aborts the evaluation for this
// cycle.
const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerStdDev  = 2.0
	ATRPeriod        = 14
	VolumeWindow     = 20

	MinCandles = ATRPeriod + 2
)

// Band width thresholds relative to the middle band.
const (
	bandWidthHighThreshold = 0.04
	bandWidthLowThreshold  = 0.02
)

// Compute derives the full indicator snapshot from a candle series.
// Returns models.ErrIndicatorIncomplete when the series is too short
// for any window; a returned snapshot is always complete.
func Compute(cs models.CandleSeries) (*models.IndicatorSnapshot, error) {
	if len(cs) < MinCandles {
		return nil, models.ErrIndicatorIncomplete
	}

	closes := cs.Closes()
	highs := cs.Highs()
	lows := cs.Lows()
	volumes := cs.Volumes()

	rsi := talib.Rsi(closes, RSIPeriod)
	lastRSI := rsi[len(rsi)-1]

	macdLine, macdSignal := macd(closes)
	lastLine := macdLine[len(macdLine)-1]
	lastSignal := macdSignal[len(macdSignal)-1]

	// Bollinger shrinks to the available window so short-but-valid
	// series still produce bands.
	bbPeriod := BollingerPeriod
	if len(closes) < bbPeriod {
		bbPeriod = len(closes)
	}
	upper, middle, lower := talib.BBands(closes, bbPeriod, BollingerStdDev, BollingerStdDev, talib.SMA)
	lastUpper := upper[len(upper)-1]
	lastMiddle := middle[len(middle)-1]
	lastLower := lower[len(lower)-1]

	atr := talib.Atr(highs, lows, closes, ATRPeriod)
	lastATR := atr[len(atr)-1]

	last, _ := cs.Last()

	if math.IsNaN(lastRSI) || math.IsNaN(lastATR) || lastMiddle <= 0 {
		return nil, models.ErrIndicatorIncomplete
	}

	snap := &models.IndicatorSnapshot{
		RSI: lastRSI,
		MACD: models.MACD{
			Line:      lastLine,
			Signal:    lastSignal,
			Histogram: lastLine - lastSignal,
		},
		Bollinger: models.Bollinger{
			Upper:  lastUpper,
			Middle: lastMiddle,
			Lower:  lastLower,
		},
		ATR:           lastATR,
		VolumeRatio:   volumeRatio(volumes),
		BandWidth:     classifyBandWidth(lastUpper, lastMiddle, lastLower),
		BandPosition:  bandPosition(last.Close, lastMiddle),
		LastClose:     last.Close,
		LastCloseTime: last.CloseTime,
	}
	return snap, nil
}

// macd computes MACD(12,26,9) with pure exponential smoothing: each EMA
// is seeded from the first value, not a leading simple average, so the
// series stays defined for short inputs.
func macd(closes []float64) (line, signal []float64) {
	fast := ema(closes, MACDFastPeriod)
	slow := ema(closes, MACDSlowPeriod)

	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal = ema(line, MACDSignalPeriod)
	return line, signal
}

func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / (float64(period) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1.0-k)
	}
	return out
}

// volumeRatio compares the last volume against the trailing average,
// over all candles when fewer than the full window is available.
func volumeRatio(volumes []float64) float64 {
	window := VolumeWindow
	if len(volumes) < window {
		window = len(volumes)
	}
	sum := 0.0
	for _, v := range volumes[len(volumes)-window:] {
		sum += v
	}
	avg := sum / float64(window)
	if avg <= 0 {
		return 0
	}
	return volumes[len(volumes)-1] / avg
}

func classifyBandWidth(upper, middle, lower float64) models.BandWidthClass {
	width := (upper - lower) / middle
	switch {
	case width >= bandWidthHighThreshold:
		return models.BandWidthHigh
	case width <= bandWidthLowThreshold:
		return models.BandWidthLow
	default:
		return models.BandWidthMid
	}
}

func bandPosition(close, middle float64) int {
	switch {
	case close > middle:
		return 1
	case close < middle:
		return -1
	default:
		return 0
	}
}

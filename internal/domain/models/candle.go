package models

import "time"

// Candle represents a single OHLCV period.
type Candle struct {
	OpenTime  time.Time
	CloseTime time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// CandleSeries is a chronological candle sequence, oldest first.
// It is rebuilt on every evaluation and never persisted.
type CandleSeries []Candle

func (cs CandleSeries) Closes() []float64 {
	out := make([]float64, len(cs))
	for i := range cs {
		out[i] = cs[i].Close
	}
	return out
}

func (cs CandleSeries) Highs() []float64 {
	out := make([]float64, len(cs))
	for i := range cs {
		out[i] = cs[i].High
	}
	return out
}

func (cs CandleSeries) Lows() []float64 {
	out := make([]float64, len(cs))
	for i := range cs {
		out[i] = cs[i].Low
	}
	return out
}

func (cs CandleSeries) Volumes() []float64 {
	out := make([]float64, len(cs))
	for i := range cs {
		out[i] = cs[i].Volume
	}
	return out
}

// Last returns the most recent candle; ok is false for an empty series.
func (cs CandleSeries) Last() (Candle, bool) {
	if len(cs) == 0 {
		return Candle{}, false
	}
	return cs[len(cs)-1], true
}

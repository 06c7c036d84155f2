package indicators

import (
	"errors"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func seriesFromCloses(closes []float64, volumes []float64) models.CandleSeries {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cs := make(models.CandleSeries, len(closes))
	for i, c := range closes {
		vol := 100.0
		if volumes != nil {
			vol = volumes[i]
		}
		cs[i] = models.Candle{
			OpenTime:  base.Add(time.Duration(i) * 15 * time.Minute),
			CloseTime: base.Add(time.Duration(i+1) * 15 * time.Minute),
			Open:      c * 0.999,
			High:      c * 1.002,
			Low:       c * 0.998,
			Close:     c,
			Volume:    vol,
		}
	}
	return cs
}

func rampCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestComputeShortSeries(t *testing.T) {
	cs := seriesFromCloses(rampCloses(MinCandles-1, 100, 0.5), nil)
	if _, err := Compute(cs); !errors.Is(err, models.ErrIndicatorIncomplete) {
		t.Fatalf("expected ErrIndicatorIncomplete, got %v", err)
	}
}

func TestComputeCompleteSnapshot(t *testing.T) {
	for _, n := range []int{MinCandles, 19, 40, 100} {
		cs := seriesFromCloses(rampCloses(n, 100, 0.5), nil)
		snap, err := Compute(cs)
		if err != nil {
			t.Fatalf("n=%d: unexpected error %v", n, err)
		}
		if snap.RSI < 0 || snap.RSI > 100 {
			t.Fatalf("n=%d: rsi out of range: %v", n, snap.RSI)
		}
		if snap.ATR <= 0 {
			t.Fatalf("n=%d: atr must be positive, got %v", n, snap.ATR)
		}
		if !(snap.Bollinger.Upper >= snap.Bollinger.Middle && snap.Bollinger.Middle >= snap.Bollinger.Lower) {
			t.Fatalf("n=%d: bands out of order: %+v", n, snap.Bollinger)
		}
		if snap.LastClose != cs[len(cs)-1].Close {
			t.Fatalf("n=%d: last close mismatch", n)
		}
	}
}

func TestComputeRisingSeries(t *testing.T) {
	cs := seriesFromCloses(rampCloses(60, 100, 1.0), nil)
	snap, err := Compute(cs)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if snap.RSI < 70 {
		t.Fatalf("steadily rising closes should be overbought, rsi=%v", snap.RSI)
	}
	if snap.MACD.Histogram <= 0 {
		t.Fatalf("rising series should have positive histogram, got %v", snap.MACD.Histogram)
	}
	if snap.BandPosition != 1 {
		t.Fatalf("last close above middle band expected, got %d", snap.BandPosition)
	}
}

func TestVolumeRatio(t *testing.T) {
	closes := rampCloses(40, 100, 0.1)
	volumes := make([]float64, len(closes))
	for i := range volumes {
		volumes[i] = 100
	}
	volumes[len(volumes)-1] = 200

	cs := seriesFromCloses(closes, volumes)
	snap, err := Compute(cs)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	// Trailing 20-candle average is (19*100+200)/20 = 105.
	want := 200.0 / 105.0
	if diff := snap.VolumeRatio - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("volume ratio: want %v got %v", want, snap.VolumeRatio)
	}
}

func TestBandWidthClassification(t *testing.T) {
	// Flat closes collapse the bands to zero width.
	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 100
	}
	snap, err := Compute(seriesFromCloses(flat, nil))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if snap.BandWidth != models.BandWidthLow {
		t.Fatalf("flat series should classify low width, got %s", snap.BandWidth)
	}

	// Strong oscillation widens the bands past the high threshold.
	wild := make([]float64, 40)
	for i := range wild {
		if i%2 == 0 {
			wild[i] = 90
		} else {
			wild[i] = 110
		}
	}
	snap, err = Compute(seriesFromCloses(wild, nil))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if snap.BandWidth != models.BandWidthHigh {
		t.Fatalf("oscillating series should classify high width, got %s", snap.BandWidth)
	}
}

package strategy

import (
	"testing"

	"TradePulse/internal/domain/models"
)

func snapshot(mutate func(*models.IndicatorSnapshot)) *models.IndicatorSnapshot {
	s := &models.IndicatorSnapshot{
		RSI:          50,
		MACD:         models.MACD{Histogram: 0},
		Bollinger:    models.Bollinger{Upper: 102, Middle: 100, Lower: 98},
		ATR:          1,
		VolumeRatio:  1,
		BandWidth:    models.BandWidthMid,
		BandPosition: 0,
		LastClose:    100,
	}
	if mutate != nil {
		mutate(s)
	}
	return s
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name   string
		pct    float64
		mutate func(*models.IndicatorSnapshot)
		want   models.Trend
	}{
		{"strong gain alone", 3.0, nil, models.TrendUp},
		{"strong loss alone", -3.0, nil, models.TrendDown},
		{"flat", 0.5, nil, models.TrendSide},
		{"gain cancelled by bearish internals", 2.5, func(s *models.IndicatorSnapshot) {
			s.MACD.Histogram = -1
			s.BandPosition = -1
		}, models.TrendSide},
		{"internals alone make a trend", 0, func(s *models.IndicatorSnapshot) {
			s.MACD.Histogram = 1
			s.BandPosition = 1
		}, models.TrendUp},
	}
	for _, tc := range cases {
		got := ClassifyTrend(tc.pct, snapshot(tc.mutate))
		if got != tc.want {
			t.Fatalf("%s: want %s got %s", tc.name, tc.want, got)
		}
	}
}

func TestComputeMomentum(t *testing.T) {
	// RSI 65 (+2), volume 1.6 (+2), high band width (+1) -> 5, STRONG.
	m := ComputeMomentum(snapshot(func(s *models.IndicatorSnapshot) {
		s.RSI = 65
		s.VolumeRatio = 1.6
		s.BandWidth = models.BandWidthHigh
	}))
	if m.Score != 5 || m.Strength != models.MomentumStrong {
		t.Fatalf("want score=5 STRONG, got %+v", m)
	}

	// RSI 38 (-2), volume 0.6 (-1), low width (-1) -> -4, STRONG.
	m = ComputeMomentum(snapshot(func(s *models.IndicatorSnapshot) {
		s.RSI = 38
		s.VolumeRatio = 0.6
		s.BandWidth = models.BandWidthLow
	}))
	if m.Score != -4 || m.Strength != models.MomentumStrong {
		t.Fatalf("want score=-4 STRONG, got %+v", m)
	}

	// Neutral inputs stay weak.
	m = ComputeMomentum(snapshot(nil))
	if m.Score != 0 || m.Strength != models.MomentumWeak {
		t.Fatalf("want score=0 WEAK, got %+v", m)
	}
}

func TestDirectionCandidate(t *testing.T) {
	// Uptrend with moderate RSI follows the trend.
	c := DirectionCandidate(models.TrendUp, snapshot(func(s *models.IndicatorSnapshot) { s.RSI = 60 }))
	if c.Direction != models.DirectionLong || c.IsReversal {
		t.Fatalf("want plain LONG, got %+v", c)
	}

	// Overbought uptrend flips into a short reversal candidate.
	c = DirectionCandidate(models.TrendUp, snapshot(func(s *models.IndicatorSnapshot) { s.RSI = 74 }))
	if c.Direction != models.DirectionShort || !c.IsReversal {
		t.Fatalf("want SHORT reversal, got %+v", c)
	}

	// Oversold downtrend flips into a long reversal candidate.
	c = DirectionCandidate(models.TrendDown, snapshot(func(s *models.IndicatorSnapshot) { s.RSI = 25 }))
	if c.Direction != models.DirectionLong || !c.IsReversal {
		t.Fatalf("want LONG reversal, got %+v", c)
	}

	// Sideways needs RSI and histogram to agree.
	c = DirectionCandidate(models.TrendSide, snapshot(func(s *models.IndicatorSnapshot) {
		s.RSI = 58
		s.MACD.Histogram = 0.4
	}))
	if c.Direction != models.DirectionLong || c.IsReversal {
		t.Fatalf("want range LONG, got %+v", c)
	}

	c = DirectionCandidate(models.TrendSide, snapshot(nil))
	if c.Direction != models.DirectionNone {
		t.Fatalf("neutral range should yield NO_TRADE, got %+v", c)
	}
}

func TestScoreConfidenceBounds(t *testing.T) {
	trends := []models.Trend{models.TrendUp, models.TrendDown, models.TrendSide}
	for _, trend := range trends {
		for score := -6; score <= 6; score++ {
			for _, vol := range []float64{-8, -3, -1, 0, 1, 3, 8} {
				m := models.Momentum{Score: score, Strength: strength(score)}
				got := ScoreConfidence(trend, m, vol)
				if got < 0 || got > 100 {
					t.Fatalf("confidence out of bounds: trend=%s score=%d vol=%v -> %d", trend, score, vol, got)
				}
			}
		}
	}
}

func TestScoreConfidenceAlignment(t *testing.T) {
	strong := models.Momentum{Score: 5, Strength: models.MomentumStrong}
	aligned := ScoreConfidence(models.TrendUp, strong, 6)
	// 50 +10 aligned +15 strong +8 volatile = 83.
	if aligned != 83 {
		t.Fatalf("want 83, got %d", aligned)
	}

	weak := models.Momentum{Score: 1, Strength: models.MomentumWeak}
	misaligned := ScoreConfidence(models.TrendDown, weak, 1)
	// 50 -8 misaligned -5 weak -3 quiet = 34.
	if misaligned != 34 {
		t.Fatalf("want 34, got %d", misaligned)
	}
}

package risk

import (
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func hasWarning(adj models.RiskAdjustment, code string) bool {
	for _, w := range adj.Warnings {
		if w == code {
			return true
		}
	}
	return false
}

func TestAdjustVeto(t *testing.T) {
	liq := models.LiquidationSnapshot{IntensityScore: 9, DirectionBias: 1}
	adj := Adjust(models.DirectionLong, 80, liq, nil, time.Now())
	if !adj.Veto {
		t.Fatalf("extreme flush against a long must veto, got %+v", adj)
	}
	if !hasWarning(adj, WarnLiquidationExtreme) {
		t.Fatalf("veto should carry the extreme warning, got %v", adj.Warnings)
	}

	// Same intensity but shorts being flushed does not veto a long.
	liq.DirectionBias = -1
	adj = Adjust(models.DirectionLong, 80, liq, nil, time.Now())
	if adj.Veto {
		t.Fatalf("contrarian flush should not veto, got %+v", adj)
	}
}

func TestAdjustIntensityTiers(t *testing.T) {
	cases := []struct {
		intensity float64
		want      int
		warning   string
	}{
		{9, 70, WarnLiquidationExtreme},
		{6.5, 73, WarnLiquidationHigh},
		{4, 76, WarnLiquidationElevated},
		{2, 80, ""},
	}
	for _, tc := range cases {
		liq := models.LiquidationSnapshot{IntensityScore: tc.intensity}
		adj := Adjust(models.DirectionLong, 80, liq, nil, time.Now())
		if adj.Veto {
			t.Fatalf("intensity=%v: unexpected veto", tc.intensity)
		}
		if adj.Confidence != tc.want {
			t.Fatalf("intensity=%v: want confidence %d, got %d", tc.intensity, tc.want, adj.Confidence)
		}
		if tc.warning != "" && !hasWarning(adj, tc.warning) {
			t.Fatalf("intensity=%v: missing warning %s in %v", tc.intensity, tc.warning, adj.Warnings)
		}
		if tc.warning == "" && len(adj.Warnings) != 0 {
			t.Fatalf("intensity=%v: unexpected warnings %v", tc.intensity, adj.Warnings)
		}
	}
}

func TestAdjustContrarianFlow(t *testing.T) {
	// Shorts flushed while entering long adds a bonus.
	liq := models.LiquidationSnapshot{IntensityScore: 5, DirectionBias: -1}
	adj := Adjust(models.DirectionLong, 60, liq, nil, time.Now())
	// -4 elevated tier, +5 contrarian.
	if adj.Confidence != 61 {
		t.Fatalf("want 61, got %d", adj.Confidence)
	}
	if !hasWarning(adj, WarnContrarianFlow) {
		t.Fatalf("missing contrarian warning: %v", adj.Warnings)
	}
}

func TestAdjustFundingWarning(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mctx := &models.MarketContext{
		FundingRate:     0.0005,
		NextFundingTime: now.Add(10 * time.Minute),
	}
	adj := Adjust(models.DirectionShort, 70, models.LiquidationSnapshot{}, mctx, now)
	if !hasWarning(adj, WarnFundingSoon) {
		t.Fatalf("imminent funding with a hot rate should warn, got %v", adj.Warnings)
	}
	if adj.Confidence != 70 {
		t.Fatalf("funding warning must not change confidence, got %d", adj.Confidence)
	}

	// Tiny rate stays quiet even inside the window.
	mctx.FundingRate = 0.00005
	adj = Adjust(models.DirectionShort, 70, models.LiquidationSnapshot{}, mctx, now)
	if hasWarning(adj, WarnFundingSoon) {
		t.Fatalf("negligible rate should not warn")
	}

	// Far away funding stays quiet regardless of rate.
	mctx.FundingRate = 0.001
	mctx.NextFundingTime = now.Add(3 * time.Hour)
	adj = Adjust(models.DirectionShort, 70, models.LiquidationSnapshot{}, mctx, now)
	if hasWarning(adj, WarnFundingSoon) {
		t.Fatalf("distant funding should not warn")
	}
}

func TestAdjustClamps(t *testing.T) {
	liq := models.LiquidationSnapshot{IntensityScore: 9}
	adj := Adjust(models.DirectionShort, 5, liq, nil, time.Now())
	if adj.Confidence != 0 {
		t.Fatalf("want clamp to 0, got %d", adj.Confidence)
	}
}

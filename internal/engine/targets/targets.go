package targets

import (
	"math"

	"TradePulse/internal/domain/models"
)

// Stop and target sizing parameters.
const (
	baseSLMultiplier = 2.0
	slMultiplierStep = 0.5
	maxSLMultiplier  = 3.0

	wideRiskReward    = 2.0
	defaultRiskReward = 1.5
	wideRRConfidence  = 75

	minStopPct   = 0.0010
	minTargetPct = 0.0015

	riskyLiquidationIntensity = 6.0
)

// Input carries everything the planner needs to size a position exit.
type Input struct {
	Entry                float64
	ATR                  float64
	Direction            models.Direction
	Confidence           int
	Strength             models.MomentumStrength
	IsReversal           bool
	LiquidationIntensity float64
	BandWidth            models.BandWidthClass
	TickSize             float64
}

// Plan derives stop-loss and take-profit levels from the ATR. The stop
// multiplier widens by a step for each risk condition present, capped at
// the maximum. Returns nil when the inputs cannot produce a usable plan.
func Plan(in Input) *models.TargetPlan {
	if in.Entry <= 0 || in.ATR <= 0 {
		return nil
	}
	if in.Direction != models.DirectionLong && in.Direction != models.DirectionShort {
		return nil
	}

	mult := baseSLMultiplier
	for _, risky := range []bool{
		in.IsReversal,
		in.Confidence < 68,
		in.LiquidationIntensity >= riskyLiquidationIntensity,
		in.BandWidth == models.BandWidthHigh,
	} {
		if risky {
			mult += slMultiplierStep
		}
	}
	if mult > maxSLMultiplier {
		mult = maxSLMultiplier
	}

	rr := defaultRiskReward
	if in.Confidence >= wideRRConfidence && in.Strength == models.MomentumStrong {
		rr = wideRiskReward
	}

	slDist := math.Max(mult*in.ATR, in.Entry*minStopPct)
	tpDist := math.Max(rr*slDist, in.Entry*minTargetPct)

	var stop, target float64
	if in.Direction == models.DirectionLong {
		stop = roundDown(in.Entry-slDist, in.TickSize)
		target = roundUp(in.Entry+tpDist, in.TickSize)
	} else {
		stop = roundUp(in.Entry+slDist, in.TickSize)
		target = roundDown(in.Entry-tpDist, in.TickSize)
	}
	stop, target = separate(in.Direction, in.Entry, stop, target, in.TickSize)

	if stop <= 0 || target <= 0 {
		return nil
	}

	return &models.TargetPlan{
		StopLoss:     stop,
		TakeProfit:   target,
		ATRUsed:      in.ATR,
		SLMultiplier: mult,
		RiskReward:   rr,
	}
}

// separate guarantees stop and target sit at least one tick away from the
// entry on the correct sides after rounding.
func separate(dir models.Direction, entry, stop, target, tick float64) (float64, float64) {
	if tick <= 0 {
		tick = 1e-8
	}
	if dir == models.DirectionLong {
		if stop >= entry {
			stop = entry - tick
		}
		if target <= entry {
			target = entry + tick
		}
	} else {
		if stop <= entry {
			stop = entry + tick
		}
		if target >= entry {
			target = entry - tick
		}
	}
	return stop, target
}

func roundDown(v, tick float64) float64 {
	if tick <= 0 {
		return v
	}
	return math.Floor(v/tick) * tick
}

func roundUp(v, tick float64) float64 {
	if tick <= 0 {
		return v
	}
	return math.Ceil(v/tick) * tick
}
